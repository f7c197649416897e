// Package engine owns the window device, the frame pacer and the render
// pass orchestration. Games plug in through Hooks.
package engine

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"superengine/config"
	"superengine/event"
	"superengine/input"
	"superengine/logging"
)

// Version of the engine
const (
	VersionMajor = 0
	VersionMinor = 1
	Revision     = 0
)

var (
	// ErrNoDevice is returned by render calls made before Init succeeded
	ErrNoDevice = errors.New("device does not exist")
	// ErrPreload wraps a failing Hooks.Preload
	ErrPreload = errors.New("game failed to load")
	// ErrInit wraps device or Hooks.Init failures during Init
	ErrInit = errors.New("engine initialization failed")
)

// Hooks are supplied by the game
type Hooks interface {
	// Preload runs before the device exists; adjust screen size and such here
	Preload(e *Engine) error
	// Init runs once the device is open
	Init(e *Engine) error
	// Update runs every core iteration (or every fixed step)
	Update(e *Engine, elapsed float64)
	// Render3D draws the perspective pass
	Render3D(e *Engine, r *Renderer)
	// Render2D draws the screen-space pass on top
	Render2D(e *Engine, r *Renderer)
	// End runs once before the device is released
	End(e *Engine)
}

// ShutdownRequested is emitted the first time Shutdown is called
type ShutdownRequested struct{}

// EventShutdown is the type of ShutdownRequested
const EventShutdown event.Type = "engine.shutdown"

// Type implements event.Event
func (ShutdownRequested) Type() event.Type { return EventShutdown }

// Option customises an Engine
type Option func(*Engine)

// WithClock replaces the system clock
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithDevice replaces the ebiten window device
func WithDevice(newDevice func() Device) Option {
	return func(e *Engine) { e.newDevice = newDevice }
}

// WithLogger sets the log stream
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithSleep replaces time.Sleep for the idle yield
func WithSleep(sleep func(time.Duration)) Option {
	return func(e *Engine) { e.sleep = sleep }
}

// WithKeyboard replaces the ebiten keyboard
func WithKeyboard(kb input.Keyboard) Option {
	return func(e *Engine) { e.keyboard = kb }
}

// WithBus shares an event bus with the game
func WithBus(bus *event.Bus) Option {
	return func(e *Engine) { e.bus = bus }
}

// Engine runs the game loop
type Engine struct {
	hooks Hooks
	cfg   config.Config

	versionMajor, versionMinor, revision int

	screenWidth, screenHeight, colorDepth int
	fullscreen                            bool
	appTitle                              string
	fps                                   int
	paused                                bool
	maximizeProcessor                     bool
	clearColor                            color.RGBA
	ambientColor                          color.RGBA

	coreRate RateCounter
	realRate RateCounter

	clock     Clock
	pacer     *Pacer
	sleep     func(time.Duration)
	newDevice func() Device
	device    Device
	renderer  *Renderer
	keyboard  input.Keyboard
	keys      *input.Latch
	bus       *event.Bus
	log       *logging.Logger

	renderPending bool
	alpha         float64
	iterations    uint64
	shutdown      bool
	ended         bool
}

// New creates an engine with the configured defaults. No device exists
// until Init succeeds.
func New(cfg config.Config, hooks Hooks, opts ...Option) *Engine {
	e := &Engine{
		hooks:             hooks,
		cfg:               cfg,
		versionMajor:      VersionMajor,
		versionMinor:      VersionMinor,
		revision:          Revision,
		screenWidth:       cfg.Window.Width,
		screenHeight:      cfg.Window.Height,
		colorDepth:        cfg.Window.ColorDepth,
		fullscreen:        cfg.Window.Fullscreen,
		appTitle:          cfg.Window.Title,
		fps:               cfg.Timing.FPS,
		maximizeProcessor: cfg.Timing.MaximizeProcessor,
		clearColor:        cfg.Render.ClearColor.RGBA,
		ambientColor:      cfg.Render.AmbientColor.RGBA,
		clock:             SystemClock{},
		sleep:             time.Sleep,
		newDevice:         NewEbitenDevice,
		keyboard:          input.EbitenKeyboard{},
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.log == nil {
		e.log = logging.Discard()
	}
	e.keys = input.NewLatch(e.keyboard)
	if e.bus == nil {
		e.bus = event.NewBus()
	}

	e.pacer = NewPacer(PacerConfigFrom(cfg.Timing))
	return e
}

// Preload runs the game's preload hook
func (e *Engine) Preload() error {
	if err := e.hooks.Preload(e); err != nil {
		e.log.Errorf("Game failed to load: %v", err)
		return fmt.Errorf("%w: %w", ErrPreload, err)
	}
	return nil
}

// Init creates the device and runs the game's init hook. On failure the
// device is released and left nil.
func (e *Engine) Init(width, height, colorDepth int, fullscreen bool) error {
	if width <= 0 || height <= 0 {
		e.FatalError(fmt.Sprintf("invalid screen size %dx%d in Engine.Init", width, height), "")
		return fmt.Errorf("%w: invalid screen size %dx%d", ErrInit, width, height)
	}

	e.screenWidth, e.screenHeight = width, height
	e.colorDepth = colorDepth
	e.fullscreen = fullscreen

	device := e.newDevice()
	err := device.Open(WindowOptions{
		Title:      e.appTitle,
		Width:      width,
		Height:     height,
		ColorDepth: colorDepth,
		Fullscreen: fullscreen,
		VSync:      e.cfg.Window.VSync && !e.maximizeProcessor,
		Resizable:  e.cfg.Window.Resizable,
		FrameLimit: e.fps,
		Unlimited:  e.maximizeProcessor,
	})
	if err != nil {
		e.FatalError(fmt.Sprintf("device failed to initialize in Engine.Init: %v", err), "")
		return fmt.Errorf("%w: %w", ErrInit, err)
	}
	e.device = device

	e.renderer = NewRenderer(width, height, e.clearColor, e.ambientColor)

	if err := e.hooks.Init(e); err != nil {
		e.log.Errorf("game init failed: %v", err)
		e.release()
		e.renderer = nil
		return fmt.Errorf("%w: %w", ErrInit, err)
	}

	e.pacer.Reset()
	e.coreRate.Reset()
	e.realRate.Reset()

	e.log.System("Engine initialized successfully")
	return nil
}

// Step runs one core iteration: count it, run the due updates, and flag a
// render when the pacer grants one. When nothing is due and the processor
// is not maximized the loop yields for a millisecond.
func (e *Engine) Step() {
	now := e.clock.Now()
	e.iterations++
	e.coreRate.Tick(now)

	f := e.pacer.Step(now)
	e.keys.Poll()
	for i := 0; i < f.Updates && !e.shutdown; i++ {
		e.hooks.Update(e, f.Delta)
		e.keys.Consume()
	}
	e.alpha = f.Alpha

	if f.Render {
		e.realRate.Tick(now)
		e.renderPending = true
	}

	if f.Yield && !e.maximizeProcessor {
		e.sleep(time.Millisecond)
	}
}

// TakeRender reports whether a render was granted since the last call and
// clears the flag. Hosts without a graphics target use this instead of Draw.
func (e *Engine) TakeRender() bool {
	pending := e.renderPending
	e.renderPending = false
	return pending
}

// Update implements ebiten.Game
func (e *Engine) Update() error {
	if e.device != nil && e.device.CloseRequested() {
		e.Shutdown()
	}
	if e.shutdown {
		return ebiten.Termination
	}

	e.Step()
	return nil
}

// Draw implements ebiten.Game. Iterations without a granted render leave
// the previous frame on screen.
func (e *Engine) Draw(screen *ebiten.Image) {
	if !e.TakeRender() {
		return
	}

	e.ClearScene(screen)
	if err := e.RenderStart(screen); err != nil {
		e.log.Warnf("%v in Engine.RenderStart", err)
		return
	}
	e.hooks.Render3D(e, e.renderer)

	e.RenderStart2D()
	e.hooks.Render2D(e, e.renderer)
	e.RenderStop2D()

	if err := e.RenderStop(); err != nil {
		e.log.Warnf("%v in Engine.RenderStop", err)
	}
}

// Layout implements ebiten.Game. Fixed windows keep the engine size; a
// resizable window adopts the outside size and refreshes the projections.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	if e.cfg.Window.Resizable && outsideWidth > 0 && outsideHeight > 0 &&
		(outsideWidth != e.screenWidth || outsideHeight != e.screenHeight) {
		e.screenWidth, e.screenHeight = outsideWidth, outsideHeight
		if e.renderer != nil {
			e.renderer.Resize(outsideWidth, outsideHeight)
		}
		e.log.Infof("view resized to %dx%d", outsideWidth, outsideHeight)
	}
	return e.screenWidth, e.screenHeight
}

// ClearScene fills the screen with the clear colour
func (e *Engine) ClearScene(screen *ebiten.Image) {
	if screen != nil {
		screen.Fill(e.clearColor)
	}
}

// RenderStart begins the 3D pass on screen
func (e *Engine) RenderStart(screen *ebiten.Image) error {
	if e.device == nil || !e.device.Active() {
		return ErrNoDevice
	}
	e.renderer.begin3D(screen)
	return nil
}

// RenderStop ends the frame; the host presents it
func (e *Engine) RenderStop() error {
	if e.device == nil {
		return ErrNoDevice
	}
	e.renderer.finish()
	return nil
}

// RenderStart2D switches batches to screen-space coordinates
func (e *Engine) RenderStart2D() {
	if e.renderer != nil {
		e.renderer.begin2D()
	}
}

// RenderStop2D flushes any open 2D primitive
func (e *Engine) RenderStop2D() {
	if e.renderer != nil && e.renderer.batch.Active() {
		e.renderer.End()
	}
}

// Shutdown asks the loop to stop after the current iteration
func (e *Engine) Shutdown() {
	if e.shutdown {
		return
	}
	e.shutdown = true
	e.log.System("Shutdown requested")
	e.bus.Emit(ShutdownRequested{})
}

// ShuttingDown reports whether Shutdown was called
func (e *Engine) ShuttingDown() bool {
	return e.shutdown
}

// Close runs the game's end hook once and releases the device
func (e *Engine) Close() {
	if !e.ended {
		e.ended = true
		e.hooks.End(e)
	}
	e.release()
}

func (e *Engine) release() {
	if e.device == nil {
		return
	}
	e.device.Close()
	e.device = nil
	e.log.System("Engine closed, device released")
}

// Run preloads, initializes, drives the ebiten loop and closes
func (e *Engine) Run() error {
	if err := e.Preload(); err != nil {
		return err
	}
	if err := e.Init(e.screenWidth, e.screenHeight, e.colorDepth, e.fullscreen); err != nil {
		return err
	}
	defer e.Close()

	if err := ebiten.RunGame(e); err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	return nil
}

// Message reports a message to the log stream as "title : message"
func (e *Engine) Message(message, title string) {
	if title == "" {
		title = "SuperEngine"
	}
	e.log.Info(title + " : " + message)
}

// FatalError reports the message and shuts the engine down
func (e *Engine) FatalError(message, title string) {
	if title == "" {
		title = "Fatal Error!"
	}
	e.log.Error(title + " : " + message)
	e.Shutdown()
}

// VersionText returns "SuperEngine vMAJOR.MINOR.REVISION"
func (e *Engine) VersionText() string {
	return fmt.Sprintf("SuperEngine v%d.%d.%d", e.versionMajor, e.versionMinor, e.revision)
}

// VersionMajor returns the major version
func (e *Engine) VersionMajor() int { return e.versionMajor }

// VersionMinor returns the minor version
func (e *Engine) VersionMinor() int { return e.versionMinor }

// Revision returns the revision number
func (e *Engine) Revision() int { return e.revision }

// Device returns the open device, or nil before Init and after Close
func (e *Engine) Device() Device { return e.device }

// Renderer returns the renderer, or nil before Init
func (e *Engine) Renderer() *Renderer { return e.renderer }

// Keyboard returns the keyboard updates should read. A key press is
// reported to one update only, however many fixed steps a tick runs.
func (e *Engine) Keyboard() input.Keyboard { return e.keys }

// Bus returns the engine event bus
func (e *Engine) Bus() *event.Bus { return e.bus }

// Log returns the engine logger
func (e *Engine) Log() *logging.Logger { return e.log }

// Pacer returns the frame pacer
func (e *Engine) Pacer() *Pacer { return e.pacer }

// Alpha returns the fixed-step interpolation factor of the last iteration
func (e *Engine) Alpha() float64 { return e.alpha }

// Iterations returns how many core iterations have run
func (e *Engine) Iterations() uint64 { return e.iterations }

// FrameRateCore returns core iterations per second
func (e *Engine) FrameRateCore() int64 { return e.coreRate.Rate() }

// FrameRateReal returns rendered frames per second
func (e *Engine) FrameRateReal() int64 { return e.realRate.Rate() }

// IsPaused reports the pause flag; games decide what pausing means
func (e *Engine) IsPaused() bool { return e.paused }

// SetPaused sets the pause flag
func (e *Engine) SetPaused(v bool) { e.paused = v }

// FPS returns the render target
func (e *Engine) FPS() int { return e.fps }

// SetFPS changes the render target and the device frame limit
func (e *Engine) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	e.fps = fps
	e.pacer.SetFPS(fps)
	if e.device != nil && !e.maximizeProcessor {
		e.device.SetFrameLimit(fps)
	}
}

// ClearColor returns the clear colour
func (e *Engine) ClearColor() color.RGBA { return e.clearColor }

// SetClearColor changes the clear colour
func (e *Engine) SetClearColor(c color.RGBA) {
	e.clearColor = c
	if e.renderer != nil {
		e.renderer.SetClearColor(c)
	}
}

// AmbientColor returns the ambient colour
func (e *Engine) AmbientColor() color.RGBA { return e.ambientColor }

// SetAmbientColor changes the ambient colour
func (e *Engine) SetAmbientColor(c color.RGBA) {
	e.ambientColor = c
	if e.renderer != nil {
		e.renderer.SetAmbient(c)
	}
}

// SetPerspective configures the 3D projection; fovy is in degrees
func (e *Engine) SetPerspective(fovy, aspect, zNear, zFar float64) {
	if e.renderer != nil {
		e.renderer.SetPerspective(fovy, aspect, zNear, zFar)
	}
}

// ScreenWidth returns the logical screen width
func (e *Engine) ScreenWidth() int { return e.screenWidth }

// ScreenHeight returns the logical screen height
func (e *Engine) ScreenHeight() int { return e.screenHeight }

// SetScreenWidth sets the width used by the next Init
func (e *Engine) SetScreenWidth(v int) { e.screenWidth = v }

// SetScreenHeight sets the height used by the next Init
func (e *Engine) SetScreenHeight(v int) { e.screenHeight = v }

// ColorDepth returns the requested colour depth
func (e *Engine) ColorDepth() int { return e.colorDepth }

// SetColorDepth sets the colour depth used by the next Init
func (e *Engine) SetColorDepth(v int) { e.colorDepth = v }

// Fullscreen reports the fullscreen flag
func (e *Engine) Fullscreen() bool { return e.fullscreen }

// SetFullscreen sets the fullscreen flag used by the next Init
func (e *Engine) SetFullscreen(v bool) { e.fullscreen = v }

// AppTitle returns the window title
func (e *Engine) AppTitle() string { return e.appTitle }

// SetAppTitle sets the window title used by the next Init
func (e *Engine) SetAppTitle(v string) { e.appTitle = v }

// MaximizeProcessor reports whether idle iterations skip the 1ms yield
func (e *Engine) MaximizeProcessor() bool { return e.maximizeProcessor }

// SetMaximizeProcessor toggles the idle yield
func (e *Engine) SetMaximizeProcessor(v bool) { e.maximizeProcessor = v }
