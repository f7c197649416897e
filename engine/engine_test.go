package engine

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"superengine/config"
	"superengine/event"
	"superengine/input"
)

type fakeDevice struct {
	opened       WindowOptions
	openErr      error
	active       bool
	closeRequest bool
	frameLimit   int
	closed       int
}

func (d *fakeDevice) Open(opts WindowOptions) error {
	if d.openErr != nil {
		return d.openErr
	}
	d.opened = opts
	d.frameLimit = opts.FrameLimit
	d.active = true
	return nil
}
func (d *fakeDevice) Active() bool          { return d.active }
func (d *fakeDevice) CloseRequested() bool  { return d.closeRequest }
func (d *fakeDevice) SetFrameLimit(fps int) { d.frameLimit = fps }
func (d *fakeDevice) Close()                { d.active = false; d.closed++ }

type recordingHooks struct {
	preloadErr error
	initErr    error
	updates    []float64
	passes     []string
	targets    []*ebiten.Image
	ends       int
	onPreload  func(e *Engine)
	onUpdate   func(e *Engine)
}

func (h *recordingHooks) Preload(e *Engine) error {
	if h.onPreload != nil {
		h.onPreload(e)
	}
	return h.preloadErr
}
func (h *recordingHooks) Init(e *Engine) error { return h.initErr }
func (h *recordingHooks) Update(e *Engine, elapsed float64) {
	h.updates = append(h.updates, elapsed)
	if h.onUpdate != nil {
		h.onUpdate(e)
	}
}
func (h *recordingHooks) Render3D(e *Engine, r *Renderer) {
	h.passes = append(h.passes, "3d")
	h.targets = append(h.targets, r.Target())
}
func (h *recordingHooks) Render2D(e *Engine, r *Renderer) {
	h.passes = append(h.passes, "2d")
	h.targets = append(h.targets, r.Target())
}
func (h *recordingHooks) End(e *Engine) { h.ends++ }

type harness struct {
	engine *Engine
	hooks  *recordingHooks
	device *fakeDevice
	clock  *ManualClock
	keys   *input.FakeKeyboard
	sleeps []time.Duration
}

func newHarness(t *testing.T, mutate func(*config.Config)) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Timing.FPS = 10
	if mutate != nil {
		mutate(&cfg)
	}

	h := &harness{
		hooks:  &recordingHooks{},
		device: &fakeDevice{},
		clock:  NewManualClock(epoch),
		keys:   input.NewFakeKeyboard(),
	}
	h.engine = New(cfg, h.hooks,
		WithClock(h.clock),
		WithKeyboard(h.keys),
		WithDevice(func() Device { return h.device }),
		WithSleep(func(d time.Duration) { h.sleeps = append(h.sleeps, d) }),
	)
	return h
}

func (h *harness) init(t *testing.T) {
	t.Helper()
	e := h.engine
	if err := e.Init(e.ScreenWidth(), e.ScreenHeight(), e.ColorDepth(), e.Fullscreen()); err != nil {
		t.Fatalf("Init: %v", err)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	e := New(config.Default(), &recordingHooks{})

	if e.ScreenWidth() != 800 || e.ScreenHeight() != 600 || e.ColorDepth() != 32 {
		t.Errorf("size = %dx%dx%d", e.ScreenWidth(), e.ScreenHeight(), e.ColorDepth())
	}
	if e.FPS() != 60 || e.AppTitle() != "SuperEngine" || e.Fullscreen() || e.IsPaused() {
		t.Errorf("fps=%d title=%q fullscreen=%v paused=%v", e.FPS(), e.AppTitle(), e.Fullscreen(), e.IsPaused())
	}
	if e.Device() != nil {
		t.Error("device must be nil before Init")
	}
	if e.VersionText() != "SuperEngine v0.1.0" {
		t.Errorf("version = %q", e.VersionText())
	}
}

func TestPreloadFailureIsWrapped(t *testing.T) {
	h := newHarness(t, nil)
	cause := errors.New("no assets")
	h.hooks.preloadErr = cause

	err := h.engine.Preload()
	if !errors.Is(err, ErrPreload) || !errors.Is(err, cause) {
		t.Errorf("Preload() = %v", err)
	}
}

func TestInitOpensDeviceWithSettings(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Window.Title = "Demo" })
	h.init(t)

	if h.engine.Device() == nil || !h.device.active {
		t.Fatal("device not opened")
	}
	if h.device.opened.Title != "Demo" || h.device.opened.FrameLimit != 10 || !h.device.opened.VSync {
		t.Errorf("window options = %+v", h.device.opened)
	}
	if h.engine.Renderer() == nil {
		t.Error("renderer not created")
	}
}

func TestInitDeviceFailureLeavesNoDevice(t *testing.T) {
	h := newHarness(t, nil)
	h.device.openErr = errors.New("no display")

	err := h.engine.Init(800, 600, 32, false)
	if !errors.Is(err, ErrInit) {
		t.Fatalf("Init() = %v", err)
	}
	if h.engine.Device() != nil {
		t.Error("device must stay nil")
	}
	if !h.engine.ShuttingDown() {
		t.Error("fatal device error must request shutdown")
	}
}

func TestInitHookFailureReleasesDevice(t *testing.T) {
	h := newHarness(t, nil)
	h.hooks.initErr = errors.New("bad level")

	if err := h.engine.Init(800, 600, 32, false); !errors.Is(err, ErrInit) {
		t.Fatalf("Init() = %v", err)
	}
	if h.engine.Device() != nil || h.device.closed != 1 {
		t.Errorf("device=%v closed=%d", h.engine.Device(), h.device.closed)
	}
	if h.engine.Renderer() != nil {
		t.Error("renderer must not outlive a failed Init")
	}
}

func TestInitRejectsInvalidSize(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.engine.Init(0, 600, 32, false); !errors.Is(err, ErrInit) {
		t.Errorf("Init() = %v", err)
	}
}

func TestStepUpdatesEveryIterationAndGatesRender(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)
	e := h.engine

	e.Step()
	if !e.TakeRender() {
		t.Error("first iteration renders")
	}
	if e.TakeRender() {
		t.Error("TakeRender must clear the flag")
	}

	h.clock.Advance(30 * time.Millisecond)
	e.Step()
	if e.TakeRender() {
		t.Error("render not due after 30ms at 10fps")
	}

	if len(h.hooks.updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(h.hooks.updates))
	}
	if h.hooks.updates[1] != 0.03 {
		t.Errorf("elapsed = %v, want 0.03", h.hooks.updates[1])
	}
	if len(h.sleeps) != 1 || h.sleeps[0] != time.Millisecond {
		t.Errorf("sleeps = %v, want one 1ms yield", h.sleeps)
	}
}

func TestMaximizeProcessorNeverSleeps(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Timing.MaximizeProcessor = true })
	h.init(t)

	if !h.device.opened.Unlimited || h.device.opened.VSync {
		t.Errorf("maximized device options = %+v", h.device.opened)
	}

	for i := 0; i < 5; i++ {
		h.clock.Advance(time.Millisecond)
		h.engine.Step()
	}
	if len(h.sleeps) != 0 {
		t.Errorf("slept %d times", len(h.sleeps))
	}
}

func TestFixedPacingRunsFixedSteps(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Timing.Pacing = config.PacingFixed
		c.Timing.FixedStep = config.Duration{Duration: 10 * time.Millisecond}
	})
	h.init(t)

	h.engine.Step()
	h.clock.Advance(35 * time.Millisecond)
	h.engine.Step()

	if len(h.hooks.updates) != 3 {
		t.Fatalf("updates = %d, want 3", len(h.hooks.updates))
	}
	for _, dt := range h.hooks.updates {
		if dt != 0.01 {
			t.Errorf("fixed update delta = %v", dt)
		}
	}
	if a := h.engine.Alpha(); a < 0.49 || a > 0.51 {
		t.Errorf("alpha = %v, want 0.5", a)
	}
}

func TestFrameRates(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)

	// 100 iterations 10ms apart = 1s; at 10fps about 10 renders
	for i := 0; i <= 100; i++ {
		h.engine.Step()
		h.engine.TakeRender()
		h.clock.Advance(10 * time.Millisecond)
	}

	if got := h.engine.FrameRateCore(); got != 101 {
		t.Errorf("core rate = %d, want 101", got)
	}
	if got := h.engine.FrameRateReal(); got < 10 || got > 11 {
		t.Errorf("real rate = %d, want ~10", got)
	}
}

func TestShutdownStopsLoopAndEmitsOnce(t *testing.T) {
	bus := event.NewBus()
	h := newHarness(t, nil)
	h.engine = New(config.Default(), h.hooks,
		WithClock(h.clock),
		WithDevice(func() Device { return h.device }),
		WithSleep(func(time.Duration) {}),
		WithBus(bus),
	)
	h.init(t)

	var emitted int
	bus.Subscribe(EventShutdown, func(event.Event) { emitted++ })

	if err := h.engine.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}

	h.engine.Shutdown()
	h.engine.Shutdown()
	if emitted != 1 {
		t.Errorf("shutdown emitted %d times", emitted)
	}
	if err := h.engine.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update() after shutdown = %v, want Termination", err)
	}
}

func TestWindowCloseRequestShutsDown(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)
	h.device.closeRequest = true

	if err := h.engine.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update() = %v", err)
	}
	if len(h.hooks.updates) != 0 {
		t.Error("no update after close request")
	}
}

func TestShutdownDuringUpdateStopsRemainingSteps(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Timing.Pacing = config.PacingFixed
		c.Timing.FixedStep = config.Duration{Duration: 10 * time.Millisecond}
	})
	h.init(t)
	h.hooks.onUpdate = func(e *Engine) { e.Shutdown() }

	h.engine.Step()
	h.clock.Advance(40 * time.Millisecond)
	h.engine.Step()

	if len(h.hooks.updates) != 1 {
		t.Errorf("updates = %d, want 1", len(h.hooks.updates))
	}
}

func TestCloseRunsEndOnceAndReleases(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)

	h.engine.Close()
	h.engine.Close()

	if h.hooks.ends != 1 {
		t.Errorf("End ran %d times", h.hooks.ends)
	}
	if h.engine.Device() != nil || h.device.closed != 1 {
		t.Errorf("device=%v closed=%d", h.engine.Device(), h.device.closed)
	}
}

func TestRenderWithoutDevice(t *testing.T) {
	e := New(config.Default(), &recordingHooks{})

	if err := e.RenderStart(nil); !errors.Is(err, ErrNoDevice) {
		t.Errorf("RenderStart() = %v", err)
	}
	if err := e.RenderStop(); !errors.Is(err, ErrNoDevice) {
		t.Errorf("RenderStop() = %v", err)
	}
}

func TestSetFPSUpdatesPacerAndDevice(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)

	h.engine.SetFPS(50)
	if h.engine.FPS() != 50 || h.engine.Pacer().Interval() != 20*time.Millisecond || h.device.frameLimit != 50 {
		t.Errorf("fps=%d interval=%s limit=%d", h.engine.FPS(), h.engine.Pacer().Interval(), h.device.frameLimit)
	}

	h.engine.SetFPS(0)
	if h.engine.FPS() != 50 {
		t.Error("non-positive fps must be ignored")
	}
}

func TestFatalErrorRequestsShutdown(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.FatalError("disk on fire", "")

	if !h.engine.ShuttingDown() {
		t.Error("FatalError must shut down")
	}
	msgs := h.engine.Log().Messages().Messages()
	if len(msgs) == 0 || msgs[0].Text != "Fatal Error! : disk on fire" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestFixedStepsSeeEachKeyPressOnce(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Timing.Pacing = config.PacingFixed
		c.Timing.FixedStep = config.Duration{Duration: 10 * time.Millisecond}
	})
	presses := map[ebiten.Key]int{}
	h.hooks.onUpdate = func(e *Engine) {
		for _, k := range []ebiten.Key{ebiten.KeyP, ebiten.KeyEnter} {
			if e.Keyboard().IsJustPressed(k) {
				presses[k]++
			}
		}
	}
	h.init(t)
	h.engine.Step()

	// three fixed steps in one tick
	h.clock.Advance(35 * time.Millisecond)
	h.keys.Press(ebiten.KeyP)
	h.engine.Step()
	h.keys.Release(ebiten.KeyP)
	h.keys.Tick()
	if len(h.hooks.updates) != 3 || presses[ebiten.KeyP] != 1 {
		t.Fatalf("updates = %d, P seen %d times", len(h.hooks.updates), presses[ebiten.KeyP])
	}

	// a tick with no fixed step keeps the press for the next one
	h.clock.Advance(4 * time.Millisecond)
	h.keys.Press(ebiten.KeyEnter)
	h.engine.Step()
	h.keys.Release(ebiten.KeyEnter)
	h.keys.Tick()
	if len(h.hooks.updates) != 3 || presses[ebiten.KeyEnter] != 0 {
		t.Fatalf("updates = %d, Enter seen %d times", len(h.hooks.updates), presses[ebiten.KeyEnter])
	}

	h.clock.Advance(2 * time.Millisecond)
	h.engine.Step()
	if len(h.hooks.updates) != 4 || presses[ebiten.KeyEnter] != 1 {
		t.Errorf("updates = %d, Enter seen %d times", len(h.hooks.updates), presses[ebiten.KeyEnter])
	}
	if presses[ebiten.KeyP] != 1 {
		t.Errorf("P seen %d times", presses[ebiten.KeyP])
	}
}

func TestDrawRunsPassesOnlyWhenGranted(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)
	screen := ebiten.NewImage(16, 16)

	h.engine.Draw(screen)
	if len(h.hooks.passes) != 0 {
		t.Fatalf("passes before any step: %v", h.hooks.passes)
	}

	h.engine.Step()
	h.engine.Draw(screen)
	if len(h.hooks.passes) != 2 || h.hooks.passes[0] != "3d" || h.hooks.passes[1] != "2d" {
		t.Fatalf("passes = %v, want [3d 2d]", h.hooks.passes)
	}
	for i, target := range h.hooks.targets {
		if target != screen {
			t.Errorf("pass %d drew into %v", i, target)
		}
	}
	if h.engine.Renderer().Target() != nil {
		t.Error("renderer kept the target after the frame")
	}

	// same frame drawn twice, then an iteration before the deadline
	h.engine.Draw(screen)
	h.clock.Advance(10 * time.Millisecond)
	h.engine.Step()
	h.engine.Draw(screen)
	if len(h.hooks.passes) != 2 {
		t.Fatalf("un-granted draws ran passes: %v", h.hooks.passes)
	}

	h.clock.Advance(90 * time.Millisecond)
	h.engine.Step()
	h.engine.Draw(screen)
	if len(h.hooks.passes) != 4 {
		t.Errorf("passes = %v after the next deadline", h.hooks.passes)
	}
}

func TestDrawSkipsPassesWhenRenderStartFails(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)
	screen := ebiten.NewImage(16, 16)

	h.engine.Step()
	h.device.active = false
	h.engine.Draw(screen)
	if len(h.hooks.passes) != 0 {
		t.Errorf("passes = %v with an inactive device", h.hooks.passes)
	}
	if h.engine.TakeRender() {
		t.Error("the failed frame must still consume the render")
	}

	uninit := newHarness(t, nil)
	uninit.engine.Step()
	uninit.engine.Draw(screen)
	if len(uninit.hooks.passes) != 0 {
		t.Errorf("passes = %v before Init", uninit.hooks.passes)
	}
}

func TestClearColorFromPreloadSurvivesInit(t *testing.T) {
	h := newHarness(t, nil)
	blue := color.RGBA{0, 0, 128, 255}
	h.hooks.onPreload = func(e *Engine) { e.SetClearColor(blue) }

	if err := h.engine.Preload(); err != nil {
		t.Fatal(err)
	}
	h.init(t)

	if got := h.engine.ClearColor(); got != blue {
		t.Errorf("ClearColor() = %v", got)
	}
	if got := h.engine.Renderer().ClearColor(); got != blue {
		t.Errorf("Renderer().ClearColor() = %v", got)
	}
}

func TestLayoutFollowsResizableWindow(t *testing.T) {
	fixed := newHarness(t, nil)
	fixed.init(t)
	if w, h := fixed.engine.Layout(1024, 768); w != 800 || h != 600 {
		t.Errorf("fixed window layout = %dx%d", w, h)
	}

	r := newHarness(t, func(c *config.Config) { c.Window.Resizable = true })
	r.init(t)
	if w, h := r.engine.Layout(1024, 768); w != 1024 || h != 768 {
		t.Fatalf("resizable layout = %dx%d", w, h)
	}
	if r.engine.ScreenWidth() != 1024 || r.engine.ScreenHeight() != 768 {
		t.Errorf("screen = %dx%d", r.engine.ScreenWidth(), r.engine.ScreenHeight())
	}
	if w, h := r.engine.Renderer().Size(); w != 1024 || h != 768 {
		t.Errorf("renderer size = %dx%d", w, h)
	}
	if w, h := r.engine.Layout(0, 0); w != 1024 || h != 768 {
		t.Errorf("zero outside size changed the layout to %dx%d", w, h)
	}
}
