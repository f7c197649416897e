package console

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"superengine/engine"
)

// StatusReporter is implemented by hooks that want lines on the HUD
type StatusReporter interface {
	StatusLines(e *engine.Engine) []string
}

var (
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	pausedStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	hintStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Runner drives an engine from a terminal
type Runner struct {
	engine   *engine.Engine
	device   *Device
	keyboard *Keyboard
	events   chan tcell.Event
	// Status adds game lines under the engine HUD; may be nil
	Status StatusReporter
}

// NewRunner creates a runner. e must have been created with
// engine.WithDevice(d.Factory()) and engine.WithKeyboard(kb).
func NewRunner(e *engine.Engine, d *Device, kb *Keyboard) *Runner {
	return &Runner{
		engine:   e,
		device:   d,
		keyboard: kb,
		events:   make(chan tcell.Event, 100),
	}
}

// Run preloads and initializes the engine, then steps it until shutdown
// or ctx is cancelled. The engine is closed before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	e := r.engine
	if err := e.Preload(); err != nil {
		return err
	}
	if err := e.Init(e.ScreenWidth(), e.ScreenHeight(), e.ColorDepth(), e.Fullscreen()); err != nil {
		return err
	}
	defer e.Close()

	done := make(chan struct{})
	defer close(done)
	go r.poll(done)

	for !e.ShuttingDown() {
		select {
		case <-ctx.Done():
			e.Shutdown()
			continue
		default:
		}

		r.drain()
		e.Step()
		if e.TakeRender() {
			r.draw()
		}
		r.keyboard.Tick()

		if r.device.CloseRequested() {
			e.Shutdown()
		}
	}
	return nil
}

// poll forwards screen events until the screen is finalised
func (r *Runner) poll(done <-chan struct{}) {
	for {
		ev := r.device.Screen().PollEvent()
		if ev == nil {
			return
		}
		select {
		case r.events <- ev:
		case <-done:
			return
		}
	}
}

func (r *Runner) drain() {
	for {
		select {
		case ev := <-r.events:
			r.handle(ev)
		default:
			return
		}
	}
}

func (r *Runner) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			r.device.RequestClose()
			return
		}
		r.keyboard.Feed(ev)
	case *tcell.EventResize:
		r.device.Screen().Sync()
		r.draw()
	}
}

func (r *Runner) draw() {
	e := r.engine
	s := r.device.Screen()
	s.Clear()

	y := 0
	line := func(style tcell.Style, text string) {
		drawText(s, 1, y, style, text)
		y++
	}

	line(titleStyle, e.VersionText())
	line(textStyle, fmt.Sprintf("core %d fps  real %d fps  target %d", e.FrameRateCore(), e.FrameRateReal(), e.FPS()))
	line(textStyle, fmt.Sprintf("screen %dx%d  %s pacing", e.ScreenWidth(), e.ScreenHeight(), e.Pacer().Mode()))
	if e.IsPaused() {
		line(pausedStyle, "PAUSED")
	}

	if r.Status != nil {
		y++
		for _, l := range r.Status.StatusLines(e) {
			line(textStyle, l)
		}
	}

	_, h := s.Size()
	drawText(s, 1, h-1, hintStyle, "Esc or Ctrl-C to quit")
	s.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, ch := range text {
		s.SetContent(x, y, ch, nil, style)
		x++
	}
}
