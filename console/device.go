// Package console hosts the engine in a terminal. The pacer, update hooks
// and render gating run unchanged; the render passes are replaced by a
// text HUD drawn with tcell.
package console

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"superengine/engine"
)

// Device is an engine.Device backed by a tcell screen
type Device struct {
	screen         tcell.Screen
	opts           engine.WindowOptions
	active         bool
	closeRequested atomic.Bool
}

// NewDevice wraps screen. The screen is initialised by Open.
func NewDevice(screen tcell.Screen) *Device {
	return &Device{screen: screen}
}

// Factory returns the constructor engine.WithDevice expects
func (d *Device) Factory() func() engine.Device {
	return func() engine.Device { return d }
}

// Open implements engine.Device
func (d *Device) Open(opts engine.WindowOptions) error {
	if err := d.screen.Init(); err != nil {
		return err
	}
	d.opts = opts
	d.screen.SetStyle(tcell.StyleDefault)
	d.screen.HideCursor()
	d.screen.Clear()
	d.active = true
	d.closeRequested.Store(false)
	return nil
}

// Active implements engine.Device
func (d *Device) Active() bool {
	return d.active
}

// RequestClose marks the device as asked to close
func (d *Device) RequestClose() {
	d.closeRequested.Store(true)
}

// CloseRequested implements engine.Device
func (d *Device) CloseRequested() bool {
	return d.closeRequested.Load()
}

// SetFrameLimit implements engine.Device; the terminal has no host tick
func (d *Device) SetFrameLimit(fps int) {
	d.opts.FrameLimit = fps
}

// Close implements engine.Device
func (d *Device) Close() {
	if !d.active {
		return
	}
	d.active = false
	d.screen.Fini()
}

// Screen returns the tcell screen
func (d *Device) Screen() tcell.Screen {
	return d.screen
}

// Options returns the options passed to Open
func (d *Device) Options() engine.WindowOptions {
	return d.opts
}
