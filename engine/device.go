package engine

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// WindowOptions describe the device Init creates
type WindowOptions struct {
	Title      string
	Width      int
	Height     int
	ColorDepth int
	Fullscreen bool
	VSync      bool
	Resizable  bool
	// FrameLimit caps host ticks per second; ignored when Unlimited is set
	FrameLimit int
	// Unlimited ticks the host once per presented frame without a cap
	Unlimited bool
}

// Device is the window and graphics context the engine renders into
type Device interface {
	// Open creates the window; the device is active afterwards
	Open(opts WindowOptions) error
	// Active reports whether the device can accept render passes
	Active() bool
	// CloseRequested reports whether the user asked to close the window
	CloseRequested() bool
	// SetFrameLimit changes the host tick cap while open
	SetFrameLimit(fps int)
	// Close releases the window
	Close()
}

// EbitenDevice configures the ebiten window. Ebiten owns the real window;
// it is shown once ebiten.RunGame starts.
type EbitenDevice struct {
	active bool
}

// NewEbitenDevice creates an unopened ebiten device
func NewEbitenDevice() Device {
	return &EbitenDevice{}
}

// Open implements Device
func (d *EbitenDevice) Open(opts WindowOptions) error {
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetFullscreen(opts.Fullscreen)
	ebiten.SetVsyncEnabled(opts.VSync)
	if opts.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}

	// The engine decides when to draw, so the previous frame must survive
	// iterations that skip rendering.
	ebiten.SetScreenClearedEveryFrame(false)
	// Closing the window goes through Engine.Shutdown so End still runs
	ebiten.SetWindowClosingHandled(true)

	if opts.Unlimited {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	} else {
		d.SetFrameLimit(opts.FrameLimit)
	}

	d.active = true
	return nil
}

// Active implements Device
func (d *EbitenDevice) Active() bool {
	return d.active
}

// CloseRequested implements Device
func (d *EbitenDevice) CloseRequested() bool {
	return d.active && ebiten.IsWindowBeingClosed()
}

// SetFrameLimit implements Device
func (d *EbitenDevice) SetFrameLimit(fps int) {
	if fps <= 0 {
		fps = ebiten.DefaultTPS
	}
	ebiten.SetTPS(fps)
}

// Close implements Device
func (d *EbitenDevice) Close() {
	d.active = false
}
