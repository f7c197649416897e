package screens

import (
	"github.com/hajimehoshi/ebiten/v2"

	"superengine/input"
)

// BaseScreen provides no-op defaults for Screen
type BaseScreen struct {
	id ScreenID
}

// NewBaseScreen creates a new base screen
func NewBaseScreen(id ScreenID) *BaseScreen {
	return &BaseScreen{id: id}
}

// ID implements the Screen interface
func (s *BaseScreen) ID() ScreenID {
	return s.id
}

// LoadContent implements the Screen interface
func (s *BaseScreen) LoadContent() error {
	return nil
}

// UnloadContent implements the Screen interface
func (s *BaseScreen) UnloadContent() {}

// Update implements the Screen interface
func (s *BaseScreen) Update(in input.Keyboard, elapsed float64) error {
	return nil
}

// Draw implements the Screen interface
func (s *BaseScreen) Draw(dst *ebiten.Image) {
	// Base screen does nothing by default
}

func screenSize(dst *ebiten.Image) (int, int) {
	b := dst.Bounds()
	return b.Dx(), b.Dy()
}
