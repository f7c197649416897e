package screens

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"superengine/graphics"
	"superengine/input"
)

// MenuItem is one selectable line. A nil Action does nothing.
type MenuItem struct {
	Label  string
	Action func() error
}

// MenuScreen handles a vertical list of options
type MenuScreen struct {
	*BaseScreen
	title          string
	items          []MenuItem
	selectedOption int
	font           *graphics.Font
	titleColor     color.Color
	optionColor    color.Color
	selectedColor  color.Color
}

// NewMenuScreen creates a new menu screen
func NewMenuScreen(title string, items ...MenuItem) *MenuScreen {
	return &MenuScreen{
		BaseScreen:    NewBaseScreen(ScreenMenu),
		title:         title,
		items:         items,
		titleColor:    color.RGBA{255, 230, 150, 255}, // Gold
		optionColor:   color.RGBA{200, 200, 200, 255}, // Light Gray
		selectedColor: color.RGBA{255, 255, 255, 255},
	}
}

// LoadContent loads the menu face
func (s *MenuScreen) LoadContent() error {
	font, err := graphics.DefaultFont(20)
	if err != nil {
		return err
	}
	s.font = font
	return nil
}

// Selected returns the highlighted item index
func (s *MenuScreen) Selected() int {
	return s.selectedOption
}

// Update handles input for the menu
func (s *MenuScreen) Update(in input.Keyboard, elapsed float64) error {
	if in.IsJustPressed(ebiten.KeyEscape) {
		return ErrCloseScreen
	}
	if len(s.items) == 0 {
		return nil
	}

	// Handle arrow key navigation
	if in.IsJustPressed(ebiten.KeyArrowUp) {
		s.selectedOption = (s.selectedOption - 1 + len(s.items)) % len(s.items)
	}
	if in.IsJustPressed(ebiten.KeyArrowDown) {
		s.selectedOption = (s.selectedOption + 1) % len(s.items)
	}

	if in.IsJustPressed(ebiten.KeyEnter) {
		if action := s.items[s.selectedOption].Action; action != nil {
			return action()
		}
	}
	return nil
}

// Draw renders the title and the options
func (s *MenuScreen) Draw(dst *ebiten.Image) {
	if s.font == nil {
		return
	}
	w, h := screenSize(dst)
	centerX := float64(w) / 2
	centerY := float64(h) / 2

	optionSpacing := 30.0
	startY := centerY - float64(len(s.items))*optionSpacing/2

	s.font.DrawCentered(dst, s.title, centerX, startY-2*optionSpacing, s.titleColor)

	for i, item := range s.items {
		textColor := s.optionColor
		label := item.Label
		if i == s.selectedOption {
			textColor = s.selectedColor
			label = "> " + label + " <"
		}
		s.font.DrawCentered(dst, label, centerX, startY+float64(i)*optionSpacing, textColor)
	}
}
