package screens

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"superengine/input"
)

// ModalScreen represents a popup window that appears on top of other screens.
// Return or Escape closes it.
type ModalScreen struct {
	*BaseScreen
	title      string
	content    string
	width      int
	height     int
	background color.Color
	border     color.Color
}

// NewModalScreen creates a new modal screen
func NewModalScreen(title, content string, width, height int) *ModalScreen {
	return &ModalScreen{
		BaseScreen: NewBaseScreen(ScreenModal),
		title:      title,
		content:    content,
		width:      width,
		height:     height,
		background: color.RGBA{0, 0, 0, 200}, // Semi-transparent black
		border:     color.White,
	}
}

// Update implements the Screen interface
func (s *ModalScreen) Update(in input.Keyboard, elapsed float64) error {
	if input.KeyPressed(in, ebiten.KeyEnter, ebiten.KeyEscape) {
		return ErrCloseScreen
	}
	return nil
}

// Draw implements the Screen interface
func (s *ModalScreen) Draw(dst *ebiten.Image) {
	sw, sh := screenSize(dst)
	x := float32(sw-s.width) / 2
	y := float32(sh-s.height) / 2
	w, h := float32(s.width), float32(s.height)

	vector.DrawFilledRect(dst, x, y, w, h, s.background, false)
	vector.StrokeRect(dst, x, y, w, h, 1, s.border, false)

	titleX := int(x) + (s.width-len(s.title)*6)/2 // Approximate text width
	ebitenutil.DebugPrintAt(dst, s.title, titleX, int(y)+10)
	ebitenutil.DebugPrintAt(dst, s.content, int(x)+10, int(y)+30)
}
