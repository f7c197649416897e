package screens

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"superengine/input"
	"superengine/logging"
)

const (
	debugTitle      = "DEBUG LOG"
	debugStartY     = 30
	debugLineHeight = 16
)

// DebugScreen shows the message log in a scrollable window
type DebugScreen struct {
	*BaseScreen
	messages     *logging.MessageLog
	scrollOffset int
	width        int
	height       int
	background   color.Color
	frame        color.Color
}

// NewDebugScreen creates a new debug screen over messages
func NewDebugScreen(messages *logging.MessageLog) *DebugScreen {
	return &DebugScreen{
		BaseScreen: NewBaseScreen(ScreenDebug),
		messages:   messages,
		width:      600,
		height:     400,
		background: color.RGBA{0, 0, 0, 230},
		frame:      color.White,
	}
}

// Update handles scrolling. Escape or F1 closes the window.
func (s *DebugScreen) Update(in input.Keyboard, elapsed float64) error {
	if input.KeyPressed(in, ebiten.KeyEscape, ebiten.KeyF1) {
		return ErrCloseScreen
	}
	if in.IsJustPressed(ebiten.KeyArrowUp) && s.scrollOffset > 0 {
		s.scrollOffset--
	}
	if in.IsJustPressed(ebiten.KeyArrowDown) && s.scrollOffset < s.messages.Len()-1 {
		s.scrollOffset++
	}
	return nil
}

// ScrollOffset returns the index of the first requested line
func (s *DebugScreen) ScrollOffset() int {
	return s.scrollOffset
}

func (s *DebugScreen) maxLines() int {
	return (s.height - debugStartY - 20) / debugLineHeight
}

// visibleStart clamps offset so the last page stays full
func visibleStart(total, maxLines, offset int) int {
	if offset > total-maxLines {
		offset = total - maxLines
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// Draw renders the debug screen
func (s *DebugScreen) Draw(dst *ebiten.Image) {
	sw, sh := screenSize(dst)
	x := (sw - s.width) / 2
	y := (sh - s.height) / 2
	fx, fy, fw, fh := float32(x), float32(y), float32(s.width), float32(s.height)

	vector.DrawFilledRect(dst, fx, fy, fw, fh, s.background, false)
	vector.StrokeRect(dst, fx, fy, fw, fh, 2, s.frame, false)

	ebitenutil.DebugPrintAt(dst, debugTitle, x+(s.width-len(debugTitle)*6)/2, y+8)

	messages := s.messages.Messages()
	maxLines := s.maxLines()
	start := visibleStart(len(messages), maxLines, s.scrollOffset)

	for i := 0; i < maxLines && start+i < len(messages); i++ {
		msg := messages[start+i]
		ly := float32(y + debugStartY + i*debugLineHeight)
		// colour swatch in front of each line
		vector.DrawFilledRect(dst, fx+6, ly+4, 4, 8, msg.GetColor(), false)
		ebitenutil.DebugPrintAt(dst, msg.Text, x+14, int(ly))
	}

	if len(messages) > maxLines {
		track := float32(s.height - debugStartY - 20)
		barHeight := float32(maxLines) / float32(len(messages)) * track
		barY := fy + debugStartY + float32(start)/float32(len(messages))*track
		vector.DrawFilledRect(dst, fx+fw-10, barY, 5, barHeight, s.frame, false)
	}

	ebitenutil.DebugPrintAt(dst, "Up/Down: Scroll  ESC: Close", x+10, y+s.height-18)
}
