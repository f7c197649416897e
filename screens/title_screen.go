package screens

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"superengine/graphics"
	"superengine/input"
	"superengine/logging"
)

// DefaultTitleFont is tried before the embedded fallback face
const DefaultTitleFont = "Resources/arial.ttf"

const titleFontSize = 32

// TitleScreen shows the game title until Return or Space is pressed
type TitleScreen struct {
	*BaseScreen
	FontPath string

	manager *Manager
	log     *logging.Logger
	next    func() Screen
	font    *graphics.Font
	text    string
	keys    []ebiten.Key
}

// NewTitleScreen creates a title screen that pushes next() when dismissed.
// Escape quits.
func NewTitleScreen(m *Manager, log *logging.Logger, next func() Screen) *TitleScreen {
	if log == nil {
		log = logging.Discard()
	}
	return &TitleScreen{
		BaseScreen: NewBaseScreen(ScreenTitle),
		FontPath:   DefaultTitleFont,
		manager:    m,
		log:        log,
		next:       next,
	}
}

// LoadContent loads the title font, falling back to the embedded face
func (s *TitleScreen) LoadContent() error {
	font, err := graphics.LoadFont(s.FontPath, titleFontSize)
	if err != nil {
		s.log.Error("Could not find specified font")
		font, err = graphics.DefaultFont(titleFontSize)
		if err != nil {
			return err
		}
	}
	s.font = font
	s.text = "Title Screen"
	s.keys = []ebiten.Key{ebiten.KeyEnter, ebiten.KeySpace}
	return nil
}

// UnloadContent drops the font
func (s *TitleScreen) UnloadContent() {
	s.font = nil
	s.keys = nil
}

// Text returns the title line
func (s *TitleScreen) Text() string {
	return s.text
}

// Update pushes the next screen on Return or Space
func (s *TitleScreen) Update(in input.Keyboard, elapsed float64) error {
	if in.IsJustPressed(ebiten.KeyEscape) {
		return ErrQuit
	}
	if input.KeyPressed(in, s.keys...) && s.next != nil {
		return s.manager.Push(s.next())
	}
	return nil
}

// Draw renders the title centred on the screen
func (s *TitleScreen) Draw(dst *ebiten.Image) {
	if s.font == nil {
		return
	}
	w, h := screenSize(dst)
	s.font.DrawCentered(dst, s.text, float64(w)/2, float64(h)/2-titleFontSize, color.White)
}
