package console

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
)

var specialKeys = map[tcell.Key]ebiten.Key{
	tcell.KeyEnter:  ebiten.KeyEnter,
	tcell.KeyEscape: ebiten.KeyEscape,
	tcell.KeyUp:     ebiten.KeyArrowUp,
	tcell.KeyDown:   ebiten.KeyArrowDown,
	tcell.KeyLeft:   ebiten.KeyArrowLeft,
	tcell.KeyRight:  ebiten.KeyArrowRight,
	tcell.KeyF1:     ebiten.KeyF1,
	tcell.KeyTab:    ebiten.KeyTab,
}

var runeKeys = map[rune]ebiten.Key{
	' ': ebiten.KeySpace,
	'a': ebiten.KeyA,
	'd': ebiten.KeyD,
	'f': ebiten.KeyF,
	'm': ebiten.KeyM,
	'p': ebiten.KeyP,
	'q': ebiten.KeyQ,
	's': ebiten.KeyS,
	'w': ebiten.KeyW,
}

// keyFor maps a terminal key event to the ebiten key games test for
func keyFor(ev *tcell.EventKey) (ebiten.Key, bool) {
	if ev.Key() == tcell.KeyRune {
		k, ok := runeKeys[unicode.ToLower(ev.Rune())]
		return k, ok
	}
	k, ok := specialKeys[ev.Key()]
	return k, ok
}

// Keyboard is an input.Keyboard fed by terminal key events. Terminals
// report no key releases, so a key counts as held only for the tick it
// arrived in.
type Keyboard struct {
	down map[ebiten.Key]bool
}

// NewKeyboard creates an empty keyboard
func NewKeyboard() *Keyboard {
	return &Keyboard{down: make(map[ebiten.Key]bool)}
}

// Feed records a key event. It reports whether the key is mapped.
func (k *Keyboard) Feed(ev *tcell.EventKey) bool {
	key, ok := keyFor(ev)
	if ok {
		k.down[key] = true
	}
	return ok
}

// Tick forgets the keys of the finished tick
func (k *Keyboard) Tick() {
	clear(k.down)
}

// IsPressed implements input.Keyboard
func (k *Keyboard) IsPressed(key ebiten.Key) bool {
	return k.down[key]
}

// IsJustPressed implements input.Keyboard
func (k *Keyboard) IsJustPressed(key ebiten.Key) bool {
	return k.down[key]
}
