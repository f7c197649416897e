package input

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Latch holds key presses from the source keyboard until an update has
// seen them. A host tick may run several updates or none; a press is
// reported to exactly one of them.
type Latch struct {
	src     Keyboard
	pending map[ebiten.Key]bool
}

// NewLatch wraps src
func NewLatch(src Keyboard) *Latch {
	return &Latch{
		src:     src,
		pending: make(map[ebiten.Key]bool),
	}
}

// Source returns the wrapped keyboard
func (l *Latch) Source() Keyboard {
	return l.src
}

// Poll records every key the source reports as just pressed. Call it once
// per host tick.
func (l *Latch) Poll() {
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if l.src.IsJustPressed(k) {
			l.pending[k] = true
		}
	}
}

// Consume forgets the recorded presses once an update has run
func (l *Latch) Consume() {
	clear(l.pending)
}

// IsPressed implements Keyboard
func (l *Latch) IsPressed(key ebiten.Key) bool {
	return l.src.IsPressed(key)
}

// IsJustPressed implements Keyboard
func (l *Latch) IsJustPressed(key ebiten.Key) bool {
	return l.pending[key]
}
