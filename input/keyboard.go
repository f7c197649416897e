// Package input reads keyboard state for screens and games.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Keyboard reports key state for the current tick
type Keyboard interface {
	// IsPressed reports whether the key is held down
	IsPressed(key ebiten.Key) bool
	// IsJustPressed reports whether the key went down this tick
	IsJustPressed(key ebiten.Key) bool
}

// KeyPressed reports whether any of keys went down this tick
func KeyPressed(kb Keyboard, keys ...ebiten.Key) bool {
	for _, k := range keys {
		if kb.IsJustPressed(k) {
			return true
		}
	}
	return false
}

// KeyDown reports whether any of keys is held
func KeyDown(kb Keyboard, keys ...ebiten.Key) bool {
	for _, k := range keys {
		if kb.IsPressed(k) {
			return true
		}
	}
	return false
}

// EbitenKeyboard polls the window's keyboard through ebiten
type EbitenKeyboard struct{}

// IsPressed implements Keyboard
func (EbitenKeyboard) IsPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

// IsJustPressed implements Keyboard
func (EbitenKeyboard) IsJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// FakeKeyboard is a scripted keyboard for tests and headless runs
type FakeKeyboard struct {
	held map[ebiten.Key]bool
	just map[ebiten.Key]bool
}

// NewFakeKeyboard creates an empty fake keyboard
func NewFakeKeyboard() *FakeKeyboard {
	return &FakeKeyboard{
		held: make(map[ebiten.Key]bool),
		just: make(map[ebiten.Key]bool),
	}
}

// Press marks keys as held and just pressed
func (f *FakeKeyboard) Press(keys ...ebiten.Key) {
	for _, k := range keys {
		f.held[k] = true
		f.just[k] = true
	}
}

// Release releases keys
func (f *FakeKeyboard) Release(keys ...ebiten.Key) {
	for _, k := range keys {
		delete(f.held, k)
		delete(f.just, k)
	}
}

// Tick ends the current tick: just-pressed state is cleared, held keys stay
func (f *FakeKeyboard) Tick() {
	clear(f.just)
}

// IsPressed implements Keyboard
func (f *FakeKeyboard) IsPressed(key ebiten.Key) bool {
	return f.held[key]
}

// IsJustPressed implements Keyboard
func (f *FakeKeyboard) IsJustPressed(key ebiten.Key) bool {
	return f.just[key]
}
