package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestKeyPressedAnyOf(t *testing.T) {
	kb := NewFakeKeyboard()
	keys := []ebiten.Key{ebiten.KeyEnter, ebiten.KeySpace}

	if KeyPressed(kb, keys...) {
		t.Fatal("nothing pressed yet")
	}

	kb.Press(ebiten.KeySpace)
	if !KeyPressed(kb, keys...) {
		t.Error("space should count")
	}

	kb.Tick()
	if KeyPressed(kb, keys...) {
		t.Error("just-pressed must clear after a tick")
	}
	if !KeyDown(kb, keys...) {
		t.Error("space is still held")
	}

	kb.Release(ebiten.KeySpace)
	if KeyDown(kb, keys...) {
		t.Error("space was released")
	}
}

func TestLatchDeliversPressOnce(t *testing.T) {
	kb := NewFakeKeyboard()
	l := NewLatch(kb)

	kb.Press(ebiten.KeyP)
	l.Poll()
	if !l.IsJustPressed(ebiten.KeyP) || !l.IsPressed(ebiten.KeyP) {
		t.Fatal("first update must see P")
	}

	l.Consume()
	if l.IsJustPressed(ebiten.KeyP) {
		t.Error("second update in the same tick saw P again")
	}
	if !l.IsPressed(ebiten.KeyP) {
		t.Error("held state comes from the source")
	}
}

func TestLatchKeepsPressUntilAnUpdateRuns(t *testing.T) {
	kb := NewFakeKeyboard()
	l := NewLatch(kb)

	// tick with no update
	kb.Press(ebiten.KeyEnter)
	l.Poll()
	kb.Release(ebiten.KeyEnter)
	kb.Tick()

	// next tick polls nothing new but the press is still pending
	l.Poll()
	if !l.IsJustPressed(ebiten.KeyEnter) {
		t.Fatal("press was lost")
	}
	if l.IsPressed(ebiten.KeyEnter) {
		t.Error("enter was released")
	}
	l.Consume()
	if l.IsJustPressed(ebiten.KeyEnter) {
		t.Error("press delivered twice")
	}
}
