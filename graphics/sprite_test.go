package graphics

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
	"time"
)

func sized(w, h float64) *Sprite {
	s := NewSprite()
	s.SetFrameSize(w, h)
	s.Collidable = true
	return s
}

func TestNewSpriteDefaults(t *testing.T) {
	s := NewSprite()
	if !s.Visible || !s.Alive || s.Scale != 1 || s.AnimDir != 1 || s.TotalFrames != 1 {
		t.Errorf("defaults = %+v", s)
	}
	if s.Columns() != 1 || s.Rows() != 1 {
		t.Errorf("grid = %dx%d", s.Columns(), s.Rows())
	}
}

func TestMoveAppliesVelocityPerSecond(t *testing.T) {
	s := NewSprite()
	s.Position = Vec2{10, 10}
	s.Velocity = Vec2{100, -50}

	s.Move(0.5)
	if s.Position != (Vec2{60, -15}) {
		t.Errorf("position = %+v", s.Position)
	}
}

func TestMoveWithFrameTimerWaitsForDelay(t *testing.T) {
	s := NewSprite()
	s.Velocity = Vec2{10, 0}
	s.UseFrameTimer = true
	s.FrameDelay = 100 * time.Millisecond

	s.Move(0.05)
	if s.Position.X != 0 {
		t.Fatalf("moved before delay: %+v", s.Position)
	}

	s.Move(0.05)
	if math.Abs(s.Position.X-1) > 1e-9 {
		t.Errorf("x = %v, want the full 100ms applied", s.Position.X)
	}
}

func TestLifetimeKillsSprite(t *testing.T) {
	s := NewSprite()
	s.Lifetime = 200 * time.Millisecond
	s.Velocity = Vec2{1, 0}

	s.Move(0.1)
	if !s.Alive {
		t.Fatal("died early")
	}
	s.Move(0.1)
	if s.Alive {
		t.Error("sprite outlived its lifetime")
	}

	pos := s.Position
	s.Move(1)
	if s.Position != pos {
		t.Error("dead sprites must not move")
	}
}

func TestAnimateWrapsBothWays(t *testing.T) {
	s := NewSprite()
	s.TotalFrames = 3

	for _, want := range []int{1, 2, 0, 1} {
		s.Animate(0)
		if s.CurrentFrame != want {
			t.Fatalf("frame = %d, want %d", s.CurrentFrame, want)
		}
	}

	s.AnimDir = -1
	s.CurrentFrame = 0
	s.Animate(0)
	if s.CurrentFrame != 2 {
		t.Errorf("backwards wrap = %d, want 2", s.CurrentFrame)
	}
}

func TestAnimateHonoursFrameDelay(t *testing.T) {
	s := NewSprite()
	s.TotalFrames = 4
	s.UseFrameTimer = true
	s.FrameDelay = 50 * time.Millisecond

	s.Animate(0.02)
	s.Animate(0.02)
	if s.CurrentFrame != 0 {
		t.Fatalf("advanced after 40ms: %d", s.CurrentFrame)
	}
	s.Animate(0.02)
	if s.CurrentFrame != 1 {
		t.Errorf("frame = %d after 60ms, want 1", s.CurrentFrame)
	}
}

func TestSheetIndexUsesAnimStart(t *testing.T) {
	s := NewSprite()
	s.columns = 4
	s.AnimStartX, s.AnimStartY = 1, 2
	s.CurrentFrame = 2
	if got := s.sheetIndex(); got != 11 {
		t.Errorf("sheet index = %d, want 11", got)
	}
}

func TestHeading(t *testing.T) {
	s := NewSprite()
	s.Heading(90, 10)
	if math.Abs(s.Velocity.X) > 1e-9 || math.Abs(s.Velocity.Y-10) > 1e-9 {
		t.Errorf("velocity = %+v, want straight down", s.Velocity)
	}
	if s.MoveAngle != 90 {
		t.Errorf("move angle = %v", s.MoveAngle)
	}
}

func TestRectCollision(t *testing.T) {
	a, b := sized(10, 10), sized(10, 10)

	b.Position = Vec2{9, 9}
	if !a.Collides(b) {
		t.Error("overlapping rects")
	}

	b.Position = Vec2{10, 0}
	if a.Collides(b) {
		t.Error("touching edges do not overlap")
	}

	b.Scale = 2
	b.Position = Vec2{-15, 0}
	if !a.Collides(b) {
		t.Error("scale must grow the bounds")
	}
}

func TestDistCollision(t *testing.T) {
	a, b := sized(10, 10), sized(10, 10)
	a.Collision = CollisionDist

	// corners overlap as rects but the circles (r=5) are 12.7 apart
	b.Position = Vec2{9, 9}
	if a.Collides(b) {
		t.Error("circles should not touch diagonally")
	}

	b.Position = Vec2{8, 0}
	if !a.Collides(b) {
		t.Error("circles 8 apart with radius 5 overlap")
	}

	// 10x30 frames: r = (5+15)/2 = 10
	c, d := sized(10, 30), sized(10, 30)
	c.Collision = CollisionDist
	if c.Radius() != 10 {
		t.Errorf("radius = %v, want 10", c.Radius())
	}
	d.Position = Vec2{25, 0}
	if c.Collides(d) {
		t.Error("centres 25 apart must not reach 20")
	}
	d.Position = Vec2{19, 0}
	if !c.Collides(d) {
		t.Error("centres 19 apart overlap")
	}
}

func TestCollisionGuards(t *testing.T) {
	a, b := sized(10, 10), sized(10, 10)

	if a.Collides(a) || a.Collides(nil) {
		t.Error("self and nil never collide")
	}

	b.Collidable = false
	if a.Collides(b) {
		t.Error("non-collidable sprite collided")
	}

	b.Collidable = true
	b.Alive = false
	if a.Collides(b) {
		t.Error("dead sprite collided")
	}

	b.Alive = true
	a.Collision = CollisionNone
	if a.Collides(b) {
		t.Error("CollisionNone collided")
	}
}

func TestFrameRectGrid(t *testing.T) {
	tests := []struct {
		index int
		want  image.Rectangle
	}{
		{0, image.Rect(0, 0, 16, 8)},
		{3, image.Rect(48, 0, 64, 8)},
		{4, image.Rect(0, 8, 16, 16)},
		{9, image.Rect(16, 8, 32, 16)},
		{-1, image.Rect(48, 8, 64, 16)},
	}

	for _, tt := range tests {
		if got := frameRect(image.Point{}, tt.index, 4, 2, 16, 8); got != tt.want {
			t.Errorf("frameRect(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}

	if got := frameRect(image.Pt(100, 50), 1, 4, 2, 16, 8); got != image.Rect(116, 50, 132, 58) {
		t.Errorf("offset origin = %v", got)
	}
}

func TestFrameSize(t *testing.T) {
	w, h, err := frameSize(64, 16, 4, 2)
	if err != nil || w != 16 || h != 8 {
		t.Errorf("frameSize = %d,%d,%v", w, h, err)
	}

	if _, _, err := frameSize(3, 3, 4, 1); !errors.Is(err, ErrBadGrid) {
		t.Errorf("err = %v, want ErrBadGrid", err)
	}
	if _, _, err := frameSize(10, 10, 0, 1); !errors.Is(err, ErrBadGrid) {
		t.Errorf("err = %v, want ErrBadGrid", err)
	}
}

func TestApplyColorKey(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, DefaultTransColor)
	src.Set(1, 0, color.RGBA{10, 20, 30, 255})

	out := ApplyColorKey(src, DefaultTransColor)

	if a := out.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("keyed pixel alpha = %d", a)
	}
	if got := out.NRGBAAt(1, 0); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("kept pixel = %v", got)
	}
}
