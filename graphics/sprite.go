package graphics

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// CollisionType selects how two sprites are tested for overlap
type CollisionType int

const (
	CollisionNone CollisionType = iota
	// CollisionRect tests the scaled frame rectangles
	CollisionRect
	// CollisionDist tests circles of half the larger scaled frame side
	CollisionDist
)

// DefaultTransColor is the colour key LoadImage makes transparent
var DefaultTransColor = color.RGBA{255, 0, 255, 255}

// Vec2 is a 2D position or velocity
type Vec2 struct {
	X, Y float64
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Scale returns v * f
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Rect is an axis-aligned rectangle in screen space
type Rect struct {
	X, Y, W, H float64
}

// Overlaps reports whether r and o share any area
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Sprite is a positioned, optionally animated image.
// Velocity is in pixels per second. FrameDelay gates both movement and
// animation when UseFrameTimer is set; without it animation advances one
// frame per Animate call and movement applies every Move.
type Sprite struct {
	Position Vec2
	Velocity Vec2

	Visible bool
	Alive   bool
	// Lifetime kills the sprite once it has moved for this long; zero lives forever
	Lifetime time.Duration

	State     int
	Direction int
	Color     color.RGBA

	UseFrameTimer bool
	FrameDelay    time.Duration

	Collidable bool
	Collision  CollisionType

	CurrentFrame int
	TotalFrames  int
	// AnimDir is added to CurrentFrame every animation step; negative plays backwards
	AnimDir int
	// AnimStartX and AnimStartY select the sheet cell frame 0 starts at
	AnimStartX int
	AnimStartY int

	FaceAngle float64
	MoveAngle float64
	// Rotation is in degrees around the frame centre
	Rotation float64
	Scale    float64

	sheet     *SpriteSheet
	frameSize Vec2
	columns   int
	rows      int

	lifeTimer  time.Duration
	moveTimer  time.Duration
	frameTimer time.Duration
}

// NewSprite creates a visible, living sprite with no image
func NewSprite() *Sprite {
	return &Sprite{
		Visible:     true,
		Alive:       true,
		Color:       color.RGBA{255, 255, 255, 255},
		Collision:   CollisionRect,
		TotalFrames: 1,
		AnimDir:     1,
		Scale:       1,
		columns:     1,
		rows:        1,
	}
}

// LoadImage loads a sheet of cols x rows frames, keying out transColor
func (s *Sprite) LoadImage(filename string, cols, rows int, transColor color.Color) error {
	if transColor == nil {
		transColor = DefaultTransColor
	}
	sheet, err := LoadSpriteSheet(filename, cols, rows, transColor)
	if err != nil {
		return err
	}
	s.SetImage(sheet)
	return nil
}

// SetImage uses sheet for drawing and resets the animation
func (s *Sprite) SetImage(sheet *SpriteSheet) {
	s.sheet = sheet
	s.columns = sheet.Columns
	s.rows = sheet.Rows
	s.frameSize = Vec2{float64(sheet.FrameWidth), float64(sheet.FrameHeight)}
	s.TotalFrames = sheet.Frames()
	s.CurrentFrame = 0
}

// Sheet returns the sprite's image, or nil
func (s *Sprite) Sheet() *SpriteSheet {
	return s.sheet
}

// FrameSize returns the unscaled frame size
func (s *Sprite) FrameSize() Vec2 {
	return s.frameSize
}

// SetFrameSize overrides the frame size used for bounds
func (s *Sprite) SetFrameSize(w, h float64) {
	s.frameSize = Vec2{w, h}
}

// Columns returns the animation columns of the sheet
func (s *Sprite) Columns() int { return s.columns }

// Rows returns the animation rows of the sheet
func (s *Sprite) Rows() int { return s.rows }

// Heading points the sprite along angle degrees (0 = right, 90 = down)
// moving at speed pixels per second
func (s *Sprite) Heading(angle, speed float64) {
	s.MoveAngle = angle
	rad := angle * math.Pi / 180
	s.Velocity = Vec2{math.Cos(rad) * speed, math.Sin(rad) * speed}
}

// Move advances the position by elapsed seconds of velocity and ages the
// sprite. It does nothing once the sprite is dead.
func (s *Sprite) Move(elapsed float64) {
	if !s.Alive {
		return
	}
	dt := time.Duration(elapsed * float64(time.Second))

	if s.Lifetime > 0 {
		s.lifeTimer += dt
		if s.lifeTimer >= s.Lifetime {
			s.Alive = false
			return
		}
	}

	if s.UseFrameTimer {
		s.moveTimer += dt
		if s.moveTimer < s.FrameDelay {
			return
		}
		dt = s.moveTimer
		s.moveTimer = 0
	}

	s.Position = s.Position.Add(s.Velocity.Scale(dt.Seconds()))
}

// Animate steps the current frame by AnimDir, wrapping in both directions
func (s *Sprite) Animate(elapsed float64) {
	if !s.Alive || s.TotalFrames <= 1 {
		return
	}

	if s.UseFrameTimer {
		s.frameTimer += time.Duration(elapsed * float64(time.Second))
		if s.frameTimer < s.FrameDelay {
			return
		}
		s.frameTimer = 0
	}

	s.CurrentFrame += s.AnimDir
	if s.CurrentFrame >= s.TotalFrames || s.CurrentFrame < 0 {
		s.CurrentFrame = ((s.CurrentFrame % s.TotalFrames) + s.TotalFrames) % s.TotalFrames
	}
}

// sheetIndex is the sheet cell the current frame is drawn from
func (s *Sprite) sheetIndex() int {
	return s.AnimStartY*s.columns + s.AnimStartX + s.CurrentFrame
}

// Bounds returns the scaled frame rectangle at the current position
func (s *Sprite) Bounds() Rect {
	return Rect{
		X: s.Position.X,
		Y: s.Position.Y,
		W: s.frameSize.X * s.Scale,
		H: s.frameSize.Y * s.Scale,
	}
}

// Center returns the centre of Bounds
func (s *Sprite) Center() Vec2 {
	b := s.Bounds()
	return Vec2{b.X + b.W/2, b.Y + b.H/2}
}

// Radius is the average of the scaled half extents
func (s *Sprite) Radius() float64 {
	b := s.Bounds()
	return (b.W/2 + b.H/2) / 2
}

// Collides tests s against other using s's collision method. Dead,
// non-collidable or identical sprites never collide.
func (s *Sprite) Collides(other *Sprite) bool {
	if other == nil || s == other {
		return false
	}
	if !s.Alive || !other.Alive || !s.Collidable || !other.Collidable {
		return false
	}

	switch s.Collision {
	case CollisionRect:
		return s.Bounds().Overlaps(other.Bounds())
	case CollisionDist:
		a, b := s.Center(), other.Center()
		dx, dy := a.X-b.X, a.Y-b.Y
		reach := s.Radius() + other.Radius()
		return dx*dx+dy*dy < reach*reach
	default:
		return false
	}
}

// Draw renders the current frame when the sprite is visible and alive
func (s *Sprite) Draw(target *ebiten.Image) {
	if !s.Visible || !s.Alive || s.sheet == nil {
		return
	}

	w, h := s.frameSize.X, s.frameSize.Y
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(s.Scale, s.Scale)
	op.GeoM.Rotate(s.Rotation * math.Pi / 180)
	op.GeoM.Translate(s.Position.X+w*s.Scale/2, s.Position.Y+h*s.Scale/2)
	op.ColorScale.ScaleWithColor(s.Color)

	target.DrawImage(s.sheet.Frame(s.sheetIndex()), op)
}
