package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrBadGrid is returned when a sheet cannot be split into the requested grid
var ErrBadGrid = errors.New("image does not divide into frame grid")

// SpriteSheet splits an image into equally sized animation frames laid out
// left to right, top to bottom
type SpriteSheet struct {
	Image       *ebiten.Image
	FrameWidth  int
	FrameHeight int
	Columns     int
	Rows        int
}

// NewSpriteSheet slices img into cols x rows frames
func NewSpriteSheet(img *ebiten.Image, cols, rows int) (*SpriteSheet, error) {
	b := img.Bounds()
	fw, fh, err := frameSize(b.Dx(), b.Dy(), cols, rows)
	if err != nil {
		return nil, err
	}
	return &SpriteSheet{
		Image:       img,
		FrameWidth:  fw,
		FrameHeight: fh,
		Columns:     cols,
		Rows:        rows,
	}, nil
}

// LoadSpriteSheet loads a sheet from a file, making transColor transparent.
// A nil transColor keeps the image as is.
func LoadSpriteSheet(filename string, cols, rows int, transColor color.Color) (*SpriteSheet, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	if transColor != nil {
		img = ApplyColorKey(img, transColor)
	}

	return NewSpriteSheet(ebiten.NewImageFromImage(img), cols, rows)
}

func frameSize(width, height, cols, rows int) (int, int, error) {
	if cols < 1 || rows < 1 || width < cols || height < rows {
		return 0, 0, fmt.Errorf("%w: %dx%d into %d cols x %d rows", ErrBadGrid, width, height, cols, rows)
	}
	return width / cols, height / rows, nil
}

// Frames returns the number of frames in the sheet
func (s *SpriteSheet) Frames() int {
	return s.Columns * s.Rows
}

// FrameRect returns the source rectangle of frame index, relative to the
// sheet's origin. Out of range indices wrap.
func (s *SpriteSheet) FrameRect(index int) image.Rectangle {
	return frameRect(s.Image.Bounds().Min, index, s.Columns, s.Rows, s.FrameWidth, s.FrameHeight)
}

func frameRect(origin image.Point, index, cols, rows, fw, fh int) image.Rectangle {
	n := cols * rows
	index = ((index % n) + n) % n

	x := origin.X + (index%cols)*fw
	y := origin.Y + (index/cols)*fh
	return image.Rect(x, y, x+fw, y+fh)
}

// Frame returns frame index as a sub-image
func (s *SpriteSheet) Frame(index int) *ebiten.Image {
	return s.Image.SubImage(s.FrameRect(index)).(*ebiten.Image)
}

// DrawFrame draws a frame at pixel position x, y tinted by clr
func (s *SpriteSheet) DrawFrame(target *ebiten.Image, index int, x, y float64, clr color.Color) {
	op := &ebiten.DrawImageOptions{}
	if clr != nil {
		op.ColorScale.ScaleWithColor(clr)
	}
	op.GeoM.Translate(x, y)
	target.DrawImage(s.Frame(index), op)
}

// ApplyColorKey returns a copy of img where every pixel equal to key is
// fully transparent
func ApplyColorKey(img image.Image, key color.Color) *image.NRGBA {
	kr, kg, kb, _ := key.RGBA()
	b := img.Bounds()
	out := image.NewNRGBA(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			r, g, bl, _ := c.RGBA()
			if r == kr && g == kg && bl == kb {
				out.SetNRGBA(x, y, color.NRGBA{})
				continue
			}
			out.Set(x, y, c)
		}
	}
	return out
}
