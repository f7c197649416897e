package graphics

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Font is a sized text face
type Font struct {
	face *text.GoTextFace
}

var (
	defaultSourceOnce sync.Once
	defaultSource     *text.GoTextFaceSource
	defaultSourceErr  error
)

// LoadFont reads a TrueType/OpenType file
func LoadFont(path string, size float64) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not find font %s: %w", path, err)
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not parse font %s: %w", path, err)
	}
	return &Font{face: &text.GoTextFace{Source: src, Size: size}}, nil
}

// DefaultFont returns the embedded fallback face
func DefaultFont(size float64) (*Font, error) {
	defaultSourceOnce.Do(func() {
		defaultSource, defaultSourceErr = text.NewGoTextFaceSource(bytes.NewReader(fonts.MPlus1pRegular_ttf))
	})
	if defaultSourceErr != nil {
		return nil, defaultSourceErr
	}
	return &Font{face: &text.GoTextFace{Source: defaultSource, Size: size}}, nil
}

// Face returns the text/v2 face
func (f *Font) Face() text.Face {
	return f.face
}

// Size returns the point size
func (f *Font) Size() float64 {
	return f.face.Size
}

// Measure returns the width and height of s
func (f *Font) Measure(s string) (float64, float64) {
	return text.Measure(s, f.face, f.face.Size*1.2)
}

// Draw draws s with its top-left corner at x, y
func (f *Font) Draw(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = f.face.Size * 1.2
	text.Draw(dst, s, f.face, op)
}

// DrawCentered draws s horizontally centred on cx with its top at y
func (f *Font) DrawCentered(dst *ebiten.Image, s string, cx, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = f.face.Size * 1.2
	op.PrimaryAlign = text.AlignCenter
	text.Draw(dst, s, f.face, op)
}
