package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"superengine/graphics"
	"superengine/input"
)

// SheetViewer implements ebiten.Game and shows every frame of a sprite
// sheet with its index
type SheetViewer struct {
	sheet         *graphics.SpriteSheet
	keyboard      input.Keyboard
	filename      string
	cellSize      int
	cols          int
	rows          int
	screenWidth   int
	screenHeight  int
	displayWidth  int // How many frames to display horizontally
	displayHeight int // How many frames to display vertically
	offsetX       int
	offsetY       int
}

// NewSheetViewer loads filename as a cols x rows sheet
func NewSheetViewer(filename string, cols, rows, cellSize int) (*SheetViewer, error) {
	sheet, err := graphics.LoadSpriteSheet(filename, cols, rows, graphics.DefaultTransColor)
	if err != nil {
		return nil, err
	}
	v := newSheetViewer(cols, rows, cellSize, input.EbitenKeyboard{})
	v.sheet = sheet
	v.filename = filename
	return v, nil
}

func newSheetViewer(cols, rows, cellSize int, kb input.Keyboard) *SheetViewer {
	displayWidth := min(cols, 16)
	displayHeight := min(rows, 12)
	return &SheetViewer{
		keyboard:      kb,
		cellSize:      cellSize,
		cols:          cols,
		rows:          rows,
		screenWidth:   max(displayWidth*cellSize+50, 480), // Add some margin
		screenHeight:  displayHeight*cellSize + 120,       // Add space for header and footer
		displayWidth:  displayWidth,
		displayHeight: displayHeight,
	}
}

// Update handles input for scrolling
func (v *SheetViewer) Update() error {
	kb := v.keyboard
	if kb.IsJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if kb.IsJustPressed(ebiten.KeyArrowRight) && v.offsetX < v.cols-v.displayWidth {
		v.offsetX++
	}
	if kb.IsJustPressed(ebiten.KeyArrowLeft) && v.offsetX > 0 {
		v.offsetX--
	}
	if kb.IsJustPressed(ebiten.KeyArrowDown) && v.offsetY < v.rows-v.displayHeight {
		v.offsetY++
	}
	if kb.IsJustPressed(ebiten.KeyArrowUp) && v.offsetY > 0 {
		v.offsetY--
	}

	// Page navigation
	if kb.IsJustPressed(ebiten.KeyPageDown) {
		v.offsetY = min(v.offsetY+v.displayHeight, max(v.rows-v.displayHeight, 0))
	}
	if kb.IsJustPressed(ebiten.KeyPageUp) {
		v.offsetY = max(v.offsetY-v.displayHeight, 0)
	}
	return nil
}

// Draw displays the visible frames with their indices
func (v *SheetViewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 30, 255})

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Sheet: %s", v.filename), 10, 10)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Frames: %dx%d of %dx%d px", v.sheet.Columns, v.sheet.Rows, v.sheet.FrameWidth, v.sheet.FrameHeight), 10, 30)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Viewing offset: %d,%d", v.offsetX, v.offsetY), 10, 50)

	scaleX := float64(v.cellSize) / float64(v.sheet.FrameWidth)
	scaleY := float64(v.cellSize) / float64(v.sheet.FrameHeight)

	for y := 0; y < v.displayHeight; y++ {
		for x := 0; x < v.displayWidth; x++ {
			col, row := x+v.offsetX, y+v.offsetY
			if col >= v.cols || row >= v.rows {
				continue
			}

			screenX := x * v.cellSize
			screenY := y*v.cellSize + 100 // vertical offset for the header text

			vector.DrawFilledRect(screen, float32(screenX), float32(screenY),
				float32(v.cellSize), float32(v.cellSize), color.RGBA{60, 60, 60, 255}, false)

			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(scaleX, scaleY)
			op.GeoM.Translate(float64(screenX), float64(screenY))
			index := row*v.sheet.Columns + col
			screen.DrawImage(v.sheet.Frame(index), op)

			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("#%d", index), screenX+2, screenY+v.cellSize-14)
		}
	}

	ebitenutil.DebugPrintAt(screen, "ESC: Quit | Arrow keys: Navigate | Page Up/Down: Fast navigation", 10, v.screenHeight-20)
}

// Layout implements ebiten.Game's Layout.
func (v *SheetViewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.screenWidth, v.screenHeight
}
