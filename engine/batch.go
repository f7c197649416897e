package engine

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// DrawType is the primitive a batch assembles its vertices into
type DrawType int

const (
	DrawTriangle DrawType = iota
	DrawPolygon
	DrawPoint
	DrawQuad
)

func (t DrawType) String() string {
	switch t {
	case DrawTriangle:
		return "triangle"
	case DrawPolygon:
		return "polygon"
	case DrawPoint:
		return "point"
	case DrawQuad:
		return "quad"
	default:
		return "unknown"
	}
}

// maxBatchVertices keeps indices within uint16
const maxBatchVertices = math.MaxUint16 / 4

type batchVertex struct {
	pos        mgl32.Vec3
	r, g, b, a float32
}

// Batch collects immediate-mode vertices between Begin and End
type Batch struct {
	typ       DrawType
	active    bool
	verts     []batchVertex
	r, g, b   float32
	a         float32
	pointSize float32
}

// NewBatch creates an idle batch drawing opaque white
func NewBatch() *Batch {
	return &Batch{r: 1, g: 1, b: 1, a: 1, pointSize: 2}
}

// Begin starts a primitive; vertices from an unfinished primitive are discarded
func (b *Batch) Begin(t DrawType) {
	b.typ = t
	b.active = true
	b.verts = b.verts[:0]
}

// Active reports whether Begin has been called without End
func (b *Batch) Active() bool {
	return b.active
}

// Color sets the colour of following vertices
func (b *Batch) Color(c color.Color) {
	r, g, bl, a := c.RGBA()
	b.r = float32(r) / 0xffff
	b.g = float32(g) / 0xffff
	b.b = float32(bl) / 0xffff
	b.a = float32(a) / 0xffff
}

// PointSize sets the side length in pixels of DrawPoint squares
func (b *Batch) PointSize(size float32) {
	if size > 0 {
		b.pointSize = size
	}
}

// Vertex appends a vertex; ignored outside Begin/End or when the batch is full
func (b *Batch) Vertex(x, y, z float32) {
	if !b.active || len(b.verts) >= maxBatchVertices {
		return
	}
	b.verts = append(b.verts, batchVertex{
		pos: mgl32.Vec3{x, y, z},
		r:   b.r, g: b.g, b: b.b, a: b.a,
	})
}

// Len returns the number of pending vertices
func (b *Batch) Len() int {
	return len(b.verts)
}

// Build ends the primitive and returns triangles in screen space.
// Triangles touching a vertex behind the camera are dropped.
func (b *Batch) Build(p *Projection) ([]ebiten.Vertex, []uint16) {
	if !b.active {
		return nil, nil
	}
	b.active = false

	out := make([]ebiten.Vertex, 0, len(b.verts))
	visible := make([]bool, len(b.verts))
	for i, v := range b.verts {
		x, y, ok := p.Project(v.pos)
		visible[i] = ok
		out = append(out, ebiten.Vertex{
			DstX: x, DstY: y,
			SrcX: 1, SrcY: 1,
			ColorR: v.r, ColorG: v.g, ColorB: v.b, ColorA: v.a,
		})
	}

	if b.typ == DrawPoint {
		return b.buildPoints(out, visible)
	}

	var indices []uint16
	tris := triangleIndices(b.typ, len(out))
	for i := 0; i+2 < len(tris); i += 3 {
		if visible[tris[i]] && visible[tris[i+1]] && visible[tris[i+2]] {
			indices = append(indices, tris[i], tris[i+1], tris[i+2])
		}
	}
	return out, indices
}

func (b *Batch) buildPoints(points []ebiten.Vertex, visible []bool) ([]ebiten.Vertex, []uint16) {
	half := b.pointSize / 2
	verts := make([]ebiten.Vertex, 0, len(points)*4)
	indices := make([]uint16, 0, len(points)*6)

	for i, pt := range points {
		if !visible[i] {
			continue
		}
		base := uint16(len(verts))
		for _, off := range [4][2]float32{{-half, -half}, {half, -half}, {half, half}, {-half, half}} {
			v := pt
			v.DstX += off[0]
			v.DstY += off[1]
			verts = append(verts, v)
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return verts, indices
}

// triangleIndices splits n vertices of type t into triangles.
// Incomplete trailing primitives are ignored.
func triangleIndices(t DrawType, n int) []uint16 {
	var idx []uint16
	switch t {
	case DrawTriangle:
		for i := 0; i+2 < n; i += 3 {
			idx = append(idx, uint16(i), uint16(i+1), uint16(i+2))
		}
	case DrawQuad:
		for i := 0; i+3 < n; i += 4 {
			idx = append(idx,
				uint16(i), uint16(i+1), uint16(i+2),
				uint16(i), uint16(i+2), uint16(i+3))
		}
	case DrawPolygon:
		for i := 1; i+1 < n; i++ {
			idx = append(idx, 0, uint16(i), uint16(i+1))
		}
	}
	return idx
}
