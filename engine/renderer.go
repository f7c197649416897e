package engine

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer is handed to the render passes. During the 3D pass batches use
// the perspective projection; during the 2D pass they use screen pixels.
type Renderer struct {
	target      *ebiten.Image
	clearColor  color.RGBA
	ambient     color.RGBA
	perspective *Projection
	ortho       *Projection
	current     *Projection
	batch       *Batch
	white       *ebiten.Image
	triangles   int

	fovy, zNear, zFar float64
}

// NewRenderer creates a renderer for a width x height logical screen
func NewRenderer(width, height int, clearColor, ambient color.RGBA) *Renderer {
	ortho := NewOrthoProjection(width, height)
	r := &Renderer{
		clearColor:  clearColor,
		ambient:     ambient,
		perspective: NewOrthoProjection(width, height),
		ortho:       ortho,
		current:     ortho,
		batch:       NewBatch(),
	}
	r.SetPerspective(45, float64(width)/float64(height), 0.1, 100)
	r.LookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	return r
}

// Resize updates both projections for a new logical size. The perspective
// keeps its field of view and depth range and takes the new aspect ratio.
func (r *Renderer) Resize(width, height int) {
	r.perspective.SetViewport(width, height)
	r.perspective.SetPerspective(r.fovy, float64(width)/float64(height), r.zNear, r.zFar)
	r.ortho.SetViewport(width, height)
	r.ortho.SetOrtho()
}

// Size returns the logical size the projections map to
func (r *Renderer) Size() (int, int) {
	return int(r.ortho.width), int(r.ortho.height)
}

// Target returns the image the current pass draws into
func (r *Renderer) Target() *ebiten.Image {
	return r.target
}

// ClearColor returns the colour Clear fills with
func (r *Renderer) ClearColor() color.RGBA {
	return r.clearColor
}

// SetClearColor changes the colour Clear fills with
func (r *Renderer) SetClearColor(c color.RGBA) {
	r.clearColor = c
}

// Ambient returns the ambient colour games may tint with
func (r *Renderer) Ambient() color.RGBA {
	return r.ambient
}

// SetAmbient changes the ambient colour
func (r *Renderer) SetAmbient(c color.RGBA) {
	r.ambient = c
}

// Clear fills the target with the clear colour
func (r *Renderer) Clear() {
	if r.target != nil {
		r.target.Fill(r.clearColor)
	}
}

// SetPerspective configures the 3D pass projection; fovy is in degrees
func (r *Renderer) SetPerspective(fovy, aspect, zNear, zFar float64) {
	r.fovy, r.zNear, r.zFar = fovy, zNear, zFar
	r.perspective.SetPerspective(fovy, aspect, zNear, zFar)
}

// LookAt positions the 3D pass camera
func (r *Renderer) LookAt(eye, center, up mgl32.Vec3) {
	r.perspective.LookAt(eye, center, up)
}

// Projection returns the projection batches currently use
func (r *Renderer) Projection() *Projection {
	return r.current
}

// Begin starts an immediate-mode primitive
func (r *Renderer) Begin(t DrawType) {
	r.batch.Begin(t)
}

// Color sets the colour of following vertices
func (r *Renderer) Color(c color.Color) {
	r.batch.Color(c)
}

// PointSize sets the pixel size of DrawPoint vertices
func (r *Renderer) PointSize(size float32) {
	r.batch.PointSize(size)
}

// Vertex adds a vertex to the current primitive
func (r *Renderer) Vertex(x, y, z float32) {
	r.batch.Vertex(x, y, z)
}

// End projects and draws the current primitive
func (r *Renderer) End() {
	vs, is := r.batch.Build(r.current)
	if len(is) == 0 || r.target == nil {
		return
	}
	r.target.DrawTriangles(vs, is, r.whitePixel(), &ebiten.DrawTrianglesOptions{})
	r.triangles += len(is) / 3
}

// Triangles returns how many triangles were drawn in the current frame
func (r *Renderer) Triangles() int {
	return r.triangles
}

// DrawImage draws img onto the target
func (r *Renderer) DrawImage(img *ebiten.Image, op *ebiten.DrawImageOptions) {
	if r.target != nil {
		r.target.DrawImage(img, op)
	}
}

func (r *Renderer) begin3D(target *ebiten.Image) {
	r.target = target
	r.current = r.perspective
	r.triangles = 0
}

func (r *Renderer) begin2D() {
	if r.batch.Active() {
		r.End()
	}
	r.current = r.ortho
}

func (r *Renderer) finish() {
	if r.batch.Active() {
		r.End()
	}
	r.target = nil
}

// whitePixel is a 1x1 region inside a 3x3 white image so sampling at the
// region edges stays white.
func (r *Renderer) whitePixel() *ebiten.Image {
	if r.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		r.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return r.white
}
