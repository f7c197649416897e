package engine

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Projection maps world coordinates to screen pixels
type Projection struct {
	proj   mgl32.Mat4
	view   mgl32.Mat4
	mvp    mgl32.Mat4
	width  float32
	height float32
}

// NewOrthoProjection maps (0,0) to the top-left pixel and (w,h) to the
// bottom-right, with z in [-1,1]
func NewOrthoProjection(width, height int) *Projection {
	p := &Projection{view: mgl32.Ident4()}
	p.SetViewport(width, height)
	p.SetOrtho()
	return p
}

// SetViewport changes the pixel size projected coordinates land in
func (p *Projection) SetViewport(width, height int) {
	p.width = float32(width)
	p.height = float32(height)
}

// SetOrtho switches to the 2D top-left origin projection
func (p *Projection) SetOrtho() {
	p.proj = mgl32.Ortho(0, p.width, p.height, 0, -1, 1)
	p.view = mgl32.Ident4()
	p.update()
}

// SetPerspective switches to a perspective projection; fovy is in degrees
func (p *Projection) SetPerspective(fovy, aspect, zNear, zFar float64) {
	p.proj = mgl32.Perspective(mgl32.DegToRad(float32(fovy)), float32(aspect), float32(zNear), float32(zFar))
	p.update()
}

// LookAt positions the camera
func (p *Projection) LookAt(eye, center, up mgl32.Vec3) {
	p.view = mgl32.LookAtV(eye, center, up)
	p.update()
}

// Matrix returns projection * view
func (p *Projection) Matrix() mgl32.Mat4 {
	return p.mvp
}

func (p *Projection) update() {
	p.mvp = p.proj.Mul4(p.view)
}

// Project returns the pixel position of v. ok is false for points behind
// the camera.
func (p *Projection) Project(v mgl32.Vec3) (x, y float32, ok bool) {
	clip := p.mvp.Mul4x1(v.Vec4(1))
	w := clip.W()
	if w <= 0 {
		return 0, 0, false
	}

	ndcX := clip.X() / w
	ndcY := clip.Y() / w
	x = (ndcX + 1) / 2 * p.width
	y = (1 - ndcY) / 2 * p.height
	return x, y, true
}
