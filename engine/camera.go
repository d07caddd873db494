package engine

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Camera holds the projection and view matrices used to render a View.
type Camera struct {
	projection mgl64.Mat4
	view       mgl64.Mat4
	eye        mgl64.Vec3
	aspect     float64
}

// NewCamera returns a camera with identity matrices.
func NewCamera() *Camera {
	return &Camera{
		projection: mgl64.Ident4(),
		view:       mgl64.Ident4(),
		aspect:     1,
	}
}

// SetProjection sets the view-to-clip matrix and the aspect ratio it was
// built for.
func (c *Camera) SetProjection(m mgl64.Mat4, aspect float64) {
	c.projection = m
	c.aspect = aspect
}

// SetView sets the world-to-view matrix and the eye position it was built
// from.
func (c *Camera) SetView(m mgl64.Mat4, eye mgl64.Vec3) {
	c.view = m
	c.eye = eye
}

func (c *Camera) Projection() mgl64.Mat4 { return c.projection }
func (c *Camera) View() mgl64.Mat4       { return c.view }
func (c *Camera) Eye() mgl64.Vec3        { return c.eye }
func (c *Camera) Aspect() float64        { return c.aspect }

// Forward returns the unit viewing direction in world space.
func (c *Camera) Forward() mgl64.Vec3 {
	// The third row of a look-at rotation is the negated forward axis.
	return mgl64.Vec3{-c.view.At(2, 0), -c.view.At(2, 1), -c.view.At(2, 2)}
}
