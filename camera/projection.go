package camera

import (
	"image"

	"github.com/automoto/avatarview/config"
	"github.com/go-gl/mathgl/mgl64"
)

// Projection holds the fixed perspective parameters. Only the aspect ratio
// changes at runtime.
type Projection struct {
	FovY float64 // Vertical field of view, degrees
	Near float64
	Far  float64
}

// ProjectionFromConfig reads the projection parameters from cfg.
func ProjectionFromConfig(cfg config.CameraConfig) Projection {
	return Projection{FovY: cfg.FieldOfView, Near: cfg.Near, Far: cfg.Far}
}

// Matrix returns the view-to-clip matrix for aspect.
func (p Projection) Matrix(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(p.FovY), aspect, p.Near, p.Far)
}

// AspectRatio returns width/height, or 1 for an empty surface.
func AspectRatio(width, height int) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float64(width) / float64(height)
}

// Viewport covers the whole surface.
func Viewport(width, height int) image.Rectangle {
	return image.Rect(0, 0, width, height)
}
