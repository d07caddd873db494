package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DirectionalLight lights every surface from the same direction.
type DirectionalLight struct {
	direction mgl64.Vec3 // Normalized, the direction light travels
	Intensity float64
	Ambient   float64
}

// NewDirectionalLight returns a light travelling along direction. A zero
// direction points the light straight down.
func NewDirectionalLight(direction mgl64.Vec3, intensity, ambient float64) DirectionalLight {
	if direction.Len() == 0 {
		direction = mgl64.Vec3{0, -1, 0}
	}
	return DirectionalLight{
		direction: direction.Normalize(),
		Intensity: intensity,
		Ambient:   ambient,
	}
}

// Direction returns the normalized travel direction.
func (l DirectionalLight) Direction() mgl64.Vec3 {
	return l.direction
}

// Shade returns the brightness in [0, 1] of a surface with the given unit
// normal. Two-sided surfaces are lit from whichever side faces the light.
func (l DirectionalLight) Shade(normal mgl64.Vec3, twoSided bool) float64 {
	ndl := normal.Dot(l.direction.Mul(-1))
	if twoSided {
		ndl = math.Abs(ndl)
	}
	if ndl < 0 {
		ndl = 0
	}
	return math.Min(1, l.Ambient+l.Intensity*ndl)
}
