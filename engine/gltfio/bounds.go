package gltfio

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box. The zero value is empty.
type AABB struct {
	Min   mgl64.Vec3
	Max   mgl64.Vec3
	valid bool
}

// NewAABB returns the box spanning min and max.
func NewAABB(min, max mgl64.Vec3) AABB {
	return AABB{Min: min, Max: max, valid: true}
}

// AABBFromCenter returns the box with the given center and half extent.
func AABBFromCenter(center, halfExtent mgl64.Vec3) AABB {
	return NewAABB(center.Sub(halfExtent), center.Add(halfExtent))
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return !b.valid
}

// Extend returns the smallest box containing b and p.
func (b AABB) Extend(p mgl64.Vec3) AABB {
	if !b.valid {
		return NewAABB(p, p)
	}
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

// Center returns the box midpoint. An empty box is centered at the origin.
func (b AABB) Center() mgl64.Vec3 {
	if !b.valid {
		return mgl64.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the side lengths.
func (b AABB) Size() mgl64.Vec3 {
	if !b.valid {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// HalfExtent returns half the side lengths.
func (b AABB) HalfExtent() mgl64.Vec3 {
	return b.Size().Mul(0.5)
}
