package engine

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is an indexed triangle list in model space.
type Mesh struct {
	Positions []mgl64.Vec3
	Indices   []uint32 // Three per triangle
	Color     color.RGBA

	// Optional base color texture, multiplied with Color. UVs holds one
	// coordinate per position when Texture is set.
	UVs     [][2]float32
	Texture *image.NRGBA

	// Optional skin binding, one entry per position. Joint indices refer to
	// the matrices of the DrawItem.
	Joints  [][4]uint16
	Weights [][4]float32
}

// Triangles returns the number of complete triangles in the mesh.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Textured reports whether the mesh samples a texture.
func (m *Mesh) Textured() bool {
	return m.Texture != nil && len(m.UVs) == len(m.Positions)
}

// Skinned reports whether every position carries joint weights.
func (m *Mesh) Skinned() bool {
	return len(m.Joints) == len(m.Positions) && len(m.Weights) == len(m.Positions) && len(m.Positions) > 0
}

// DrawItem is one mesh placed in the world. A skinned mesh drawn with joint
// matrices is posed by them alone and World is ignored.
type DrawItem struct {
	Mesh   *Mesh
	World  mgl64.Mat4
	Joints []mgl64.Mat4
}

// SkinPosition blends p through the joint matrices by weight. Joints outside
// mats are skipped; a vertex without usable weight is returned unchanged.
func SkinPosition(p mgl64.Vec3, joints [4]uint16, weights [4]float32, mats []mgl64.Mat4) mgl64.Vec3 {
	v := p.Vec4(1)
	var out mgl64.Vec4
	total := 0.0
	for k := 0; k < 4; k++ {
		w := float64(weights[k])
		j := int(joints[k])
		if w == 0 || j >= len(mats) {
			continue
		}
		out = out.Add(mats[j].Mul4x1(v).Mul(w))
		total += w
	}
	if total <= 0 {
		return p
	}
	return out.Vec3().Mul(1 / total)
}

// WorldPositions appends the world space positions of item to dst.
func (item DrawItem) WorldPositions(dst []mgl64.Vec3) []mgl64.Vec3 {
	m := item.Mesh
	if m.Skinned() && len(item.Joints) > 0 {
		for i, p := range m.Positions {
			dst = append(dst, SkinPosition(p, m.Joints[i], m.Weights[i], item.Joints))
		}
		return dst
	}
	for _, p := range m.Positions {
		dst = append(dst, item.World.Mul4x1(p.Vec4(1)).Vec3())
	}
	return dst
}
