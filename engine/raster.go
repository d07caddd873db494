package engine

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rasterizer draws meshes into a FrameBuffer with a depth test. Triangles are
// flat shaded by the directional light and textured with perspective correct
// coordinates.
type Rasterizer struct {
	Light         DirectionalLight
	CullBackFaces bool

	world  []mgl64.Vec3
	screen []screenVertex
}

// screenVertex is a projected vertex: pixel position, NDC depth and 1/w.
type screenVertex struct {
	x, y, z float64
	invW    float64
	ok      bool
}

// minClipW rejects triangles touching the eye plane; clipping is not done.
const minClipW = 1e-6

// alphaDiscard drops nearly transparent texels instead of writing them.
const alphaDiscard = 8

// Rasterize draws items as seen by cam into fb, which covers the whole
// viewport. It returns the number of triangles that reached the pixel loop.
func (r *Rasterizer) Rasterize(fb *FrameBuffer, items []DrawItem, cam *Camera) int {
	if fb.Width == 0 || fb.Height == 0 {
		return 0
	}
	viewProj := cam.Projection().Mul4(cam.View())
	drawn := 0
	for _, item := range items {
		if item.Mesh == nil || len(item.Mesh.Positions) == 0 {
			continue
		}
		drawn += r.drawMesh(fb, item, viewProj)
	}
	return drawn
}

func (r *Rasterizer) drawMesh(fb *FrameBuffer, item DrawItem, viewProj mgl64.Mat4) int {
	mesh := item.Mesh
	r.world = item.WorldPositions(r.world[:0])

	w := float64(fb.Width)
	h := float64(fb.Height)
	r.screen = r.screen[:0]
	for _, p := range r.world {
		clip := viewProj.Mul4x1(p.Vec4(1))
		if clip.W() <= minClipW {
			r.screen = append(r.screen, screenVertex{})
			continue
		}
		inv := 1 / clip.W()
		r.screen = append(r.screen, screenVertex{
			x:    (clip.X()*inv + 1) / 2 * w,
			y:    (1 - clip.Y()*inv) / 2 * h,
			z:    clip.Z() * inv,
			invW: inv,
			ok:   true,
		})
	}

	textured := mesh.Textured()
	drawn := 0
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		i0, i1, i2 := int(mesh.Indices[t]), int(mesh.Indices[t+1]), int(mesh.Indices[t+2])
		n := len(r.screen)
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}
		v0, v1, v2 := r.screen[i0], r.screen[i1], r.screen[i2]
		if !v0.ok || !v1.ok || !v2.ok {
			continue
		}

		// Counter-clockwise front faces turn clockwise once Y points down.
		area := (v1.x-v0.x)*(v2.y-v0.y) - (v2.x-v0.x)*(v1.y-v0.y)
		if area == 0 || (r.CullBackFaces && area > 0) {
			continue
		}

		p0, p1, p2 := r.world[i0], r.world[i1], r.world[i2]
		normal := p1.Sub(p0).Cross(p2.Sub(p0))
		if normal.Len() > 0 {
			normal = normal.Normalize()
		}
		shade := r.Light.Shade(normal, !r.CullBackFaces)

		c := mesh.Color
		tri := triangle{v: [3]screenVertex{v0, v1, v2}, shade: shade, color: [4]uint8{c.R, c.G, c.B, c.A}}
		if textured {
			tri.tex = mesh.Texture
			tri.uv = [3][2]float32{mesh.UVs[i0], mesh.UVs[i1], mesh.UVs[i2]}
		}
		if tri.fill(fb) {
			drawn++
		}
	}
	return drawn
}

type triangle struct {
	v     [3]screenVertex
	uv    [3][2]float32
	tex   *image.NRGBA
	color [4]uint8
	shade float64
}

// fill scan converts the triangle, testing and writing depth per pixel. It
// reports whether the triangle overlapped the buffer.
func (t *triangle) fill(fb *FrameBuffer) bool {
	v0, v1, v2 := t.v[0], t.v[1], t.v[2]
	minX := max(int(math.Floor(min(v0.x, v1.x, v2.x))), 0)
	maxX := min(int(math.Ceil(max(v0.x, v1.x, v2.x))), fb.Width-1)
	minY := max(int(math.Floor(min(v0.y, v1.y, v2.y))), 0)
	maxY := min(int(math.Ceil(max(v0.y, v1.y, v2.y))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return false
	}

	det := (v1.y-v2.y)*(v0.x-v2.x) + (v2.x-v1.x)*(v0.y-v2.y)
	if math.Abs(det) < 1e-12 {
		return false
	}
	invDet := 1 / det
	dy12 := v1.y - v2.y
	dx21 := v2.x - v1.x
	dy20 := v2.y - v0.y
	dx02 := v0.x - v2.x

	for sy := minY; sy <= maxY; sy++ {
		py := float64(sy) + 0.5 - v2.y
		row := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			px := float64(sx) + 0.5 - v2.x
			w0 := (dy12*px + dx21*py) * invDet
			w1 := (dy20*px + dx02*py) * invDet
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*v0.z + w1*v1.z + w2*v2.z
			idx := row + sx
			if z < -1 || z > 1 || z >= fb.Depth[idx] {
				continue
			}

			c := t.color
			if t.tex != nil {
				// Attributes divided by w interpolate linearly on screen.
				q0, q1, q2 := w0*v0.invW, w1*v1.invW, w2*v2.invW
				inv := 1 / (q0 + q1 + q2)
				u := (q0*float64(t.uv[0][0]) + q1*float64(t.uv[1][0]) + q2*float64(t.uv[2][0])) * inv
				v := (q0*float64(t.uv[0][1]) + q1*float64(t.uv[1][1]) + q2*float64(t.uv[2][1])) * inv
				c = modulate(c, SampleTexture(t.tex, u, v))
			}
			if c[3] < alphaDiscard {
				continue
			}

			fb.Depth[idx] = z
			o := idx * 4
			fb.Color[o] = shadeByte(c[0], t.shade)
			fb.Color[o+1] = shadeByte(c[1], t.shade)
			fb.Color[o+2] = shadeByte(c[2], t.shade)
			fb.Color[o+3] = 255
		}
	}
	return true
}

func modulate(a, b [4]uint8) [4]uint8 {
	var out [4]uint8
	for i := range out {
		out[i] = uint8((uint16(a[i])*uint16(b[i]) + 127) / 255)
	}
	return out
}

func shadeByte(c uint8, shade float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, float64(c)*shade))))
}

// SampleTexture returns the bilinearly filtered texel at (u, v). Coordinates
// wrap, v grows downwards as in glTF.
func SampleTexture(tex *image.NRGBA, u, v float64) [4]uint8 {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return [4]uint8{255, 255, 255, 255}
	}
	u -= math.Floor(u)
	v -= math.Floor(v)

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	x0f := math.Floor(fx)
	y0f := math.Floor(fy)
	dx := fx - x0f
	dy := fy - y0f
	x0 := wrap(int(x0f), w)
	y0 := wrap(int(y0f), h)
	x1 := wrap(x0+1, w)
	y1 := wrap(y0+1, h)

	i00 := y0*tex.Stride + x0*4
	i10 := y0*tex.Stride + x1*4
	i01 := y1*tex.Stride + x0*4
	i11 := y1*tex.Stride + x1*4
	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out [4]uint8
	for c := 0; c < 4; c++ {
		f := float64(tex.Pix[i00+c])*w00 + float64(tex.Pix[i10+c])*w10 +
			float64(tex.Pix[i01+c])*w01 + float64(tex.Pix[i11+c])*w11
		out[c] = uint8(f + 0.5)
	}
	return out
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
