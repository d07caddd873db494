package engine

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	white = [4]uint8{255, 255, 255, 255}
	empty = [4]uint8{}
)

func testCamera() *Camera {
	cam := NewCamera()
	cam.SetProjection(mgl64.Perspective(mgl64.DegToRad(90), 1, 0.1, 100), 1)
	cam.SetView(mgl64.LookAtV(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}), mgl64.Vec3{})
	return cam
}

func frontLight() Rasterizer {
	return Rasterizer{Light: NewDirectionalLight(mgl64.Vec3{0, 0, -1}, 1, 0), CullBackFaces: true}
}

// triangleMesh spans screen pixels (25, 75), (75, 75) and (50, 25) of a
// 100x100 buffer seen through testCamera.
func triangleMesh(c color.RGBA, indices ...uint32) *Mesh {
	return &Mesh{
		Positions: []mgl64.Vec3{{-1, -1, -2}, {1, -1, -2}, {0, 1, -2}},
		Indices:   indices,
		Color:     c,
	}
}

func solid(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRasterizeFillsFrontFace(t *testing.T) {
	r := frontLight()
	fb := NewFrameBuffer(100, 100)
	mesh := triangleMesh(color.RGBA{R: 255, G: 255, B: 255, A: 255}, 0, 1, 2)

	require.Equal(t, 1, r.Rasterize(fb, []DrawItem{{Mesh: mesh, World: mgl64.Ident4()}}, testCamera()))
	// Facing the light head on.
	assert.Equal(t, white, fb.At(50, 60))
	assert.Less(t, fb.DepthAt(50, 60), 1.0)
	assert.Equal(t, empty, fb.At(5, 5))
	assert.True(t, math.IsInf(fb.DepthAt(5, 5), 1))
	assert.Equal(t, empty, fb.At(20, 60), "left of the left edge")
}

func TestRasterizeCullsBackFace(t *testing.T) {
	cam := testCamera()
	item := []DrawItem{{Mesh: triangleMesh(color.RGBA{A: 255}, 0, 2, 1), World: mgl64.Ident4()}}

	culling := frontLight()
	fb := NewFrameBuffer(100, 100)
	assert.Zero(t, culling.Rasterize(fb, item, cam))
	assert.True(t, math.IsInf(fb.DepthAt(50, 60), 1))

	twoSided := Rasterizer{Light: NewDirectionalLight(mgl64.Vec3{0, 0, -1}, 1, 0)}
	assert.Equal(t, 1, twoSided.Rasterize(fb, item, cam))
	assert.False(t, math.IsInf(fb.DepthAt(50, 60), 1))
}

func TestRasterizeSkipsTrianglesBehindEye(t *testing.T) {
	r := Rasterizer{Light: NewDirectionalLight(mgl64.Vec3{0, -1, 0}, 1, 0)}
	fb := NewFrameBuffer(100, 100)
	behind := mgl64.Translate3D(0, 0, 4)
	mesh := triangleMesh(color.RGBA{A: 255}, 0, 1, 2)
	assert.Zero(t, r.Rasterize(fb, []DrawItem{{Mesh: mesh, World: behind}}, testCamera()))
}

func TestRasterizeNearestSurfaceWins(t *testing.T) {
	cam := testCamera()
	near := DrawItem{Mesh: triangleMesh(color.RGBA{R: 255, A: 255}, 0, 1, 2), World: mgl64.Ident4()}
	far := DrawItem{Mesh: triangleMesh(color.RGBA{B: 255, A: 255}, 0, 1, 2), World: mgl64.Translate3D(0, 0, -2)}

	for name, items := range map[string][]DrawItem{
		"far first":  {far, near},
		"near first": {near, far},
	} {
		t.Run(name, func(t *testing.T) {
			r := frontLight()
			fb := NewFrameBuffer(100, 100)
			assert.Equal(t, 2, r.Rasterize(fb, items, cam))
			assert.Equal(t, [4]uint8{255, 0, 0, 255}, fb.At(50, 55))
			// Only the larger near triangle reaches this far out.
			assert.Equal(t, [4]uint8{255, 0, 0, 255}, fb.At(30, 72))
		})
	}
}

func TestRasterizeIgnoresOutOfRangeIndices(t *testing.T) {
	r := Rasterizer{}
	fb := NewFrameBuffer(100, 100)
	mesh := triangleMesh(color.RGBA{A: 255}, 0, 1, 7)
	assert.Zero(t, r.Rasterize(fb, []DrawItem{{Mesh: mesh, World: mgl64.Ident4()}}, testCamera()))
}

func TestRasterizeSamplesTexture(t *testing.T) {
	mesh := triangleMesh(color.RGBA{R: 255, G: 255, B: 255, A: 255}, 0, 1, 2)
	mesh.UVs = [][2]float32{{0, 1}, {1, 1}, {0.5, 0}}
	mesh.Texture = solid(color.NRGBA{G: 255, A: 255})
	require.True(t, mesh.Textured())

	r := frontLight()
	fb := NewFrameBuffer(100, 100)
	r.Rasterize(fb, []DrawItem{{Mesh: mesh, World: mgl64.Ident4()}}, testCamera())
	assert.Equal(t, [4]uint8{0, 255, 0, 255}, fb.At(50, 60))

	mesh.Texture = solid(color.NRGBA{G: 255})
	fb.Clear()
	r.Rasterize(fb, []DrawItem{{Mesh: mesh, World: mgl64.Ident4()}}, testCamera())
	assert.Equal(t, empty, fb.At(50, 60), "transparent texels are discarded")
	assert.True(t, math.IsInf(fb.DepthAt(50, 60), 1))
}

func TestSampleTextureFiltersAndWraps(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	tex.SetNRGBA(0, 0, color.NRGBA{A: 255})
	tex.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	assert.Equal(t, [4]uint8{0, 0, 0, 255}, SampleTexture(tex, 0.25, 0.5), "texel center")
	assert.Equal(t, white, SampleTexture(tex, 0.75, 0.5))
	assert.Equal(t, [4]uint8{128, 128, 128, 255}, SampleTexture(tex, 0.5, 0.5))
	assert.Equal(t, SampleTexture(tex, 0.25, 0.5), SampleTexture(tex, 1.25, -0.5), "coordinates wrap")
}

func TestSampleUniformTexture(t *testing.T) {
	c := color.NRGBA{R: 10, G: 200, B: 30, A: 255}
	tex := solid(c)
	rapid.Check(t, func(t *rapid.T) {
		u := rapid.Float64Range(-10, 10).Draw(t, "u")
		v := rapid.Float64Range(-10, 10).Draw(t, "v")
		if got := SampleTexture(tex, u, v); got != [4]uint8{c.R, c.G, c.B, c.A} {
			t.Fatalf("sample(%v, %v) = %v", u, v, got)
		}
	})
}

func TestFrameBufferResize(t *testing.T) {
	fb := NewFrameBuffer(2, 3)
	assert.Len(t, fb.Color, 24)
	assert.Len(t, fb.Depth, 6)
	assert.True(t, math.IsInf(fb.DepthAt(1, 2), 1))

	fb.Color[0] = 9
	fb.Depth[0] = 0.5
	fb.Resize(1, 1)
	assert.Equal(t, empty, fb.At(0, 0), "resizing clears")
	assert.True(t, math.IsInf(fb.DepthAt(0, 0), 1))

	fb.Resize(-4, 5)
	assert.Zero(t, fb.Width)
	assert.Empty(t, fb.Depth)
	assert.Zero(t, (&Rasterizer{}).Rasterize(fb, []DrawItem{{Mesh: triangleMesh(color.RGBA{}, 0, 1, 2)}}, testCamera()))
}

func TestSkinPositionBlendsJoints(t *testing.T) {
	mats := []mgl64.Mat4{mgl64.Translate3D(1, 0, 0), mgl64.Translate3D(0, 2, 0)}
	p := mgl64.Vec3{1, 1, 1}

	got := SkinPosition(p, [4]uint16{0, 1}, [4]float32{0.5, 0.5}, mats)
	assert.InDeltaSlice(t, []float64{1.5, 2, 1}, got[:], 1e-9)

	got = SkinPosition(p, [4]uint16{0, 9}, [4]float32{0.5, 0.5}, mats)
	assert.InDeltaSlice(t, []float64{2, 1, 1}, got[:], 1e-9, "unknown joints are skipped and the rest renormalized")

	assert.Equal(t, p, SkinPosition(p, [4]uint16{}, [4]float32{}, mats))
}

func TestWorldPositions(t *testing.T) {
	mesh := &Mesh{
		Positions: []mgl64.Vec3{{0, 0, 0}},
		Joints:    [][4]uint16{{0}},
		Weights:   [][4]float32{{1}},
	}
	require.True(t, mesh.Skinned())

	rigid := DrawItem{Mesh: mesh, World: mgl64.Translate3D(3, 0, 0)}
	assert.Equal(t, []mgl64.Vec3{{3, 0, 0}}, rigid.WorldPositions(nil), "no joint matrices falls back to World")

	skinned := DrawItem{Mesh: mesh, World: mgl64.Translate3D(3, 0, 0), Joints: []mgl64.Mat4{mgl64.Translate3D(0, 0, 4)}}
	assert.Equal(t, []mgl64.Vec3{{0, 0, 4}}, skinned.WorldPositions(nil), "joints replace World")
}

func TestLightShade(t *testing.T) {
	l := NewDirectionalLight(mgl64.Vec3{0, -2, 0}, 0.8, 0.2)
	assert.InDelta(t, 1.0, l.Shade(mgl64.Vec3{0, 1, 0}, false), 1e-9)
	assert.InDelta(t, 0.2, l.Shade(mgl64.Vec3{0, -1, 0}, false), 1e-9)
	assert.InDelta(t, 1.0, l.Shade(mgl64.Vec3{0, -1, 0}, true), 1e-9)
	assert.Equal(t, mgl64.Vec3{0, -1, 0}, l.Direction())
}

func TestHorizonFollowsPitch(t *testing.T) {
	vp := image.Rect(0, 0, 100, 100)
	level := testCamera()
	assert.InDelta(t, 50.0, HorizonY(level, vp), 1e-9)

	down := testCamera()
	down.SetView(mgl64.LookAtV(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}), mgl64.Vec3{0, 1, 0})
	assert.Less(t, HorizonY(down, vp), 50.0, "looking down raises the horizon")

	sky := Skybox{}
	vs, is := sky.Vertices(down, vp)
	assert.Len(t, vs, 6)
	assert.Len(t, is, 12)
}
