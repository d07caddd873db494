package gltfio

import (
	"image/color"
	"math"
	"testing"

	"github.com/automoto/avatarview/internal/glbgen"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gray = color.RGBA{R: 10, G: 20, B: 30, A: 255}

func loadBox(t *testing.T, center, half [3]float32, animated bool) *Asset {
	t.Helper()
	data, err := glbgen.Box(center, half, animated)
	require.NoError(t, err)

	a, err := NewAssetLoader(nil).CreateAsset(data)
	require.NoError(t, err)
	require.NoError(t, NewResourceLoader(gray, nil).LoadResources(a))
	return a
}

func TestCreateAssetRejectsGarbage(t *testing.T) {
	loader := NewAssetLoader(nil)

	_, err := loader.CreateAsset(nil)
	assert.Error(t, err)

	_, err = loader.CreateAsset([]byte("definitely not a glb"))
	assert.Error(t, err)
}

func TestLoadResourcesReadsGeometry(t *testing.T) {
	a := loadBox(t, [3]float32{1, 2, 3}, [3]float32{1, 1, 1}, false)

	require.Len(t, a.Renderables(), 1)
	mesh := a.Renderables()[0].Mesh
	assert.Len(t, mesh.Positions, 8)
	assert.Equal(t, 12, mesh.Triangles())
	assert.Equal(t, color.RGBA{R: 204, G: 204, B: 204, A: 255}, mesh.Color)

	box := a.BoundingBox()
	require.False(t, box.Empty())
	assert.InDelta(t, 1.0, box.Center().X(), 1e-6)
	assert.InDelta(t, 2.0, box.Center().Y(), 1e-6)
	assert.InDelta(t, 3.0, box.Center().Z(), 1e-6)
	assert.InDelta(t, 2.0, box.Size().X(), 1e-6)
}

func TestLoadResourcesAfterReleaseFails(t *testing.T) {
	data, err := glbgen.Box([3]float32{}, [3]float32{1, 1, 1}, false)
	require.NoError(t, err)
	a, err := NewAssetLoader(nil).CreateAsset(data)
	require.NoError(t, err)

	a.ReleaseSourceData()
	assert.ErrorIs(t, NewResourceLoader(gray, nil).LoadResources(a), ErrSourceReleased)
	assert.False(t, a.ResourcesLoaded())
	_, ok := a.Animator()
	assert.False(t, ok)
}

func TestRootTransformMovesWorld(t *testing.T) {
	a := loadBox(t, [3]float32{}, [3]float32{1, 1, 1}, false)
	a.SetRootTransform(mgl64.Translate3D(5, 0, 0))

	w := a.WorldTransform(a.Renderables()[0].Node)
	assert.InDelta(t, 5.0, w.Col(3).X(), 1e-9)
	assert.InDelta(t, 0.0, a.BoundingBox().Center().X(), 1e-6, "bounds ignore the root transform")
}

func TestAnimatorWithoutTracks(t *testing.T) {
	a := loadBox(t, [3]float32{}, [3]float32{1, 1, 1}, false)
	anim, ok := a.Animator()
	require.True(t, ok)
	assert.Equal(t, 0, anim.AnimationCount())
	assert.ErrorIs(t, anim.ApplyAnimation(0, 0), ErrNoSuchAnimation)
}

func TestApplyAnimationRotatesNode(t *testing.T) {
	a := loadBox(t, [3]float32{}, [3]float32{1, 1, 1}, true)
	anim, ok := a.Animator()
	require.True(t, ok)
	require.Equal(t, 1, anim.AnimationCount())
	assert.Equal(t, "spin", anim.AnimationName(0))
	assert.InDelta(t, 1.0, anim.AnimationDuration(0), 1e-6)

	node := a.Renderables()[0].Node

	require.NoError(t, anim.ApplyAnimation(0, 0.5))
	w := a.WorldTransform(node)
	// Half a turn about Y maps +X to -X.
	x := w.Mul4x1(mgl64.Vec4{1, 0, 0, 1})
	assert.InDelta(t, -1.0, x.X(), 1e-6)

	require.NoError(t, anim.ApplyAnimation(0, 0.25))
	x = a.WorldTransform(node).Mul4x1(mgl64.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0.0, x.X(), 1e-6, "quarter turn")

	assert.Error(t, anim.ApplyAnimation(0, math.NaN()))
}

func TestDestroyedAssetHasNoAnimator(t *testing.T) {
	a := loadBox(t, [3]float32{}, [3]float32{1, 1, 1}, true)
	anim, ok := a.Animator()
	require.True(t, ok)

	a.Destroy()
	assert.True(t, a.Destroyed())
	assert.Equal(t, 0, anim.AnimationCount())
	assert.Error(t, anim.ApplyAnimation(0, 0))
	_, ok = a.Animator()
	assert.False(t, ok)
}

func TestChannelSampling(t *testing.T) {
	c := channel{
		path:   pathTranslation,
		times:  []float64{0, 1, 3},
		values: [][4]float64{{0}, {10}, {30}},
	}
	assert.Equal(t, 0.0, c.sample(-1)[0])
	assert.Equal(t, 5.0, c.sample(0.5)[0])
	assert.Equal(t, 10.0, c.sample(1)[0])
	assert.Equal(t, 20.0, c.sample(2)[0])
	assert.Equal(t, 30.0, c.sample(99)[0])

	c.interpolation = interpolateStep
	assert.Equal(t, 10.0, c.sample(2.9)[0])
}

func TestCubicSplineHitsKeys(t *testing.T) {
	c := channel{
		path:          pathTranslation,
		interpolation: interpolateCubic,
		times:         []float64{0, 1},
		values:        [][4]float64{{0}, {2}, {0}, {0}, {4}, {0}},
	}
	assert.Equal(t, 2.0, c.sample(0)[0])
	assert.Equal(t, 4.0, c.sample(1)[0])
	assert.InDelta(t, 3.0, c.sample(0.5)[0], 1e-9)
}

func TestAABB(t *testing.T) {
	var empty AABB
	assert.True(t, empty.Empty())
	assert.Equal(t, mgl64.Vec3{}, empty.Size())

	box := AABBFromCenter(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 1, 1})
	assert.Equal(t, mgl64.Vec3{2, 2, 2}, box.Size())
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, box.Center())
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, box.HalfExtent())

	grown := box.Extend(mgl64.Vec3{-1, 0, 0})
	assert.Equal(t, mgl64.Vec3{-1, 0, 0}, grown.Min)
	assert.Equal(t, mgl64.Vec3{2, 3, 4}, grown.Max)
	assert.Equal(t, mgl64.Vec3{5, 5, 5}, empty.Extend(mgl64.Vec3{5, 5, 5}).Center())
}
