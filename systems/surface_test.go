package systems

import (
	"image"
	"testing"

	"github.com/automoto/avatarview/camera"
	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/config"
	"github.com/automoto/avatarview/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurfaceResizedUpdatesProjectionAndViewport(t *testing.T) {
	e := newWorld(t)
	a := NewSurfaceAdapter(e, engine.New(nil), nil)

	a.SurfaceAvailable(1000, 500)
	a.SurfaceResized(1000, 500)

	entry, ok := components.Camera.First(e.World)
	require.True(t, ok)
	cam := components.Camera.Get(entry)
	assert.Equal(t, 2.0, cam.View.Camera.Aspect())
	assert.Equal(t, image.Rect(0, 0, 1000, 500), cam.View.Viewport)

	want := camera.ProjectionFromConfig(config.Camera).Matrix(2)
	assert.True(t, want.ApproxEqual(cam.View.Camera.Projection()))

	w, h := a.Size()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 500, h)
}

func TestSurfaceAvailableReplacesTarget(t *testing.T) {
	e := newWorld(t)
	eng := engine.New(nil)
	a := NewSurfaceAdapter(e, eng, nil)

	a.SurfaceAvailable(10, 10)
	entry, _ := components.Surface.First(e.World)
	first := components.Surface.Get(entry).SwapChain

	a.SurfaceAvailable(20, 20)
	second := components.Surface.Get(entry).SwapChain

	assert.True(t, first.Destroyed())
	assert.False(t, second.Destroyed())
	assert.Equal(t, 1, eng.LiveSwapChains())
	assert.True(t, a.Bound())
}

func TestSurfaceDestroyedReleasesTarget(t *testing.T) {
	e := newWorld(t)
	eng := engine.New(nil)
	a := NewSurfaceAdapter(e, eng, nil)

	a.SurfaceDestroyed()
	assert.False(t, a.Bound())

	a.SurfaceAvailable(10, 10)
	a.SurfaceDestroyed()
	a.SurfaceDestroyed()

	assert.False(t, a.Bound())
	assert.Zero(t, eng.LiveSwapChains())
}

func TestFramesSkipWhileSurfaceIsGone(t *testing.T) {
	e := newWorld(t)
	a := NewSurfaceAdapter(e, engine.New(nil), nil)
	link := NewDisplayLink()
	r := &fakeRenderer{}
	s := NewFrameScheduler(e, link, r, nil)

	a.SurfaceAvailable(10, 10)
	s.Start()
	link.DoFrame(epoch)
	a.SurfaceDestroyed()
	link.DoFrame(epoch)
	link.DoFrame(epoch)

	assert.Len(t, r.calls, 1)
	assert.True(t, s.Running())

	a.SurfaceAvailable(10, 10)
	link.DoFrame(epoch)
	assert.Len(t, r.calls, 2)
}

func TestResizeKeepsTargetBound(t *testing.T) {
	e := newWorld(t)
	a := NewSurfaceAdapter(e, engine.New(nil), nil)
	a.SurfaceAvailable(10, 10)

	a.SurfaceResized(30, 40)

	entry, _ := components.Surface.First(e.World)
	sc, ok := components.Surface.Get(entry).Target()
	require.True(t, ok)
	w, h := sc.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 40, h)
}
