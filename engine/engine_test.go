package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestEngineTracksSwapChains(t *testing.T) {
	e := New(nil)
	a := e.CreateSwapChain(640, 480)
	b := e.CreateSwapChain(320, 240)
	assert.Equal(t, 2, e.LiveSwapChains())

	w, h := a.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	e.DestroySwapChain(a)
	e.DestroySwapChain(a)
	e.DestroySwapChain(nil)
	assert.True(t, a.Destroyed())
	assert.Equal(t, 1, e.LiveSwapChains())

	e.Destroy()
	assert.True(t, b.Destroyed())
	assert.Equal(t, 0, e.LiveSwapChains())
}

func TestRendererRejectsMissingTarget(t *testing.T) {
	e := New(nil)
	r := e.CreateRenderer(nil, NewDirectionalLight(mgl64.Vec3{}, 1, 0), true)
	assert.False(t, r.BeginFrame(nil))

	sc := e.CreateSwapChain(10, 10)
	e.DestroySwapChain(sc)
	assert.False(t, r.BeginFrame(sc))
	assert.Nil(t, sc.Image())

	e.DestroyRenderer(r)
	assert.False(t, r.BeginFrame(e.CreateSwapChain(1, 1)))
	assert.Zero(t, r.Frames())
}

func TestCameraForward(t *testing.T) {
	c := NewCamera()
	c.SetView(mgl64.LookAtV(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}), mgl64.Vec3{0, 0, 5})
	f := c.Forward()
	assert.InDelta(t, -1.0, f.Z(), 1e-9)
	assert.InDelta(t, 0.0, f.X(), 1e-9)
}

func TestSwapChainResize(t *testing.T) {
	sc := NewSwapChain(10, 20)
	sc.Resize(30, 40)
	w, h := sc.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 40, h)

	sc.Destroy()
	sc.Resize(1, 1)
	w, _ = sc.Size()
	assert.Equal(t, 30, w, "destroyed swap chains keep their last size")
}
