package systems

import (
	"testing"
	"time"

	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticModelRendersEveryFrame(t *testing.T) {
	e := newWorld(t)
	logger, logs := newObservedLogger()
	loaders := NewLoaders(logger)
	_, err := LoadModel(e, loaders, boxGLB(t, [3]float32{0, 1, 0}, [3]float32{0.5, 1, 0.25}, false))
	require.NoError(t, err)

	adapter := NewSurfaceAdapter(e, engine.New(logger), logger)
	adapter.SurfaceAvailable(1000, 500)
	adapter.SurfaceResized(1000, 500)

	link := NewDisplayLink()
	r := &fakeRenderer{}
	s := NewFrameScheduler(e, link, r, logger)
	s.Start()
	for i := 0; i < 3; i++ {
		link.DoFrame(epoch.Add(time.Duration(i) * 16 * time.Millisecond))
	}

	require.Len(t, r.calls, 3)
	for _, c := range r.calls {
		assert.Equal(t, 1, c.items)
	}
	assert.Equal(t, 1, logs.FilterMessage("rendering static pose").Len())
	assert.Equal(t, 1, logs.FilterMessage("model loaded").Len())
}

func TestAnimatedModelMovesBetweenFrames(t *testing.T) {
	e := newWorld(t)
	entry, err := LoadModel(e, NewLoaders(nil), boxGLB(t, [3]float32{}, [3]float32{1, 1, 1}, true))
	require.NoError(t, err)
	bindSurface(e, 10, 10)
	model := components.Model.Get(entry)
	node := model.Asset.Renderables()[0].Node

	link := NewDisplayLink()
	s := NewFrameScheduler(e, link, &fakeRenderer{}, nil)
	s.Start()

	link.DoFrame(epoch)
	atStart := model.Asset.WorldTransform(node)
	link.DoFrame(epoch.Add(500 * time.Millisecond))
	halfTurn := model.Asset.WorldTransform(node)
	link.DoFrame(epoch.Add(1500 * time.Millisecond))
	looped := model.Asset.WorldTransform(node)

	assert.InDelta(t, 1, atStart.At(0, 0), 1e-9)
	assert.InDelta(t, -1, halfTurn.At(0, 0), 1e-9)
	assert.True(t, halfTurn.ApproxEqualThreshold(looped, 1e-9), "time wraps at the track duration")
}
