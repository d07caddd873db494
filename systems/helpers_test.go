package systems

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/automoto/avatarview/archetypes"
	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/config"
	"github.com/automoto/avatarview/engine"
	"github.com/automoto/avatarview/internal/glbgen"
	"github.com/automoto/avatarview/systems/factory"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newWorld(t *testing.T) *ecs.ECS {
	t.Helper()
	config.Reset()
	t.Cleanup(config.Reset)
	e := ecs.NewECS(donburi.NewWorld())
	factory.CreateViewer(e)
	return e
}

func bindSurface(e *ecs.ECS, width, height int) *engine.SwapChain {
	entry, _ := components.Surface.First(e.World)
	surface := components.Surface.Get(entry)
	surface.SwapChain = engine.NewSwapChain(width, height)
	surface.Width, surface.Height = width, height
	return surface.SwapChain
}

func boxGLB(t *testing.T, center, half [3]float32, animated bool) []byte {
	t.Helper()
	data, err := glbgen.Box(center, half, animated)
	require.NoError(t, err)
	return data
}

func spawnModel(e *ecs.ECS, animator components.Animator) *components.ModelData {
	entry := archetypes.Model.Spawn(e)
	model := components.Model.Get(entry)
	model.Animator = animator
	return model
}

type renderCall struct {
	target *engine.SwapChain
	items  int
}

type fakeRenderer struct {
	calls  []renderCall
	clears int
	begin  *engine.SwapChain
	reject bool
}

func (r *fakeRenderer) BeginFrame(sc *engine.SwapChain) bool {
	if r.reject {
		return false
	}
	r.begin = sc
	return true
}

func (r *fakeRenderer) Clear(color.Color) { r.clears++ }

func (r *fakeRenderer) Render(_ *engine.View, items []engine.DrawItem) {
	r.calls = append(r.calls, renderCall{target: r.begin, items: len(items)})
}

func (r *fakeRenderer) EndFrame() { r.begin = nil }

type fakeAnimator struct {
	count    int
	duration float64
	err      error
	panics   bool
	applied  []float64
}

func (a *fakeAnimator) AnimationCount() int           { return a.count }
func (a *fakeAnimator) AnimationDuration(int) float64 { return a.duration }

func (a *fakeAnimator) ApplyAnimation(_ int, seconds float64) error {
	if a.panics {
		panic("bad joint")
	}
	a.applied = append(a.applied, seconds)
	return a.err
}

var errBroken = errors.New("broken sampler")

// ticker wraps a FrameCallback so tests can run code inside a display
// refresh before other callbacks fire.
type ticker func(now time.Time)

func (f ticker) DoFrame(now time.Time) { f(now) }
