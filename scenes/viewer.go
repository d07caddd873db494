package scenes

import (
	"sync"
	"time"

	"github.com/automoto/avatarview/components"
	cfg "github.com/automoto/avatarview/config"
	"github.com/automoto/avatarview/engine"
	"github.com/automoto/avatarview/fonts"
	"github.com/automoto/avatarview/logging"
	"github.com/automoto/avatarview/systems"
	"github.com/automoto/avatarview/systems/factory"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

// ViewerScene shows one model under the orbit camera. It owns the engine
// objects and tears them down in Close.
type ViewerScene struct {
	ecs       *ecs.ECS
	engine    *engine.Engine
	renderer  *engine.Renderer
	link      *systems.DisplayLink
	scheduler *systems.FrameScheduler
	surface   *systems.SurfaceAdapter
	loaders   systems.Loaders

	model  []byte
	logger *zap.Logger
	once   sync.Once

	width, height int
	paused        bool
	closed        bool
}

// NewViewerScene creates a scene that loads model on first use.
func NewViewerScene(model []byte, logger *zap.Logger) *ViewerScene {
	return &ViewerScene{
		model:  model,
		logger: logging.OrNop(logger),
	}
}

func (vs *ViewerScene) Update() {
	vs.once.Do(vs.configure)
	if vs.closed {
		return
	}

	focused := ebiten.IsFocused()
	switch {
	case !focused && !vs.paused:
		vs.Pause()
	case focused && vs.paused:
		vs.Resume()
	}
	if vs.paused {
		return
	}
	vs.ecs.Update()
}

// Draw delivers the display refresh to the scheduler, then shows the render
// target and the overlay.
func (vs *ViewerScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.Render.ClearColor)
	if vs.ecs == nil || vs.closed {
		return
	}
	vs.link.DoFrame(time.Now())

	if entry, ok := components.Surface.First(vs.ecs.World); ok {
		if target, ok := components.Surface.Get(entry).Target(); ok {
			target.Present(screen)
		}
	}
	vs.ecs.Draw(screen)
}

// Layout reports the drawable size. A zero size means the surface is gone.
func (vs *ViewerScene) Layout(width, height int) {
	vs.once.Do(vs.configure)
	if vs.closed {
		return
	}
	vs.width, vs.height = width, height
	if vs.paused {
		return
	}
	if width <= 0 || height <= 0 {
		vs.surface.SurfaceDestroyed()
		return
	}
	if !vs.surface.Bound() {
		vs.surface.SurfaceAvailable(width, height)
		vs.surface.SurfaceResized(width, height)
		return
	}
	if w, h := vs.surface.Size(); w != width || h != height {
		vs.surface.SurfaceResized(width, height)
	}
}

// Pause stops rendering and releases the surface.
func (vs *ViewerScene) Pause() {
	if vs.paused || vs.closed {
		return
	}
	vs.paused = true
	vs.scheduler.Stop()
	vs.surface.SurfaceDestroyed()
	vs.logger.Info("paused")
}

// Resume rebinds the surface and restarts rendering. The camera keeps its
// state; the animation starts over.
func (vs *ViewerScene) Resume() {
	if !vs.paused || vs.closed {
		return
	}
	vs.paused = false
	if vs.width > 0 && vs.height > 0 {
		vs.surface.SurfaceAvailable(vs.width, vs.height)
		vs.surface.SurfaceResized(vs.width, vs.height)
	}
	vs.scheduler.Start()
	vs.logger.Info("resumed")
}

// Close tears the scene down: rendering stops, the model leaves the world
// and is destroyed, then the render target and the engine go. Calling it
// again does nothing.
func (vs *ViewerScene) Close() {
	vs.once.Do(func() {})
	if vs.closed {
		return
	}
	vs.closed = true
	if vs.ecs == nil {
		return
	}
	vs.scheduler.Stop()
	systems.UnloadModel(vs.ecs)
	vs.surface.SurfaceDestroyed()
	vs.engine.DestroyRenderer(vs.renderer)
	vs.engine.Destroy()
	vs.logger.Info("closed")
}

func (vs *ViewerScene) configure() {
	if err := fonts.LoadDefaults(); err != nil {
		vs.logger.Warn("overlay fonts unavailable", zap.Error(err))
		cfg.Debug.Overlay = false
	}

	ecs := ecs.NewECS(donburi.NewWorld())

	ecs.AddSystem(systems.UpdateGestures)
	ecs.AddSystem(systems.UpdateInput)
	vs.loaders = systems.NewLoaders(vs.logger.Named("loader"))
	ecs.AddSystem(systems.NewDroppedFileLoader(vs.loaders))

	ecs.AddRenderer(cfg.Default, systems.DrawDebug)

	vs.ecs = ecs
	factory.CreateViewer(vs.ecs)

	vs.engine = engine.New(vs.logger)
	vs.renderer = vs.engine.CreateRenderer(
		&engine.Skybox{
			Top:     cfg.Render.SkyTopColor,
			Horizon: cfg.Render.SkyHorizon,
			Ground:  cfg.Render.SkyGround,
		},
		engine.NewDirectionalLight(mgl64.Vec3(cfg.Light.Direction), cfg.Light.Intensity, cfg.Light.Ambient),
		cfg.Render.CullBackFaces,
	)
	vs.link = systems.NewDisplayLink()
	vs.scheduler = systems.NewFrameScheduler(vs.ecs, vs.link, vs.renderer, vs.logger)
	vs.surface = systems.NewSurfaceAdapter(vs.ecs, vs.engine, vs.logger)

	if _, err := systems.LoadModel(vs.ecs, vs.loaders, vs.model); err != nil {
		vs.logger.Error("model not loaded", zap.Error(err))
	}
	vs.model = nil

	vs.scheduler.Start()
}
