package systems

import (
	"github.com/automoto/avatarview/camera"
	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/engine"
	"github.com/automoto/avatarview/logging"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

// SwapChainFactory creates and destroys render targets.
type SwapChainFactory interface {
	CreateSwapChain(width, height int) *engine.SwapChain
	DestroySwapChain(sc *engine.SwapChain)
}

// SurfaceAdapter maps drawable surface lifecycle events onto the render
// target and the camera projection.
type SurfaceAdapter struct {
	ecs     *ecs.ECS
	factory SwapChainFactory
	logger  *zap.Logger
}

func NewSurfaceAdapter(e *ecs.ECS, factory SwapChainFactory, logger *zap.Logger) *SurfaceAdapter {
	return &SurfaceAdapter{
		ecs:     e,
		factory: factory,
		logger:  logging.OrNop(logger).Named("surface"),
	}
}

// SurfaceAvailable binds a new render target of the given size, replacing
// the previous one.
func (a *SurfaceAdapter) SurfaceAvailable(width, height int) {
	surface, ok := a.surface()
	if !ok {
		return
	}
	if surface.SwapChain != nil {
		a.factory.DestroySwapChain(surface.SwapChain)
	}
	surface.SwapChain = a.factory.CreateSwapChain(width, height)
	surface.Width, surface.Height = width, height
	a.logger.Debug("surface available", zap.Int("width", width), zap.Int("height", height))
}

// SurfaceDestroyed releases the render target. Frames are skipped until a
// new surface is available.
func (a *SurfaceAdapter) SurfaceDestroyed() {
	surface, ok := a.surface()
	if !ok || surface.SwapChain == nil {
		return
	}
	a.factory.DestroySwapChain(surface.SwapChain)
	surface.SwapChain = nil
	a.logger.Debug("surface destroyed")
}

// SurfaceResized recomputes the projection for the new aspect ratio and
// sets the viewport to cover the whole surface.
func (a *SurfaceAdapter) SurfaceResized(width, height int) {
	if surface, ok := a.surface(); ok {
		surface.Width, surface.Height = width, height
		if surface.SwapChain != nil {
			surface.SwapChain.Resize(width, height)
		}
	}

	entry, ok := components.Camera.First(a.ecs.World)
	if !ok {
		return
	}
	cam := components.Camera.Get(entry)
	aspect := camera.AspectRatio(width, height)
	cam.View.Camera.SetProjection(cam.Projection.Matrix(aspect), aspect)
	cam.View.SetViewport(camera.Viewport(width, height))
	a.logger.Debug("surface resized", zap.Int("width", width), zap.Int("height", height), zap.Float64("aspect", aspect))
}

// Bound reports whether a render target is currently bound.
func (a *SurfaceAdapter) Bound() bool {
	surface, ok := a.surface()
	if !ok {
		return false
	}
	_, ok = surface.Target()
	return ok
}

// Size returns the last reported surface size.
func (a *SurfaceAdapter) Size() (int, int) {
	surface, ok := a.surface()
	if !ok {
		return 0, 0
	}
	return surface.Width, surface.Height
}

func (a *SurfaceAdapter) surface() (*components.SurfaceData, bool) {
	entry, ok := components.Surface.First(a.ecs.World)
	if !ok {
		return nil, false
	}
	return components.Surface.Get(entry), true
}
