package engine

import (
	"github.com/automoto/avatarview/logging"
	"go.uber.org/zap"
)

// Engine creates and tracks the objects that must be torn down with it.
type Engine struct {
	logger     *zap.Logger
	swapChains map[*SwapChain]struct{}
	renderers  map[*Renderer]struct{}
	destroyed  bool
}

// New returns an engine. A nil logger disables logging.
func New(logger *zap.Logger) *Engine {
	return &Engine{
		logger:     logging.OrNop(logger).Named("engine"),
		swapChains: make(map[*SwapChain]struct{}),
		renderers:  make(map[*Renderer]struct{}),
	}
}

// CreateSwapChain returns a swap chain for a surface of the given size.
func (e *Engine) CreateSwapChain(width, height int) *SwapChain {
	sc := NewSwapChain(width, height)
	e.swapChains[sc] = struct{}{}
	e.logger.Debug("swap chain created", zap.Int("width", width), zap.Int("height", height))
	return sc
}

// DestroySwapChain destroys sc. Destroying nil or an already destroyed swap
// chain is a no-op.
func (e *Engine) DestroySwapChain(sc *SwapChain) {
	if sc == nil {
		return
	}
	if _, ok := e.swapChains[sc]; ok {
		delete(e.swapChains, sc)
		e.logger.Debug("swap chain destroyed")
	}
	sc.Destroy()
}

// CreateRenderer returns a renderer owned by the engine.
func (e *Engine) CreateRenderer(skybox *Skybox, light DirectionalLight, cullBackFaces bool) *Renderer {
	r := NewRenderer(skybox, light, cullBackFaces)
	e.renderers[r] = struct{}{}
	return r
}

// DestroyRenderer destroys r.
func (e *Engine) DestroyRenderer(r *Renderer) {
	if r == nil {
		return
	}
	delete(e.renderers, r)
	r.Destroy()
}

// Destroy destroys every object still owned by the engine.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	if n := len(e.swapChains); n > 0 {
		e.logger.Warn("destroying engine with live swap chains", zap.Int("count", n))
	}
	for sc := range e.swapChains {
		sc.Destroy()
	}
	for r := range e.renderers {
		r.Destroy()
	}
	e.swapChains = map[*SwapChain]struct{}{}
	e.renderers = map[*Renderer]struct{}{}
}

// LiveSwapChains returns the number of swap chains not yet destroyed.
func (e *Engine) LiveSwapChains() int {
	return len(e.swapChains)
}
