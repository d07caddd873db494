package systems

import (
	"image/color"
	"time"

	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/config"
	"github.com/automoto/avatarview/engine"
	"github.com/automoto/avatarview/logging"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

// FrameRenderer is the part of engine.Renderer the scheduler drives.
type FrameRenderer interface {
	BeginFrame(sc *engine.SwapChain) bool
	Clear(c color.Color)
	Render(view *engine.View, items []engine.DrawItem)
	EndFrame()
}

// FrameScheduler advances the animation and renders one frame per display
// refresh while running. All methods must be called from the goroutine that
// delivers frame callbacks.
type FrameScheduler struct {
	ecs      *ecs.ECS
	link     Choreographer
	renderer FrameRenderer
	logger   *zap.Logger

	running bool
	ticket  *frameTicket // Registration waiting for the next refresh
	frames  uint64
	items   []engine.DrawItem
}

func NewFrameScheduler(e *ecs.ECS, link Choreographer, renderer FrameRenderer, logger *zap.Logger) *FrameScheduler {
	return &FrameScheduler{
		ecs:      e,
		link:     link,
		renderer: renderer,
		logger:   logging.OrNop(logger).Named("scheduler"),
	}
}

// Start begins rendering on the next display refresh. The animation clock
// restarts so playback begins from zero. Starting a running scheduler does
// nothing.
func (s *FrameScheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	if clock, ok := animationClock(s.ecs); ok {
		clock.Reset()
	}
	s.arm()
	s.logger.Debug("started")
}

// Stop cancels the pending frame. Stopping a stopped scheduler does nothing.
func (s *FrameScheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	if s.ticket != nil {
		s.link.RemoveFrameCallback(s.ticket)
		s.ticket = nil
	}
	s.logger.Debug("stopped", zap.Uint64("frames", s.frames))
}

func (s *FrameScheduler) Running() bool {
	return s.running
}

// Frames returns the number of frames rendered since creation.
func (s *FrameScheduler) Frames() uint64 {
	return s.frames
}

func (s *FrameScheduler) arm() {
	s.ticket = &frameTicket{scheduler: s}
	s.link.PostFrameCallback(s.ticket)
}

func (s *FrameScheduler) tick(now time.Time) {
	s.arm()

	target, ok := renderTarget(s.ecs)
	if !ok {
		return
	}

	var elapsed float64
	if clock, ok := animationClock(s.ecs); ok {
		elapsed = clock.Tick(now)
	}
	AdvanceAnimation(s.ecs, elapsed, s.logger)

	s.items = RenderFrame(s.ecs, s.renderer, target, config.Render.ClearColor, s.items)
	s.frames++
}

// frameTicket is one registration with the Choreographer. Only the most
// recently armed ticket may tick, so a callback that was already being
// delivered when Stop ran does nothing.
type frameTicket struct {
	scheduler *FrameScheduler
}

func (t *frameTicket) DoFrame(now time.Time) {
	s := t.scheduler
	if !s.running || s.ticket != t {
		return
	}
	s.tick(now)
}

func animationClock(e *ecs.ECS) (*components.AnimationClockData, bool) {
	entry, ok := components.AnimationClock.First(e.World)
	if !ok {
		return nil, false
	}
	return components.AnimationClock.Get(entry), true
}

func renderTarget(e *ecs.ECS) (*engine.SwapChain, bool) {
	entry, ok := components.Surface.First(e.World)
	if !ok {
		return nil, false
	}
	return components.Surface.Get(entry).Target()
}
