package systems

import (
	"fmt"

	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/config"
	"github.com/automoto/avatarview/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

const (
	debugPadding    = 8
	debugLineHeight = 16
)

// DrawDebug overlays frame rate, camera state and the animation clock. It
// draws nothing while the overlay fonts are missing.
func DrawDebug(e *ecs.ECS, screen *ebiten.Image) {
	if !fonts.Loaded(fonts.Regular) || !fonts.Loaded(fonts.Mono) {
		return
	}
	sessionEntry, ok := components.Debug.First(e.World)
	if !ok {
		return
	}
	debug := components.Debug.Get(sessionEntry)
	if !debug.Enabled {
		return
	}

	lines := DebugLines(e, ebiten.ActualFPS())
	rows := len(lines)
	if debug.Message != "" {
		rows++
	}

	w := float32(screen.Bounds().Dx())
	h := float32(debugPadding*2 + debugLineHeight*rows)
	vector.FillRect(screen, 0, 0, w, h, config.Overlay, false)

	mono := fonts.Mono.Get()
	for i, line := range lines {
		text.Draw(screen, line, mono, debugPadding, debugBaseline(i), config.White)
	}
	if debug.Message != "" {
		text.Draw(screen, debug.Message, fonts.Regular.Get(), debugPadding, debugBaseline(len(lines)), config.LightGray)
	}
}

func debugBaseline(row int) int {
	return debugPadding + debugLineHeight*(row+1) - 4
}

// DebugLines formats the overlay text.
func DebugLines(e *ecs.ECS, fps float64) []string {
	lines := []string{fmt.Sprintf("FPS %.1f", fps)}

	if entry, ok := components.Camera.First(e.World); ok {
		s := components.Camera.Get(entry).Orbit.State()
		lines = append(lines,
			fmt.Sprintf("yaw %.1f  pitch %.1f  distance %.2f", s.Yaw, s.Pitch, s.Distance),
			fmt.Sprintf("pan %.2f, %.2f", s.PanX, s.PanY),
		)
	}
	if clock, ok := animationClock(e); ok {
		lines = append(lines, fmt.Sprintf("animation %.2fs", clock.Elapsed))
	}
	if entry, ok := components.Model.First(e.World); ok {
		model := components.Model.Get(entry)
		if model.Asset != nil {
			lines = append(lines, fmt.Sprintf("model %q  nodes %d", model.Asset.Name(), len(model.Nodes)))
		}
	}
	return lines
}
