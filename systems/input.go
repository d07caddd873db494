package systems

import (
	"math"

	"github.com/automoto/avatarview/camera"
	"github.com/automoto/avatarview/components"
	cfg "github.com/automoto/avatarview/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi/ecs"
)

// Reusable slice for gamepad IDs to avoid allocations
var gamepadIDs []ebiten.GamepadID

// UpdateInput polls keyboard and gamepads and drives the camera with the
// bound actions. Touch and mouse are handled by UpdateGestures.
func UpdateInput(e *ecs.ECS) {
	entry, ok := components.Actions.First(e.World)
	if !ok {
		return
	}
	actions := components.Actions.Get(entry)
	pollActions(actions)

	cam := components.Camera.Get(entry)
	var debug *components.DebugData
	if debugEntry, ok := components.Debug.First(e.World); ok {
		debug = components.Debug.Get(debugEntry)
	}

	// Debug: Backspace dismisses the last load diagnostic
	if debug != nil && inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		debug.Message = ""
	}

	ApplyActions(actions, cam.Orbit, debug, 1/float64(ebiten.TPS()), cfg.Input)
}

// GetAction returns the full ActionState for an action ID.
// JustPressed/JustReleased are derived from current vs previous frame.
func GetAction(actions *components.ActionsData, id cfg.ActionID) components.ActionState {
	curr := actions.Current[id]
	prev := actions.Previous[id]
	return components.ActionState{
		Pressed:      curr,
		JustPressed:  curr && !prev,
		JustReleased: !curr && prev,
	}
}

// ApplyActions moves the camera for one frame of dt seconds.
func ApplyActions(actions *components.ActionsData, orbit *camera.Orbit, debug *components.DebugData, dt float64, input cfg.InputConfig) {
	if GetAction(actions, cfg.ActionResetCamera).JustPressed {
		orbit.Reset()
	}
	if debug != nil && GetAction(actions, cfg.ActionToggleOverlay).JustPressed {
		debug.Enabled = !debug.Enabled
	}

	dx, dy := actions.Stick[0], actions.Stick[1]
	if actions.Current[cfg.ActionOrbitLeft] {
		dx--
	}
	if actions.Current[cfg.ActionOrbitRight] {
		dx++
	}
	if actions.Current[cfg.ActionOrbitUp] {
		dy--
	}
	if actions.Current[cfg.ActionOrbitDown] {
		dy++
	}
	if dx != 0 || dy != 0 {
		step := input.OrbitPixelsPerSecond * dt
		orbit.ApplyDrag(dx*step, dy*step)
	}

	zoom := 0.0
	if actions.Current[cfg.ActionZoomIn] {
		zoom++
	}
	if actions.Current[cfg.ActionZoomOut] {
		zoom--
	}
	if zoom != 0 {
		orbit.ApplyZoom(math.Pow(input.ZoomPerSecond, zoom*dt))
	}
}

func pollActions(actions *components.ActionsData) {
	// Swap buffers: current becomes previous, then zero out current
	actions.Previous = actions.Current
	actions.Current = [cfg.ActionCount]bool{}
	actions.Stick = [2]float64{}

	gamepadIDs = ebiten.AppendGamepadIDs(gamepadIDs[:0])

	for actionID, binding := range cfg.Input.Bindings {
		for _, key := range binding.Keys {
			if ebiten.IsKeyPressed(key) {
				actions.Current[actionID] = true
			}
		}
		for _, gpID := range gamepadIDs {
			if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
				continue
			}
			for _, btn := range binding.StandardGamepadButtons {
				if ebiten.IsStandardGamepadButtonPressed(gpID, btn) {
					actions.Current[actionID] = true
				}
			}
		}
	}

	actions.Stick = analogStick(gamepadIDs, cfg.Input.AnalogDeadzone)
}

// analogStick reads the left analog stick of the first gamepad pushed past
// the deadzone.
func analogStick(gamepads []ebiten.GamepadID, deadzone float64) [2]float64 {
	for _, gpID := range gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
			continue
		}
		horizontal := ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisLeftStickHorizontal)
		vertical := ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Abs(horizontal) > deadzone || math.Abs(vertical) > deadzone {
			return [2]float64{horizontal, vertical}
		}
	}
	return [2]float64{}
}
