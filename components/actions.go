package components

import (
	cfg "github.com/automoto/avatarview/config"
	"github.com/yohamta/donburi"
)

// ActionState describes one action for the current frame.
type ActionState struct {
	Pressed      bool
	JustPressed  bool
	JustReleased bool
}

// ActionsData holds polled keyboard and gamepad state. Stick is the left
// analog stick after the deadzone, in [-1, 1] per axis.
type ActionsData struct {
	Current  [cfg.ActionCount]bool
	Previous [cfg.ActionCount]bool
	Stick    [2]float64
}

var Actions = donburi.NewComponentType[ActionsData]()
