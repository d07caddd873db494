package components

import (
	"github.com/automoto/avatarview/camera"
	"github.com/automoto/avatarview/engine"
	"github.com/yohamta/donburi"
)

type CameraData struct {
	Orbit      *camera.Orbit
	Projection camera.Projection
	View       *engine.View
}

var Camera = donburi.NewComponentType[CameraData]()
