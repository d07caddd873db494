package factory

import (
	"github.com/automoto/avatarview/archetypes"
	"github.com/automoto/avatarview/camera"
	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/config"
	"github.com/automoto/avatarview/engine"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func CreateCamera(ecs *ecs.ECS) *donburi.Entry {
	entry := archetypes.Camera.Spawn(ecs)
	components.Camera.Set(entry, &components.CameraData{
		Orbit:      camera.NewOrbit(config.Camera),
		Projection: camera.ProjectionFromConfig(config.Camera),
		View:       engine.NewView(),
	})
	return entry
}
