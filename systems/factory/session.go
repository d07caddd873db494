package factory

import (
	"github.com/automoto/avatarview/archetypes"
	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/config"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func CreateSurface(ecs *ecs.ECS) *donburi.Entry {
	return archetypes.Surface.Spawn(ecs)
}

func CreateSession(ecs *ecs.ECS) *donburi.Entry {
	entry := archetypes.Session.Spawn(ecs)
	components.Debug.Set(entry, &components.DebugData{Enabled: config.Debug.Overlay})
	return entry
}

// CreateViewer spawns the entities every viewer world holds: the camera,
// the surface and the render session.
func CreateViewer(ecs *ecs.ECS) {
	CreateCamera(ecs)
	CreateSurface(ecs)
	CreateSession(ecs)
}
