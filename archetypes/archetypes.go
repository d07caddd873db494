package archetypes

import (
	"github.com/automoto/avatarview/components"
	cfg "github.com/automoto/avatarview/config"
	"github.com/automoto/avatarview/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Camera = newArchetype(
		tags.Camera,
		components.Camera,
		components.Gesture,
		components.Actions,
	)
	Surface = newArchetype(
		tags.Surface,
		components.Surface,
	)
	Session = newArchetype(
		tags.Session,
		components.AnimationClock,
		components.Debug,
	)
	Model = newArchetype(
		tags.Model,
		components.Model,
	)
	MeshNode = newArchetype(
		tags.MeshNode,
		components.MeshNode,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}
