package components

import (
	"github.com/automoto/avatarview/engine/gltfio"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// Animator plays the animation tracks of a loaded model.
type Animator interface {
	AnimationCount() int
	AnimationDuration(i int) float64
	ApplyAnimation(i int, seconds float64) error
}

type ModelData struct {
	Asset *gltfio.Asset
	// Nil when the asset exposed no animator.
	Animator Animator
	// Mesh node entities registered for the asset.
	Nodes []donburi.Entity
	// Transform written to the asset root after normalization.
	Normalization mgl64.Mat4
	// Set once the missing animation has been reported for this asset.
	NoAnimationReported bool
}

type MeshNodeData struct {
	Asset      *gltfio.Asset
	Renderable gltfio.Renderable
}

var Model = donburi.NewComponentType[ModelData]()
var MeshNode = donburi.NewComponentType[MeshNodeData]()
