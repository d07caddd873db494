package gltfio

import (
	"github.com/automoto/avatarview/engine"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
)

// Renderable is one triangle primitive attached to a node. Skin is -1 for
// rigid primitives.
type Renderable struct {
	Node int
	Skin int
	Mesh *engine.Mesh
}

type skin struct {
	joints      []int
	inverseBind []mgl64.Mat4
	matrices    []mgl64.Mat4 // Joint world times inverse bind, refreshed with the pose
}

type node struct {
	parent   int
	children []int
	mesh     int
	skin     int

	translation mgl64.Vec3
	rotation    mgl64.Quat
	scale       mgl64.Vec3
	matrix      *mgl64.Mat4 // Set for nodes that carry a matrix instead of TRS

	world mgl64.Mat4
}

func (n *node) local() mgl64.Mat4 {
	if n.matrix != nil {
		return *n.matrix
	}
	t := mgl64.Translate3D(n.translation.X(), n.translation.Y(), n.translation.Z())
	r := n.rotation.Normalize().Mat4()
	s := mgl64.Scale3D(n.scale.X(), n.scale.Y(), n.scale.Z())
	return t.Mul4(r).Mul4(s)
}

// Asset is a decoded glTF scene. Its root transform is applied above every
// scene root, so the whole model can be moved and scaled as one.
type Asset struct {
	name  string
	doc   *gltf.Document // Nil once ReleaseSourceData ran
	nodes []node
	roots []int

	root  mgl64.Mat4
	dirty bool

	renderables     []Renderable
	skins           []skin
	bounds          AABB
	animations      []animation
	resourcesLoaded bool
	destroyed       bool
}

// Name returns the asset name, taken from the first scene or asset generator.
func (a *Asset) Name() string {
	return a.name
}

// NodeCount returns the number of nodes in the asset.
func (a *Asset) NodeCount() int {
	return len(a.nodes)
}

// ResourcesLoaded reports whether LoadResources completed for the asset.
func (a *Asset) ResourcesLoaded() bool {
	return a.resourcesLoaded
}

// Destroyed reports whether Destroy was called.
func (a *Asset) Destroyed() bool {
	return a.destroyed
}

// Renderables returns the primitives to draw. It is empty until resources
// are loaded.
func (a *Asset) Renderables() []Renderable {
	return a.renderables
}

// BoundingBox returns the bounds of every renderable in the asset's own
// space, ignoring the root transform and any animation.
func (a *Asset) BoundingBox() AABB {
	return a.bounds
}

// RootTransform returns the transform applied above the scene roots.
func (a *Asset) RootTransform() mgl64.Mat4 {
	return a.root
}

// SetRootTransform replaces the transform applied above the scene roots.
func (a *Asset) SetRootTransform(m mgl64.Mat4) {
	a.root = m
	a.dirty = true
}

// WorldTransform returns the world matrix of node i, including the root
// transform and the current animation pose.
func (a *Asset) WorldTransform(i int) mgl64.Mat4 {
	if i < 0 || i >= len(a.nodes) {
		return mgl64.Ident4()
	}
	if a.dirty {
		a.updateWorld()
	}
	return a.nodes[i].world
}

// JointMatrices returns the skinning matrices of skin i for the current
// pose, or nil for a rigid renderable. The slice is overwritten by the next
// pose change.
func (a *Asset) JointMatrices(i int) []mgl64.Mat4 {
	if i < 0 || i >= len(a.skins) {
		return nil
	}
	if a.dirty {
		a.updateWorld()
	}
	return a.skins[i].matrices
}

// DrawItem returns the engine draw item for r in the current pose.
func (a *Asset) DrawItem(r Renderable) engine.DrawItem {
	return engine.DrawItem{
		Mesh:   r.Mesh,
		World:  a.WorldTransform(r.Node),
		Joints: a.JointMatrices(r.Skin),
	}
}

// Animator returns the animation controller. It is absent until resources
// are loaded and after the asset is destroyed.
func (a *Asset) Animator() (*Animator, bool) {
	if !a.resourcesLoaded || a.destroyed {
		return nil, false
	}
	return &Animator{asset: a}, true
}

// ReleaseSourceData drops the decoded glTF document. Resources must be
// loaded first; the document is not needed to render afterwards.
func (a *Asset) ReleaseSourceData() {
	a.doc = nil
}

// SourceReleased reports whether the decoded document has been dropped.
func (a *Asset) SourceReleased() bool {
	return a.doc == nil
}

// Destroy releases everything the asset holds.
func (a *Asset) Destroy() {
	a.destroyed = true
	a.doc = nil
	a.nodes = nil
	a.roots = nil
	a.renderables = nil
	a.skins = nil
	a.animations = nil
}

// inScene reports whether node i descends from one of the scene roots.
func (a *Asset) inScene(i int) bool {
	for a.nodes[i].parent != -1 {
		i = a.nodes[i].parent
	}
	for _, r := range a.roots {
		if r == i {
			return true
		}
	}
	return false
}

func (a *Asset) updateWorld() {
	var visit func(i int, parent mgl64.Mat4)
	visit = func(i int, parent mgl64.Mat4) {
		n := &a.nodes[i]
		n.world = parent.Mul4(n.local())
		for _, c := range n.children {
			visit(c, n.world)
		}
	}
	for _, r := range a.roots {
		visit(r, a.root)
	}
	for si := range a.skins {
		sk := &a.skins[si]
		for j, n := range sk.joints {
			sk.matrices[j] = a.nodes[n].world.Mul4(sk.inverseBind[j])
		}
	}
	a.dirty = false
}
