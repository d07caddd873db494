package systems

import (
	"image/color"

	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/engine"
	"github.com/automoto/avatarview/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// RenderFrame renders the scene into target and returns items for reuse on
// the next frame.
func RenderFrame(e *ecs.ECS, r FrameRenderer, target *engine.SwapChain, clear color.Color, items []engine.DrawItem) []engine.DrawItem {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return items
	}
	cam := components.Camera.Get(cameraEntry)
	UpdateView(cam)

	items = CollectDrawItems(e, items[:0])
	if !r.BeginFrame(target) {
		return items
	}
	r.Clear(clear)
	r.Render(cam.View, items)
	r.EndFrame()
	return items
}

// UpdateView copies the orbit camera pose into the engine camera.
func UpdateView(cam *components.CameraData) {
	vt := cam.Orbit.ViewTransform()
	cam.View.Camera.SetView(vt.Matrix(), vt.Eye)
}

// CollectDrawItems appends one item per registered mesh node, posed by the
// owning asset's current world transforms and joint matrices.
func CollectDrawItems(e *ecs.ECS, items []engine.DrawItem) []engine.DrawItem {
	tags.MeshNode.Each(e.World, func(entry *donburi.Entry) {
		node := components.MeshNode.Get(entry)
		if node.Asset == nil || node.Asset.Destroyed() || node.Renderable.Mesh == nil {
			return
		}
		items = append(items, node.Asset.DrawItem(node.Renderable))
	})
	return items
}
