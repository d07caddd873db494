// Package engine is the rendering engine the viewer drives. It owns swap
// chains bound to the drawable surface, cameras, views and a renderer. The
// renderer draws a skybox with ebiten, then rasterizes skinned or rigid
// triangle meshes on the CPU into a depth tested FrameBuffer that is uploaded
// over it. Meshes are flat shaded by a single directional light and may
// carry a base color texture.
//
// A frame follows the usual sequence:
//
//	if r.BeginFrame(swapChain) {
//		r.Clear(clearColor)
//		r.Render(view, items)
//		r.EndFrame()
//	}
//
// Objects are not safe for concurrent use. Everything runs on the ebiten
// game goroutine.
package engine
