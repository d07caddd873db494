package engine

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer draws views into a swap chain. Render and Clear are only valid
// between BeginFrame and EndFrame.
type Renderer struct {
	Skybox     *Skybox
	rasterizer Rasterizer
	frame      *FrameBuffer

	white  *ebiten.Image
	layer  *ebiten.Image // Upload target for frame, sized to the viewport
	target *ebiten.Image
	frames uint64

	destroyed bool
}

// NewRenderer returns a renderer lit by light. A nil skybox leaves the clear
// color visible behind the scene.
func NewRenderer(skybox *Skybox, light DirectionalLight, cullBackFaces bool) *Renderer {
	return &Renderer{
		Skybox: skybox,
		rasterizer: Rasterizer{
			Light:         light,
			CullBackFaces: cullBackFaces,
		},
		frame: NewFrameBuffer(0, 0),
	}
}

// BeginFrame binds the swap chain. It returns false when there is nothing to
// render into; the frame must then be skipped.
func (r *Renderer) BeginFrame(sc *SwapChain) bool {
	if r.destroyed || sc == nil {
		return false
	}
	img := sc.Image()
	if img == nil {
		return false
	}
	if r.white == nil {
		r.white = ebiten.NewImage(3, 3)
		r.white.Fill(color.White)
	}
	r.target = img
	return true
}

// Clear fills the bound target with c.
func (r *Renderer) Clear(c color.Color) {
	if r.target == nil {
		return
	}
	r.target.Fill(c)
}

// Render draws the skybox and then the depth tested items as seen through
// view.
func (r *Renderer) Render(view *View, items []DrawItem) {
	if r.target == nil || view == nil || view.Camera == nil {
		return
	}
	viewport := view.Viewport.Intersect(r.target.Bounds())
	if viewport.Empty() {
		return
	}
	dst := r.target.SubImage(viewport).(*ebiten.Image)

	if r.Skybox != nil {
		src := r.white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
		vs, is := r.Skybox.Vertices(view.Camera, viewport)
		dst.DrawTriangles(vs, is, src, nil)
	}

	w, h := viewport.Dx(), viewport.Dy()
	if r.frame.Width != w || r.frame.Height != h {
		r.frame.Resize(w, h)
	} else {
		r.frame.Clear()
	}
	r.rasterizer.Rasterize(r.frame, items, view.Camera)

	if r.layer != nil && r.layer.Bounds().Size() != viewport.Size() {
		r.layer.Deallocate()
		r.layer = nil
	}
	if r.layer == nil {
		r.layer = ebiten.NewImage(w, h)
	}
	r.layer.WritePixels(r.frame.Color)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(viewport.Min.X), float64(viewport.Min.Y))
	dst.DrawImage(r.layer, op)
}

// EndFrame unbinds the target.
func (r *Renderer) EndFrame() {
	if r.target == nil {
		return
	}
	r.target = nil
	r.frames++
}

// Frames returns the number of completed frames.
func (r *Renderer) Frames() uint64 {
	return r.frames
}

// Destroy releases GPU resources. The renderer refuses frames afterwards.
func (r *Renderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.target = nil
	for _, img := range []*ebiten.Image{r.white, r.layer} {
		if img != nil {
			img.Deallocate()
		}
	}
	r.white = nil
	r.layer = nil
	r.frame = NewFrameBuffer(0, 0)
}
