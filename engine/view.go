package engine

import "image"

// View binds a camera to a viewport of the swap chain.
type View struct {
	Camera   *Camera
	Viewport image.Rectangle
}

// NewView returns a view with a fresh camera and an empty viewport.
func NewView() *View {
	return &View{Camera: NewCamera()}
}

// SetViewport sets the region of the swap chain the view renders into.
func (v *View) SetViewport(r image.Rectangle) {
	v.Viewport = r
}
