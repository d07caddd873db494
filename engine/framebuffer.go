package engine

import "math"

// FrameBuffer is the CPU side render target: premultiplied RGBA pixels and a
// depth value per pixel.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = Width*Height*4
	Depth  []float64 // NDC depth, smaller is nearer, len = Width*Height
}

// NewFrameBuffer returns a cleared buffer of the given size.
func NewFrameBuffer(width, height int) *FrameBuffer {
	fb := &FrameBuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize changes the buffer size and clears it. Negative sizes count as zero.
func (fb *FrameBuffer) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	n := width * height
	if cap(fb.Depth) < n {
		fb.Color = make([]uint8, n*4)
		fb.Depth = make([]float64, n)
	}
	fb.Width, fb.Height = width, height
	fb.Color = fb.Color[:n*4]
	fb.Depth = fb.Depth[:n]
	fb.Clear()
}

// Clear makes every pixel transparent and infinitely far.
func (fb *FrameBuffer) Clear() {
	clear(fb.Color)
	for i := range fb.Depth {
		fb.Depth[i] = math.Inf(1)
	}
}

// At returns the RGBA bytes of pixel (x, y).
func (fb *FrameBuffer) At(x, y int) [4]uint8 {
	i := (y*fb.Width + x) * 4
	return [4]uint8{fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3]}
}

// DepthAt returns the depth stored for pixel (x, y).
func (fb *FrameBuffer) DepthAt(x, y int) float64 {
	return fb.Depth[y*fb.Width+x]
}
