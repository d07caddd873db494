package engine

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// SwapChain is the render target bound to the platform surface. The backing
// image is allocated on first use, so creating a swap chain is cheap.
type SwapChain struct {
	width     int
	height    int
	image     *ebiten.Image
	destroyed bool
}

// NewSwapChain returns a swap chain of the given size.
func NewSwapChain(width, height int) *SwapChain {
	return &SwapChain{width: width, height: height}
}

// Size returns the swap chain dimensions in pixels.
func (s *SwapChain) Size() (int, int) {
	return s.width, s.height
}

// Destroyed reports whether Destroy was called.
func (s *SwapChain) Destroyed() bool {
	return s.destroyed
}

// Image returns the backing image, allocating it if needed. It returns nil
// for a destroyed or empty swap chain.
func (s *SwapChain) Image() *ebiten.Image {
	if s.destroyed || s.width <= 0 || s.height <= 0 {
		return nil
	}
	if s.image == nil {
		s.image = ebiten.NewImage(s.width, s.height)
	}
	return s.image
}

// Resize changes the swap chain size. The backing image is reallocated on
// next use.
func (s *SwapChain) Resize(width, height int) {
	if s.destroyed || (width == s.width && height == s.height) {
		return
	}
	s.width, s.height = width, height
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}

// Present draws the last rendered frame onto screen.
func (s *SwapChain) Present(screen *ebiten.Image) {
	if s.destroyed || s.image == nil {
		return
	}
	screen.DrawImage(s.image, nil)
}

// Destroy releases the backing image. Further use renders nothing.
func (s *SwapChain) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}
