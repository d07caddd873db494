package components

import (
	"github.com/automoto/avatarview/engine"
	"github.com/yohamta/donburi"
)

// SurfaceData tracks the drawable surface and the swap chain bound to it.
// The swap chain is nil while no surface exists.
type SurfaceData struct {
	Width     int
	Height    int
	SwapChain *engine.SwapChain
}

// Target returns the bound swap chain, if any.
func (s *SurfaceData) Target() (*engine.SwapChain, bool) {
	if s.SwapChain == nil || s.SwapChain.Destroyed() {
		return nil, false
	}
	return s.SwapChain, true
}

var Surface = donburi.NewComponentType[SurfaceData]()
