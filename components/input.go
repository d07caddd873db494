package components

import (
	"time"

	"github.com/yohamta/donburi"
)

// Pointer is one active touch (or emulated touch) in screen pixels.
type Pointer struct {
	ID   int
	X, Y float64
}

// GestureData is the pointer state carried between input frames.
type GestureData struct {
	Previous []Pointer

	// Double tap detection
	LastTapAt time.Time
	LastTapX  float64
	LastTapY  float64
}

var Gesture = donburi.NewComponentType[GestureData]()
