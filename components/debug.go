package components

import "github.com/yohamta/donburi"

type DebugData struct {
	Enabled bool
	Message string // Last load diagnostic shown in the overlay
}

var Debug = donburi.NewComponentType[DebugData]()
