package tags

import "github.com/yohamta/donburi"

var (
	Camera   = donburi.NewTag().SetName("Camera")
	Surface  = donburi.NewTag().SetName("Surface")
	Session  = donburi.NewTag().SetName("Session")
	Model    = donburi.NewTag().SetName("Model")
	MeshNode = donburi.NewTag().SetName("MeshNode")
)
