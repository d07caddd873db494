package config

import "github.com/yohamta/donburi/ecs"

// Default is the only render layer; the viewer draws a single scene.
const Default ecs.LayerID = 0
