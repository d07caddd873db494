// Package assets embeds the bundled avatar and the default settings.
package assets

import (
	_ "embed"
)

//go:generate go run ../cmd/mkavatar -o models/avatar.glb

var (
	//go:embed models/avatar.glb
	Avatar []byte

	//go:embed viewer.yaml
	DefaultConfig []byte
)
