// Package app hosts the viewer scene behind ebiten.Game, shared by the
// desktop binary and the mobile binding.
package app

import (
	"math"

	"github.com/automoto/avatarview/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
	Layout(width, height int)
	Close()
}

type Game struct {
	scene Scene
}

// NewGame returns a game showing model, a GLB file.
func NewGame(model []byte, logger *zap.Logger) *Game {
	return &Game{scene: scenes.NewViewerScene(model, logger)}
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

// Layout renders at device pixel resolution.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	w := int(math.Ceil(float64(outsideWidth) * scale))
	h := int(math.Ceil(float64(outsideHeight) * scale))
	g.scene.Layout(w, h)
	return w, h
}

// Close tears the scene down. It is safe to call more than once.
func (g *Game) Close() {
	g.scene.Close()
}
