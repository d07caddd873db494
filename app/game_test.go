package app

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
)

type fakeScene struct {
	updates, draws, closes int
	layouts                [][2]int
}

func (s *fakeScene) Update() { s.updates++ }

func (s *fakeScene) Draw(*ebiten.Image) { s.draws++ }

func (s *fakeScene) Layout(width, height int) {
	s.layouts = append(s.layouts, [2]int{width, height})
}

func (s *fakeScene) Close() { s.closes++ }

func TestGameForwardsToScene(t *testing.T) {
	scene := &fakeScene{}
	g := &Game{scene: scene}

	assert.NoError(t, g.Update())
	g.Draw(nil)
	g.Close()

	assert.Equal(t, 1, scene.updates)
	assert.Equal(t, 1, scene.draws)
	assert.Equal(t, 1, scene.closes)
}
