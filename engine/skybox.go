package engine

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Skybox is a vertical gradient from zenith to horizon to ground. The horizon
// line follows the camera pitch.
type Skybox struct {
	Top     color.RGBA
	Horizon color.RGBA
	Ground  color.RGBA
}

// maxHorizonElevation keeps tan() finite when looking straight up or down.
const maxHorizonElevation = 89.5 * math.Pi / 180

// HorizonY returns the screen Y of the horizon for cam rendered into viewport.
func HorizonY(cam *Camera, viewport image.Rectangle) float64 {
	f := cam.Forward()
	elevation := math.Asin(math.Max(-1, math.Min(1, f.Y())))
	elevation = math.Max(-maxHorizonElevation, math.Min(maxHorizonElevation, elevation))

	h := float64(viewport.Dy())
	focal := cam.Projection().At(1, 1) * h / 2
	return float64(viewport.Min.Y) + h/2 + math.Tan(elevation)*focal
}

// Vertices returns two quads covering viewport: sky above the horizon and
// ground below it.
func (s *Skybox) Vertices(cam *Camera, viewport image.Rectangle) ([]ebiten.Vertex, []uint16) {
	x0 := float32(viewport.Min.X)
	x1 := float32(viewport.Max.X)
	h := float64(viewport.Dy())

	// Bands may extend past the viewport; the image clips them.
	horizon := HorizonY(cam, viewport)
	horizon = math.Max(float64(viewport.Min.Y)-10*h, math.Min(float64(viewport.Max.Y)+10*h, horizon))
	top := float32(math.Min(float64(viewport.Min.Y), horizon-h))
	bottom := float32(math.Max(float64(viewport.Max.Y), horizon+h))
	hy := float32(horizon)

	vs := []ebiten.Vertex{
		vertex(x0, top, s.Top), vertex(x1, top, s.Top),
		vertex(x0, hy, s.Horizon), vertex(x1, hy, s.Horizon),
		vertex(x0, bottom, s.Ground), vertex(x1, bottom, s.Ground),
	}
	is := []uint16{
		0, 1, 2, 1, 3, 2,
		2, 3, 4, 3, 5, 4,
	}
	return vs, is
}

func vertex(x, y float32, c color.RGBA) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   x,
		DstY:   y,
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(c.R) / 255,
		ColorG: float32(c.G) / 255,
		ColorB: float32(c.B) / 255,
		ColorA: float32(c.A) / 255,
	}
}
