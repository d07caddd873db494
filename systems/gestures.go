package systems

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/automoto/avatarview/camera"
	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
)

// GestureDeltas is the camera input recognized in one input frame.
type GestureDeltas struct {
	DragX, DragY float64
	PanX, PanY   float64
	Scale        float64 // Pinch distance ratio, 1 when not pinching
	DoubleTap    bool
}

// Mouse buttons are mapped onto synthetic pointers: the left button drags
// with one pointer, the right button pans with a pair whose spread never
// changes.
const (
	mousePointerID    = -1
	mousePanPointerID = -3
	mousePanSpread    = 50
)

var (
	touchIDs []ebiten.TouchID
	pointers []components.Pointer
)

// UpdateGestures feeds touch (or mouse) input into the orbit camera and
// steps a running camera reset.
func UpdateGestures(e *ecs.ECS) {
	entry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	cam := components.Camera.Get(entry)
	gesture := components.Gesture.Get(entry)

	pointers = touchPointers(pointers[:0])
	if len(pointers) == 0 {
		pointers = mousePointers(pointers)
	}
	deltas := TrackPointers(gesture, time.Now(), pointers, config.Camera)
	ApplyGesture(cam.Orbit, deltas)

	if _, wy := ebiten.Wheel(); wy != 0 {
		cam.Orbit.ApplyZoom(math.Pow(config.Camera.WheelZoomStep, wy))
	}

	cam.Orbit.Update(1 / float32(ebiten.TPS()))
}

// ApplyGesture forwards recognized deltas to the camera. A double tap
// starts a reset and consumes the frame.
func ApplyGesture(orbit *camera.Orbit, d GestureDeltas) {
	if d.DoubleTap {
		orbit.Reset()
		return
	}
	if d.DragX != 0 || d.DragY != 0 {
		orbit.ApplyDrag(d.DragX, d.DragY)
	}
	if d.PanX != 0 || d.PanY != 0 {
		orbit.ApplyPan(d.PanX, d.PanY)
	}
	if d.Scale != 1 && d.Scale > 0 {
		orbit.ApplyZoom(d.Scale)
	}
}

// TrackPointers compares the active pointers with the previous frame. One
// pointer drags. Two or more pointers pinch and pan using the first two by
// ID. When the set of pointers changes the state is re-based and no motion
// is reported, so lifting a finger never makes the camera jump.
func TrackPointers(g *components.GestureData, now time.Time, current []components.Pointer, cfg config.CameraConfig) GestureDeltas {
	d := GestureDeltas{Scale: 1}
	slices.SortFunc(current, func(a, b components.Pointer) int {
		return cmp.Compare(a.ID, b.ID)
	})

	if len(g.Previous) == 0 && len(current) == 1 {
		d.DoubleTap = detectDoubleTap(g, now, current[0], cfg)
	}

	if samePointers(g.Previous, current) {
		switch len(current) {
		case 0:
		case 1:
			d.DragX = current[0].X - g.Previous[0].X
			d.DragY = current[0].Y - g.Previous[0].Y
		default:
			pcx, pcy := centroid(g.Previous[0], g.Previous[1])
			ccx, ccy := centroid(current[0], current[1])
			d.PanX = ccx - pcx
			d.PanY = ccy - pcy
			if prev := spread(g.Previous[0], g.Previous[1]); prev > 0 {
				d.Scale = spread(current[0], current[1]) / prev
			}
		}
	}

	g.Previous = append(g.Previous[:0], current...)
	return d
}

func detectDoubleTap(g *components.GestureData, now time.Time, p components.Pointer, cfg config.CameraConfig) bool {
	interval := time.Duration(cfg.DoubleTapInterval) * time.Millisecond
	if !g.LastTapAt.IsZero() && now.Sub(g.LastTapAt) <= interval &&
		math.Hypot(p.X-g.LastTapX, p.Y-g.LastTapY) <= cfg.DoubleTapSlop {
		g.LastTapAt = time.Time{}
		return true
	}
	g.LastTapAt = now
	g.LastTapX, g.LastTapY = p.X, p.Y
	return false
}

func samePointers(a, b []components.Pointer) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func centroid(a, b components.Pointer) (float64, float64) {
	return (a.X + b.X) / 2, (a.Y + b.Y) / 2
}

func spread(a, b components.Pointer) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func touchPointers(dst []components.Pointer) []components.Pointer {
	touchIDs = ebiten.AppendTouchIDs(touchIDs[:0])
	for _, id := range touchIDs {
		x, y := ebiten.TouchPosition(id)
		dst = append(dst, components.Pointer{ID: int(id), X: float64(x), Y: float64(y)})
	}
	return dst
}

func mousePointers(dst []components.Pointer) []components.Pointer {
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		dst = append(dst, components.Pointer{ID: mousePointerID, X: x, Y: y})
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		dst = append(dst,
			components.Pointer{ID: mousePanPointerID, X: x - mousePanSpread, Y: y},
			components.Pointer{ID: mousePanPointerID + 1, X: x + mousePanSpread, Y: y},
		)
	}
	return dst
}
