// Package camera implements the orbit camera driven by touch gestures.
//
// The camera orbits a target point on the z=0 plane. Yaw and pitch are kept in
// degrees, distance and pan in world units. All inputs are clamped internally,
// so callers may forward raw gesture deltas.
package camera

import (
	"math"

	"github.com/automoto/avatarview/config"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// State is the complete orbit camera state.
type State struct {
	Yaw      float64 // Degrees around +Y
	Pitch    float64 // Degrees above the horizon
	Distance float64 // Eye to target
	PanX     float64
	PanY     float64
}

// ViewTransform is a look-at description derived from State.
type ViewTransform struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3
}

// Orbit converts gesture deltas into camera state. It is not safe for
// concurrent use; gestures and frame ticks run on the same goroutine.
type Orbit struct {
	state State
	home  State

	dragScale   float64
	panScale    float64
	minPitch    float64
	maxPitch    float64
	minDistance float64
	maxDistance float64

	resetDuration float32
	reset         *gween.Tween
	resetFrom     State
}

// NewOrbit returns an orbit camera at the configured default position.
func NewOrbit(cfg config.CameraConfig) *Orbit {
	o := &Orbit{
		dragScale:     cfg.DragDegreesPerPixel,
		panScale:      cfg.PanUnitsPerPixel,
		minPitch:      cfg.MinPitch,
		maxPitch:      cfg.MaxPitch,
		minDistance:   cfg.MinDistance,
		maxDistance:   cfg.MaxDistance,
		resetDuration: cfg.ResetDuration,
	}
	o.home = State{
		Yaw:      cfg.DefaultYaw,
		Pitch:    clamp(cfg.DefaultPitch, cfg.MinPitch, cfg.MaxPitch),
		Distance: clamp(cfg.DefaultDistance, cfg.MinDistance, cfg.MaxDistance),
	}
	o.state = o.home
	return o
}

// State returns a copy of the current state.
func (o *Orbit) State() State {
	return o.state
}

// ApplyDrag rotates the camera. Horizontal movement changes yaw, which
// accumulates without wrapping. Vertical movement changes pitch, which is
// clamped to the configured range.
func (o *Orbit) ApplyDrag(deltaX, deltaY float64) {
	deltaX, deltaY = clampDelta(deltaX), clampDelta(deltaY)
	o.cancelReset()
	o.state.Yaw += deltaX * o.dragScale
	o.state.Pitch = clamp(o.state.Pitch+deltaY*o.dragScale, o.minPitch, o.maxPitch)
}

// ApplyPan moves the orbit target. Screen Y grows downward, world Y upward.
func (o *Orbit) ApplyPan(deltaX, deltaY float64) {
	deltaX, deltaY = clampDelta(deltaX), clampDelta(deltaY)
	o.cancelReset()
	o.state.PanX += deltaX * o.panScale
	o.state.PanY -= deltaY * o.panScale
}

// ApplyZoom divides the distance by scaleFactor. A pinch that spreads the
// fingers reports a factor above 1 and moves the camera closer.
func (o *Orbit) ApplyZoom(scaleFactor float64) {
	if math.IsNaN(scaleFactor) {
		return
	}
	o.cancelReset()
	o.state.Distance = clamp(o.state.Distance/scaleFactor, o.minDistance, o.maxDistance)
}

// ViewTransform returns the eye, target and up vectors for the current state.
func (o *Orbit) ViewTransform() ViewTransform {
	return o.state.ViewTransform()
}

// ViewTransform places the eye on a sphere of radius Distance around the pan
// offset.
func (s State) ViewTransform() ViewTransform {
	yaw := mgl64.DegToRad(s.Yaw)
	pitch := mgl64.DegToRad(s.Pitch)
	target := mgl64.Vec3{s.PanX, s.PanY, 0}
	dir := mgl64.Vec3{
		math.Cos(pitch) * math.Sin(yaw),
		math.Sin(pitch),
		math.Cos(pitch) * math.Cos(yaw),
	}
	return ViewTransform{
		Eye:    target.Add(dir.Mul(s.Distance)),
		Target: target,
		Up:     mgl64.Vec3{0, 1, 0},
	}
}

// Matrix returns the world-to-view matrix. When the eye looks straight up or
// down the up vector is replaced by the horizontal forward axis so the basis
// stays well defined.
func (v ViewTransform) Matrix() mgl64.Mat4 {
	forward := v.Target.Sub(v.Eye)
	up := v.Up
	if forward.Cross(up).Len() < 1e-9 {
		up = mgl64.Vec3{0, 0, -1}
		if forward.Y() < 0 {
			up = mgl64.Vec3{0, 0, 1}
		}
	}
	return mgl64.LookAtV(v.Eye, v.Target, up)
}

// Reset animates the camera back to its default state.
func (o *Orbit) Reset() {
	if o.resetDuration <= 0 {
		o.state = o.home
		return
	}
	o.resetFrom = o.state
	o.reset = gween.New(0, 1, o.resetDuration, ease.OutCubic)
}

// Resetting reports whether a reset animation is in progress.
func (o *Orbit) Resetting() bool {
	return o.reset != nil
}

// Update advances a pending reset animation by dt seconds.
func (o *Orbit) Update(dt float32) {
	if o.reset == nil {
		return
	}
	t, done := o.reset.Update(dt)
	if done {
		o.reset = nil
		o.state = o.home
		return
	}
	o.state = lerpState(o.resetFrom, o.home, float64(t))
}

func (o *Orbit) cancelReset() {
	o.reset = nil
}

func lerpState(a, b State, t float64) State {
	// shortest arc
	yawDelta := math.Mod(b.Yaw-a.Yaw, 360)
	if yawDelta > 180 {
		yawDelta -= 360
	} else if yawDelta < -180 {
		yawDelta += 360
	}
	return State{
		Yaw:      a.Yaw + yawDelta*t,
		Pitch:    a.Pitch + (b.Pitch-a.Pitch)*t,
		Distance: a.Distance + (b.Distance-a.Distance)*t,
		PanX:     a.PanX + (b.PanX-a.PanX)*t,
		PanY:     a.PanY + (b.PanY-a.PanY)*t,
	}
}

// clamp returns v limited to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// maxGestureDelta bounds a single drag or pan delta, in pixels.
const maxGestureDelta = 1e6

// clampDelta limits a gesture delta to ±maxGestureDelta. NaN carries no
// movement and maps to zero.
func clampDelta(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, -maxGestureDelta, maxGestureDelta)
}
