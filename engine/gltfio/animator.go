package gltfio

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrNoSuchAnimation is returned for an animation index out of range.
var ErrNoSuchAnimation = errors.New("no such animation")

type channelPath int

const (
	pathTranslation channelPath = iota
	pathRotation
	pathScale
)

type interpolation int

const (
	interpolateLinear interpolation = iota
	interpolateStep
	interpolateCubic
)

type channel struct {
	node          int
	path          channelPath
	interpolation interpolation
	times         []float64
	values        [][4]float64 // Cubic splines store in-tangent, value, out-tangent per key
}

type animation struct {
	name     string
	duration float64
	channels []channel
}

// Animator poses an asset's nodes from its animation tracks.
type Animator struct {
	asset *Asset
}

// AnimationCount returns the number of animation tracks.
func (a *Animator) AnimationCount() int {
	if a.asset.destroyed {
		return 0
	}
	return len(a.asset.animations)
}

// AnimationDuration returns the length of track i in seconds.
func (a *Animator) AnimationDuration(i int) float64 {
	if i < 0 || i >= a.AnimationCount() {
		return 0
	}
	return a.asset.animations[i].duration
}

// AnimationName returns the name of track i.
func (a *Animator) AnimationName(i int) string {
	if i < 0 || i >= a.AnimationCount() {
		return ""
	}
	return a.asset.animations[i].name
}

// ApplyAnimation poses the targeted nodes at time seconds into track i.
// Times outside the track hold the first or last keyframe. The pose is only
// written when every channel samples to finite values.
func (a *Animator) ApplyAnimation(i int, seconds float64) error {
	if a.asset.destroyed {
		return errors.New("apply animation: asset destroyed")
	}
	if i < 0 || i >= len(a.asset.animations) {
		return fmt.Errorf("apply animation %d: %w", i, ErrNoSuchAnimation)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("apply animation %d: time %v is not finite", i, seconds)
	}

	anim := &a.asset.animations[i]
	samples := make([][4]float64, len(anim.channels))
	for ci := range anim.channels {
		v := anim.channels[ci].sample(seconds)
		for _, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("apply animation %d: channel %d sampled a non-finite value", i, ci)
			}
		}
		samples[ci] = v
	}

	for ci := range anim.channels {
		c := &anim.channels[ci]
		n := &a.asset.nodes[c.node]
		v := samples[ci]
		switch c.path {
		case pathTranslation:
			n.translation = mgl64.Vec3{v[0], v[1], v[2]}
		case pathScale:
			n.scale = mgl64.Vec3{v[0], v[1], v[2]}
		case pathRotation:
			n.rotation = mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}.Normalize()
		}
		// An animated node is driven by TRS even if it was authored with a matrix.
		n.matrix = nil
	}
	a.asset.dirty = true
	return nil
}

func (c *channel) value(key int) [4]float64 {
	if c.interpolation == interpolateCubic {
		return c.values[key*3+1]
	}
	return c.values[key]
}

func (c *channel) sample(t float64) [4]float64 {
	last := len(c.times) - 1
	if t <= c.times[0] {
		return c.value(0)
	}
	if t >= c.times[last] {
		return c.value(last)
	}

	// First key strictly after t; t lies in [times[k-1], times[k]).
	k := sort.SearchFloat64s(c.times, t)
	if k <= last && c.times[k] == t {
		return c.value(k)
	}
	k0, k1 := k-1, k
	dt := c.times[k1] - c.times[k0]
	if dt <= 0 {
		return c.value(k1)
	}
	u := (t - c.times[k0]) / dt

	switch c.interpolation {
	case interpolateStep:
		return c.value(k0)
	case interpolateCubic:
		return c.hermite(k0, k1, u, dt)
	}

	v0, v1 := c.value(k0), c.value(k1)
	if c.path == pathRotation {
		q := mgl64.QuatSlerp(quat(v0), quat(v1), u)
		return [4]float64{q.V[0], q.V[1], q.V[2], q.W}
	}
	var out [4]float64
	for i := range out {
		out[i] = v0[i] + (v1[i]-v0[i])*u
	}
	return out
}

func (c *channel) hermite(k0, k1 int, u, dt float64) [4]float64 {
	p0 := c.values[k0*3+1]
	m0 := c.values[k0*3+2] // Out-tangent of the first key
	p1 := c.values[k1*3+1]
	m1 := c.values[k1*3] // In-tangent of the second key

	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	var out [4]float64
	for i := range out {
		out[i] = h00*p0[i] + h10*dt*m0[i] + h01*p1[i] + h11*dt*m1[i]
	}
	return out
}

func quat(v [4]float64) mgl64.Quat {
	return mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
}
