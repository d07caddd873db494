package systems

import "time"

// FrameCallback receives one display refresh.
type FrameCallback interface {
	DoFrame(now time.Time)
}

// Choreographer delivers display refresh signals. Posted callbacks fire
// once, on the next refresh; a callback that wants the following refresh
// must post itself again.
type Choreographer interface {
	PostFrameCallback(cb FrameCallback)
	RemoveFrameCallback(cb FrameCallback)
}

// DisplayLink is the Choreographer fed by the ebiten draw loop. ebiten calls
// Draw once per display refresh on the main goroutine, and the game forwards
// that call to DoFrame.
type DisplayLink struct {
	pending []FrameCallback
	firing  []FrameCallback
}

func NewDisplayLink() *DisplayLink {
	return &DisplayLink{}
}

func (d *DisplayLink) PostFrameCallback(cb FrameCallback) {
	if cb == nil {
		return
	}
	d.pending = append(d.pending, cb)
}

// RemoveFrameCallback drops every pending registration of cb.
func (d *DisplayLink) RemoveFrameCallback(cb FrameCallback) {
	kept := d.pending[:0]
	for _, p := range d.pending {
		if p != cb {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(d.pending); i++ {
		d.pending[i] = nil
	}
	d.pending = kept
}

// Pending returns the number of callbacks waiting for the next refresh.
func (d *DisplayLink) Pending() int {
	return len(d.pending)
}

// DoFrame fires the callbacks posted before this refresh. Callbacks posted
// while firing wait for the next one.
func (d *DisplayLink) DoFrame(now time.Time) {
	d.firing, d.pending = d.pending, d.firing[:0]
	for i, cb := range d.firing {
		cb.DoFrame(now)
		d.firing[i] = nil
	}
	d.firing = d.firing[:0]
}
