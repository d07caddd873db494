package components

import (
	"time"

	"github.com/yohamta/donburi"
)

// AnimationClockData holds the epoch of the current render session. The
// epoch is latched on the first rendered frame and cleared when rendering
// stops, so animation restarts from zero on every resume.
type AnimationClockData struct {
	Epoch   time.Time
	Latched bool
	Elapsed float64 // Seconds since the epoch, as of the last frame
}

// Reset clears the epoch.
func (c *AnimationClockData) Reset() {
	c.Epoch = time.Time{}
	c.Latched = false
	c.Elapsed = 0
}

// Tick latches the epoch if needed and returns the seconds elapsed since it.
func (c *AnimationClockData) Tick(now time.Time) float64 {
	if !c.Latched {
		c.Epoch = now
		c.Latched = true
	}
	c.Elapsed = now.Sub(c.Epoch).Seconds()
	if c.Elapsed < 0 {
		c.Elapsed = 0
	}
	return c.Elapsed
}

var AnimationClock = donburi.NewComponentType[AnimationClockData]()
