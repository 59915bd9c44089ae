package dynamo

import "time"

// Clock tracks wall-clock time between frames.
type Clock struct {
	last    time.Time
	started bool
	Paused  bool
}

// Tick records now and returns the seconds elapsed since the previous call.
// The first call establishes the baseline and reports ok=false.
func (c *Clock) Tick(now time.Time) (dt float64, ok bool) {
	if !c.started {
		c.last = now
		c.started = true
		return 0, false
	}
	dt = now.Sub(c.last).Seconds()
	c.last = now
	if dt < 0 {
		dt = 0
	}
	return dt, true
}

// TogglePause flips the paused flag and reports the new value.
func (c *Clock) TogglePause() bool {
	c.Paused = !c.Paused
	return c.Paused
}

// Started reports whether a baseline timestamp has been recorded.
func (c *Clock) Started() bool {
	return c.started
}
