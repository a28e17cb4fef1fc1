// Package frame drives the per-frame update callback.
package frame

import "time"

// Clock reports seconds elapsed since Start. The zero value uses time.Now.
type Clock struct {
	Now   func() time.Time
	start time.Time
}

func (c *Clock) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Start resets the origin to the current time.
func (c *Clock) Start() {
	c.start = c.now()
}

// Elapsed returns the seconds since Start.
func (c *Clock) Elapsed() float64 {
	return c.now().Sub(c.start).Seconds()
}

// FPSCounter counts frames and reports the rate once per Window.
type FPSCounter struct {
	Window time.Duration
	frames int
	since  time.Time
}

// Frame records one frame at now. When a full window has passed it returns
// the frames per second over that window and true.
func (f *FPSCounter) Frame(now time.Time) (float64, bool) {
	if f.since.IsZero() {
		f.since = now
	}
	f.frames++
	window := f.Window
	if window <= 0 {
		window = time.Second
	}
	d := now.Sub(f.since)
	if d < window {
		return 0, false
	}
	fps := float64(f.frames) / d.Seconds()
	f.frames = 0
	f.since = now
	return fps, true
}
