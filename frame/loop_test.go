package frame

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDisplay struct {
	closeAfter int
	polls      int
	swaps      int
	inTick     bool
	overlapped bool
}

func (d *fakeDisplay) ShouldClose() bool { return d.closeAfter > 0 && d.polls > d.closeAfter }
func (d *fakeDisplay) PollEvents() {
	if d.inTick {
		d.overlapped = true
	}
	d.polls++
}
func (d *fakeDisplay) SwapBuffers() { d.swaps++ }

// steppedClock advances by step on every read.
func steppedClock(step time.Duration) *Clock {
	t := time.Unix(1000, 0)
	return &Clock{Now: func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}}
}

func TestLoopStopsWhenDisplayCloses(t *testing.T) {
	d := &fakeDisplay{closeAfter: 5}
	l := &Loop{Display: d, Clock: steppedClock(10 * time.Millisecond)}

	var ticks []Tick
	err := l.Run(context.Background(), func(tk Tick) error {
		d.inTick = true
		ticks = append(ticks, tk)
		d.inTick = false
		return nil
	})
	require.NoError(t, err)
	require.Len(t, ticks, 5)
	assert.Equal(t, 5, d.swaps)
	assert.False(t, d.overlapped)

	for i, tk := range ticks {
		assert.Equal(t, uint64(i+1), tk.Frame)
		assert.InDelta(t, 0.01*float64(i+1), tk.Elapsed, 1e-9)
		assert.InDelta(t, 0.01, tk.Delta, 1e-9)
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	d := &fakeDisplay{}
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loop{Display: d, Clock: steppedClock(time.Millisecond)}

	n := 0
	err := l.Run(ctx, func(Tick) error {
		n++
		if n == 3 {
			cancel()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, d.swaps)
}

func TestLoopReturnsUpdateError(t *testing.T) {
	d := &fakeDisplay{}
	l := &Loop{Display: d}
	boom := errors.New("boom")
	err := l.Run(context.Background(), func(Tick) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, d.swaps)
}

func TestLoopRateLimit(t *testing.T) {
	d := &fakeDisplay{closeAfter: 4}
	l := &Loop{Display: d, MaxFPS: 50}
	start := time.Now()
	require.NoError(t, l.Run(context.Background(), func(Tick) error { return nil }))
	// The first token is immediate; three more at 20ms intervals.
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestClockElapsed(t *testing.T) {
	now := time.Unix(0, 0)
	c := &Clock{Now: func() time.Time { return now }}
	c.Start()
	now = now.Add(1500 * time.Millisecond)
	assert.Equal(t, 1.5, c.Elapsed())
}

func TestFPSCounter(t *testing.T) {
	var f FPSCounter
	t0 := time.Unix(0, 0)
	for i := 0; i < 59; i++ {
		_, ok := f.Frame(t0.Add(time.Duration(i) * time.Second / 60))
		assert.False(t, ok)
	}
	fps, ok := f.Frame(t0.Add(time.Second))
	require.True(t, ok)
	assert.InDelta(t, 60, fps, 1e-9)
}
