package frame

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
)

// Display is the window surface the loop drives.
type Display interface {
	ShouldClose() bool
	PollEvents()
	SwapBuffers()
}

// Tick is passed to the update callback once per frame.
type Tick struct {
	Frame   uint64
	Elapsed float64 // seconds since the loop started
	Delta   float64 // seconds since the previous tick
}

// Loop runs update once per displayed frame until the display closes or the
// context is cancelled. Ticks never overlap.
type Loop struct {
	Display Display
	Clock   *Clock
	// MaxFPS caps the tick rate when positive. Zero leaves pacing to vsync.
	MaxFPS float64
	Logger *slog.Logger
}

// Run blocks until the display wants to close, ctx is done, or update fails.
// Window close and cancellation return nil.
func (l *Loop) Run(ctx context.Context, update func(Tick) error) error {
	clock := l.Clock
	if clock == nil {
		clock = &Clock{}
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var limiter *rate.Limiter
	if l.MaxFPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(l.MaxFPS), 1)
	}

	clock.Start()
	var tick Tick
	for {
		l.Display.PollEvents()
		if l.Display.ShouldClose() {
			logger.Info("Window closed", "frames", tick.Frame)
			return nil
		}
		if err := ctx.Err(); err != nil {
			logger.Info("Frame loop cancelled", "frames", tick.Frame)
			return nil
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("frame limiter: %w", err)
			}
		}

		elapsed := clock.Elapsed()
		tick.Delta = elapsed - tick.Elapsed
		tick.Elapsed = elapsed
		tick.Frame++
		if err := update(tick); err != nil {
			return err
		}
		l.Display.SwapBuffers()
	}
}
