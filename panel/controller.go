package panel

import (
	"fmt"
	"math"
)

// DefaultDragRate is the change per pixel when dragging a row that has no range.
const DefaultDragRate = 0.1

// Controller edits one float32 through a getter/setter pair. The bound
// field stays the source of truth: Value re-reads it, so writes made
// elsewhere are shown as-is.
type Controller struct {
	Name string

	Min, Max float32
	Step     float32
	DragRate float32

	ranged bool
	get    func() float32
	set    func(float32)
}

// Func returns a controller over a getter/setter pair, for values that need
// more than a field write to update.
func Func(name string, get func() float32, set func(float32)) *Controller {
	return &Controller{Name: name, get: get, set: set, DragRate: DefaultDragRate}
}

// Bind returns a controller over *p.
func Bind(name string, p *float32) *Controller {
	return Func(name, func() float32 { return *p }, func(v float32) { *p = v })
}

// Range limits UI writes to [min, max].
func (c *Controller) Range(lo, hi float32) *Controller {
	c.Min, c.Max = lo, hi
	c.ranged = true
	return c
}

// WithStep snaps UI writes to multiples of step.
func (c *Controller) WithStep(step float32) *Controller {
	c.Step = step
	return c
}

// Ranged reports whether the controller has a declared range.
func (c *Controller) Ranged() bool { return c.ranged }

func (c *Controller) Value() float32 { return c.get() }

// SetValue is the UI write path: the value is clamped to the range and
// snapped to the step before it reaches the bound field.
func (c *Controller) SetValue(v float32) {
	if c.ranged {
		v = clamp(v, c.Min, c.Max)
	}
	if c.Step > 0 {
		v = float32(math.Round(float64(v)/float64(c.Step)) * float64(c.Step))
		if c.ranged {
			v = clamp(v, c.Min, c.Max)
		}
	}
	c.set(v)
}

// increment is the keyboard step: Step when set, otherwise 1.
func (c *Controller) increment() float32 {
	if c.Step > 0 {
		return c.Step
	}
	return 1
}

// Nudge moves the value by n increments.
func (c *Controller) Nudge(n int) {
	c.SetValue(c.Value() + float32(n)*c.increment())
}

// Fraction returns the value's position within the range, clamped to [0, 1].
func (c *Controller) Fraction() float32 {
	if !c.ranged || c.Max <= c.Min {
		return 0
	}
	return clamp((c.Value()-c.Min)/(c.Max-c.Min), 0, 1)
}

// SetFraction sets the value proportionally within the range.
func (c *Controller) SetFraction(f float32) {
	if !c.ranged {
		return
	}
	f = clamp(f, 0, 1)
	c.SetValue(c.Min + f*(c.Max-c.Min))
}

// Format renders the value with as many decimals as the step needs.
func (c *Controller) Format() string {
	return fmt.Sprintf("%.*f", decimals(c.Step), c.Value())
}

func decimals(step float32) int {
	if step <= 0 {
		return 2
	}
	d := 0
	s := float64(step)
	for d < 6 && math.Abs(s-math.Round(s)) > 1e-6 {
		s *= 10
		d++
	}
	return d
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
