// Package animation advances the arena's moving entities once per frame.
package animation

import (
	"ring-arena/scene"
)

// RotationRate is the ring spin rate in radians per second of elapsed time.
const RotationRate = 0.5

// Movable is a scene node driven by the update loop. Dir is the patrol
// direction along X and is always +1 or -1; rotating entities ignore it.
type Movable struct {
	Name string
	Node *scene.Node
	Dir  int
}

// NewMovable wraps node. Any non-negative dir becomes +1, negative becomes -1.
func NewMovable(name string, node *scene.Node, dir int) *Movable {
	d := 1
	if dir < 0 {
		d = -1
	}
	return &Movable{Name: name, Node: node, Dir: d}
}

// X returns the entity's current X position.
func (m *Movable) X() float32 {
	return m.Node.Transform.Position.X
}

// Patrol holds the X bounds and per-tick step of a patrolling collection.
type Patrol struct {
	Min   float32
	Max   float32
	Speed float32
}

// Advance runs AdvancePatrol with p's bounds.
func (p Patrol) Advance(entities []*Movable) {
	AdvancePatrol(entities, p.Min, p.Max, p.Speed)
}

// AdvancePatrol moves each entity one step of speed along X. The direction
// flips when the step would land outside [xmin, xmax], and the entity then
// steps in the new direction, so an entity never ends a tick further than
// speed past a bound. Only X changes.
func AdvancePatrol(entities []*Movable, xmin, xmax, speed float32) {
	for _, e := range entities {
		x := e.X()
		candidate := x + speed*float32(e.Dir)
		if candidate < xmin || candidate > xmax {
			e.Dir = -e.Dir
		}
		e.Node.SetPositionX(x + speed*float32(e.Dir))
	}
}

// AdvanceRotation sets each entity's Y rotation to RotationRate*elapsed.
// The angle depends only on elapsed, never on the previous frame.
func AdvanceRotation(entities []*Movable, elapsed float64) {
	angle := float32(RotationRate * elapsed)
	for _, e := range entities {
		e.Node.SetRotationY(angle)
	}
}
