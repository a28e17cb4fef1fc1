package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ring-arena/math"
	"ring-arena/scene"
)

func newWall(x float32, dir int) *Movable {
	n := scene.NewNode("w")
	n.SetPosition(math.Vec3{X: x, Y: 10, Z: 53})
	return NewMovable("w", n, dir)
}

func TestNewMovableNormalisesDirection(t *testing.T) {
	assert.Equal(t, 1, NewMovable("a", scene.NewNode("a"), 0).Dir)
	assert.Equal(t, 1, NewMovable("a", scene.NewNode("a"), 7).Dir)
	assert.Equal(t, -1, NewMovable("a", scene.NewNode("a"), -3).Dir)
}

func TestAdvancePatrolSingleStep(t *testing.T) {
	w := newWall(36, -1)
	AdvancePatrol([]*Movable{w}, 9, 36, 0.5)
	assert.Equal(t, float32(35.5), w.X())
	assert.Equal(t, -1, w.Dir)
}

func TestAdvancePatrolFlipsAtLowerBound(t *testing.T) {
	w := newWall(36, -1)
	ws := []*Movable{w}
	for i := 0; i < 54; i++ {
		AdvancePatrol(ws, 9, 36, 0.5)
	}
	require.Equal(t, float32(9), w.X())
	require.Equal(t, -1, w.Dir)

	AdvancePatrol(ws, 9, 36, 0.5)
	assert.Equal(t, 1, w.Dir)
	assert.Equal(t, float32(9.5), w.X())
}

func TestAdvancePatrolFlipsAtUpperBound(t *testing.T) {
	w := newWall(35.5, 1)
	ws := []*Movable{w}
	AdvancePatrol(ws, 9, 36, 0.5)
	assert.Equal(t, float32(36), w.X())
	assert.Equal(t, 1, w.Dir)

	AdvancePatrol(ws, 9, 36, 0.5)
	assert.Equal(t, float32(35.5), w.X())
	assert.Equal(t, -1, w.Dir)
}

func TestAdvancePatrolStaysInBounds(t *testing.T) {
	cases := []struct {
		name             string
		start            float32
		dir              int
		xmin, xmax, step float32
	}{
		{"arena", 36, -1, 9, 36, 0.5},
		{"uneven step", 20, 1, 9, 36, 0.7},
		{"step wider than range", 5, 1, 4, 6, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newWall(tc.start, tc.dir)
			p := Patrol{Min: tc.xmin, Max: tc.xmax, Speed: tc.step}
			for i := 0; i < 1000; i++ {
				p.Advance([]*Movable{w})
				assert.Contains(t, []int{-1, 1}, w.Dir)
				assert.GreaterOrEqual(t, w.X(), tc.xmin-tc.step-1e-3)
				assert.LessOrEqual(t, w.X(), tc.xmax+tc.step+1e-3)
			}
		})
	}
}

func TestAdvancePatrolOnlyTouchesX(t *testing.T) {
	w := newWall(20, 1)
	w.Node.SetRotation(math.Vec3{Y: 1})
	AdvancePatrol([]*Movable{w}, 9, 36, 0.5)
	assert.Equal(t, math.Vec3{X: 20.5, Y: 10, Z: 53}, w.Node.Position())
	assert.Equal(t, math.Vec3{Y: 1}, w.Node.Transform.Rotation)
}

func TestAdvancePatrolEmpty(t *testing.T) {
	assert.NotPanics(t, func() { AdvancePatrol(nil, 9, 36, 0.5) })
}

func TestAdvanceRotationIsAbsolute(t *testing.T) {
	n := scene.NewNode("ring")
	n.SetRotation(math.Vec3{X: 0.3})
	r := []*Movable{NewMovable("ring", n, 0)}

	AdvanceRotation(r, 4)
	assert.Equal(t, float32(2), n.Transform.Rotation.Y)
	AdvanceRotation(r, 1)
	AdvanceRotation(r, 4)
	assert.Equal(t, float32(2), n.Transform.Rotation.Y)
	assert.Equal(t, float32(0.3), n.Transform.Rotation.X)

	AdvanceRotation(r, 0)
	assert.Equal(t, float32(0), n.Transform.Rotation.Y)
}
