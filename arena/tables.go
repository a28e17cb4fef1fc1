package arena

import (
	"ring-arena/animation"
	"ring-arena/core"
	"ring-arena/math"
)

// Placement is one row of a literal entity table.
type Placement struct {
	Name string
	Pos  math.Vec3
	Dir  int
}

// RingTable lists the spinning rings. "ring" is the one exposed in the panel.
var RingTable = []Placement{
	{Name: "ring", Pos: math.Vec3{X: 0, Y: 5, Z: -5}},
	{Name: "r1", Pos: math.Vec3{X: 35, Y: 5, Z: 88}},
	{Name: "r2", Pos: math.Vec3{X: 35, Y: 5, Z: 80}},
	{Name: "r3", Pos: math.Vec3{X: 0, Y: 5, Z: -5}},
	{Name: "r4", Pos: math.Vec3{X: 3, Y: 3, Z: 1}},
}

// WallTable lists the patrolling walls.
var WallTable = []Placement{
	{Name: "w1", Pos: math.Vec3{X: 36, Y: 10, Z: 53}, Dir: -1},
}

// WallPatrol bounds the moving walls along X.
var WallPatrol = animation.Patrol{Min: 9, Max: 36, Speed: 0.5}

// Geometry and look of the arena.
var (
	ringColor = core.ColorHex(0xFFD700)

	floorSize    = math.Vec3{X: 100, Y: 0.1, Z: 200}
	sideWallSize = math.Vec3{X: 0.2, Y: 20, Z: 50}
	sideWallPos  = math.Vec3{X: 23, Y: 10, Z: 75}
	crateSize    = math.Vec3{X: 2, Y: 2, Z: 2}
	cratePos     = math.Vec3{X: 2, Y: 5, Z: -5}
	wallSize     = math.Vec3{X: 28, Y: 20, Z: 5}

	lightPos       = math.Vec3{X: 50, Y: 10, Z: 90}
	lightIntensity = float32(1.8)

	cameraPos = math.Vec3{X: 20, Y: 10, Z: 80}
)

const (
	cameraFOV  = 75
	cameraNear = 0.1
	cameraFar  = 100

	ringRadius       = 0.7
	ringTube         = 0.2
	ringTubeSegments = 16
	ringSegments     = 100
)
