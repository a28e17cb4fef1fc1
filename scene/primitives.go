package scene

import (
	"github.com/chewxy/math32"

	"ring-arena/core"
	"ring-arena/math"
)

// CreateSphere generates a UV-sphere mesh
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math32.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math32.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sincos(theta)

			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)},
				Color:    core.ColorWhite,
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// CreateTorus generates a torus lying in the XY plane, its hole facing +Z.
// tubeSegments runs around the tube cross-section, ringSegments around the
// main circle.
func CreateTorus(radius, tube float32, tubeSegments, ringSegments int) *Mesh {
	if tubeSegments < 3 {
		tubeSegments = 3
	}
	if ringSegments < 3 {
		ringSegments = 3
	}

	var vertices []core.Vertex
	var indices []uint32

	for j := 0; j <= tubeSegments; j++ {
		v := float32(j) / float32(tubeSegments) * 2 * math32.Pi
		sinV, cosV := math32.Sincos(v)

		for i := 0; i <= ringSegments; i++ {
			u := float32(i) / float32(ringSegments) * 2 * math32.Pi
			sinU, cosU := math32.Sincos(u)

			pos := math.Vec3{
				X: (radius + tube*cosV) * cosU,
				Y: (radius + tube*cosV) * sinU,
				Z: tube * sinV,
			}
			centre := math.Vec3{X: radius * cosU, Y: radius * sinU}

			vertices = append(vertices, core.Vertex{
				Position: pos,
				Normal:   pos.Sub(centre).Normalize(),
				UV:       math.Vec2{X: float32(i) / float32(ringSegments), Y: float32(j) / float32(tubeSegments)},
				Color:    core.ColorWhite,
			})
		}
	}

	row := uint32(ringSegments + 1)
	for j := 1; j <= tubeSegments; j++ {
		for i := 1; i <= ringSegments; i++ {
			a := row*uint32(j) + uint32(i) - 1
			b := row*uint32(j-1) + uint32(i) - 1
			c := row*uint32(j-1) + uint32(i)
			d := row*uint32(j) + uint32(i)

			indices = append(indices, a, b, d)
			indices = append(indices, b, c, d)
		}
	}

	return CreateMeshFromData("Torus", vertices, indices)
}
