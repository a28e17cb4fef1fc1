package scene

import (
	"ring-arena/core"
	"ring-arena/math"
)

// DrawMode controls the OpenGL primitive type used when rendering a mesh.
type DrawMode int

const (
	DrawTriangles DrawMode = iota // gl.TRIANGLES (default)
	DrawLines                     // gl.LINES, pairs of indices form line segments
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32
	DrawMode DrawMode // defaults to DrawTriangles

	// Material holds surface shading properties. If nil, DefaultMaterial() is used.
	Material *Material

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	// Do not access directly; use the renderer's API.
	GPUData interface{}
}

func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
}

// TriangleCount returns the number of triangles drawn for the mesh.
func (m *Mesh) TriangleCount() int {
	if m.DrawMode != DrawTriangles {
		return 0
	}
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Vertices) / 3
}

// Wireframe returns a line mesh sharing m's vertices, one segment per
// triangle edge. Shared edges are emitted once.
func Wireframe(m *Mesh) *Mesh {
	type edge struct{ a, b uint32 }
	seen := make(map[edge]bool)
	var indices []uint32
	add := func(a, b uint32) {
		if a > b {
			a, b = b, a
		}
		e := edge{a, b}
		if seen[e] {
			return
		}
		seen[e] = true
		indices = append(indices, a, b)
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		add(a, b)
		add(b, c)
		add(c, a)
	}
	w := CreateMeshFromData(m.Name+"Wire", m.Vertices, indices)
	w.DrawMode = DrawLines
	return w
}

// CreateBox builds an axis-aligned box centred on the origin with per-face
// normals and UVs, 24 vertices and 12 triangles.
func CreateBox(width, height, depth float32) *Mesh {
	x, y, z := width/2, height/2, depth/2

	face := func(n math.Vec3, corners [4]math.Vec3) []core.Vertex {
		uvs := [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
		out := make([]core.Vertex, 4)
		for i := range corners {
			out[i] = core.Vertex{Position: corners[i], Normal: n, UV: uvs[i], Color: core.ColorWhite}
		}
		return out
	}

	var vertices []core.Vertex
	// Front, back, top, bottom, right, left; each face wound counter-clockwise
	// when seen from outside.
	vertices = append(vertices, face(math.Vec3{Z: 1}, [4]math.Vec3{{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z}})...)
	vertices = append(vertices, face(math.Vec3{Z: -1}, [4]math.Vec3{{X: x, Y: -y, Z: -z}, {X: -x, Y: -y, Z: -z}, {X: -x, Y: y, Z: -z}, {X: x, Y: y, Z: -z}})...)
	vertices = append(vertices, face(math.Vec3{Y: 1}, [4]math.Vec3{{X: -x, Y: y, Z: z}, {X: x, Y: y, Z: z}, {X: x, Y: y, Z: -z}, {X: -x, Y: y, Z: -z}})...)
	vertices = append(vertices, face(math.Vec3{Y: -1}, [4]math.Vec3{{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: -y, Z: z}, {X: -x, Y: -y, Z: z}})...)
	vertices = append(vertices, face(math.Vec3{X: 1}, [4]math.Vec3{{X: x, Y: -y, Z: z}, {X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z}, {X: x, Y: y, Z: z}})...)
	vertices = append(vertices, face(math.Vec3{X: -1}, [4]math.Vec3{{X: -x, Y: -y, Z: -z}, {X: -x, Y: -y, Z: z}, {X: -x, Y: y, Z: z}, {X: -x, Y: y, Z: -z}})...)

	indices := make([]uint32, 0, 36)
	for f := uint32(0); f < 6; f++ {
		b := f * 4
		indices = append(indices, b, b+1, b+2, b+2, b+3, b)
	}

	return CreateMeshFromData("Box", vertices, indices)
}
