package scene

import (
	"ring-arena/core"
	"ring-arena/math"
)

// Scene owns the node graph and the lights. The camera is held by whoever
// drives rendering.
type Scene struct {
	Root       *Node
	Lights     []*Light
	Ambient    core.Color
	ClearColor core.Color

	nextID uint32
}

// Light types
const (
	LightTypeDirectional = iota
	LightTypePoint
)

// Light represents a light source. A point light with Range 0 has no
// distance cutoff.
type Light struct {
	Name      string
	Type      int
	Position  math.Vec3
	Direction math.Vec3
	Color     core.Color
	Intensity float32
	Range     float32
}

// NewPointLight creates an unbounded point light.
func NewPointLight(name string, color core.Color, intensity float32, pos math.Vec3) *Light {
	return &Light{
		Name:      name,
		Type:      LightTypePoint,
		Position:  pos,
		Color:     color,
		Intensity: intensity,
	}
}

func NewScene() *Scene {
	s := &Scene{
		Lights:     make([]*Light, 0),
		Ambient:    core.Color{R: 0.2, G: 0.2, B: 0.2, A: 1.0},
		ClearColor: core.Color{R: 0.05, G: 0.05, B: 0.07, A: 1.0},
	}
	s.Root = NewNode("Root")
	s.assignID(s.Root)
	return s
}

// AddNode attaches node (and any children) under the root and assigns IDs.
func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
	node.Traverse(s.assignID)
}

func (s *Scene) RemoveNode(node *Node) {
	s.Root.RemoveChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

func (s *Scene) assignID(n *Node) {
	if n.ID != 0 {
		return
	}
	s.nextID++
	n.ID = s.nextID
}

// GetVisibleNodes returns all nodes with meshes that are visible
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node

	s.Root.Traverse(func(node *Node) {
		if node.Visible && node.Mesh != nil {
			visible = append(visible, node)
		}
	})

	return visible
}

// ObjectCount returns the number of nodes that carry a mesh.
func (s *Scene) ObjectCount() int {
	count := 0
	s.Root.Traverse(func(node *Node) {
		if node.Mesh != nil {
			count++
		}
	})
	return count
}
