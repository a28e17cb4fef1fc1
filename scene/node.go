package scene

import (
	"ring-arena/core"
	"ring-arena/math"
)

// Node represents an object in the scene graph
type Node struct {
	Name      string
	Transform core.Transform
	Parent    *Node
	Children  []*Node
	Mesh      *Mesh
	Visible   bool
	ID        uint32

	// Cached world transform
	worldMatrixDirty bool
	worldMatrix      math.Mat4
}

// NewNode creates a detached node. The ID is assigned when the node is added
// to a Scene.
func NewNode(name string) *Node {
	return &Node{
		Name:             name,
		Transform:        core.NewTransform(),
		Children:         make([]*Node, 0),
		Visible:          true,
		worldMatrixDirty: true,
	}
}

// NewMeshNode creates a visible node that draws mesh at pos.
func NewMeshNode(name string, mesh *Mesh, pos math.Vec3) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	n.Transform.Position = pos
	return n
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	child.MarkWorldMatrixDirty()
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			child.MarkWorldMatrixDirty()
			return
		}
	}
}

func (n *Node) GetWorldMatrix() math.Mat4 {
	if n.worldMatrixDirty {
		localMatrix := n.Transform.GetMatrix()
		if n.Parent != nil {
			n.worldMatrix = localMatrix.Mul(n.Parent.GetWorldMatrix())
		} else {
			n.worldMatrix = localMatrix
		}
		n.worldMatrixDirty = false
	}
	return n.worldMatrix
}

func (n *Node) MarkWorldMatrixDirty() {
	n.worldMatrixDirty = true
	for _, child := range n.Children {
		child.MarkWorldMatrixDirty()
	}
}

func (n *Node) Position() math.Vec3 {
	return n.Transform.Position
}

func (n *Node) SetPosition(pos math.Vec3) {
	n.Transform.Position = pos
	n.MarkWorldMatrixDirty()
}

// SetPositionX moves the node along X only.
func (n *Node) SetPositionX(x float32) {
	n.Transform.Position.X = x
	n.MarkWorldMatrixDirty()
}

// SetRotation sets the XYZ Euler rotation in radians.
func (n *Node) SetRotation(euler math.Vec3) {
	n.Transform.Rotation = euler
	n.MarkWorldMatrixDirty()
}

// SetRotationY replaces the Y Euler angle, leaving X and Z untouched.
func (n *Node) SetRotationY(angle float32) {
	n.Transform.Rotation.Y = angle
	n.MarkWorldMatrixDirty()
}

// Traverse visits all nodes in the graph
func (n *Node) Traverse(callback func(*Node)) {
	callback(n)
	for _, child := range n.Children {
		child.Traverse(callback)
	}
}

// Find finds a node by name
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}
