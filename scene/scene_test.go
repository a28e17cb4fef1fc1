package scene

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ring-arena/math"
)

const eps = 1e-4

func assertVec3(t *testing.T, want, got math.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "X")
	assert.InDelta(t, want.Y, got.Y, eps, "Y")
	assert.InDelta(t, want.Z, got.Z, eps, "Z")
}

func TestNodeWorldMatrixFollowsParent(t *testing.T) {
	parent := NewNode("parent")
	parent.SetPosition(math.Vec3{X: 10})
	child := NewNode("child")
	child.SetPosition(math.Vec3{X: 1, Y: 2, Z: 3})
	parent.AddChild(child)

	assertVec3(t, math.Vec3{X: 11, Y: 2, Z: 3}, child.GetWorldMatrix().MulPoint(math.Vec3Zero))

	parent.SetPositionX(-5)
	assertVec3(t, math.Vec3{X: -4, Y: 2, Z: 3}, child.GetWorldMatrix().MulPoint(math.Vec3Zero))
}

func TestNodeRotationYKeepsOtherAngles(t *testing.T) {
	n := NewNode("n")
	n.SetRotation(math.Vec3{X: 0.25, Y: 1, Z: -0.5})
	n.SetRotationY(2)
	assert.Equal(t, math.Vec3{X: 0.25, Y: 2, Z: -0.5}, n.Transform.Rotation)
}

func TestSceneAssignsIDsPerScene(t *testing.T) {
	a := NewScene()
	b := NewScene()
	assert.Equal(t, uint32(1), a.Root.ID)
	assert.Equal(t, uint32(1), b.Root.ID)

	n1 := NewNode("one")
	n2 := NewNode("two")
	n2.AddChild(NewNode("nested"))
	a.AddNode(n1)
	a.AddNode(n2)

	assert.Equal(t, uint32(2), n1.ID)
	assert.Equal(t, uint32(3), n2.ID)
	assert.Equal(t, uint32(4), n2.Find("nested").ID)

	other := NewNode("other")
	b.AddNode(other)
	assert.Equal(t, uint32(2), other.ID)
}

func TestSceneVisibleNodesAndObjectCount(t *testing.T) {
	s := NewScene()
	box := CreateBox(1, 1, 1)
	s.AddNode(NewMeshNode("a", box, math.Vec3{}))
	hidden := NewMeshNode("b", box, math.Vec3{X: 1})
	hidden.Visible = false
	s.AddNode(hidden)
	s.AddNode(NewNode("empty"))

	assert.Equal(t, 2, s.ObjectCount())
	visible := s.GetVisibleNodes()
	require.Len(t, visible, 1)
	assert.Equal(t, "a", visible[0].Name)

	s.RemoveNode(hidden)
	assert.Equal(t, 1, s.ObjectCount())
	assert.Nil(t, s.Root.Find("b"))
}

func TestCreateBox(t *testing.T) {
	m := CreateBox(100, 0.1, 200)
	assert.Len(t, m.Vertices, 24)
	assert.Len(t, m.Indices, 36)
	assert.Equal(t, 12, m.TriangleCount())
	for _, v := range m.Vertices {
		assert.InDelta(t, 50, math32.Abs(v.Position.X), eps)
		assert.InDelta(t, 0.05, math32.Abs(v.Position.Y), eps)
		assert.InDelta(t, 100, math32.Abs(v.Position.Z), eps)
		assert.InDelta(t, 1, v.Normal.Length(), eps)
	}
}

func TestCreateBoxFacesPointOutward(t *testing.T) {
	m := CreateBox(2, 2, 2)
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		assert.Greater(t, n.Dot(a.Normal), float32(0), "triangle %d", i/3)
	}
}

func TestCreateTorus(t *testing.T) {
	const radius, tube = 0.7, 0.2
	m := CreateTorus(radius, tube, 16, 100)
	assert.Len(t, m.Vertices, 17*101)
	assert.Len(t, m.Indices, 16*100*6)

	for _, v := range m.Vertices {
		ringDist := math32.Sqrt(v.Position.X*v.Position.X + v.Position.Y*v.Position.Y)
		d := math32.Sqrt((ringDist-radius)*(ringDist-radius) + v.Position.Z*v.Position.Z)
		assert.InDelta(t, tube, d, eps)
	}
}

func TestCreateSphere(t *testing.T) {
	m := CreateSphere(1, 8, 4)
	assert.Len(t, m.Vertices, 9*5)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Position.Length(), eps)
	}
}

func TestWireframeDedupesEdges(t *testing.T) {
	w := Wireframe(CreateBox(1, 1, 1))
	assert.Equal(t, DrawLines, w.DrawMode)
	// Four sides and one diagonal per face.
	assert.Len(t, w.Indices, 6*5*2)
	assert.Equal(t, 0, w.TriangleCount())
}

func TestComputeTangentsOrthonormal(t *testing.T) {
	m := CreateBox(2, 2, 2)
	ComputeTangents(m)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Tangent.Length(), eps)
		assert.InDelta(t, 0, v.Tangent.Dot(v.Normal), eps)
	}
}

func TestCameraAspect(t *testing.T) {
	c := NewCamera(75, 1, 0.1, 100)
	c.UpdateAspectRatio(1600, 900)
	assert.InDelta(t, 16.0/9.0, c.AspectRatio, 1e-6)

	c.UpdateAspectRatio(800, 0)
	assert.InDelta(t, 16.0/9.0, c.AspectRatio, 1e-6)

	p := c.GetProjectionMatrix()
	f := 1 / math32.Tan(math.DegToRad(75)/2)
	assert.InDelta(t, f/c.AspectRatio, p[0][0], eps)
	assert.InDelta(t, f, p[1][1], eps)
}

func TestCameraViewMapsTargetOntoAxis(t *testing.T) {
	c := NewCamera(75, 1, 0.1, 100)
	c.SetPosition(math.Vec3{X: 20, Y: 10, Z: 80})
	c.LookAt(math.Vec3Zero)
	dist := c.Position.Length()
	assertVec3(t, math.Vec3{Z: -dist}, c.GetViewMatrix().MulPoint(math.Vec3Zero))
}

func newTestControls(pos math.Vec3, fov float32) (*Camera, *OrbitControls) {
	c := NewCamera(fov, 1, 0.1, 100)
	c.SetPosition(pos)
	c.LookAt(math.Vec3Zero)
	o := NewOrbitControls(c)
	o.SetViewportHeight(400)
	return c, o
}

func TestOrbitControlsIdleUpdateKeepsCamera(t *testing.T) {
	c, o := newTestControls(math.Vec3{X: 20, Y: 10, Z: 80}, 75)
	assert.False(t, o.Update())
	assertVec3(t, math.Vec3{X: 20, Y: 10, Z: 80}, c.Position)
}

func TestOrbitControlsRotateQuarterTurn(t *testing.T) {
	c, o := newTestControls(math.Vec3{Z: 10}, 75)
	o.PointerDown(ButtonLeft, 100, 100)
	assert.True(t, o.Dragging())
	o.PointerMove(200, 100)
	o.PointerUp(ButtonLeft)
	assert.False(t, o.Dragging())

	assert.True(t, o.Update())
	assertVec3(t, math.Vec3{X: -10}, c.Position)
	assertVec3(t, math.Vec3Zero, c.Target)
}

func TestOrbitControlsRotateKeepsDistance(t *testing.T) {
	c, o := newTestControls(math.Vec3{X: 20, Y: 10, Z: 80}, 75)
	before := c.Position.Length()
	o.PointerDown(ButtonLeft, 10, 10)
	o.PointerMove(57, 31)
	o.PointerMove(80, 12)
	o.Update()
	assert.InDelta(t, before, c.Position.Length(), 1e-3)
}

func TestOrbitControlsPolarClamp(t *testing.T) {
	c, o := newTestControls(math.Vec3{Z: 10}, 75)
	o.PointerDown(ButtonLeft, 0, 0)
	o.PointerMove(0, 4000)
	o.Update()
	assert.InDelta(t, 10, c.Position.Y, 1e-3)
	assert.False(t, math32.IsNaN(c.Position.X))
	assert.InDelta(t, 10, c.Position.Length(), 1e-3)
}

func TestOrbitControlsWheel(t *testing.T) {
	c, o := newTestControls(math.Vec3{Z: 10}, 75)
	o.Wheel(1)
	o.Update()
	assert.InDelta(t, 9.5, c.Position.Length(), 1e-3)

	o.Wheel(-1)
	o.Update()
	assert.InDelta(t, 10, c.Position.Length(), 1e-3)

	o.MinDistance = 9.8
	o.Wheel(1)
	o.Update()
	assert.InDelta(t, 9.8, c.Position.Length(), 1e-3)
}

func TestOrbitControlsPan(t *testing.T) {
	c, o := newTestControls(math.Vec3{Z: 10}, 90)
	o.SetViewportHeight(100)
	o.PointerDown(ButtonRight, 50, 50)
	o.PointerMove(60, 50)
	o.Update()
	assertVec3(t, math.Vec3{X: -2}, c.Target)
	assertVec3(t, math.Vec3{X: -2, Z: 10}, c.Position)
}

func TestOrbitControlsDisabled(t *testing.T) {
	c, o := newTestControls(math.Vec3{Z: 10}, 75)
	o.Enabled = false
	o.PointerDown(ButtonLeft, 0, 0)
	o.PointerMove(300, 0)
	o.Wheel(1)
	assert.False(t, o.Update())
	assertVec3(t, math.Vec3{Z: 10}, c.Position)
}
