package math

import (
	stdmath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func flatten(m Mat4) []float32 {
	out := make([]float32, 0, 16)
	for i := 0; i < 4; i++ {
		out = append(out, m[i][:]...)
	}
	return out
}

func assertMatEqual(t *testing.T, want mgl32.Mat4, got Mat4) {
	t.Helper()
	g := flatten(got)
	for i := range want {
		assert.InDelta(t, want[i], g[i], 1e-5, "element %d", i)
	}
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), v1.Add(v2))
	assert.Equal(t, NewVec3(3, 3, 3), v2.Sub(v1))
	assert.Equal(t, NewVec3(2, 4, 6), v1.Mul(2))
	assert.Equal(t, float32(32), v1.Dot(v2))
	assert.Equal(t, Vec3Front, Vec3Right.Cross(Vec3Up))
}

func TestVec3Normalize(t *testing.T) {
	n := NewVec3(3, 0, 4).Normalize()
	assert.InDelta(t, 1, n.Length(), 1e-6)
	assert.Equal(t, Vec3Zero, Vec3Zero.Normalize())
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)
	assert.Equal(t, translation, m.MulPoint(Vec3Zero))
}

func TestMat4TRSOrder(t *testing.T) {
	// rotate +90° about Y, then translate: (1,0,0) -> (0,0,-1) -> (10,0,-1)
	m := Mat4TRS(NewVec3(10, 0, 0), NewVec3(0, float32(stdmath.Pi/2), 0), Vec3One)
	p := m.MulPoint(Vec3Right)
	assert.InDelta(t, 10, p.X, 1e-5)
	assert.InDelta(t, 0, p.Y, 1e-5)
	assert.InDelta(t, -1, p.Z, 1e-5)
}

func TestMat4ScaleBeforeTranslate(t *testing.T) {
	m := Mat4TRS(NewVec3(0, 5, 0), Vec3Zero, NewVec3(2, 2, 2))
	assert.Equal(t, NewVec3(2, 7, 2), m.MulPoint(Vec3One))
}

func TestMat4PerspectiveMatchesMathgl(t *testing.T) {
	fov := DegToRad(75)
	want := mgl32.Perspective(fov, 16.0/9.0, 0.1, 100)
	assertMatEqual(t, want, Mat4Perspective(fov, 16.0/9.0, 0.1, 100))
}

func TestMat4LookAtMatchesMathgl(t *testing.T) {
	eye := NewVec3(20, 10, 80)
	want := mgl32.LookAtV(mgl32.Vec3{20, 10, 80}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)
	assertMatEqual(t, want, m)

	o := m.MulPoint(eye)
	assert.InDelta(t, 0, o.Length(), 1e-4)
}

func TestMat4IdentityMul(t *testing.T) {
	m := Mat4RotationX(0.3).Mul(Mat4RotationZ(1.1))
	assert.Equal(t, m, m.Mul(Mat4Identity()))
	assert.Equal(t, m, Mat4Identity().Mul(m))
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4RotationY(0.5)
	m2 := Mat4Translation(NewVec3(1, 2, 3))

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
