package scene

import (
	"github.com/chewxy/math32"

	reMath "ring-arena/math"
)

type orbitState int

const (
	orbitNone orbitState = iota
	orbitRotate
	orbitDolly
	orbitPan
)

// Pointer buttons understood by OrbitControls.
const (
	ButtonLeft   = 0
	ButtonRight  = 1
	ButtonMiddle = 2
)

const polarEpsilon = 1e-6

// OrbitControls orbits a Camera around its Target. Left drag rotates,
// right drag pans, middle drag and the wheel dolly. Input accumulates until
// Update applies it to the camera.
type OrbitControls struct {
	Camera  *Camera
	Enabled bool

	RotateSpeed float32
	ZoomSpeed   float32
	PanSpeed    float32

	MinDistance, MaxDistance     float32
	MinPolarAngle, MaxPolarAngle float32
	viewportHeight               float32
	state                        orbitState
	lastX, lastY                 float64
	deltaTheta, deltaPhi, scale  float32
	panOffset                    reMath.Vec3
}

func NewOrbitControls(camera *Camera) *OrbitControls {
	return &OrbitControls{
		Camera:         camera,
		Enabled:        true,
		RotateSpeed:    1,
		ZoomSpeed:      1,
		PanSpeed:       1,
		MaxDistance:    math32.Inf(1),
		MaxPolarAngle:  math32.Pi,
		viewportHeight: 1,
		scale:          1,
	}
}

// SetViewportHeight sets the client height in pixels that drag deltas are
// measured against.
func (o *OrbitControls) SetViewportHeight(h float32) {
	if h > 0 {
		o.viewportHeight = h
	}
}

// Dragging reports whether a drag gesture is in progress.
func (o *OrbitControls) Dragging() bool {
	return o.state != orbitNone
}

func (o *OrbitControls) PointerDown(button int, x, y float64) {
	if !o.Enabled {
		return
	}
	switch button {
	case ButtonLeft:
		o.state = orbitRotate
	case ButtonRight:
		o.state = orbitPan
	case ButtonMiddle:
		o.state = orbitDolly
	default:
		return
	}
	o.lastX, o.lastY = x, y
}

func (o *OrbitControls) PointerMove(x, y float64) {
	if !o.Enabled || o.state == orbitNone {
		return
	}
	dx := float32(x - o.lastX)
	dy := float32(y - o.lastY)
	o.lastX, o.lastY = x, y

	switch o.state {
	case orbitRotate:
		o.rotateLeft(2 * math32.Pi * dx / o.viewportHeight * o.RotateSpeed)
		o.rotateUp(2 * math32.Pi * dy / o.viewportHeight * o.RotateSpeed)
	case orbitPan:
		o.pan(dx*o.PanSpeed, dy*o.PanSpeed)
	case orbitDolly:
		if dy > 0 {
			o.scale /= o.zoomScale()
		} else if dy < 0 {
			o.scale *= o.zoomScale()
		}
	}
}

func (o *OrbitControls) PointerUp(int) {
	o.state = orbitNone
}

// Wheel dollies in for positive yoff (scroll up) and out for negative.
func (o *OrbitControls) Wheel(yoff float64) {
	if !o.Enabled {
		return
	}
	if yoff > 0 {
		o.scale *= o.zoomScale()
	} else if yoff < 0 {
		o.scale /= o.zoomScale()
	}
}

func (o *OrbitControls) zoomScale() float32 {
	return math32.Pow(0.95, o.ZoomSpeed)
}

func (o *OrbitControls) rotateLeft(angle float32) { o.deltaTheta -= angle }
func (o *OrbitControls) rotateUp(angle float32)   { o.deltaPhi -= angle }

func (o *OrbitControls) pan(dx, dy float32) {
	c := o.Camera
	targetDistance := c.Position.Sub(c.Target).Length() * math32.Tan(reMath.DegToRad(c.FOV)/2)
	left := c.GetRight().Mul(-2 * dx * targetDistance / o.viewportHeight)
	up := c.GetUp().Mul(2 * dy * targetDistance / o.viewportHeight)
	o.panOffset = o.panOffset.Add(left).Add(up)
}

// Update applies the accumulated input to the camera. It returns true when
// the camera moved.
func (o *OrbitControls) Update() bool {
	c := o.Camera
	offset := c.Position.Sub(c.Target)

	radius := offset.Length()
	theta := math32.Atan2(offset.X, offset.Z)
	var phi float32
	if radius > 0 {
		phi = math32.Acos(clamp(offset.Y/radius, -1, 1))
	}

	theta += o.deltaTheta
	phi += o.deltaPhi
	phi = clamp(phi, o.MinPolarAngle, o.MaxPolarAngle)
	phi = clamp(phi, polarEpsilon, math32.Pi-polarEpsilon)

	radius = clamp(radius*o.scale, o.MinDistance, o.MaxDistance)

	target := c.Target.Add(o.panOffset)
	sinPhi, cosPhi := math32.Sincos(phi)
	sinTheta, cosTheta := math32.Sincos(theta)
	offset = reMath.Vec3{
		X: radius * sinPhi * sinTheta,
		Y: radius * cosPhi,
		Z: radius * sinPhi * cosTheta,
	}

	moved := o.deltaTheta != 0 || o.deltaPhi != 0 || o.scale != 1 || o.panOffset.LengthSqr() > 0
	c.SetPosition(target.Add(offset))
	c.LookAt(target)

	o.deltaTheta, o.deltaPhi = 0, 0
	o.scale = 1
	o.panOffset = reMath.Vec3{}
	return moved
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
