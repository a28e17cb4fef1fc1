package math

// Vec2 is used for texture coordinates and screen-space points.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}
