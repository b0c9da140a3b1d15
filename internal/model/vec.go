package model

import "math"

// Vec3 is a point or direction in world space. Y is up; the ground plane is XZ.
// Value type, passed by value (immutable).
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// NewVec3 creates a Vec3.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LengthSquared returns |v|² (no sqrt).
func (v Vec3) LengthSquared() float64 {
	return v.Dot(v)
}

// Length returns |v|.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Distance returns the straight-line distance to o.
func (v Vec3) Distance(o Vec3) float64 {
	return o.Sub(v).Length()
}

// DistanceSquared returns the squared distance to o.
func (v Vec3) DistanceSquared(o Vec3) float64 {
	return o.Sub(v).LengthSquared()
}

// Normalized returns the unit vector in the direction of v.
// The zero vector normalizes to itself.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// IsZero reports whether v is (numerically) the zero vector.
func (v Vec3) IsZero() bool {
	return v.LengthSquared() < Epsilon*Epsilon
}

// AngleTo returns the unsigned angle between v and o in degrees, in [0, 180].
// Returns 0 when either vector is zero.
func (v Vec3) AngleTo(o Vec3) float64 {
	denom := math.Sqrt(v.LengthSquared() * o.LengthSquared())
	if denom < Epsilon {
		return 0
	}
	cos := v.Dot(o) / denom
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// RotateY rotates v around the up axis by deg degrees (clockwise seen from above,
// so a positive angle turns +Z toward +X).
func (v Vec3) RotateY(deg float64) Vec3 {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// Epsilon is the tolerance used for zero-length checks.
const Epsilon = 1e-6
