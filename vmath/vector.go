package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is the float64 2D vector used for positions, velocities and forces
// Alias keeps mgl64 methods (Add, Sub, Mul, Dot, Len, LenSqr) available
type Vec2 = mgl64.Vec2

// V2 constructs a Vec2
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Div divides both components by s, zero-safe (returns zero vector for s == 0)
func Div(v Vec2, s float64) Vec2 {
	if s == 0 {
		return Vec2{}
	}
	return Vec2{v[0] / s, v[1] / s}
}

// Cross2 returns the z component of the 3D cross product of (a, 0) and (b, 0)
func Cross2(a, b Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// Normalize2 returns unit vector, zero-safe
// mgl64.Vec2.Normalize yields NaN for the zero vector
func Normalize2(v Vec2) Vec2 {
	mag := v.Len()
	if mag == 0 {
		return Vec2{}
	}
	inv := 1.0 / mag
	return Vec2{v[0] * inv, v[1] * inv}
}

// DistSq returns squared distance between a and b without sqrt
func DistSq(a, b Vec2) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	return dx*dx + dy*dy
}

// Dist returns Euclidean distance between a and b
func Dist(a, b Vec2) float64 {
	return math.Sqrt(DistSq(a, b))
}

// Perpendicular returns vector rotated 90° counter-clockwise
func Perpendicular(v Vec2) Vec2 {
	return Vec2{-v[1], v[0]}
}

// Midpoint returns (a + b) / 2
func Midpoint(a, b Vec2) Vec2 {
	return Vec2{(a[0] + b[0]) * 0.5, (a[1] + b[1]) * 0.5}
}

// NearlyEqual reports |a - b| < tol on both axes
func NearlyEqual(a, b Vec2, tol float64) bool {
	return math.Abs(a[0]-b[0]) < tol && math.Abs(a[1]-b[1]) < tol
}
