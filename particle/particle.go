// Package particle holds the point-mass record shared by the driver, the tree and the integrator
package particle

import (
	"math"

	"github.com/lixenwraith/nbody/vmath"
)

// PointMass is one simulated body
// Velocity is half a step behind Position under leapfrog integration
type PointMass struct {
	Position vmath.Vec2
	Velocity vmath.Vec2
	Force    vmath.Vec2
	Mass     float64
}

// ZeroForces clears the force accumulator of every particle
func ZeroForces(ps []PointMass) {
	for i := range ps {
		ps[i].Force = vmath.Vec2{}
	}
}

// TotalMass returns Σm
func TotalMass(ps []PointMass) float64 {
	var m float64
	for i := range ps {
		m += ps[i].Mass
	}
	return m
}

// Centroid returns the mass-weighted mean position, zero vector when total mass is 0
func Centroid(ps []PointMass) vmath.Vec2 {
	var sum vmath.Vec2
	var m float64
	for i := range ps {
		sum = sum.Add(ps[i].Position.Mul(ps[i].Mass))
		m += ps[i].Mass
	}
	return vmath.Div(sum, m)
}

// Bounds returns the rectangle covering every position, grown by padding on each side
// An empty slice yields a 2·padding square around the origin
func Bounds(ps []PointMass, padding float64) vmath.Rect {
	if len(ps) == 0 {
		return vmath.NewRect(vmath.V2(-padding, padding), vmath.V2(padding, -padding))
	}

	left, right := math.Inf(1), math.Inf(-1)
	top, bottom := math.Inf(-1), math.Inf(1)
	for i := range ps {
		x, y := ps[i].Position[0], ps[i].Position[1]
		if x < left {
			left = x
		}
		if x > right {
			right = x
		}
		if y > top {
			top = y
		}
		if y < bottom {
			bottom = y
		}
	}

	return vmath.NewRect(
		vmath.V2(left-padding, top+padding),
		vmath.V2(right+padding, bottom-padding),
	)
}

// Square grows the shorter side of r around its center so width == height
func Square(r vmath.Rect) vmath.Rect {
	w, h := r.Width(), r.Height()
	if w == h {
		return r
	}
	half := math.Max(w, h) * 0.5
	c := r.Center()
	return vmath.NewRect(vmath.V2(c[0]-half, c[1]+half), vmath.V2(c[0]+half, c[1]-half))
}
