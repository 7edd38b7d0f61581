package physics

import (
	"math"

	"github.com/lixenwraith/nbody/vmath"
)

// OrbitalVelocity returns tangential speed for a circular orbit
// gm: G times enclosed mass; radius: distance from the attracting center
func OrbitalVelocity(gm, radius float64) float64 {
	if radius <= 0 || gm <= 0 {
		return 0
	}
	// v = sqrt(GM / r)
	return math.Sqrt(gm / radius)
}

// OrbitalInsert returns velocity vector for circular orbit insertion
// offset: position relative to center
// clockwise: orbit direction (Y up)
func OrbitalInsert(offset vmath.Vec2, gm float64, clockwise bool) vmath.Vec2 {
	radius := offset.Len()
	if radius == 0 {
		return vmath.Vec2{}
	}

	speed := OrbitalVelocity(gm, radius)

	// Tangent is perpendicular to radius
	t := vmath.Normalize2(vmath.Perpendicular(offset))
	if clockwise {
		t = t.Mul(-1)
	}
	return t.Mul(speed)
}

// EnclosedMass returns the mass inside radius r of a uniform disc of total mass m and radius rMax
func EnclosedMass(m, r, rMax float64) float64 {
	if rMax <= 0 {
		return 0
	}
	if r >= rMax {
		return m
	}
	f := r / rMax
	return m * f * f
}
