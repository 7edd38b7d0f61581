package physics

import (
	"github.com/lixenwraith/nbody/particle"
	"github.com/lixenwraith/nbody/vmath"
)

// Leapfrog advances every particle one kick-drift step: v += a·dt; p += v·dt
// a = Force/Mass; massless particles coast
// Velocity is staggered half a step behind position
func Leapfrog(ps []particle.PointMass, dt float64) {
	for i := range ps {
		Integrate(&ps[i], dt)
	}
}

// Integrate performs one kick-drift step on a single particle
func Integrate(p *particle.PointMass, dt float64) {
	if p.Mass > 0 {
		p.Velocity = p.Velocity.Add(p.Force.Mul(dt / p.Mass))
	}
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
}

// KineticEnergy returns Σ ½·m·|v|²
func KineticEnergy(ps []particle.PointMass) float64 {
	var e float64
	for i := range ps {
		e += 0.5 * ps[i].Mass * ps[i].Velocity.LenSqr()
	}
	return e
}

// Momentum returns Σ m·v
func Momentum(ps []particle.PointMass) vmath.Vec2 {
	var m vmath.Vec2
	for i := range ps {
		m = m.Add(ps[i].Velocity.Mul(ps[i].Mass))
	}
	return m
}

// AngularMomentum returns Σ m·(r × v) about origin
func AngularMomentum(ps []particle.PointMass, origin vmath.Vec2) float64 {
	var l float64
	for i := range ps {
		r := ps[i].Position.Sub(origin)
		l += ps[i].Mass * vmath.Cross2(r, ps[i].Velocity)
	}
	return l
}
