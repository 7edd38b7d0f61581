package physics

import (
	"math"

	"github.com/lixenwraith/nbody/particle"
	"github.com/lixenwraith/nbody/vmath"
)

// DirectForce returns the exact O(n) pull of all other particles on ps[i]
// Pairs at or inside floor contribute nothing, matching the tree's near-field rule
func DirectForce(ps []particle.PointMass, i int, g, floor float64) vmath.Vec2 {
	var f vmath.Vec2
	target := &ps[i]
	for j := range ps {
		if j == i {
			continue
		}
		diff := ps[j].Position.Sub(target.Position)
		d2 := diff.LenSqr()
		d := math.Sqrt(d2)
		if d <= floor {
			continue
		}
		f = f.Add(diff.Mul(g * target.Mass * ps[j].Mass / d2 / d))
	}
	return f
}

// DirectForces accumulates the exact O(n²) pairwise sum into every particle's Force
func DirectForces(ps []particle.PointMass, g, floor float64) {
	for i := range ps {
		ps[i].Force = ps[i].Force.Add(DirectForce(ps, i, g, floor))
	}
}
