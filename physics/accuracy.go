package physics

import (
	"math"
	"time"

	"github.com/lixenwraith/nbody/particle"
	"github.com/lixenwraith/nbody/quadtree"
	"github.com/lixenwraith/nbody/vmath"
)

// AccuracyResult compares tree forces at one opening factor against the direct sum
type AccuracyResult struct {
	OpeningFactor float64
	// RMSRelative is sqrt(mean(|F_tree - F_direct|² / |F_direct|²)) over particles with nonzero direct force
	RMSRelative float64
	// MaxRelative is the worst single-particle relative error
	MaxRelative float64
	TreeTime    time.Duration
	DirectTime  time.Duration
}

// CompareOpening rebuilds a tree over a copy of ps for every factor and measures force error
// ps is not modified
func CompareOpening(ps []particle.PointMass, g, padding float64, base quadtree.Params, factors []float64) []AccuracyResult {
	work := make([]particle.PointMass, len(ps))
	copy(work, ps)

	start := time.Now()
	particle.ZeroForces(work)
	DirectForces(work, g, base.NearFieldFloor)
	direct := make([]vmath.Vec2, len(work))
	for i := range work {
		direct[i] = work[i].Force
	}
	directTime := time.Since(start)

	bounds := particle.Bounds(work, padding)
	results := make([]AccuracyResult, 0, len(factors))
	for _, f := range factors {
		params := base
		params.OpeningFactor = f

		start = time.Now()
		tree := quadtree.New(bounds.TopLeft, bounds.BottomRight, params)
		for i := range work {
			tree.Insert(&work[i])
		}
		particle.ZeroForces(work)
		for i := range work {
			tree.QueryForce(&work[i], g)
		}
		res := AccuracyResult{
			OpeningFactor: f,
			TreeTime:      time.Since(start),
			DirectTime:    directTime,
		}

		var sum float64
		var n int
		for i := range work {
			ref := direct[i].LenSqr()
			if ref == 0 {
				continue
			}
			rel := work[i].Force.Sub(direct[i]).LenSqr() / ref
			sum += rel
			n++
			if r := math.Sqrt(rel); r > res.MaxRelative {
				res.MaxRelative = r
			}
		}
		if n > 0 {
			res.RMSRelative = math.Sqrt(sum / float64(n))
		}
		results = append(results, res)
	}
	return results
}
