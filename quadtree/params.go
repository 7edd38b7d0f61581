package quadtree

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/nbody/parameter"
)

// Params tunes the opening criterion, the softening thresholds and subdivision
type Params struct {
	// OpeningFactor: a node is opened when width² >= OpeningFactor·distance²
	OpeningFactor float64
	// FarFieldEpsilon: aggregate force applied only beyond this distance
	FarFieldEpsilon float64
	// NearFieldFloor: exact pairwise force applied only beyond this distance
	NearFieldFloor float64
	// DuplicateTolerance: per-axis distance under which a second particle is dropped
	DuplicateTolerance float64
	// MaxDepth > 0 turns nodes at that depth into buckets instead of subdividing further
	MaxDepth int
	// Strict panics on insertions outside the root rectangle; on by default in debug builds
	Strict bool
}

// DefaultParams returns the reference thresholds with unbounded depth
// Strict follows the build: enabled with the debug tag, disabled otherwise
func DefaultParams() Params {
	return Params{
		OpeningFactor:      parameter.OpeningFactor,
		FarFieldEpsilon:    parameter.FarFieldEpsilon,
		NearFieldFloor:     parameter.NearFieldFloor,
		DuplicateTolerance: parameter.DuplicateTolerance,
		MaxDepth:           parameter.MaxDepth,
		Strict:             strictInserts,
	}
}

// ExactParams returns DefaultParams with the opening criterion forcing full traversal
func ExactParams() Params {
	p := DefaultParams()
	p.OpeningFactor = 0
	return p
}

// Validate rejects negative thresholds
func (p Params) Validate() error {
	switch {
	case p.OpeningFactor < 0:
		return errors.Errorf("opening factor must be >= 0, got %g", p.OpeningFactor)
	case p.FarFieldEpsilon < 0:
		return errors.Errorf("far-field epsilon must be >= 0, got %g", p.FarFieldEpsilon)
	case p.NearFieldFloor < 0:
		return errors.Errorf("near-field floor must be >= 0, got %g", p.NearFieldFloor)
	case p.DuplicateTolerance < 0:
		return errors.Errorf("duplicate tolerance must be >= 0, got %g", p.DuplicateTolerance)
	case p.MaxDepth < 0:
		return errors.Errorf("max depth must be >= 0, got %d", p.MaxDepth)
	}
	return nil
}
