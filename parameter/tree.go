package parameter

// Barnes-Hut tree tunables
// Defaults reproduce the reference numeric behavior exactly
const (
	// OpeningFactor is compared as width² >= OpeningFactor·distance²; 0.7 ≈ θ 0.84
	// 0 forces exact traversal
	OpeningFactor = 0.7

	// FarFieldEpsilon suppresses aggregate forces closer than this distance
	FarFieldEpsilon = 1e-6

	// NearFieldFloor suppresses exact pairwise forces at or below this distance
	// Also removes self-interaction (distance 0)
	NearFieldFloor = 0.5

	// DuplicateTolerance drops an insertion whose coordinates both differ by less than this
	DuplicateTolerance = 1e-4

	// MaxDepth 0 means unbounded subdivision
	MaxDepth = 0
)
