package parameter

// Simulation physics
const (
	// GravitationalConstant scales every pairwise force (G·M folded into one constant)
	GravitationalConstant = 10.0

	// TimeStep is the fixed leapfrog dt
	TimeStep = 0.01

	// BoundsPadding is added on every side of the particle bounding box before the root is built
	BoundsPadding = 1.0
)

// Step loop
const (
	// FrameCount is the number of frames written by a default run (one step per frame)
	FrameCount = 30

	// FrameEvery renders a frame every N steps
	FrameEvery = 1
)
