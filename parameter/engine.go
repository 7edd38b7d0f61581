package parameter

import "time"

// Terminal viewer timing
const (
	// FrameUpdateInterval is the viewer redraw interval (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond

	// FrameQueueSize bounds frames buffered between simulation and viewer
	// WriteFrame blocks while the queue is full
	FrameQueueSize = 2

	// ViewZoomStep multiplies/divides the zoom on +/-
	ViewZoomStep = 1.25

	// ViewZoomMin, ViewZoomMax clamp the zoom factor
	ViewZoomMin = 0.1
	ViewZoomMax = 20.0
)

// Workers
const (
	// ForceWorkers 1 keeps the force pass serial; 0 means runtime.NumCPU()
	ForceWorkers = 1
)
