package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond
)

// Frame cue
const (
	CueDuration = 120 * time.Millisecond
	CueAttack   = 5 * time.Millisecond
	CueRelease  = 80 * time.Millisecond

	// CueBaseFreq is the pitch for zero kinetic energy (A4)
	CueBaseFreq = 440.0

	// CueOctaves is the pitch span mapped over CueEnergyDecades
	CueOctaves       = 2.0
	CueEnergyDecades = 8.0

	CueVolume = 0.4
)
