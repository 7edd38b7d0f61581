// Package audio plays a short tone per written frame whose pitch follows the kinetic energy
package audio

import (
	"math"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/sim"
	"github.com/lixenwraith/nbody/vmath"
)

// PitchFor maps kinetic energy to a frequency: CueOctaves above CueBaseFreq across CueEnergyDecades
func PitchFor(energy float64) float64 {
	if energy <= 0 || math.IsNaN(energy) {
		return parameter.CueBaseFreq
	}
	t := vmath.Clamp(math.Log10(1+energy)/parameter.CueEnergyDecades, 0, 1)
	return parameter.CueBaseFreq * math.Pow(2, t*parameter.CueOctaves)
}

// Cue implements sim.Sink; it is a no-op until Init succeeds
type Cue struct {
	rate    beep.SampleRate
	volume  float64
	enabled atomic.Bool
	played  atomic.Uint64
}

// NewCue creates a cue at the given linear volume
func NewCue(volume float64) *Cue {
	return &Cue{
		rate:   beep.SampleRate(parameter.AudioSampleRate),
		volume: volume,
	}
}

// Init opens the speaker
// Failure is not fatal: callers log it and continue without sound
func (c *Cue) Init() error {
	if err := speaker.Init(c.rate, c.rate.N(parameter.AudioBufferDuration)); err != nil {
		return errors.Wrap(err, "speaker init")
	}
	c.enabled.Store(true)
	return nil
}

// Enabled reports whether the speaker is open
func (c *Cue) Enabled() bool {
	return c.enabled.Load()
}

// Played returns the number of cues handed to the speaker
func (c *Cue) Played() uint64 {
	return c.played.Load()
}

// Streamer builds the tone for one frame
func (c *Cue) Streamer(energy float64) beep.Streamer {
	osc := NewOscillator(PitchFor(energy), parameter.CueDuration, WaveSine, c.rate)
	env := NewEnvelope(osc, parameter.CueDuration, parameter.CueAttack, parameter.CueRelease, c.rate)
	return newVolume(env, c.volume)
}

// WriteFrame implements sim.Sink
func (c *Cue) WriteFrame(f *sim.Frame) error {
	if !c.enabled.Load() {
		return nil
	}
	speaker.Play(c.Streamer(f.Stats.KineticEnergy))
	c.played.Add(1)
	klog.V(4).InfoS("Cue played", "frame", f.Index, "freq", PitchFor(f.Stats.KineticEnergy))
	return nil
}

// Close releases the speaker
func (c *Cue) Close() {
	if c.enabled.Swap(false) {
		speaker.Close()
	}
}
