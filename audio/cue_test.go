package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/sim"
)

// drain streams s to completion and returns every left-channel sample
func drain(s beep.Streamer) []float64 {
	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, buf[i][0])
		}
		if !ok || n == 0 {
			return out
		}
	}
}

// TestOscillatorLength verifies the tone stops after its duration
func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 100*time.Millisecond, WaveSine, rate)

	samples := drain(osc)
	if len(samples) != rate.N(100*time.Millisecond) {
		t.Errorf("Expected %d samples, got %d", rate.N(100*time.Millisecond), len(samples))
	}
	for i, v := range samples {
		if v < -1 || v > 1 {
			t.Fatalf("Sample %d out of range: %f", i, v)
		}
	}
	assert.NoError(t, osc.Err())
}

// TestTriangleRange verifies the triangle wave spans [-1, 1]
func TestTriangleRange(t *testing.T) {
	rate := beep.SampleRate(8000)
	samples := drain(NewOscillator(100, 50*time.Millisecond, WaveTriangle, rate))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range samples {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	assert.InDelta(t, -1, lo, 0.05)
	assert.InDelta(t, 1, hi, 0.05)
}

// TestEnvelopeShape verifies the attack starts silent and the release ends near silence
func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(1000, 100*time.Millisecond, WaveTriangle, rate)
	env := NewEnvelope(osc, 100*time.Millisecond, 10*time.Millisecond, 20*time.Millisecond, rate)

	samples := drain(env)
	assert.Len(t, samples, rate.N(100*time.Millisecond))
	assert.Equal(t, 0.0, samples[0], "attack starts at zero gain")

	peak := 0.0
	for _, v := range samples[rate.N(30*time.Millisecond):rate.N(70*time.Millisecond)] {
		peak = math.Max(peak, math.Abs(v))
	}
	assert.Greater(t, peak, 0.9, "sustain is at full gain")

	tail := samples[len(samples)-1]
	assert.Less(t, math.Abs(tail), 0.01)
}

// TestVolumeSilentAtZero verifies zero volume mutes the stream
func TestVolumeSilentAtZero(t *testing.T) {
	rate := beep.SampleRate(8000)
	samples := drain(newVolume(NewOscillator(440, 10*time.Millisecond, WaveSine, rate), 0))
	for _, v := range samples {
		assert.Equal(t, 0.0, v)
	}
}

// TestPitchFor verifies the energy-to-pitch mapping is monotone and bounded
func TestPitchFor(t *testing.T) {
	base := parameter.CueBaseFreq
	top := base * math.Pow(2, parameter.CueOctaves)

	assert.Equal(t, base, PitchFor(0))
	assert.Equal(t, base, PitchFor(-5))
	assert.Equal(t, base, PitchFor(math.NaN()))
	assert.InDelta(t, top, PitchFor(1e30), 1e-9)

	prev := PitchFor(0)
	for _, e := range []float64{1, 10, 1e3, 1e6} {
		p := PitchFor(e)
		assert.Greater(t, p, prev)
		prev = p
	}
}

// TestCueStreamerAmplitude verifies the cue respects its volume
func TestCueStreamerAmplitude(t *testing.T) {
	c := NewCue(0.4)
	samples := drain(c.Streamer(100))
	assert.Len(t, samples, beep.SampleRate(parameter.AudioSampleRate).N(parameter.CueDuration))
	for _, v := range samples {
		assert.LessOrEqual(t, math.Abs(v), 0.4+1e-9)
	}
}

// TestCueDisabledIsNoop verifies frames are accepted without an open speaker
func TestCueDisabledIsNoop(t *testing.T) {
	c := NewCue(0.4)
	assert.False(t, c.Enabled())
	assert.NoError(t, c.WriteFrame(&sim.Frame{}))
	assert.Equal(t, uint64(0), c.Played())
	c.Close()
}
