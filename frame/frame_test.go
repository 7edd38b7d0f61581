package frame

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/lixenwraith/nbody/particle"
	"github.com/lixenwraith/nbody/quadtree"
	"github.com/lixenwraith/nbody/render"
	"github.com/lixenwraith/nbody/sim"
	"github.com/lixenwraith/nbody/vmath"
)

// TestFilename verifies zero padding of frame numbers
func TestFilename(t *testing.T) {
	tests := []struct {
		num, pad int
		want     string
	}{
		{0, 5, "out/image00000.bmp"},
		{32, 5, "out/image00032.bmp"},
		{123456, 5, "out/image123456.bmp"},
		{7, 0, "out/image7.bmp"},
	}
	for _, tt := range tests {
		if got := Filename("out/image", tt.num, tt.pad, ".bmp"); got != tt.want {
			t.Errorf("Expected %s, got %s", tt.want, got)
		}
	}
}

// TestEncoderFor verifies suffix dispatch
func TestEncoderFor(t *testing.T) {
	for _, s := range []string{".bmp", ".BMP", ".png"} {
		enc, err := EncoderFor(s)
		assert.NoError(t, err, s)
		assert.NotNil(t, enc, s)
	}
	_, err := EncoderFor(".jpg")
	assert.Error(t, err)
	_, err = EncoderFor("")
	assert.Error(t, err)
}

func testFrame(index int) *sim.Frame {
	return &sim.Frame{
		Index: index,
		Particles: []particle.PointMass{
			{Position: vmath.V2(5, 5), Mass: 1},
			{Position: vmath.V2(10, 12), Mass: 1},
		},
		Stats: sim.StepStats{
			Step:          index + 1,
			Tree:          quadtree.Stats{Nodes: 5, Particles: 2, MaxDepth: 1, Leaves: 2, Empty: 2, Internal: 1},
			Total:         20 * time.Millisecond,
			KineticEnergy: 1.5,
			Momentum:      vmath.V2(0.25, -1),
		},
	}
}

// TestFileSinkWritesBMP verifies frames are rendered, written and recorded
func TestFileSinkWritesBMP(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "nested", "image")
	r := render.NewRenderer(32, 24, render.Transform{Scale: 1}, 100, render.LogPalette)
	m := NewManifest(nil)

	sink, err := NewFileSink(prefix, 5, ".bmp", r, m)
	require.NoError(t, err)
	require.NoError(t, sink.WriteFrame(testFrame(0)))
	require.NoError(t, sink.WriteFrame(testFrame(1)))

	name := filepath.Join(dir, "nested", "image00001.bmp")
	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	img, err := bmp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())

	_, g, _, _ := img.At(5, 5).RGBA()
	assert.NotZero(t, g, "particle pixel must be lit")

	require.Len(t, m.Frames, 2)
	assert.Equal(t, name, m.Frames[1].File)
	assert.Equal(t, 2, m.Frames[1].Step)
}

// TestFileSinkRejectsBadNaming verifies construction errors
func TestFileSinkRejectsBadNaming(t *testing.T) {
	r := render.NewRenderer(4, 4, render.Transform{Scale: 1}, 1, render.LogPalette)
	_, err := NewFileSink(filepath.Join(t.TempDir(), "img"), 5, ".gif", r, nil)
	assert.Error(t, err)
	_, err = NewFileSink(filepath.Join(t.TempDir(), "img"), -1, ".png", r, nil)
	assert.Error(t, err)
}

// TestManifestWriteRead verifies the YAML manifest keeps run identity and per-frame diagnostics
func TestManifestWriteRead(t *testing.T) {
	m := NewManifest(map[string]any{"particles": 2})
	require.NotEmpty(t, m.RunID)
	m.Add("a.bmp", testFrame(0))
	m.Add("b.bmp", testFrame(1))

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), m.RunID)
	assert.Contains(t, string(data), "kineticEnergy: 1.5")

	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, got.RunID)
	require.Len(t, got.Frames, 2)
	assert.Equal(t, m.Frames, got.Frames)
	assert.True(t, m.Started.Equal(got.Started))
}

// TestManifestUniqueRunIDs verifies every manifest gets its own id
func TestManifestUniqueRunIDs(t *testing.T) {
	assert.NotEqual(t, NewManifest(nil).RunID, NewManifest(nil).RunID)
}
