package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/nbody/particle"
	"github.com/lixenwraith/nbody/vmath"
)

// TestClampChannel verifies saturation and rounding of float channels
func TestClampChannel(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{-1, 0},
		{math.NaN(), 0},
		{1, 255},
		{2.5, 255},
		{0.5, 128},
	}
	for _, tt := range tests {
		if got := clamp(tt.in); got != tt.want {
			t.Errorf("clamp(%v): Expected %d, got %d", tt.in, tt.want, got)
		}
	}
	assert.Equal(t, color.RGBA{R: 0, G: 255, B: 128, A: 255}, FloatToRGB(-3, 3, 0.5))
}

// TestLogPalette verifies the logarithmic blue/green map
func TestLogPalette(t *testing.T) {
	assert.Equal(t, color.RGBA{A: 255}, LogPalette(0))

	// One particle at weight 100: s = ln(301)/20
	assert.Equal(t, color.RGBA{R: 73, G: 109, B: 124, A: 255}, LogPalette(100))

	prev := LogPalette(0)
	for _, d := range []float64{1, 10, 100, 1e3, 1e5} {
		c := LogPalette(d)
		assert.GreaterOrEqual(t, c.B, prev.B, "blue must not decrease at %g", d)
		assert.GreaterOrEqual(t, c.B, c.G)
		assert.GreaterOrEqual(t, c.G, c.R)
		prev = c
	}
	assert.Equal(t, uint8(255), LogPalette(1e9).B)
}

// TestPaletteRegistry verifies lookup by name
func TestPaletteRegistry(t *testing.T) {
	assert.Equal(t, []string{"cosine", "heat", "log"}, PaletteNames())
	for _, name := range PaletteNames() {
		p, err := PaletteByName(name)
		require.NoError(t, err)
		c := p(0)
		assert.LessOrEqual(t, c.R, uint8(2), "%s must start near black", name)
		assert.Equal(t, uint8(255), c.A)
	}
	_, err := PaletteByName("rainbow")
	assert.Error(t, err)
}

// TestHeatPaletteSaturates verifies the gradient ends near white
func TestHeatPaletteSaturates(t *testing.T) {
	c := HeatPalette(1e12)
	assert.GreaterOrEqual(t, c.R, uint8(250))
	assert.GreaterOrEqual(t, c.G, uint8(250))
	assert.GreaterOrEqual(t, c.B, uint8(250))
}

// TestTransformPixel verifies truncation happens before the offset
func TestTransformPixel(t *testing.T) {
	tr := Transform{Scale: 1.2, OffsetX: -100, OffsetY: -100}
	x, y := tr.Pixel(vmath.V2(500, 500))
	assert.Equal(t, 500, x)
	assert.Equal(t, 500, y)

	x, y = tr.Pixel(vmath.V2(0.9, 999.9))
	assert.Equal(t, -99, x)
	assert.Equal(t, 1099, y)
}

// TestFitCenters verifies Fit maps the rectangle center to the grid center
func TestFitCenters(t *testing.T) {
	r := vmath.NewRect(vmath.V2(0, 100), vmath.V2(200, 0))
	tr := Fit(r, 100, 100)
	assert.Equal(t, 0.5, tr.Scale)
	x, y := tr.Pixel(r.Center())
	assert.Equal(t, 50, x)
	assert.Equal(t, 50, y)

	assert.Equal(t, 1.0, Fit(vmath.Rect{}, 10, 10).Scale)
}

// TestHistogramRasterize verifies accumulation and that out-of-image particles are ignored
func TestHistogramRasterize(t *testing.T) {
	h := NewHistogram(10, 10)
	ps := []particle.PointMass{
		{Position: vmath.V2(2, 3)},
		{Position: vmath.V2(2.5, 3.9)},
		{Position: vmath.V2(-5, 3)},
		{Position: vmath.V2(3, 50)},
	}
	Rasterize(h, ps, Transform{Scale: 1}, 100)

	assert.Equal(t, 200.0, h.Get(2, 3))
	assert.Equal(t, 200.0, h.Max())
	assert.Equal(t, 0.0, h.Get(-5, 3))

	h.Reset()
	assert.Equal(t, 0.0, h.Max())
}

// TestRendererImage verifies dimensions, coloring and caption drawing
func TestRendererImage(t *testing.T) {
	r := NewRenderer(100, 80, Transform{Scale: 1}, 100, LogPalette)
	ps := []particle.PointMass{{Position: vmath.V2(50, 60)}}

	img := r.Render(ps, "ignored")
	assert.Equal(t, image.Rect(0, 0, 100, 80), img.Bounds())
	assert.Equal(t, LogPalette(100), img.RGBAAt(50, 60))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, 100.0, r.Histogram().Max())

	r.Caption = true
	img = r.Render(nil, "frame 0")
	lit := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			if img.RGBAAt(x, y).R > 0 {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 0, "caption must draw pixels")
}
