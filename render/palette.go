package render

import (
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/lixenwraith/nbody/vmath"
)

// Palette maps an accumulated density value to a color
type Palette func(density float64) color.RGBA

// brightness compresses density logarithmically, matching eye response
func brightness(density float64) float64 {
	return math.Log(1+3*density) / 20.0
}

// LogPalette is the blue/green logarithmic map: (s, 1.5s, 1.7s)
func LogPalette(density float64) color.RGBA {
	s := brightness(density)
	return FloatToRGB(s, s*1.5, s*1.7)
}

// CosinePalette bands brightness through a raised cosine per channel
func CosinePalette(density float64) color.RGBA {
	s := brightness(density)
	ch := func(k float64) float64 {
		return (1 - math.Cos(math.Pi*vmath.Clamp(s*k, 0, 1))) / 2
	}
	return FloatToRGB(ch(1), ch(1.5), ch(1.7))
}

// heatStops is a black → indigo → cyan → white gradient
var heatStops = []colorful.Color{
	{R: 0, G: 0, B: 0},
	{R: 0.17, G: 0.05, B: 0.45},
	{R: 0.0, G: 0.75, B: 0.85},
	{R: 1, G: 1, B: 1},
}

// HeatPalette blends brightness across heatStops in HCL space
func HeatPalette(density float64) color.RGBA {
	t := vmath.Clamp(brightness(density)*1.7, 0, 1)
	seg := t * float64(len(heatStops)-1)
	i := int(seg)
	if i >= len(heatStops)-1 {
		i = len(heatStops) - 2
	}
	c := heatStops[i].BlendHcl(heatStops[i+1], seg-float64(i)).Clamped()
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

var palettes = map[string]Palette{
	"log":    LogPalette,
	"cosine": CosinePalette,
	"heat":   HeatPalette,
}

// PaletteByName resolves a palette
func PaletteByName(name string) (Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return nil, errors.Errorf("unknown palette %q (have %v)", name, PaletteNames())
	}
	return p, nil
}

// PaletteNames returns registered palette names, sorted
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
