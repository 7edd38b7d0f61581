package render

import (
	"image/color"
	"math"
)

// clamp converts a [0, 1] channel to uint8 with rounding, saturating outside the range
func clamp(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}

// FloatToRGB maps three [0, 1] channels to an opaque color
func FloatToRGB(r, g, b float64) color.RGBA {
	return color.RGBA{R: clamp(r), G: clamp(g), B: clamp(b), A: 255}
}
