package render

import (
	"math"

	"github.com/lixenwraith/nbody/particle"
	"github.com/lixenwraith/nbody/vmath"
)

// Histogram is a dense 2D float accumulator
type Histogram struct {
	Width  int
	Height int
	data   []float64 // index = y*Width + x
}

func NewHistogram(width, height int) *Histogram {
	return &Histogram{
		Width:  width,
		Height: height,
		data:   make([]float64, width*height),
	}
}

// Increase adds v at (x, y); out-of-range cells are ignored
func (h *Histogram) Increase(x, y int, v float64) {
	if x < 0 || x >= h.Width || y < 0 || y >= h.Height {
		return
	}
	h.data[y*h.Width+x] += v
}

// Get returns the value at (x, y), 0 outside the grid
func (h *Histogram) Get(x, y int) float64 {
	if x < 0 || x >= h.Width || y < 0 || y >= h.Height {
		return 0
	}
	return h.data[y*h.Width+x]
}

// Max returns the largest cell value
func (h *Histogram) Max() float64 {
	m := 0.0
	for _, v := range h.data {
		m = math.Max(m, v)
	}
	return m
}

// Reset zeroes every cell
func (h *Histogram) Reset() {
	for i := range h.data {
		h.data[i] = 0
	}
}

// Transform maps world coordinates to pixels: px = int(x·Scale) + OffsetX
type Transform struct {
	Scale   float64
	OffsetX int
	OffsetY int
}

// Pixel returns the pixel for a world position
// Truncation happens before the offset is applied
func (t Transform) Pixel(p vmath.Vec2) (x, y int) {
	return int(p[0]*t.Scale) + t.OffsetX, int(p[1]*t.Scale) + t.OffsetY
}

// Fit returns a transform mapping r onto a width×height grid with uniform scale, centered
func Fit(r vmath.Rect, width, height int) Transform {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return Transform{Scale: 1}
	}
	scale := math.Min(float64(width)/w, float64(height)/h)
	c := r.Center()
	return Transform{
		Scale:   scale,
		OffsetX: width/2 - int(c[0]*scale),
		OffsetY: height/2 - int(c[1]*scale),
	}
}

// Rasterize accumulates weight per particle into h
func Rasterize(h *Histogram, ps []particle.PointMass, t Transform, weight float64) {
	for i := range ps {
		x, y := t.Pixel(ps[i].Position)
		h.Increase(x, y, weight)
	}
}
