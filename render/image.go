package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lixenwraith/nbody/particle"
)

// Compose colors every histogram cell into a new RGBA image
func Compose(h *Histogram, p Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, h.Width, h.Height))
	for y := 0; y < h.Height; y++ {
		for x := 0; x < h.Width; x++ {
			img.SetRGBA(x, y, p(h.Get(x, y)))
		}
	}
	return img
}

// Label draws text with its baseline at (x, y) in the fixed 7x13 face
func Label(dst draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// Renderer turns a particle snapshot into a density image
// Reuses its histogram between frames; not safe for concurrent use
type Renderer struct {
	Transform Transform
	Weight    float64
	Palette   Palette
	// Caption enables the top-left text label
	Caption bool
	hist    *Histogram
}

// NewRenderer creates a renderer for a width×height image
func NewRenderer(width, height int, t Transform, weight float64, p Palette) *Renderer {
	return &Renderer{
		Transform: t,
		Weight:    weight,
		Palette:   p,
		hist:      NewHistogram(width, height),
	}
}

// Histogram exposes the accumulator filled by the last Render
func (r *Renderer) Histogram() *Histogram {
	return r.hist
}

// Render rasterizes ps and colors the result; caption is drawn when enabled
func (r *Renderer) Render(ps []particle.PointMass, caption string) *image.RGBA {
	r.hist.Reset()
	Rasterize(r.hist, ps, r.Transform, r.Weight)
	img := Compose(r.hist, r.Palette)
	if r.Caption && caption != "" {
		Label(img, 4, basicfont.Face7x13.Ascent+4, caption, color.White)
	}
	return img
}
