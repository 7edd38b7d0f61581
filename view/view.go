// Package view is the live terminal viewer: half-block density rendering fed by simulation frames
package view

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/render"
	"github.com/lixenwraith/nbody/sim"
	"github.com/lixenwraith/nbody/status"
	"github.com/lixenwraith/nbody/vmath"
)

// ErrClosed is returned by WriteFrame once the viewer has quit
var ErrClosed = errors.New("viewer closed")

// halfBlock paints the upper pixel as foreground and the lower as background
const halfBlock = '▀'

// snapshot is a private copy of one frame's positions
type snapshot struct {
	index  int
	step   int
	bounds vmath.Rect
	pos    []vmath.Vec2
}

// Viewer implements sim.Sink and draws the latest frame on a tcell screen
type Viewer struct {
	screen  tcell.Screen
	status  *status.Registry
	palette render.Palette
	weight  float64

	frames chan snapshot
	quit   chan struct{}
	once   sync.Once

	paused atomic.Bool
	// pausedFlag mirrors paused into the status registry for the HUD
	pausedFlag *atomic.Bool

	// Owned by the Run goroutine
	latest  snapshot
	hasData bool
	zoom    float64
	hud     bool
	hist    *render.Histogram
}

// New binds a viewer to an initialized screen; reg may be nil
func New(screen tcell.Screen, reg *status.Registry, p render.Palette, weight float64) *Viewer {
	if p == nil {
		p = render.LogPalette
	}
	v := &Viewer{
		screen:  screen,
		status:  reg,
		palette: p,
		weight:  weight,
		frames:  make(chan snapshot, parameter.FrameQueueSize),
		quit:    make(chan struct{}),
		zoom:    1,
		hud:     true,
	}
	if reg != nil {
		v.pausedFlag = reg.Bools.Get(status.KeyPaused)
	}
	return v
}

// Paused reports the pause state
func (v *Viewer) Paused() bool {
	return v.paused.Load()
}

// Zoom returns the current zoom factor
func (v *Viewer) Zoom() float64 {
	return v.zoom
}

// Close stops the viewer and unblocks WriteFrame; safe to call more than once
func (v *Viewer) Close() {
	v.once.Do(func() { close(v.quit) })
}

// Done is closed when the viewer quits
func (v *Viewer) Done() <-chan struct{} {
	return v.quit
}

// WriteFrame implements sim.Sink
// Blocks while paused; returns ErrClosed after quit
func (v *Viewer) WriteFrame(f *sim.Frame) error {
	select {
	case <-v.quit:
		return ErrClosed
	default:
	}
	for v.paused.Load() {
		select {
		case <-v.quit:
			return ErrClosed
		case <-time.After(parameter.FrameUpdateInterval):
		}
	}

	snap := snapshot{
		index:  f.Index,
		step:   f.Stats.Step,
		bounds: f.Stats.Bounds,
		pos:    make([]vmath.Vec2, len(f.Particles)),
	}
	for i := range f.Particles {
		snap.pos[i] = f.Particles[i].Position
	}

	select {
	case v.frames <- snap:
		return nil
	case <-v.quit:
		return ErrClosed
	}
}

// Run owns the screen until quit or ctx is done
func (v *Viewer) Run(ctx context.Context) error {
	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go v.screen.ChannelEvents(events, v.quit)

	v.draw()
	for {
		select {
		case <-ctx.Done():
			v.Close()
			return nil
		case <-v.quit:
			return nil
		case ev := <-events:
			if !v.handleEvent(ev) {
				v.Close()
				return nil
			}
		case snap := <-v.frames:
			v.latest = snap
			v.hasData = true
		case <-ticker.C:
			v.draw()
		}
	}
}

// handleEvent applies one input event; false means quit
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.setPaused(!v.paused.Load())
			case '+', '=':
				v.zoom = vmath.Clamp(v.zoom*parameter.ViewZoomStep, parameter.ViewZoomMin, parameter.ViewZoomMax)
			case '-', '_':
				v.zoom = vmath.Clamp(v.zoom/parameter.ViewZoomStep, parameter.ViewZoomMin, parameter.ViewZoomMax)
			case '0':
				v.zoom = 1
			case 'h':
				v.hud = !v.hud
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) setPaused(p bool) {
	v.paused.Store(p)
	if v.pausedFlag != nil {
		v.pausedFlag.Store(p)
	}
	klog.V(1).InfoS("Viewer pause toggled", "paused", p)
}

// viewport returns the world rectangle shown at the current zoom
func viewport(bounds vmath.Rect, zoom float64) vmath.Rect {
	c := bounds.Center()
	hw := bounds.Width() / 2 / zoom
	hh := bounds.Height() / 2 / zoom
	return vmath.NewRect(vmath.V2(c[0]-hw, c[1]+hh), vmath.V2(c[0]+hw, c[1]-hh))
}

// draw rasterizes the latest snapshot into a w×2h grid and paints two pixels per cell
func (v *Viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}

	if v.hasData {
		if v.hist == nil || v.hist.Width != w || v.hist.Height != 2*h {
			v.hist = render.NewHistogram(w, 2*h)
		} else {
			v.hist.Reset()
		}
		t := render.Fit(viewport(v.latest.bounds, v.zoom), w, 2*h)
		for _, p := range v.latest.pos {
			x, y := t.Pixel(p)
			v.hist.Increase(x, y, v.weight)
		}

		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				top := v.palette(v.hist.Get(x, 2*y))
				bottom := v.palette(v.hist.Get(x, 2*y+1))
				style := tcell.StyleDefault.
					Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
					Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
				v.screen.SetContent(x, y, halfBlock, nil, style)
			}
		}
	}

	if v.hud {
		v.drawHUD(w, h)
	}
	v.screen.Show()
}

// drawHUD writes the status lines top-left and the key help on the last row
func (v *Viewer) drawHUD(w, h int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	row := 0
	if v.hasData {
		drawText(v.screen, 0, row, w, fmt.Sprintf("frame %d  step %d  zoom %.2f", v.latest.index, v.latest.step, v.zoom), style)
		row++
	}
	if v.status != nil {
		for _, line := range v.status.Lines() {
			if row >= h-1 {
				break
			}
			drawText(v.screen, 0, row, w, line, style)
			row++
		}
	}
	help := "q quit  space pause  +/- zoom  0 reset  h hud"
	if v.paused.Load() {
		help = "PAUSED  " + help
	}
	drawText(v.screen, 0, h-1, w, help, style.Foreground(tcell.ColorYellow))
}

func drawText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= maxWidth {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
