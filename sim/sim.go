// Package sim drives the simulation: rebuild the tree from current positions, accumulate
// forces for every particle, integrate, and hand frames to sinks
package sim

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/dgravesa/go-parallel/parallel"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/lixenwraith/nbody/metrics"
	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/particle"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/quadtree"
	"github.com/lixenwraith/nbody/status"
	"github.com/lixenwraith/nbody/vmath"
)

// Options are the driver tunables
type Options struct {
	G       float64
	DT      float64
	Padding float64
	// SquareRoot grows the root rectangle to a square so the opening test sees the true extent
	SquareRoot bool
	// Workers > 1 runs the force pass in parallel; 0 uses every CPU
	Workers int
	// FrameEvery emits a frame every N steps
	FrameEvery int
	Tree       quadtree.Params
}

// DefaultOptions reproduces the reference driver
func DefaultOptions() Options {
	return Options{
		G:          parameter.GravitationalConstant,
		DT:         parameter.TimeStep,
		Padding:    parameter.BoundsPadding,
		Workers:    parameter.ForceWorkers,
		FrameEvery: parameter.FrameEvery,
		Tree:       quadtree.DefaultParams(),
	}
}

// Validate rejects options the loop cannot run with
func (o Options) Validate() error {
	if o.DT <= 0 {
		return errors.Errorf("time step must be > 0, got %g", o.DT)
	}
	if o.Padding < 0 {
		return errors.Errorf("bounds padding must be >= 0, got %g", o.Padding)
	}
	if o.Workers < 0 {
		return errors.Errorf("workers must be >= 0, got %d", o.Workers)
	}
	if o.FrameEvery < 1 {
		return errors.Errorf("frame interval must be >= 1, got %d", o.FrameEvery)
	}
	return errors.Wrap(o.Tree.Validate(), "tree")
}

// StepStats describes one completed step
type StepStats struct {
	Step          int
	Bounds        vmath.Rect
	Tree          quadtree.Stats
	Build         time.Duration
	Force         time.Duration
	Integrate     time.Duration
	Total         time.Duration
	KineticEnergy float64
	Momentum      vmath.Vec2
}

// Frame is handed to every sink after the configured number of steps
// Particles is borrowed: sinks must copy anything they keep past WriteFrame
type Frame struct {
	Index     int
	Particles []particle.PointMass
	Stats     StepStats
}

// Sink consumes frames; an error stops the run
type Sink interface {
	WriteFrame(f *Frame) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(f *Frame) error

func (fn SinkFunc) WriteFrame(f *Frame) error { return fn(f) }

// Option customizes a Simulation
type Option func(*Simulation)

// WithStatus publishes per-step values to a status registry
func WithStatus(r *status.Registry) Option {
	return func(s *Simulation) {
		s.status = newStatusHandles(r)
	}
}

// WithMetrics records per-step values on a Prometheus collector
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Simulation) {
		s.metrics = c
	}
}

// Simulation owns the particle array and the tree rebuilt from it every step
type Simulation struct {
	particles []particle.PointMass
	tree      *quadtree.Tree
	opts      Options
	workers   int
	step      int
	frame     int

	status  *statusHandles
	metrics *metrics.Collector
}

// New wraps an initialized particle slice; the slice is owned by the Simulation afterwards
func New(ps []particle.PointMass, opts Options, mods ...Option) (*Simulation, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "simulation options")
	}

	s := &Simulation{
		particles: ps,
		opts:      opts,
		workers:   opts.Workers,
	}
	if s.workers == 0 {
		s.workers = runtime.NumCPU()
	}
	for _, mod := range mods {
		mod(s)
	}
	return s, nil
}

// Particles returns the live particle slice
func (s *Simulation) Particles() []particle.PointMass {
	return s.particles
}

// Tree returns the tree from the last rebuild, nil before the first step
func (s *Simulation) Tree() *quadtree.Tree {
	return s.tree
}

// StepCount returns completed steps
func (s *Simulation) StepCount() int {
	return s.step
}

// Rebuild discards the previous tree and inserts every particle into a fresh root
// covering the current positions plus padding
func (s *Simulation) Rebuild() vmath.Rect {
	b := particle.Bounds(s.particles, s.opts.Padding)
	if s.opts.SquareRoot {
		b = particle.Square(b)
	}

	if s.tree == nil {
		s.tree = quadtree.New(b.TopLeft, b.BottomRight, s.opts.Tree)
	} else {
		s.tree.Reset(b.TopLeft, b.BottomRight)
	}
	for i := range s.particles {
		s.tree.Insert(&s.particles[i])
	}
	return b
}

// Accelerate zeroes forces and accumulates the tree force on every particle
// Requires a built tree
func (s *Simulation) Accelerate() {
	g := s.opts.G
	if s.workers <= 1 || len(s.particles) < 2 {
		for i := range s.particles {
			s.particles[i].Force = vmath.Vec2{}
			s.tree.QueryForce(&s.particles[i], g)
		}
		return
	}

	// Queries only read the tree; each index writes its own Force
	parallel.WithNumGoroutines(s.workers).For(len(s.particles), func(i, _ int) {
		s.particles[i].Force = vmath.Vec2{}
		s.tree.QueryForce(&s.particles[i], g)
	})
}

// Step runs one rebuild, force pass and leapfrog update
func (s *Simulation) Step() StepStats {
	s.setPhase("build")
	start := time.Now()
	bounds := s.Rebuild()
	built := time.Now()

	s.setPhase("force")
	s.Accelerate()
	forced := time.Now()

	s.setPhase("integrate")
	physics.Leapfrog(s.particles, s.opts.DT)
	done := time.Now()

	s.step++
	stats := StepStats{
		Step:          s.step,
		Bounds:        bounds,
		Tree:          s.tree.Stats(),
		Build:         built.Sub(start),
		Force:         forced.Sub(built),
		Integrate:     done.Sub(forced),
		Total:         done.Sub(start),
		KineticEnergy: physics.KineticEnergy(s.particles),
		Momentum:      physics.Momentum(s.particles),
	}

	klog.V(2).InfoS("Step complete",
		"step", stats.Step,
		"build", stats.Build,
		"force", stats.Force,
		"integrate", stats.Integrate,
	)
	klog.V(3).InfoS("Tree stats",
		"step", stats.Step,
		"nodes", stats.Tree.Nodes,
		"leaves", stats.Tree.Leaves,
		"internal", stats.Tree.Internal,
		"buckets", stats.Tree.Buckets,
		"depth", stats.Tree.MaxDepth,
		"dropped", stats.Tree.Dropped,
	)

	s.publish(stats)
	return stats
}

// Run emits frames until count frames are written or ctx is done
// count <= 0 runs until ctx is done
func (s *Simulation) Run(ctx context.Context, count int, sinks ...Sink) error {
	for count <= 0 || s.frame < count {
		var stats StepStats
		for i := 0; i < s.opts.FrameEvery; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			stats = s.Step()
		}

		f := &Frame{Index: s.frame, Particles: s.particles, Stats: stats}
		s.setPhase("render")
		start := time.Now()
		for _, sink := range sinks {
			if err := sink.WriteFrame(f); err != nil {
				return errors.Wrapf(err, "frame %d", f.Index)
			}
		}
		if s.metrics != nil {
			s.metrics.ObservePhase(metrics.PhaseRender, time.Since(start))
			s.metrics.Frames.Inc()
		}
		if s.status != nil {
			s.status.frame.Store(int64(f.Index))
		}

		klog.InfoS("Frame written",
			"frame", f.Index,
			"step", stats.Step,
			"particles", stats.Tree.Particles,
			"stepTime", stats.Total,
			"sinkTime", time.Since(start),
		)
		s.frame++
	}
	return nil
}

func (s *Simulation) publish(stats StepStats) {
	if s.metrics != nil {
		m := s.metrics
		m.Steps.Inc()
		m.Dropped.Add(float64(stats.Tree.Dropped))
		m.Particles.Set(float64(stats.Tree.Particles))
		m.TreeNodes.Set(float64(stats.Tree.Nodes))
		m.TreeDepth.Set(float64(stats.Tree.MaxDepth))
		m.KineticEnergy.Set(stats.KineticEnergy)
		m.StepDuration.Observe(stats.Total.Seconds())
		m.ObservePhase(metrics.PhaseBuild, stats.Build)
		m.ObservePhase(metrics.PhaseForce, stats.Force)
		m.ObservePhase(metrics.PhaseIntegrate, stats.Integrate)
	}
	if s.status != nil {
		h := s.status
		h.step.Store(int64(stats.Step))
		h.particles.Store(int64(stats.Tree.Particles))
		h.nodes.Store(int64(stats.Tree.Nodes))
		h.depth.Store(int64(stats.Tree.MaxDepth))
		h.dropped.Store(int64(stats.Tree.Dropped))
		h.stepMillis.Set(float64(stats.Total.Microseconds()) / 1000)
		h.kinetic.Set(stats.KineticEnergy)
	}
}

func (s *Simulation) setPhase(phase string) {
	if s.status != nil {
		s.status.phase.Store(phase)
	}
}

// statusHandles caches registry pointers so the step loop never touches the maps
type statusHandles struct {
	step, frame, particles, nodes, depth, dropped *atomic.Int64
	stepMillis, kinetic                           *status.AtomicFloat
	phase                                         *status.AtomicString
}

func newStatusHandles(r *status.Registry) *statusHandles {
	return &statusHandles{
		step:       r.Ints.Get(status.KeyStep),
		frame:      r.Ints.Get(status.KeyFrame),
		particles:  r.Ints.Get(status.KeyParticles),
		nodes:      r.Ints.Get(status.KeyTreeNodes),
		depth:      r.Ints.Get(status.KeyTreeDepth),
		dropped:    r.Ints.Get(status.KeyDropped),
		stepMillis: r.Floats.Get(status.KeyStepMillis),
		kinetic:    r.Floats.Get(status.KeyKinetic),
		phase:      r.Strings.Get(status.KeyPhase),
	}
}
