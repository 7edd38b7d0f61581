package sim_test

import (
	"context"
	"errors"

	g "github.com/onsi/ginkgo/v2"
	o "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lixenwraith/nbody/metrics"
	"github.com/lixenwraith/nbody/particle"
	"github.com/lixenwraith/nbody/quadtree"
	"github.com/lixenwraith/nbody/sim"
	"github.com/lixenwraith/nbody/status"
	"github.com/lixenwraith/nbody/vmath"
)

func population(n int, seed uint64) []particle.PointMass {
	rng := vmath.NewFastRand(seed)
	ps := make([]particle.PointMass, n)
	for i := range ps {
		ps[i] = particle.PointMass{
			Position: vmath.V2(rng.Range(0, 100), rng.Range(0, 100)),
			Mass:     1,
		}
	}
	return ps
}

var _ = g.Describe("Simulation", func() {
	var opts sim.Options

	g.BeforeEach(func() {
		opts = sim.DefaultOptions()
	})

	g.Describe("options", func() {
		g.It("reproduces the reference driver by default", func() {
			o.Expect(opts.G).To(o.Equal(10.0))
			o.Expect(opts.DT).To(o.Equal(0.01))
			o.Expect(opts.Padding).To(o.Equal(1.0))
			o.Expect(opts.FrameEvery).To(o.Equal(1))
			o.Expect(opts.Validate()).To(o.Succeed())
		})

		g.It("rejects a non-positive time step", func() {
			opts.DT = 0
			_, err := sim.New(nil, opts)
			o.Expect(err).To(o.HaveOccurred())
			o.Expect(err.Error()).To(o.ContainSubstring("time step"))
		})

		g.It("rejects invalid tree parameters", func() {
			opts.Tree.OpeningFactor = -1
			_, err := sim.New(nil, opts)
			o.Expect(err).To(o.HaveOccurred())
		})
	})

	g.Describe("Step", func() {
		g.It("rebuilds the tree around every particle", func() {
			s, err := sim.New(population(200, 1), opts)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(s.Tree()).To(o.BeNil())

			stats := s.Step()
			o.Expect(stats.Step).To(o.Equal(1))
			o.Expect(s.StepCount()).To(o.Equal(1))
			o.Expect(stats.Tree.Particles).To(o.Equal(200))
			o.Expect(s.Tree()).NotTo(o.BeNil())
			o.Expect(stats.Total).To(o.BeNumerically(">=", stats.Force))

			// Bounds were taken before the drift
			for _, p := range s.Particles() {
				o.Expect(stats.Bounds.Width()).To(o.BeNumerically(">", 0))
				o.Expect(p.Mass).To(o.Equal(1.0))
			}
		})

		g.It("pulls two resting bodies toward each other", func() {
			ps := []particle.PointMass{
				{Position: vmath.V2(0, 0), Mass: 1},
				{Position: vmath.V2(10, 0), Mass: 1},
			}
			s, err := sim.New(ps, opts)
			o.Expect(err).NotTo(o.HaveOccurred())
			s.Step()

			got := s.Particles()
			// F = G/d² = 0.1; v = F·dt; x = v·dt
			o.Expect(got[0].Velocity[0]).To(o.BeNumerically("~", 0.001, 1e-12))
			o.Expect(got[1].Velocity[0]).To(o.BeNumerically("~", -0.001, 1e-12))
			o.Expect(got[0].Position[0]).To(o.BeNumerically("~", 0.00001, 1e-12))
			o.Expect(got[0].Position[1]).To(o.Equal(0.0))
		})

		g.It("conserves momentum in exact mode", func() {
			opts.Tree = quadtree.ExactParams()
			s, err := sim.New(population(100, 2), opts)
			o.Expect(err).NotTo(o.HaveOccurred())

			var stats sim.StepStats
			for i := 0; i < 5; i++ {
				stats = s.Step()
			}
			o.Expect(stats.Momentum.Len()).To(o.BeNumerically("<", 1e-9))
			o.Expect(stats.KineticEnergy).To(o.BeNumerically(">", 0))
		})

		g.It("computes the same forces serially and in parallel", func() {
			serialOpts := opts
			serialOpts.Workers = 1
			parallelOpts := opts
			parallelOpts.Workers = 4

			a, err := sim.New(population(500, 3), serialOpts)
			o.Expect(err).NotTo(o.HaveOccurred())
			b, err := sim.New(population(500, 3), parallelOpts)
			o.Expect(err).NotTo(o.HaveOccurred())

			for i := 0; i < 3; i++ {
				a.Step()
				b.Step()
			}
			o.Expect(b.Particles()).To(o.Equal(a.Particles()))
		})

		g.It("grows the root to a square when asked", func() {
			opts.SquareRoot = true
			ps := []particle.PointMass{
				{Position: vmath.V2(0, 0), Mass: 1},
				{Position: vmath.V2(100, 10), Mass: 1},
			}
			s, err := sim.New(ps, opts)
			o.Expect(err).NotTo(o.HaveOccurred())
			b := s.Rebuild()
			o.Expect(b.Width()).To(o.Equal(b.Height()))
		})
	})

	g.Describe("Run", func() {
		g.It("delivers the requested number of frames", func() {
			opts.FrameEvery = 2
			s, err := sim.New(population(50, 4), opts)
			o.Expect(err).NotTo(o.HaveOccurred())

			var indices, steps []int
			sink := sim.SinkFunc(func(f *sim.Frame) error {
				indices = append(indices, f.Index)
				steps = append(steps, f.Stats.Step)
				o.Expect(f.Particles).To(o.HaveLen(50))
				return nil
			})

			o.Expect(s.Run(context.Background(), 3, sink)).To(o.Succeed())
			o.Expect(indices).To(o.Equal([]int{0, 1, 2}))
			o.Expect(steps).To(o.Equal([]int{2, 4, 6}))
			o.Expect(s.StepCount()).To(o.Equal(6))
		})

		g.It("stops when the context is cancelled", func() {
			s, err := sim.New(population(50, 5), opts)
			o.Expect(err).NotTo(o.HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			frames := 0
			sink := sim.SinkFunc(func(f *sim.Frame) error {
				frames++
				if frames == 2 {
					cancel()
				}
				return nil
			})

			err = s.Run(ctx, 0, sink)
			o.Expect(errors.Is(err, context.Canceled)).To(o.BeTrue())
			o.Expect(frames).To(o.Equal(2))
		})

		g.It("stops on the first sink error", func() {
			s, err := sim.New(population(10, 6), opts)
			o.Expect(err).NotTo(o.HaveOccurred())

			boom := errors.New("disk full")
			calls := 0
			failing := sim.SinkFunc(func(f *sim.Frame) error { return boom })
			counting := sim.SinkFunc(func(f *sim.Frame) error { calls++; return nil })

			err = s.Run(context.Background(), 5, failing, counting)
			o.Expect(err).To(o.HaveOccurred())
			o.Expect(errors.Is(err, boom)).To(o.BeTrue())
			o.Expect(err.Error()).To(o.ContainSubstring("frame 0"))
			o.Expect(calls).To(o.Equal(0))
		})
	})

	g.Describe("instrumentation", func() {
		g.It("publishes step values to the status registry", func() {
			reg := status.NewRegistry()
			s, err := sim.New(population(30, 7), opts, sim.WithStatus(reg))
			o.Expect(err).NotTo(o.HaveOccurred())

			o.Expect(s.Run(context.Background(), 2)).To(o.Succeed())
			o.Expect(reg.Ints.Get(status.KeyStep).Load()).To(o.Equal(int64(2)))
			o.Expect(reg.Ints.Get(status.KeyFrame).Load()).To(o.Equal(int64(1)))
			o.Expect(reg.Ints.Get(status.KeyParticles).Load()).To(o.Equal(int64(30)))
			o.Expect(reg.Strings.Get(status.KeyPhase).Load()).To(o.Equal("render"))
		})

		g.It("records steps and frames on the collector", func() {
			c := metrics.New()
			s, err := sim.New(population(30, 8), opts, sim.WithMetrics(c))
			o.Expect(err).NotTo(o.HaveOccurred())

			o.Expect(s.Run(context.Background(), 3)).To(o.Succeed())
			o.Expect(testutil.ToFloat64(c.Steps)).To(o.Equal(3.0))
			o.Expect(testutil.ToFloat64(c.Frames)).To(o.Equal(3.0))
			o.Expect(testutil.ToFloat64(c.Particles)).To(o.Equal(30.0))
		})
	})
})
