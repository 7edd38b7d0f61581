// Package scenario generates initial particle populations
package scenario

import (
	"math"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/pkg/errors"

	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/particle"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/vmath"
)

// Kind names an initial distribution
type Kind string

const (
	// Uniform fills [0, Size)² at rest
	Uniform Kind = "uniform"
	// Disc fills a disc of diameter Size centered in the square, on circular orbits
	Disc Kind = "disc"
	// Perlin fills [0, Size)² with density modulated by Perlin noise, at rest
	Perlin Kind = "perlin"
)

// Kinds lists every supported distribution
var Kinds = []Kind{Uniform, Disc, Perlin}

// Options configures Generate
type Options struct {
	Kind  Kind
	Count int
	Size  float64
	Mass  float64
	// Seed 0 derives a seed from the wall clock
	Seed uint64
	// G is used by Disc to set orbital speeds
	G         float64
	Clockwise bool
	// NoiseScale is world units per Perlin period
	NoiseScale float64
}

// DefaultOptions reproduces the reference population
func DefaultOptions() Options {
	return Options{
		Kind:       Uniform,
		Count:      parameter.ParticleCount,
		Size:       parameter.WorldSize,
		Mass:       parameter.ParticleMass,
		Seed:       parameter.InitSeed,
		G:          parameter.GravitationalConstant,
		NoiseScale: parameter.PerlinScale,
	}
}

// Generate allocates and fills a particle slice
// Forces are zero; velocities are zero except for Disc
func Generate(opts Options) ([]particle.PointMass, error) {
	if opts.Count < 0 {
		return nil, errors.Errorf("particle count must be >= 0, got %d", opts.Count)
	}
	if opts.Size <= 0 {
		return nil, errors.Errorf("world size must be > 0, got %g", opts.Size)
	}
	if opts.Mass < 0 {
		return nil, errors.Errorf("particle mass must be >= 0, got %g", opts.Mass)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := vmath.NewFastRand(seed)

	ps := make([]particle.PointMass, opts.Count)
	switch opts.Kind {
	case Uniform, "":
		uniform(ps, opts, rng)
	case Disc:
		disc(ps, opts, rng)
	case Perlin:
		if opts.NoiseScale <= 0 {
			return nil, errors.Errorf("noise scale must be > 0, got %g", opts.NoiseScale)
		}
		clustered(ps, opts, rng, int64(seed))
	default:
		return nil, errors.Errorf("unknown scenario %q", opts.Kind)
	}
	return ps, nil
}

func uniform(ps []particle.PointMass, opts Options, rng *vmath.FastRand) {
	for i := range ps {
		ps[i] = particle.PointMass{
			Position: vmath.V2(rng.Float64()*opts.Size, rng.Float64()*opts.Size),
			Mass:     opts.Mass,
		}
	}
}

func disc(ps []particle.PointMass, opts Options, rng *vmath.FastRand) {
	radius := opts.Size * 0.5
	center := vmath.V2(radius, radius)
	total := opts.Mass * float64(len(ps))

	for i := range ps {
		// sqrt keeps area density uniform
		r := radius * math.Sqrt(rng.Float64())
		a := rng.Angle()
		offset := vmath.V2(r*math.Cos(a), r*math.Sin(a))
		gm := opts.G * physics.EnclosedMass(total, r, radius)
		ps[i] = particle.PointMass{
			Position: center.Add(offset),
			Velocity: physics.OrbitalInsert(offset, gm, opts.Clockwise),
			Mass:     opts.Mass,
		}
	}
}

// maxRejections bounds sampling in near-empty noise regions
const maxRejections = 64

// clustered places particles by rejection sampling against normalized noise
func clustered(ps []particle.PointMass, opts Options, rng *vmath.FastRand, seed int64) {
	noise := perlin.NewPerlin(parameter.PerlinAlpha, parameter.PerlinBeta, parameter.PerlinOctaves, seed)
	for i := range ps {
		for attempt := 0; ; attempt++ {
			x := rng.Float64() * opts.Size
			y := rng.Float64() * opts.Size
			// Noise2D is roughly [-1, 1]; square to sharpen clusters
			v := vmath.Clamp((noise.Noise2D(x/opts.NoiseScale, y/opts.NoiseScale)+1)*0.5, 0, 1)
			if attempt >= maxRejections || rng.Float64() < v*v {
				ps[i] = particle.PointMass{Position: vmath.V2(x, y), Mass: opts.Mass}
				break
			}
		}
	}
}
