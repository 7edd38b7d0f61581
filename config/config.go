// Package config resolves run configuration: defaults, then an optional file, then NBODY_ env, then flags
package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/quadtree"
	"github.com/lixenwraith/nbody/render"
	"github.com/lixenwraith/nbody/scenario"
	"github.com/lixenwraith/nbody/sim"
)

// EnvPrefix is prepended to every environment override: simulation.dt -> NBODY_SIMULATION_DT
const EnvPrefix = "NBODY"

// Config is the resolved run configuration
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation" json:"simulation"`
	Tree       TreeConfig       `mapstructure:"tree" json:"tree"`
	Init       InitConfig       `mapstructure:"init" json:"init"`
	Render     RenderConfig     `mapstructure:"render" json:"render"`
	Output     OutputConfig     `mapstructure:"output" json:"output"`
	View       ViewConfig       `mapstructure:"view" json:"view"`
	Audio      AudioConfig      `mapstructure:"audio" json:"audio"`
	Metrics    MetricsConfig    `mapstructure:"metrics" json:"metrics"`
}

type SimulationConfig struct {
	G          float64 `mapstructure:"g" json:"g"`
	DT         float64 `mapstructure:"dt" json:"dt"`
	Padding    float64 `mapstructure:"padding" json:"padding"`
	SquareRoot bool    `mapstructure:"square_root" json:"squareRoot"`
	Workers    int     `mapstructure:"workers" json:"workers"`
	Frames     int     `mapstructure:"frames" json:"frames"`
	FrameEvery int     `mapstructure:"frame_every" json:"frameEvery"`
}

type TreeConfig struct {
	OpeningFactor      float64 `mapstructure:"opening_factor" json:"openingFactor"`
	FarFieldEpsilon    float64 `mapstructure:"far_field_epsilon" json:"farFieldEpsilon"`
	NearFieldFloor     float64 `mapstructure:"near_field_floor" json:"nearFieldFloor"`
	DuplicateTolerance float64 `mapstructure:"duplicate_tolerance" json:"duplicateTolerance"`
	MaxDepth           int     `mapstructure:"max_depth" json:"maxDepth"`
	Strict             bool    `mapstructure:"strict" json:"strict"`
}

type InitConfig struct {
	Kind       string  `mapstructure:"kind" json:"kind"`
	Count      int     `mapstructure:"count" json:"count"`
	Size       float64 `mapstructure:"size" json:"size"`
	Mass       float64 `mapstructure:"mass" json:"mass"`
	Seed       uint64  `mapstructure:"seed" json:"seed"`
	Clockwise  bool    `mapstructure:"clockwise" json:"clockwise"`
	NoiseScale float64 `mapstructure:"noise_scale" json:"noiseScale"`
}

type RenderConfig struct {
	Width   int     `mapstructure:"width" json:"width"`
	Height  int     `mapstructure:"height" json:"height"`
	Scale   float64 `mapstructure:"scale" json:"scale"`
	OffsetX int     `mapstructure:"offset_x" json:"offsetX"`
	OffsetY int     `mapstructure:"offset_y" json:"offsetY"`
	Weight  float64 `mapstructure:"weight" json:"weight"`
	Palette string  `mapstructure:"palette" json:"palette"`
	Caption bool    `mapstructure:"caption" json:"caption"`
}

type OutputConfig struct {
	Prefix   string `mapstructure:"prefix" json:"prefix"`
	Pad      int    `mapstructure:"pad" json:"pad"`
	Suffix   string `mapstructure:"suffix" json:"suffix"`
	Manifest string `mapstructure:"manifest" json:"manifest"`
}

type ViewConfig struct {
	Weight  float64 `mapstructure:"weight" json:"weight"`
	Palette string  `mapstructure:"palette" json:"palette"`
}

type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled" json:"enabled"`
	Volume  float64 `mapstructure:"volume" json:"volume"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`
	Path string `mapstructure:"path" json:"path"`
}

// SetDefaults registers every key with its default so env overrides and Unmarshal see it
func SetDefaults(v *viper.Viper) {
	v.SetDefault("simulation.g", parameter.GravitationalConstant)
	v.SetDefault("simulation.dt", parameter.TimeStep)
	v.SetDefault("simulation.padding", parameter.BoundsPadding)
	v.SetDefault("simulation.square_root", false)
	v.SetDefault("simulation.workers", parameter.ForceWorkers)
	v.SetDefault("simulation.frames", parameter.FrameCount)
	v.SetDefault("simulation.frame_every", parameter.FrameEvery)

	tp := quadtree.DefaultParams()
	v.SetDefault("tree.opening_factor", tp.OpeningFactor)
	v.SetDefault("tree.far_field_epsilon", tp.FarFieldEpsilon)
	v.SetDefault("tree.near_field_floor", tp.NearFieldFloor)
	v.SetDefault("tree.duplicate_tolerance", tp.DuplicateTolerance)
	v.SetDefault("tree.max_depth", tp.MaxDepth)
	v.SetDefault("tree.strict", tp.Strict)

	v.SetDefault("init.kind", string(scenario.Uniform))
	v.SetDefault("init.count", parameter.ParticleCount)
	v.SetDefault("init.size", parameter.WorldSize)
	v.SetDefault("init.mass", parameter.ParticleMass)
	v.SetDefault("init.seed", parameter.InitSeed)
	v.SetDefault("init.clockwise", false)
	v.SetDefault("init.noise_scale", parameter.PerlinScale)

	v.SetDefault("render.width", parameter.ImageWidth)
	v.SetDefault("render.height", parameter.ImageHeight)
	v.SetDefault("render.scale", parameter.ImageScale)
	v.SetDefault("render.offset_x", parameter.ImageOffset)
	v.SetDefault("render.offset_y", parameter.ImageOffset)
	v.SetDefault("render.weight", parameter.DensityWeight)
	v.SetDefault("render.palette", parameter.DefaultPalette)
	v.SetDefault("render.caption", false)

	v.SetDefault("output.prefix", parameter.OutputPrefix)
	v.SetDefault("output.pad", parameter.OutputPad)
	v.SetDefault("output.suffix", parameter.OutputSuffix)
	v.SetDefault("output.manifest", parameter.ManifestName)

	v.SetDefault("view.weight", parameter.DensityWeight)
	v.SetDefault("view.palette", parameter.DefaultPalette)

	v.SetDefault("audio.enabled", false)
	v.SetDefault("audio.volume", parameter.CueVolume)

	v.SetDefault("metrics.addr", parameter.MetricsAddr)
	v.SetDefault("metrics.path", parameter.MetricsPath)
}

// NewViper returns a viper instance with defaults and NBODY_ env lookup
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file when non-empty, decodes and validates
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration with no file, env or flags applied
// Panics if the defaults table does not decode into Config
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(errors.Wrap(err, "decode config defaults"))
	}
	return cfg
}

// Validate reports every invalid field at once
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.Simulation.Frames >= 0, "simulation.frames must be >= 0, got %d", c.Simulation.Frames)
	check(c.Init.Count >= 0, "init.count must be >= 0, got %d", c.Init.Count)
	check(c.Init.Size > 0, "init.size must be > 0, got %g", c.Init.Size)
	check(c.Init.Mass >= 0, "init.mass must be >= 0, got %g", c.Init.Mass)
	check(c.Render.Width > 0 && c.Render.Height > 0, "render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	check(c.Render.Scale > 0, "render.scale must be > 0, got %g", c.Render.Scale)
	check(c.Output.Pad >= 0, "output.pad must be >= 0, got %d", c.Output.Pad)
	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume must be in [0, 1], got %g", c.Audio.Volume)

	if err := c.SimOptions().Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := render.PaletteByName(c.Render.Palette); err != nil {
		problems = append(problems, "render: "+err.Error())
	}
	if _, err := render.PaletteByName(c.View.Palette); err != nil {
		problems = append(problems, "view: "+err.Error())
	}
	if !validKind(scenario.Kind(c.Init.Kind)) {
		problems = append(problems, fmt.Sprintf("init.kind must be one of %v, got %q", scenario.Kinds, c.Init.Kind))
	}

	if len(problems) > 0 {
		return errors.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func validKind(k scenario.Kind) bool {
	for _, known := range scenario.Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// TreeParams maps the tree section
func (c *Config) TreeParams() quadtree.Params {
	return quadtree.Params{
		OpeningFactor:      c.Tree.OpeningFactor,
		FarFieldEpsilon:    c.Tree.FarFieldEpsilon,
		NearFieldFloor:     c.Tree.NearFieldFloor,
		DuplicateTolerance: c.Tree.DuplicateTolerance,
		MaxDepth:           c.Tree.MaxDepth,
		Strict:             c.Tree.Strict,
	}
}

// SimOptions maps the simulation and tree sections
func (c *Config) SimOptions() sim.Options {
	return sim.Options{
		G:          c.Simulation.G,
		DT:         c.Simulation.DT,
		Padding:    c.Simulation.Padding,
		SquareRoot: c.Simulation.SquareRoot,
		Workers:    c.Simulation.Workers,
		FrameEvery: c.Simulation.FrameEvery,
		Tree:       c.TreeParams(),
	}
}

// ScenarioOptions maps the init section; G comes from the simulation section
func (c *Config) ScenarioOptions() scenario.Options {
	return scenario.Options{
		Kind:       scenario.Kind(c.Init.Kind),
		Count:      c.Init.Count,
		Size:       c.Init.Size,
		Mass:       c.Init.Mass,
		Seed:       c.Init.Seed,
		G:          c.Simulation.G,
		Clockwise:  c.Init.Clockwise,
		NoiseScale: c.Init.NoiseScale,
	}
}

// Transform maps the render section to a world-to-pixel transform
func (c *Config) Transform() render.Transform {
	return render.Transform{
		Scale:   c.Render.Scale,
		OffsetX: c.Render.OffsetX,
		OffsetY: c.Render.OffsetY,
	}
}

// Renderer builds the frame renderer for the render section
func (c *Config) Renderer() (*render.Renderer, error) {
	p, err := render.PaletteByName(c.Render.Palette)
	if err != nil {
		return nil, err
	}
	r := render.NewRenderer(c.Render.Width, c.Render.Height, c.Transform(), c.Render.Weight, p)
	r.Caption = c.Render.Caption
	return r, nil
}
