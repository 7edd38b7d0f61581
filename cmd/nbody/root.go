package main

import (
	goflag "flag"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/nbody/config"
)

// rootOptions carries state shared by every subcommand
type rootOptions struct {
	configFile string
	v          *viper.Viper
}

// NewCommand builds the nbody command tree
func NewCommand(out io.Writer) *cobra.Command {
	o := &rootOptions{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:           "nbody",
		Short:         "Barnes-Hut gravity simulator",
		Long:          "nbody integrates a 2D gravitating particle system with a Barnes-Hut quadtree and renders density frames.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&o.configFile, "config", "", "Config file (toml, yaml or json)")
	cmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	cmd.AddCommand(
		newRunCommand(o, out),
		newViewCommand(o),
		newAccuracyCommand(o, out),
		newVersionCommand(out),
	)
	return cmd
}

// flagKeys maps a flag name to its config key
type flagKeys map[string]string

// load binds the invoked command's flags and resolves the configuration
// Binding happens per invocation so subcommands sharing a key do not overwrite each other
func (o *rootOptions) load(fs *pflag.FlagSet, keys ...flagKeys) (*config.Config, error) {
	for _, set := range keys {
		for name, key := range set {
			f := fs.Lookup(name)
			if f == nil {
				return nil, errors.Errorf("flag --%s is not defined", name)
			}
			if err := o.v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "bind --%s", name)
			}
		}
	}
	return config.Load(o.v, o.configFile)
}

var simFlags = flagKeys{
	"particles":      "init.count",
	"init":           "init.kind",
	"seed":           "init.seed",
	"size":           "init.size",
	"g":              "simulation.g",
	"dt":             "simulation.dt",
	"frames":         "simulation.frames",
	"frame-every":    "simulation.frame_every",
	"workers":        "simulation.workers",
	"square-root":    "simulation.square_root",
	"opening-factor": "tree.opening_factor",
	"max-depth":      "tree.max_depth",
	"strict":         "tree.strict",
	"audio":          "audio.enabled",
}

// addSimFlags registers the flags every simulating command accepts
// d supplies the defaults shown in help
func addSimFlags(fs *pflag.FlagSet, d *config.Config) {
	fs.Int("particles", d.Init.Count, "Number of particles")
	fs.String("init", d.Init.Kind, "Initial distribution: uniform, disc or perlin")
	fs.Uint64("seed", d.Init.Seed, "Generator seed, 0 for time-based")
	fs.Float64("size", d.Init.Size, "Edge of the initial square")
	fs.Float64("g", d.Simulation.G, "Gravitational constant")
	fs.Float64("dt", d.Simulation.DT, "Time step")
	fs.Int("frames", d.Simulation.Frames, "Frames to produce, 0 runs until interrupted")
	fs.Int("frame-every", d.Simulation.FrameEvery, "Steps per frame")
	fs.Int("workers", d.Simulation.Workers, "Force pass workers, 0 for every CPU")
	fs.Bool("square-root", d.Simulation.SquareRoot, "Grow the root rectangle to a square")
	fs.Float64("opening-factor", d.Tree.OpeningFactor, "Barnes-Hut opening factor, 0 for exact")
	fs.Int("max-depth", d.Tree.MaxDepth, "Tree depth limit, 0 for unlimited")
	fs.Bool("strict", d.Tree.Strict, "Panic on particles outside the root")
	fs.Bool("audio", d.Audio.Enabled, "Play a tone per frame")
}
