package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/lixenwraith/nbody/audio"
	"github.com/lixenwraith/nbody/config"
	"github.com/lixenwraith/nbody/frame"
	"github.com/lixenwraith/nbody/metrics"
	"github.com/lixenwraith/nbody/scenario"
	"github.com/lixenwraith/nbody/sim"
)

var runFlags = flagKeys{
	"output":       "output.prefix",
	"pad":          "output.pad",
	"suffix":       "output.suffix",
	"palette":      "render.palette",
	"caption":      "render.caption",
	"metrics-addr": "metrics.addr",
}

func newRunCommand(o *rootOptions, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate and write density frames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd.Flags(), simFlags, runFlags)
			if err != nil {
				return err
			}
			return runSimulation(cmd.Context(), cfg, out)
		},
	}

	d := config.Default()
	addSimFlags(cmd.Flags(), d)
	fs := cmd.Flags()
	fs.String("output", d.Output.Prefix, "Frame file prefix")
	fs.Int("pad", d.Output.Pad, "Zero padding of the frame number")
	fs.String("suffix", d.Output.Suffix, "Frame file suffix, .bmp or .png")
	fs.String("palette", d.Render.Palette, "Density palette: log, cosine or heat")
	fs.Bool("caption", d.Render.Caption, "Draw a caption on every frame")
	fs.String("metrics-addr", d.Metrics.Addr, "Serve Prometheus metrics on this address")
	return cmd
}

// runSimulation generates the population and writes frames until done or interrupted
func runSimulation(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ps, err := scenario.Generate(cfg.ScenarioOptions())
	if err != nil {
		return err
	}

	var mods []sim.Option
	if cfg.Metrics.Addr != "" {
		c := metrics.New()
		if _, err := c.Serve(ctx, cfg.Metrics.Addr, cfg.Metrics.Path); err != nil {
			return err
		}
		mods = append(mods, sim.WithMetrics(c))
	}

	s, err := sim.New(ps, cfg.SimOptions(), mods...)
	if err != nil {
		return err
	}
	r, err := cfg.Renderer()
	if err != nil {
		return err
	}

	manifest := frame.NewManifest(cfg)
	sink, err := frame.NewFileSink(cfg.Output.Prefix, cfg.Output.Pad, cfg.Output.Suffix, r, manifest)
	if err != nil {
		return err
	}
	sinks := []sim.Sink{sink}

	if cfg.Audio.Enabled {
		cue := audio.NewCue(cfg.Audio.Volume)
		if err := cue.Init(); err != nil {
			klog.ErrorS(err, "Audio initialization failed, continuing without audio")
		} else {
			defer cue.Close()
			sinks = append(sinks, cue)
		}
	}

	klog.InfoS("Run starting",
		"runID", manifest.RunID,
		"particles", len(ps),
		"init", cfg.Init.Kind,
		"frames", cfg.Simulation.Frames,
		"openingFactor", cfg.Tree.OpeningFactor,
	)
	runErr := s.Run(ctx, cfg.Simulation.Frames, sinks...)

	dir := filepath.Dir(cfg.Output.Prefix)
	if cfg.Output.Manifest != "" {
		path := filepath.Join(dir, cfg.Output.Manifest)
		if err := manifest.WriteFile(path); err != nil {
			return err
		}
		klog.V(1).InfoS("Manifest written", "file", path)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	fmt.Fprintf(out, "wrote %d frames to %s (run %s)\n", len(manifest.Frames), dir, manifest.RunID)
	return nil
}
