package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/lixenwraith/nbody/audio"
	"github.com/lixenwraith/nbody/config"
	"github.com/lixenwraith/nbody/render"
	"github.com/lixenwraith/nbody/scenario"
	"github.com/lixenwraith/nbody/sim"
	"github.com/lixenwraith/nbody/status"
	"github.com/lixenwraith/nbody/view"
)

var viewFlags = flagKeys{
	"palette": "view.palette",
	"weight":  "view.weight",
}

func newViewCommand(o *rootOptions) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Simulate in the terminal",
		Long:  "view runs the simulation and draws every frame as a half-block density map. Keys: q quit, space pause, +/- zoom.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd.Flags(), simFlags, viewFlags)
			if err != nil {
				return err
			}
			if err := redirectLogs(logFile); err != nil {
				return err
			}
			return runViewer(cmd.Context(), cfg)
		},
	}

	d := config.Default()
	addSimFlags(cmd.Flags(), d)
	fs := cmd.Flags()
	fs.String("palette", d.View.Palette, "Density palette: log, cosine or heat")
	fs.Float64("weight", d.View.Weight, "Density added per particle")
	fs.StringVar(&logFile, "log", "nbody-view.log", "Log file while the terminal is owned by the viewer")
	return cmd
}

// redirectLogs sends klog output to path so the screen stays clean
func redirectLogs(path string) error {
	if path == "" {
		return nil
	}
	for name, value := range map[string]string{
		"logtostderr":     "false",
		"alsologtostderr": "false",
		"log_file":        path,
	} {
		if err := goflag.Set(name, value); err != nil {
			return errors.Wrapf(err, "set klog %s", name)
		}
	}
	return nil
}

// fatal resets the terminal and reports a crash from any goroutine
func fatal(screen tcell.Screen, r any) {
	screen.Fini()
	klog.Flush()
	fmt.Fprintf(os.Stderr, "\n\x1b[31mNBODY CRASHED: %v\x1b[0m\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
	os.Exit(1)
}

// runViewer runs the simulation in a goroutine and owns the terminal until quit
func runViewer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ps, err := scenario.Generate(cfg.ScenarioOptions())
	if err != nil {
		return err
	}
	reg := status.NewRegistry()
	s, err := sim.New(ps, cfg.SimOptions(), sim.WithStatus(reg))
	if err != nil {
		return err
	}
	palette, err := render.PaletteByName(cfg.View.Palette)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	defer screen.Fini()
	defer func() {
		if r := recover(); r != nil {
			fatal(screen, r)
		}
	}()

	v := view.New(screen, reg, palette, cfg.View.Weight)
	sinks := []sim.Sink{v}
	if cfg.Audio.Enabled {
		cue := audio.NewCue(cfg.Audio.Volume)
		if err := cue.Init(); err != nil {
			klog.ErrorS(err, "Audio initialization failed, continuing without audio")
		} else {
			defer cue.Close()
			sinks = append(sinks, cue)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	simDone := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				fatal(screen, r)
			}
		}()
		err := s.Run(ctx, cfg.Simulation.Frames, sinks...)
		if err != nil {
			v.Close()
		}
		simDone <- err
	}()

	klog.InfoS("Viewer started", "particles", len(ps), "frames", cfg.Simulation.Frames)
	if err := v.Run(ctx); err != nil {
		return err
	}
	cancel()

	err = <-simDone
	if err == nil || errors.Is(err, view.ErrClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
