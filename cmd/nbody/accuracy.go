package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/lixenwraith/nbody/config"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/scenario"
)

var (
	headStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	cellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	badStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const (
	// accuracyThreshold splits good and poor rows in the report
	accuracyThreshold = 0.01
	accuracyParticles = 2000
)

func newAccuracyCommand(o *rootOptions, out io.Writer) *cobra.Command {
	var factors []float64
	cmd := &cobra.Command{
		Use:   "accuracy",
		Short: "Compare tree forces against the direct sum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Direct summation is quadratic; keep the default population small
			o.v.SetDefault("init.count", accuracyParticles)
			cfg, err := o.load(cmd.Flags(), simFlags)
			if err != nil {
				return err
			}
			ps, err := scenario.Generate(cfg.ScenarioOptions())
			if err != nil {
				return err
			}
			klog.InfoS("Accuracy sweep", "particles", len(ps), "factors", factors)
			results := physics.CompareOpening(ps, cfg.Simulation.G, cfg.Simulation.Padding, cfg.TreeParams(), factors)
			fmt.Fprint(out, formatAccuracy(results))
			return nil
		},
	}

	d := config.Default()
	d.Init.Count = accuracyParticles
	addSimFlags(cmd.Flags(), d)
	cmd.Flags().Float64SliceVar(&factors, "factors", []float64{0, 0.1, 0.3, 0.5, 0.7, 1, 2}, "Opening factors to compare")
	return cmd
}

// formatAccuracy renders the sweep as an aligned table
func formatAccuracy(results []physics.AccuracyResult) string {
	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("%-8s %-12s %-12s %-12s %-12s", "factor", "rms", "max", "tree", "direct")) + "\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 60)) + "\n")
	for _, r := range results {
		errStyle := goodStyle
		if r.RMSRelative > accuracyThreshold {
			errStyle = badStyle
		}
		b.WriteString(cellStyle.Render(fmt.Sprintf("%-8.2f ", r.OpeningFactor)))
		b.WriteString(errStyle.Render(fmt.Sprintf("%-12.3e %-12.3e ", r.RMSRelative, r.MaxRelative)))
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-12s %-12s", r.TreeTime.Round(time.Microsecond), r.DirectTime.Round(time.Microsecond))))
		b.WriteString("\n")
	}
	return b.String()
}
