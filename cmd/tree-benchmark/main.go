package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/particle"
	"github.com/lixenwraith/nbody/physics"
	"github.com/lixenwraith/nbody/quadtree"
	"github.com/lixenwraith/nbody/scenario"
	"github.com/lixenwraith/nbody/sim"
)

var (
	sizesFlag = flag.String("sizes", "1000,10000,100000", "Comma-separated particle counts")
	stepsFlag = flag.Int("steps", 5, "Steps timed per configuration")
	kindFlag  = flag.String("init", "uniform", "Initial distribution: uniform, disc or perlin")
	depthFlag = flag.Int("max-depth", 0, "Tree depth limit, 0 for unlimited")
)

// result holds mean phase timings over the timed steps
type result struct {
	build, force, integrate time.Duration
	nodes, depth            int
}

func measure(ps []particle.PointMass, workers int) (result, error) {
	opts := sim.DefaultOptions()
	opts.Workers = workers
	opts.Tree.MaxDepth = *depthFlag

	s, err := sim.New(ps, opts)
	if err != nil {
		return result{}, err
	}
	var r result
	for i := 0; i < *stepsFlag; i++ {
		st := s.Step()
		r.build += st.Build
		r.force += st.Force
		r.integrate += st.Integrate
		r.nodes = st.Tree.Nodes
		r.depth = st.Tree.MaxDepth
	}
	n := time.Duration(*stepsFlag)
	r.build /= n
	r.force /= n
	r.integrate /= n
	return r, nil
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, field := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid size %q", field)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func main() {
	flag.Parse()
	if *stepsFlag < 1 {
		fmt.Fprintln(os.Stderr, "steps must be >= 1")
		os.Exit(1)
	}
	sizes, err := parseSizes(*sizesFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("nbody Barnes-Hut Tree Benchmark")
	fmt.Println("===============================")
	fmt.Printf("init=%s steps=%d cpus=%d\n\n", *kindFlag, *stepsFlag, runtime.NumCPU())
	fmt.Printf("%-10s %-8s %12s %12s %12s %10s %6s\n", "particles", "workers", "build", "force", "integrate", "nodes", "depth")

	for _, n := range sizes {
		opts := scenario.DefaultOptions()
		opts.Kind = scenario.Kind(*kindFlag)
		opts.Count = n
		base, err := scenario.Generate(opts)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		for _, workers := range []int{1, runtime.NumCPU()} {
			ps := append([]particle.PointMass(nil), base...)
			r, err := measure(ps, workers)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Printf("%-10d %-8d %12v %12v %12v %10d %6d\n", n, workers,
				r.build.Round(time.Microsecond), r.force.Round(time.Microsecond),
				r.integrate.Round(time.Microsecond), r.nodes, r.depth)
		}
	}

	// Accuracy at the default opening factor on a small population
	opts := scenario.DefaultOptions()
	opts.Count = 2000
	ps, err := scenario.Generate(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println()
	fmt.Println("=== Accuracy Verification (2000 particles) ===")
	def := quadtree.DefaultParams()
	for _, r := range physics.CompareOpening(ps, parameter.GravitationalConstant, parameter.BoundsPadding, def, []float64{0, def.OpeningFactor}) {
		fmt.Printf("  opening %.2f: rms %.3e max %.3e\n", r.OpeningFactor, r.RMSRelative, r.MaxRelative)
	}
}
