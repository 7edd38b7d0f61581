// Package status is the lock-free run status shared between the simulation loop and the viewer
package status

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// Well-known keys written by the simulation driver
const (
	KeyStep       = "step"
	KeyFrame      = "frame"
	KeyParticles  = "particles"
	KeyTreeNodes  = "tree.nodes"
	KeyTreeDepth  = "tree.depth"
	KeyDropped    = "tree.dropped"
	KeyStepMillis = "step.ms"
	KeyKinetic    = "energy.kinetic"
	KeyPhase      = "phase"
	KeyPaused     = "paused"
)

// Registry groups typed metric maps
// Writers cache pointers during init; update loops write straight to the atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Lines renders every metric as "key value", ints first, then floats, strings, bools
func (r *Registry) Lines() []string {
	lines := make([]string, 0, r.TotalCount())
	r.Ints.Range(func(k string, v *atomic.Int64) {
		lines = append(lines, k+" "+strconv.FormatInt(v.Load(), 10))
	})
	r.Floats.Range(func(k string, v *AtomicFloat) {
		lines = append(lines, fmt.Sprintf("%s %.4g", k, v.Get()))
	})
	r.Strings.Range(func(k string, v *AtomicString) {
		lines = append(lines, k+" "+v.Load())
	})
	r.Bools.Range(func(k string, v *atomic.Bool) {
		lines = append(lines, k+" "+strconv.FormatBool(v.Load()))
	})
	return lines
}
