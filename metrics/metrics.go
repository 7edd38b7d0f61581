// Package metrics exports simulation counters to Prometheus
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/lixenwraith/nbody/parameter"
)

// Phase labels for PhaseDuration
const (
	PhaseBuild     = "build"
	PhaseForce     = "force"
	PhaseIntegrate = "integrate"
	PhaseRender    = "render"
)

// Collector owns the simulation collectors, registered on one registry
type Collector struct {
	registry *prometheus.Registry

	Steps         prometheus.Counter
	Frames        prometheus.Counter
	Dropped       prometheus.Counter
	Particles     prometheus.Gauge
	TreeNodes     prometheus.Gauge
	TreeDepth     prometheus.Gauge
	KineticEnergy prometheus.Gauge
	StepDuration  prometheus.Histogram
	PhaseDuration *prometheus.HistogramVec
}

// New creates and registers the collectors on a fresh registry
func New() *Collector {
	ns := parameter.MetricsNamespace
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "steps_total", Help: "Simulation steps completed.",
		}),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "frames_total", Help: "Frames delivered to sinks.",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "tree_dropped_total", Help: "Insertions dropped as coincident.",
		}),
		Particles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Name: "particles", Help: "Particles represented in the last tree.",
		}),
		TreeNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Name: "tree_nodes", Help: "Nodes in the last tree.",
		}),
		TreeDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Name: "tree_depth", Help: "Maximum depth of the last tree.",
		}),
		KineticEnergy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Name: "kinetic_energy", Help: "Total kinetic energy after the last step.",
		}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "step_duration_seconds", Help: "Wall time of one simulation step.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		PhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "phase_duration_seconds", Help: "Wall time per step phase.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"phase"}),
	}

	c.registry.MustRegister(
		c.Steps, c.Frames, c.Dropped, c.Particles, c.TreeNodes, c.TreeDepth,
		c.KineticEnergy, c.StepDuration, c.PhaseDuration,
	)
	return c
}

// Registry returns the registry the collectors live on
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObservePhase records one phase duration
func (c *Collector) ObservePhase(phase string, d time.Duration) {
	c.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// Serve exposes the registry on addr until ctx is done
// Returns immediately; listener errors are logged
func (c *Collector) Serve(ctx context.Context, addr, path string) (*http.Server, error) {
	if addr == "" {
		return nil, errors.New("metrics address is empty")
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		klog.InfoS("Serving metrics", "addr", addr, "path", path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.ErrorS(err, "Metrics server stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv, nil
}
