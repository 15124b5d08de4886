package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/exitguard/pkg/shutdown"
)

const namespace = "exitguard"

// Registry holds the shutdown metrics of one process.
type Registry struct {
	registry *prometheus.Registry

	Listeners        prometheus.Gauge
	CleanupRuns      *prometheus.CounterVec
	CleanupActive    prometheus.Gauge
	ListenerFailures *prometheus.CounterVec
	CleanupDuration  *prometheus.HistogramVec
}

var _ shutdown.Observer = (*Registry)(nil)

// NewRegistry creates a registry with its own prometheus.Registry, so tests
// and multiple coordinators never collide on the global one.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Registry{
		registry: reg,
		Listeners: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "listeners",
			Help:      "Number of registered cleanup listeners.",
		}),
		CleanupRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanup_runs_total",
			Help:      "Cleanup runs started, by trigger.",
		}, []string{"trigger"}),
		CleanupActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cleanup_in_progress",
			Help:      "1 while a cleanup run is executing.",
		}),
		ListenerFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listener_failures_total",
			Help:      "Cleanup listeners that panicked, failed or timed out.",
		}, []string{"trigger", "kind"}),
		CleanupDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cleanup_duration_seconds",
			Help:      "Time from cleanup start until every listener settled.",
			Buckets:   []float64{.001, .01, .05, .1, .5, 1, 2.5, 5, 10, 30},
		}, []string{"trigger"}),
	}
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns the /metrics handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Registry) ListenersChanged(n int) {
	r.Listeners.Set(float64(n))
}

func (r *Registry) CleanupStarted(rep *shutdown.Report) {
	r.CleanupRuns.WithLabelValues(string(rep.Trigger)).Inc()
	r.CleanupActive.Set(1)
}

func (r *Registry) ListenerFailed(t shutdown.Trigger, f shutdown.Failure) {
	r.ListenerFailures.WithLabelValues(string(t), string(f.Kind)).Inc()
}

func (r *Registry) CleanupFinished(rep *shutdown.Report) {
	r.CleanupActive.Set(0)
	r.CleanupDuration.WithLabelValues(string(rep.Trigger)).Observe(rep.Duration.Seconds())
}
