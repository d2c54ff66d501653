package patch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the patch metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vpatch").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for patch duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the patch metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vpatch",
		// Patches are synchronous tree walks; most finish well under 1ms.
		Buckets:  []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025, .1},
		Registry: prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors shared by any number of
// patchers. A nil *Metrics records nothing.
type Metrics struct {
	patchesTotal  prometheus.Counter
	patchAborts   prometheus.Counter
	patchDuration prometheus.Histogram
	nodesCreated  prometheus.Counter
	nodesRemoved  prometheus.Counter
	nodesMoved    prometheus.Counter
	textUpdates   prometheus.Counter
	hookCalls     *prometheus.CounterVec
	hookFailures  *prometheus.CounterVec
}

// NewMetrics creates and registers the patch collectors.
//
// Metrics collected:
//   - vpatch_patches_total: Counter of completed patch calls
//   - vpatch_patch_aborts_total: Counter of patch calls aborted by a panic
//   - vpatch_patch_duration_seconds: Histogram of patch call duration
//   - vpatch_nodes_created_total: Counter of live objects created
//   - vpatch_nodes_removed_total: Counter of live objects removed
//   - vpatch_nodes_moved_total: Counter of live objects moved
//   - vpatch_text_updates_total: Counter of in-place text updates
//   - vpatch_hook_calls_total: Counter of module hook calls by hook
//   - vpatch_hook_failures_total: Counter of isolated hook panics by hook
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		patchesTotal: counter("patches_total", "Total number of completed patch calls"),
		patchAborts:  counter("patch_aborts_total", "Total number of patch calls aborted by a failure"),
		patchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_duration_seconds",
			Help:        "Patch call duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
		nodesCreated: counter("nodes_created_total", "Total number of live objects created"),
		nodesRemoved: counter("nodes_removed_total", "Total number of live objects removed"),
		nodesMoved:   counter("nodes_moved_total", "Total number of live objects moved"),
		textUpdates:  counter("text_updates_total", "Total number of in-place text updates"),
		hookCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hook_calls_total",
			Help:        "Total number of module hook calls",
			ConstLabels: config.ConstLabels,
		}, []string{"hook"}),
		hookFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hook_failures_total",
			Help:        "Total number of module hook failures recovered by isolation",
			ConstLabels: config.ConstLabels,
		}, []string{"hook"}),
	}
}

func (m *Metrics) observe(s Stats) {
	if m == nil {
		return
	}
	m.patchesTotal.Inc()
	m.patchDuration.Observe(s.Duration.Seconds())
	m.nodesCreated.Add(float64(s.Created))
	m.nodesRemoved.Add(float64(s.Removed))
	m.nodesMoved.Add(float64(s.Moved))
	m.textUpdates.Add(float64(s.TextUpdates))
}

func (m *Metrics) aborted() {
	if m == nil {
		return
	}
	m.patchAborts.Inc()
}

func (m *Metrics) hookCalled(hook string) {
	if m == nil {
		return
	}
	m.hookCalls.WithLabelValues(hook).Inc()
}

func (m *Metrics) hookFailed(hook string) {
	if m == nil {
		return
	}
	m.hookFailures.WithLabelValues(hook).Inc()
}
