// Package metrics provides Prometheus collectors for the picturedesk shell.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BootstrapMetrics contains the Prometheus metrics for application bootstrap
// and host readiness.
type BootstrapMetrics struct {
	PluginsInstalled *prometheus.CounterVec
	PluginErrors     *prometheus.CounterVec
	IconsRegistered  prometheus.Gauge
	EventsDispatched *prometheus.CounterVec
	EventListeners   *prometheus.GaugeVec
	ListenerFailures *prometheus.CounterVec
	MountsTotal      *prometheus.CounterVec
	Mounted          prometheus.Gauge
	ReadinessWait    prometheus.Histogram
	registry         *prometheus.Registry
}

// NewBootstrapMetrics creates the bootstrap collectors and registers them with registry.
func NewBootstrapMetrics(registry *prometheus.Registry) (*BootstrapMetrics, error) {
	m := &BootstrapMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register bootstrap metrics: %w", err)
	}
	return m, nil
}

func (m *BootstrapMetrics) initMetrics() {
	m.PluginsInstalled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picturedesk_plugins_installed_total",
			Help: "Total number of plugins installed, partitioned by plugin name.",
		},
		[]string{"plugin"},
	)

	m.PluginErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picturedesk_plugin_errors_total",
			Help: "Total number of failed plugin installs, partitioned by plugin name.",
		},
		[]string{"plugin"},
	)

	m.IconsRegistered = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "picturedesk_icons_registered",
		Help: "Number of icons in the registry.",
	})

	m.EventsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picturedesk_events_dispatched_total",
			Help: "Total number of host events dispatched, partitioned by event name.",
		},
		[]string{"event"},
	)

	m.EventListeners = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "picturedesk_event_listeners_last",
			Help: "Listeners invoked by the most recent dispatch of each event.",
		},
		[]string{"event"},
	)

	m.ListenerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picturedesk_event_listener_failures_total",
			Help: "Total number of listener errors and panics, partitioned by event name.",
		},
		[]string{"event"},
	)

	m.MountsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picturedesk_mounts_total",
			Help: "Total number of mount attempts, partitioned by result.",
		},
		[]string{"result"},
	)

	m.Mounted = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "picturedesk_mounted",
		Help: "1 once the root view has been mounted.",
	})

	m.ReadinessWait = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "picturedesk_readiness_wait_seconds",
		Help:    "Time from bootstrap until the host signalled readiness.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	})
}

// RecordPluginInstall records the outcome of installing plugin.
func (m *BootstrapMetrics) RecordPluginInstall(plugin string, err error) {
	if err != nil {
		m.PluginErrors.WithLabelValues(plugin).Inc()
		return
	}
	m.PluginsInstalled.WithLabelValues(plugin).Inc()
}

// SetIconsRegistered sets the icon registry size.
func (m *BootstrapMetrics) SetIconsRegistered(n int) {
	m.IconsRegistered.Set(float64(n))
}

// EventDispatched records one dispatch of name reaching listeners listeners.
func (m *BootstrapMetrics) EventDispatched(name string, listeners int) {
	m.EventsDispatched.WithLabelValues(name).Inc()
	m.EventListeners.WithLabelValues(name).Set(float64(listeners))
}

// ListenerFailed records a listener that returned an error or panicked.
func (m *BootstrapMetrics) ListenerFailed(name string) {
	m.ListenerFailures.WithLabelValues(name).Inc()
}

// RecordMount records a mount attempt. A successful mount also observes how long
// the shell waited for readiness.
func (m *BootstrapMetrics) RecordMount(err error, waited time.Duration) {
	if err != nil {
		m.MountsTotal.WithLabelValues("error").Inc()
		return
	}
	m.MountsTotal.WithLabelValues("success").Inc()
	m.Mounted.Set(1)
	m.ReadinessWait.Observe(waited.Seconds())
}

// Collect implements the prometheus.Collector interface.
func (m *BootstrapMetrics) Collect(ch chan<- prometheus.Metric) {
	m.PluginsInstalled.Collect(ch)
	m.PluginErrors.Collect(ch)
	ch <- m.IconsRegistered
	m.EventsDispatched.Collect(ch)
	m.EventListeners.Collect(ch)
	m.ListenerFailures.Collect(ch)
	m.MountsTotal.Collect(ch)
	ch <- m.Mounted
	ch <- m.ReadinessWait
}

// Describe implements the prometheus.Collector interface.
func (m *BootstrapMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.PluginsInstalled.Describe(ch)
	m.PluginErrors.Describe(ch)
	ch <- m.IconsRegistered.Desc()
	m.EventsDispatched.Describe(ch)
	m.EventListeners.Describe(ch)
	m.ListenerFailures.Describe(ch)
	m.MountsTotal.Describe(ch)
	ch <- m.Mounted.Desc()
	ch <- m.ReadinessWait.Desc()
}
