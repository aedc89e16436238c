// Package metrics exposes Prometheus counters for inventory sharing and RPC traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "krisefikser"

// Metrics holds the collectors. It satisfies sharing.Observer.
type Metrics struct {
	transitions *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shared_status_transitions_total",
			Help:      "Completed shared-status changes by kind (flip or split).",
		}, []string{"kind"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_item_conflicts_total",
			Help:      "Writes rejected because the batch changed concurrently.",
		}, []string{"operation"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}
	reg.MustRegister(m.transitions, m.conflicts, m.requests, m.duration)
	return m
}

// SharedStatusChanged counts a completed flip or split.
func (m *Metrics) SharedStatusChanged(split bool) {
	kind := "flip"
	if split {
		kind = "split"
	}
	m.transitions.WithLabelValues(kind).Inc()
}

// ConflictDetected counts a write rejected by the version check.
func (m *Metrics) ConflictDetected(operation string) {
	m.conflicts.WithLabelValues(operation).Inc()
}

// ObserveRPC records one finished call.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	m.requests.WithLabelValues(procedure, code).Inc()
	m.duration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}
