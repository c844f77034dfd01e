package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the topology engine
type Registry struct {
	// Connection lifecycle
	ConnectionsTotal     *prometheus.CounterVec
	ConnectionsActive    prometheus.Gauge
	ConnectionsRejected  *prometheus.CounterVec
	DragUpdatesTotal     prometheus.Counter
	DragCancellations    prometheus.Counter
	BridgePairingsActive prometheus.Gauge

	// Topology
	NetworksActive         prometheus.Gauge
	NetworkMergesTotal     prometheus.Counter
	NetworkSplitsTotal     prometheus.Counter
	AddressesAssignedTotal prometheus.Counter

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewRegistry creates a metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initLinkerMetrics()
	r.initTopologyMetrics()
	r.initHTTPMetrics()
	return r
}

// Handler returns an http.Handler exposing the registry in Prometheus format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordConnectionChange records a finalized or removed connection and the
// new size of the finalized edge set
func (r *Registry) RecordConnectionChange(kind string, active int) {
	if r == nil {
		return
	}
	r.ConnectionsTotal.WithLabelValues(kind).Inc()
	r.ConnectionsActive.Set(float64(active))
}

// RecordConnectionRejected records a connection attempt that did not finalize
func (r *Registry) RecordConnectionRejected(reason string) {
	if r == nil {
		return
	}
	r.ConnectionsRejected.WithLabelValues(reason).Inc()
}

// RecordDragUpdate records one pointer-move pass through the hit test
func (r *Registry) RecordDragUpdate() {
	if r == nil {
		return
	}
	r.DragUpdatesTotal.Inc()
}

// RecordDragCancelled records an abandoned in-progress edge
func (r *Registry) RecordDragCancelled() {
	if r == nil {
		return
	}
	r.DragCancellations.Inc()
}

// SetBridgePairings sets the number of bridge nodes with at least one side paired
func (r *Registry) SetBridgePairings(n int) {
	if r == nil {
		return
	}
	r.BridgePairingsActive.Set(float64(n))
}

// SetActiveNetworks sets the number of live network aggregates
func (r *Registry) SetActiveNetworks(n int) {
	if r == nil {
		return
	}
	r.NetworksActive.Set(float64(n))
}

// RecordMerge records two networks combining into a fresh one
func (r *Registry) RecordMerge() {
	if r == nil {
		return
	}
	r.NetworkMergesTotal.Inc()
}

// RecordSplit records a network partitioned by an interior edge removal
func (r *Registry) RecordSplit() {
	if r == nil {
		return
	}
	r.NetworkSplitsTotal.Inc()
}

// RecordAddressAssigned records one classical address allocation
func (r *Registry) RecordAddressAssigned() {
	if r == nil {
		return
	}
	r.AddressesAssignedTotal.Inc()
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
