package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLinkerMetrics() {
	r.ConnectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topoforge_connections_total",
			Help: "Connection lifecycle transitions by kind (created, removed)",
		},
		[]string{"kind"},
	)

	r.ConnectionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "topoforge_connections_active",
			Help: "Number of finalized connections",
		},
	)

	r.ConnectionsRejected = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topoforge_connections_rejected_total",
			Help: "Connection attempts that did not finalize, by reason",
		},
		[]string{"reason"},
	)

	r.DragUpdatesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topoforge_drag_updates_total",
			Help: "Pointer-move updates processed while drawing an edge",
		},
	)

	r.DragCancellations = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topoforge_drag_cancellations_total",
			Help: "In-progress edges discarded before finalizing",
		},
	)

	r.BridgePairingsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "topoforge_bridge_pairings_active",
			Help: "Bridge nodes with at least one paired side",
		},
	)
}

func (r *Registry) initTopologyMetrics() {
	r.NetworksActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "topoforge_networks_active",
			Help: "Number of live network aggregates",
		},
	)

	r.NetworkMergesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topoforge_network_merges_total",
			Help: "Times two networks combined into a fresh one",
		},
	)

	r.NetworkSplitsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topoforge_network_splits_total",
			Help: "Times an interior edge removal partitioned a network",
		},
	)

	r.AddressesAssignedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topoforge_addresses_assigned_total",
			Help: "Classical addresses allocated across all networks",
		},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topoforge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "topoforge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"method", "path"},
	)
}
