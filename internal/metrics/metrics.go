// Package metrics holds the Prometheus collectors of the ledger server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector so they can be registered on a private
// registry in tests.
type Metrics struct {
	// RPCRequests counts RPCs by procedure and connect code ("ok" on success).
	RPCRequests *prometheus.CounterVec

	// RPCDuration observes RPC latency by procedure.
	RPCDuration *prometheus.HistogramVec

	// CacheLookups counts sheet cache lookups by result ("hit" or "miss").
	CacheLookups *prometheus.CounterVec

	// CacheFlushes counts cache invalidations caused by writes.
	CacheFlushes prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RPCRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kas",
			Name:      "rpc_requests_total",
			Help:      "Ledger RPCs handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kas",
			Name:      "rpc_duration_seconds",
			Help:      "Ledger RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kas",
			Name:      "sheet_cache_lookups_total",
			Help:      "Sheet read cache lookups, by result.",
		}, []string{"result"}),
		CacheFlushes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "kas",
			Name:      "sheet_cache_flushes_total",
			Help:      "Sheet read cache invalidations caused by writes.",
		}),
	}
}
