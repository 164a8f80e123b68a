// Package prom implements observability hooks with Prometheus collectors.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/friendgraph/pkg/observability"
)

const namespace = "friendgraph"

// Hooks records graph and cache events as Prometheus metrics.
// It implements both observability.GraphHooks and observability.CacheHooks.
type Hooks struct {
	loads       *prometheus.CounterVec
	loadSeconds prometheus.Histogram
	graphNodes  prometheus.Gauge
	graphEdges  prometheus.Gauge
	analyses    *prometheus.CounterVec
	queries     *prometheus.HistogramVec
	cacheOps    *prometheus.CounterVec
	cacheBytes  prometheus.Counter
}

// New creates hooks whose collectors are registered on reg.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Edge list loads by result.",
		}, []string{"result"}),
		loadSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time spent reading edge lists.",
			Buckets:   prometheus.DefBuckets,
		}),
		graphNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes in the most recently loaded graph.",
		}),
		graphEdges: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Edges in the most recently loaded graph.",
		}),
		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by cache result.",
		}, []string{"cached"}),
		queries: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Graph query latency by query type.",
			Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
		}, []string{"query"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache operations by key type and outcome.",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
	}
}

func (h *Hooks) OnLoadStart(context.Context, string) {}

func (h *Hooks) OnLoadComplete(_ context.Context, _ string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.loads.WithLabelValues("error").Inc()
		return
	}
	h.loads.WithLabelValues("ok").Inc()
	h.loadSeconds.Observe(d.Seconds())
	h.graphNodes.Set(float64(nodes))
	h.graphEdges.Set(float64(edges))
}

func (h *Hooks) OnAnalyzeComplete(_ context.Context, _ int, _ time.Duration, cached bool) {
	label := "false"
	if cached {
		label = "true"
	}
	h.analyses.WithLabelValues(label).Inc()
}

func (h *Hooks) OnQuery(_ context.Context, query string, d time.Duration) {
	h.queries.WithLabelValues(query).Observe(d.Seconds())
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}

var (
	_ observability.GraphHooks = (*Hooks)(nil)
	_ observability.CacheHooks = (*Hooks)(nil)
)
