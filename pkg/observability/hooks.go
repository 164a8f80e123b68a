// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about edge-list loading, analysis, graph queries, and
// cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The [prom] subpackage implements the hooks with Prometheus collectors.
//
// # Usage
//
// Register hooks at application startup:
//
//	reg := prometheus.NewRegistry()
//	h := prom.New(reg)
//	observability.SetGraphHooks(h)
//	observability.SetCacheHooks(h)
//
// Libraries call hooks to emit events:
//
//	observability.Graph().OnLoadStart(ctx, path)
//	// ... read edge list ...
//	observability.Graph().OnLoadComplete(ctx, path, nodes, edges, duration, err)
//
// [prom]: github.com/matzehuels/friendgraph/pkg/observability/prom
package observability

import (
	"context"
	"sync"
	"time"
)

// Query names passed to GraphHooks.OnQuery.
const (
	QueryDegree    = "degree"
	QueryDistance2 = "distance2"
	QueryNodes     = "nodes"
	QueryAddEdge   = "add_edge"
)

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives events from graph loading, analysis, and queries.
type GraphHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, nodes, edges int, duration time.Duration, err error)

	// OnAnalyzeComplete records a finished analysis.
	OnAnalyzeComplete(ctx context.Context, nodes int, duration time.Duration, cached bool)

	// OnQuery records a single graph query served by a host.
	OnQuery(ctx context.Context, query string, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnLoadStart(context.Context, string)                                    {}
func (NoopGraphHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopGraphHooks) OnAnalyzeComplete(context.Context, int, time.Duration, bool)            {}
func (NoopGraphHooks) OnQuery(context.Context, string, time.Duration)                         {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	graphHooks GraphHooks = NoopGraphHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetGraphHooks registers custom graph hooks.
// This should be called once at application startup before any graph operations.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	graphHooks = NoopGraphHooks{}
	cacheHooks = NoopCacheHooks{}
}
