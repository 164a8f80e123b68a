package server

import (
	"context"
	"slices"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/friendgraph/pkg/analysis"
	"github.com/matzehuels/friendgraph/pkg/graph"
	"github.com/matzehuels/friendgraph/pkg/observability"
)

// DefaultLRUSize is the number of distance-2 results Shared keeps.
const DefaultLRUSize = 4096

// Shared wraps a graph for concurrent use. Readers share a read lock; edge
// insertions take the write lock and purge the distance-2 cache.
type Shared struct {
	mu sync.RWMutex
	g  *graph.Graph
	d2 *lru.Cache[graph.NodeID, []graph.NodeID]
}

// NewShared takes ownership of g. The caller must not use g afterwards.
func NewShared(g *graph.Graph, lruSize int) (*Shared, error) {
	if g == nil {
		g = graph.New()
	}
	if lruSize <= 0 {
		lruSize = DefaultLRUSize
	}
	c, err := lru.New[graph.NodeID, []graph.NodeID](lruSize)
	if err != nil {
		return nil, err
	}
	return &Shared{g: g, d2: c}, nil
}

// AddEdges inserts edges in order.
func (s *Shared) AddEdges(ctx context.Context, edges []graph.Edge) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range edges {
		s.g.AddEdge(e.From, e.To)
	}
	s.d2.Purge()
	observability.Graph().OnQuery(ctx, observability.QueryAddEdge, time.Since(start))
}

// Degree returns the degree of n.
func (s *Shared) Degree(ctx context.Context, n graph.NodeID) int {
	start := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := s.g.Degree(n)
	observability.Graph().OnQuery(ctx, observability.QueryDegree, time.Since(start))
	return d
}

// Distance2 returns the sorted distance-2 neighbors of n. The caller owns
// the returned slice.
func (s *Shared) Distance2(ctx context.Context, n graph.NodeID) []graph.NodeID {
	start := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.distance2Locked(n)
	observability.Graph().OnQuery(ctx, observability.QueryDistance2, time.Since(start))
	return ids
}

// distance2Locked returns a copy of the cached distance-2 set of n, filling
// the cache on a miss. s.mu must be held for reading.
func (s *Shared) distance2Locked(n graph.NodeID) []graph.NodeID {
	if ids, ok := s.d2.Get(n); ok {
		return slices.Clone(ids)
	}
	// Writers purge under the write lock, so adding under the read lock
	// cannot resurrect a stale result.
	ids := s.g.NeighborsAtDistance2(n).Sorted()
	s.d2.Add(n, ids)
	return slices.Clone(ids)
}

// Node returns everything known about n, read from a single graph version.
func (s *Shared) Node(ctx context.Context, n graph.NodeID) NodeInfo {
	start := time.Now()
	s.mu.RLock()
	info := NodeInfo{
		ID:        n,
		Degree:    s.g.Degree(n),
		Neighbors: s.g.Neighbors(n),
		Distance2: s.distance2Locked(n),
	}
	s.mu.RUnlock()
	observability.Graph().OnQuery(ctx, observability.QueryDistance2, time.Since(start))
	if info.Neighbors == nil {
		info.Neighbors = []graph.NodeID{}
	}
	return info
}

// Nodes returns every node in ascending order.
func (s *Shared) Nodes(ctx context.Context) []graph.NodeID {
	start := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.g.Nodes().Sorted()
	observability.Graph().OnQuery(ctx, observability.QueryNodes, time.Since(start))
	return ids
}

// Report analyzes the current graph.
func (s *Shared) Report(ctx context.Context, opts analysis.Options) *analysis.Report {
	start := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := analysis.Analyze(s.g, opts)
	observability.Graph().OnAnalyzeComplete(ctx, s.g.NodeCount(), time.Since(start), false)
	return r
}

// Counts returns the node and edge counts.
func (s *Shared) Counts() (nodes, edges int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.NodeCount(), s.g.EdgeCount()
}
