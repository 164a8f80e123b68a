// Package store persists analysis reports.
//
// Reports are keyed by their ID and indexed by the content hash of the edge
// list they were computed from, so [Store.Latest] can return the newest
// report for a given input. [MemoryStore] serves tests and single-process
// use; [MongoStore] keeps reports in a MongoDB collection.
package store

import (
	"context"
	"sync"

	"github.com/matzehuels/friendgraph/pkg/analysis"
	"github.com/matzehuels/friendgraph/pkg/errors"
)

// Store saves and retrieves reports.
type Store interface {
	// Save stores r, replacing any report with the same ID.
	Save(ctx context.Context, r *analysis.Report) error

	// Get returns the report with the given ID or a REPORT_NOT_FOUND error.
	Get(ctx context.Context, id string) (*analysis.Report, error)

	// Latest returns the newest report for source or a REPORT_NOT_FOUND error.
	Latest(ctx context.Context, source string) (*analysis.Report, error)

	// Close releases resources held by the store.
	Close(ctx context.Context) error
}

// MemoryStore keeps reports in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*analysis.Report
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]*analysis.Report)}
}

// Save stores a copy of r.
func (s *MemoryStore) Save(_ context.Context, r *analysis.Report) error {
	if r == nil || r.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "report must have an ID")
	}
	cp := *r
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = &cp
	return nil
}

// Get returns a copy of the report with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*analysis.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeReportNotFound, "report %s", id)
	}
	cp := *r
	return &cp, nil
}

// Latest returns the report for source with the latest CreatedAt.
func (s *MemoryStore) Latest(_ context.Context, source string) (*analysis.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *analysis.Report
	for _, r := range s.reports {
		if r.Source != source {
			continue
		}
		if best == nil || r.CreatedAt.After(best.CreatedAt) {
			best = r
		}
	}
	if best == nil {
		return nil, errors.New(errors.ErrCodeReportNotFound, "no report for source %s", source)
	}
	cp := *best
	return &cp, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
