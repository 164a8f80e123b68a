// Package cache provides key-value caching for analysis reports.
//
// Three backends implement [Cache]:
//   - [NullCache]: stores nothing (caching disabled)
//   - [FileCache]: hash-sharded JSON files for CLI use
//   - [RedisCache]: shared Redis instance for servers and teams
//
// Keys are built by a [Keyer] from the content hash of the input edge list
// and the analysis options, so a changed file or option never hits a stale
// entry.
package cache

import (
	"context"
	"time"
)

// TTLReport is the default lifetime of a cached report.
const TTLReport = 24 * time.Hour

// Cache stores opaque byte values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// ReportKeyOpts holds the analysis options that change a report.
type ReportKeyOpts struct {
	Top int `json:"top"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ReportKey returns the key for the report of an edge list with the given content hash.
	ReportKey(sourceHash string, opts ReportKeyOpts) string
}

// DefaultKeyer generates unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey returns "report:<sourceHash>:top=<n>".
func (DefaultKeyer) ReportKey(sourceHash string, opts ReportKeyOpts) string {
	return reportKey(sourceHash, opts)
}
