package cache

import (
	"context"
	"time"
)

// NullCache is the cache used when reports must always be recomputed.
// Reason records why caching is off so callers can log it.
type NullCache struct {
	Reason string
}

// NewNullCache returns a NullCache with no recorded reason.
func NewNullCache() Cache {
	return NullCache{}
}

// Disabled returns a NullCache that remembers why caching was turned off,
// e.g. "--no-cache" or "no cache directory".
func Disabled(reason string) Cache {
	return NullCache{Reason: reason}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
