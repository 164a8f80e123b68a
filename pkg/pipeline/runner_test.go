package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/friendgraph/pkg/analysis"
	"github.com/matzehuels/friendgraph/pkg/cache"
	"github.com/matzehuels/friendgraph/pkg/errors"
	"github.com/matzehuels/friendgraph/pkg/observability"
	"github.com/matzehuels/friendgraph/pkg/store"
)

// memCache is an in-memory Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

// countingHooks records cache events.
type countingHooks struct {
	observability.NoopCacheHooks
	mu                sync.Mutex
	hits, misses, set int
}

func (h *countingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.misses++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	h.set++
	h.mu.Unlock()
}

func writeEdges(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edges.txt")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

func TestNewRunnerDisabledCache(t *testing.T) {
	r := NewRunner(cache.Disabled("--no-cache"), nil, nil, quietLogger())
	if nc, ok := r.Cache.(cache.NullCache); !ok || nc.Reason != "--no-cache" {
		t.Errorf("Cache = %#v, want NullCache with reason", r.Cache)
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Fatalf("NewRunner left nil fields: %+v", r)
	}
	if r.Store != nil {
		t.Error("Store should stay nil")
	}
}

func TestLoad(t *testing.T) {
	path := writeEdges(t, "# star\n1 2\n1 3\n1 4\n")
	r := NewRunner(nil, nil, nil, quietLogger())

	g, hash, err := r.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.Degree(1) != 3 {
		t.Errorf("Degree(1) = %d, want 3", g.Degree(1))
	}
	if hash != cache.Hash([]byte("# star\n1 2\n1 3\n1 4\n")) {
		t.Errorf("hash = %s, want content hash", hash)
	}
}

func TestLoadErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	ctx := context.Background()

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(t.TempDir(), "missing.txt"), errors.ErrCodeFileNotFound},
		{"malformed", writeEdges(t, "1 2\n1 x\n"), errors.ErrCodeInvalidFormat},
		{"empty path", "", errors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := r.Load(ctx, tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestAnalyzeCaches(t *testing.T) {
	defer observability.Reset()
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)

	path := writeEdges(t, "1 2\n2 3\n3 4\n")
	c := newMemCache()
	r := NewRunner(c, nil, nil, quietLogger())
	ctx := context.Background()

	g, hash, err := r.Load(ctx, path)
	if err != nil {
		t.Fatal(err)
	}

	first, hit, err := r.Analyze(ctx, g, hash, analysis.Options{})
	if err != nil || hit {
		t.Fatalf("first Analyze: hit=%v err=%v", hit, err)
	}
	second, hit, err := r.Analyze(ctx, g, hash, analysis.Options{})
	if err != nil || !hit {
		t.Fatalf("second Analyze: hit=%v err=%v", hit, err)
	}
	if second.ID != first.ID {
		t.Errorf("cached report ID = %s, want %s", second.ID, first.ID)
	}
	if second.Source != hash {
		t.Errorf("Source = %s, want %s", second.Source, hash)
	}

	// Different options use a different key.
	_, hit, err = r.Analyze(ctx, g, hash, analysis.Options{Top: 2})
	if err != nil || hit {
		t.Fatalf("Analyze with Top=2: hit=%v err=%v", hit, err)
	}

	if hooks.hits != 1 || hooks.misses != 2 || hooks.set != 2 {
		t.Errorf("hooks hits=%d misses=%d sets=%d, want 1/2/2", hooks.hits, hooks.misses, hooks.set)
	}
}

func TestAnalyzeCacheControls(t *testing.T) {
	path := writeEdges(t, "1 2\n")
	ctx := context.Background()

	t.Run("refresh", func(t *testing.T) {
		c := newMemCache()
		r := NewRunner(c, nil, nil, quietLogger())
		g, hash, _ := r.Load(ctx, path)
		first, _, _ := r.AnalyzeWithOptions(ctx, g, hash, Options{})
		again, hit, err := r.AnalyzeWithOptions(ctx, g, hash, Options{Refresh: true})
		if err != nil || hit {
			t.Fatalf("refresh: hit=%v err=%v", hit, err)
		}
		if again.ID == first.ID {
			t.Error("refresh returned the cached report")
		}
		if c.sets != 2 {
			t.Errorf("sets = %d, want 2 (refresh still stores)", c.sets)
		}
	})

	t.Run("no cache", func(t *testing.T) {
		c := newMemCache()
		r := NewRunner(c, nil, nil, quietLogger())
		g, hash, _ := r.Load(ctx, path)
		for range 2 {
			if _, hit, _ := r.AnalyzeWithOptions(ctx, g, hash, Options{NoCache: true}); hit {
				t.Error("NoCache produced a hit")
			}
		}
		if c.sets != 0 {
			t.Errorf("sets = %d, want 0", c.sets)
		}
	})

	t.Run("corrupt entry", func(t *testing.T) {
		c := newMemCache()
		r := NewRunner(c, nil, nil, quietLogger())
		g, hash, _ := r.Load(ctx, path)
		key := r.Keyer.ReportKey(hash, cache.ReportKeyOpts{})
		c.data[key] = []byte("not json")
		rep, hit, err := r.AnalyzeWithOptions(ctx, g, hash, Options{})
		if err != nil || hit || rep == nil {
			t.Fatalf("corrupt entry: rep=%v hit=%v err=%v", rep, hit, err)
		}
	})
}

func TestExecute(t *testing.T) {
	path := writeEdges(t, "1 2\n1 3\n2 3\n3 4\n")
	st := store.NewMemoryStore()
	r := NewRunner(newMemCache(), nil, st, quietLogger())
	ctx := context.Background()

	res, err := r.Execute(ctx, Options{Path: path, Save: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheHit {
		t.Error("first Execute should miss")
	}
	if !res.Saved {
		t.Error("report not saved")
	}
	if res.Report.Nodes != 4 || res.Report.Edges != 4 {
		t.Errorf("report nodes=%d edges=%d, want 4/4", res.Report.Nodes, res.Report.Edges)
	}

	latest, err := st.Latest(ctx, res.SourceHash)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != res.Report.ID {
		t.Errorf("Latest ID = %s, want %s", latest.ID, res.Report.ID)
	}

	res, err = r.Execute(ctx, Options{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheHit {
		t.Error("second Execute should hit")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty path: %v", err)
	}

	path := writeEdges(t, "1 2\n")
	if _, err := r.Execute(ctx, Options{Path: path, Save: true}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("save without store: %v", err)
	}
}

func TestExecuteLatest(t *testing.T) {
	path := writeEdges(t, "1 2\n2 3\n")
	st := store.NewMemoryStore()
	r := NewRunner(nil, nil, st, quietLogger())
	ctx := context.Background()

	// Nothing saved yet: the report is computed.
	res, err := r.Execute(ctx, Options{Path: path, Latest: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stored {
		t.Error("empty store should not yield a stored report")
	}
	if res.Report == nil || res.Report.Nodes != 3 {
		t.Fatalf("computed report = %+v", res.Report)
	}

	saved, err := r.Execute(ctx, Options{Path: path, Save: true})
	if err != nil {
		t.Fatal(err)
	}

	res, err = r.Execute(ctx, Options{Path: path, Latest: true})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Stored {
		t.Fatal("Latest should read the saved report")
	}
	if res.Report.ID != saved.Report.ID {
		t.Errorf("stored ID = %s, want %s", res.Report.ID, saved.Report.ID)
	}

	// Different content has its own history.
	other := writeEdges(t, "5 6\n")
	res, err = r.Execute(ctx, Options{Path: other, Latest: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stored {
		t.Error("report saved for another input must not be returned")
	}
}

func TestLatestWithoutStore(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	if _, _, err := r.Latest(context.Background(), "abc"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Latest without store: %v", err)
	}

	path := writeEdges(t, "1 2\n")
	if _, err := r.Execute(context.Background(), Options{Path: path, Latest: true}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Execute --latest without store: %v", err)
	}
}
