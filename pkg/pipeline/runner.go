package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/friendgraph/pkg/analysis"
	"github.com/matzehuels/friendgraph/pkg/cache"
	"github.com/matzehuels/friendgraph/pkg/errors"
	"github.com/matzehuels/friendgraph/pkg/graph"
	fgio "github.com/matzehuels/friendgraph/pkg/io"
	"github.com/matzehuels/friendgraph/pkg/observability"
	"github.com/matzehuels/friendgraph/pkg/store"
)

const keyTypeReport = "report"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner holds no per-run state, so multiple goroutines can share one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // nil disables saving
	Logger *log.Logger
}

// NewRunner creates a runner.
// A nil keyer means DefaultKeyer, a nil cache means NullCache, and a nil
// logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, s store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if nc, ok := c.(cache.NullCache); ok && nc.Reason != "" {
		logger.Debug("report cache disabled", "reason", nc.Reason)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  s,
		Logger: logger,
	}
}

// Execute runs load → analyze → save.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}

	loadStart := time.Now()
	g, hash, err := r.Load(ctx, opts.Path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = g
	result.SourceHash = hash
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded edge list",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	if opts.Latest {
		report, ok, err := r.Latest(ctx, hash)
		if err != nil {
			return nil, fmt.Errorf("latest: %w", err)
		}
		if ok {
			result.Report = report
			result.Stored = true
			r.Logger.Info("using saved report", "id", report.ID, "created", report.CreatedAt)
			return result, nil
		}
		r.Logger.Debug("no saved report for input", "hash", hash[:12])
	}

	analyzeStart := time.Now()
	report, hit, err := r.AnalyzeWithOptions(ctx, g, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Report = report
	result.CacheHit = hit
	result.Stats.AnalyzeTime = time.Since(analyzeStart)

	r.Logger.Info("analyzed graph",
		"cached", hit,
		"duration", result.Stats.AnalyzeTime)

	if opts.Save {
		if err := r.Save(ctx, report); err != nil {
			return nil, fmt.Errorf("save: %w", err)
		}
		result.Saved = true
	}

	return result, nil
}

// Load reads the edge list at path and returns the graph with the content
// hash of the file.
func (r *Runner) Load(ctx context.Context, path string) (*graph.Graph, string, error) {
	hooks := observability.Graph()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	g, hash, err := load(path)
	if err != nil {
		hooks.OnLoadComplete(ctx, path, 0, 0, time.Since(start), err)
		return nil, "", err
	}
	hooks.OnLoadComplete(ctx, path, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	r.Logger.Debug("read edge list", "path", path, "hash", hash[:12])
	return g, hash, nil
}

func load(path string) (*graph.Graph, string, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "edge list %s", path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	g, err := fgio.ReadEdgeList(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return g, cache.Hash(data), nil
}

// Analyze returns the report for g with cache hit info. sourceHash keys the
// cache; an empty hash skips the cache.
func (r *Runner) Analyze(ctx context.Context, g *graph.Graph, sourceHash string, opts analysis.Options) (*analysis.Report, bool, error) {
	return r.AnalyzeWithOptions(ctx, g, sourceHash, Options{Top: opts.Top})
}

// AnalyzeWithOptions is Analyze honoring the cache controls in opts.
func (r *Runner) AnalyzeWithOptions(ctx context.Context, g *graph.Graph, sourceHash string, opts Options) (*analysis.Report, bool, error) {
	start := time.Now()
	useCache := !opts.NoCache && sourceHash != ""
	key := r.Keyer.ReportKey(sourceHash, cache.ReportKeyOpts{Top: opts.Top})
	hooks := observability.Cache()

	if useCache && !opts.Refresh {
		if report, ok := r.cached(ctx, key); ok {
			hooks.OnCacheHit(ctx, keyTypeReport)
			observability.Graph().OnAnalyzeComplete(ctx, g.NodeCount(), time.Since(start), true)
			return report, true, nil
		}
		hooks.OnCacheMiss(ctx, keyTypeReport)
	}

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	report := analysis.Analyze(g, opts.analysisOptions())
	report.Source = sourceHash
	observability.Graph().OnAnalyzeComplete(ctx, g.NodeCount(), time.Since(start), false)

	if useCache {
		data, err := json.Marshal(report)
		if err != nil {
			return nil, false, fmt.Errorf("encode report: %w", err)
		}
		ttl := opts.TTL
		if ttl == 0 {
			ttl = cache.TTLReport
		}
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeReport, len(data))
		}
	}

	return report, false, nil
}

// cached returns the report under key. Unreadable entries count as misses.
func (r *Runner) cached(ctx context.Context, key string) (*analysis.Report, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	report, err := fgio.ReadReportJSON(bytes.NewReader(data))
	if err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "key", key, "error", err)
		return nil, false
	}
	return report, true
}

// Save persists report in the runner's store.
func (r *Runner) Save(ctx context.Context, report *analysis.Report) error {
	if r.Store == nil {
		return errors.New(errors.ErrCodeUnsupported, "no report store configured")
	}
	if err := r.Store.Save(ctx, report); err != nil {
		return err
	}
	r.Logger.Debug("saved report", "id", report.ID)
	return nil
}

// Latest returns the newest saved report for sourceHash. A missing report
// is reported as ok == false rather than an error.
func (r *Runner) Latest(ctx context.Context, sourceHash string) (*analysis.Report, bool, error) {
	if r.Store == nil {
		return nil, false, errors.New(errors.ErrCodeUnsupported, "no report store configured")
	}
	report, err := r.Store.Latest(ctx, sourceHash)
	if errors.Is(err, errors.ErrCodeReportNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return report, true, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close(ctx context.Context) error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(ctx); err == nil {
			err = serr
		}
	}
	return err
}
