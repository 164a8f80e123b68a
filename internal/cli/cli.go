package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/friendgraph/internal/config"
	"github.com/matzehuels/friendgraph/pkg/buildinfo"
	"github.com/matzehuels/friendgraph/pkg/cache"
	"github.com/matzehuels/friendgraph/pkg/errors"
	"github.com/matzehuels/friendgraph/pkg/graph"
	"github.com/matzehuels/friendgraph/pkg/pipeline"
	"github.com/matzehuels/friendgraph/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "friendgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Friendgraph inspects friend-of-friend structure in edge lists",
		Long:         `Friendgraph loads undirected edge lists and reports node degrees, distance-2 neighbors, and degree statistics. It can render graphs with Graphviz and serve them over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/friendgraph/config.toml)")

	root.AddCommand(c.statsCommand())
	root.AddCommand(c.degreeCommand())
	root.AddCommand(c.neighborsCommand())
	root.AddCommand(c.nodesCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose, loads the config, and attaches the logger to the
// command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "cache", cfg.Cache.Backend, "store", cfg.Store.MongoURI != "")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The store is opened only
// when withStore is set.
func (c *CLI) newRunner(ctx context.Context, noCache, withStore bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var st store.Store
	if withStore {
		if st, err = c.newStore(ctx); err != nil {
			ch.Close()
			return nil, err
		}
	}
	return pipeline.NewRunner(ch, cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":"), st, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.Disabled("--no-cache"), nil
	}
	cfg := cache.Config{
		Backend:   c.Config.Cache.Backend,
		RedisAddr: c.Config.Cache.RedisAddr,
	}
	if cfg.Backend == cache.BackendFile {
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.Disabled("no cache directory"), nil
		}
		cfg.Dir = dir
	}
	ch, err := cache.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return ch, nil
}

func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.Config.Store.MongoURI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"saved reports require store.mongo_uri or %s", config.EnvMongoURI)
	}
	ms, err := store.NewMongoStore(ctx, c.Config.Store.MongoURI, c.Config.Store.Database)
	if err != nil {
		return nil, err
	}
	return ms, nil
}

// loadGraph reads the edge list at path without touching the cache.
func (c *CLI) loadGraph(ctx context.Context, path string) (*graph.Graph, error) {
	r := pipeline.NewRunner(nil, nil, nil, c.Logger)
	g, _, err := r.Load(ctx, path)
	return g, err
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/friendgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Argument Helpers
// =============================================================================

// parseNodes parses node ID arguments.
func parseNodes(args []string) ([]graph.NodeID, error) {
	ids := make([]graph.NodeID, 0, len(args))
	for _, a := range args {
		id, err := errors.ParseNodeID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, graph.NodeID(id))
	}
	return ids, nil
}
