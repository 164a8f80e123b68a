// Package config loads friendgraph settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/friendgraph/config.toml (falling back
// to ~/.config/friendgraph/config.toml). A missing file is not an error:
// [Load] returns [Default] values. Two environment variables override the
// file: FRIENDGRAPH_REDIS_ADDR and FRIENDGRAPH_MONGO_URI.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/friendgraph/pkg/cache"
	"github.com/matzehuels/friendgraph/pkg/errors"
)

const appName = "friendgraph"

// Environment overrides.
const (
	EnvRedisAddr = "FRIENDGRAPH_REDIS_ADDR"
	EnvMongoURI  = "FRIENDGRAPH_MONGO_URI"
)

// Config is the complete friendgraph configuration.
type Config struct {
	Cache    Cache    `toml:"cache"`
	Store    Store    `toml:"store"`
	Server   Server   `toml:"server"`
	Analysis Analysis `toml:"analysis"`
}

// Cache configures the report cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
}

// Store configures report persistence. An empty MongoURI disables it.
type Store struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr    string `toml:"addr"`
	LRUSize int    `toml:"lru_size"`
}

// Analysis holds report defaults.
type Analysis struct {
	Top int `toml:"top"`
}

// Duration is a time.Duration that decodes from TOML strings like "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: Cache{
			Backend:   cache.BackendFile,
			TTL:       Duration{cache.TTLReport},
			RedisAddr: "localhost:6379",
		},
		Store: Store{
			Database: "friendgraph",
		},
		Server: Server{
			Addr:    ":8080",
			LRUSize: 4096,
		},
		Analysis: Analysis{
			Top: 10,
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path on top of Default, applies environment
// overrides, and validates the result. An empty path means Path(); a missing
// file at the default location is ignored, while a missing explicit path is
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := Path(); err == nil {
			path = p
		}
	}

	if path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
		case stderrors.Is(err, fs.ErrNotExist) && !explicit:
		case stderrors.Is(err, fs.ErrNotExist):
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		default:
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
}

// Validate checks field values.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendFile, cache.BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be none, file, or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Server.LRUSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.lru_size must be positive, got %d", c.Server.LRUSize)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	return nil
}
