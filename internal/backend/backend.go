// Package backend opens the cache and dependency sources a configuration
// describes. The CLI and the HTTP server share it.
package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/lockgraph/internal/config"
	"github.com/matzehuels/lockgraph/pkg/cache"
	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/integrations"
	"github.com/matzehuels/lockgraph/pkg/integrations/crates"
	"github.com/matzehuels/lockgraph/pkg/source"
	"github.com/matzehuels/lockgraph/pkg/source/manifest"
)

const appName = "lockgraph"

// DefaultCacheDir returns the cache directory using the XDG convention
// (~/.cache/lockgraph/).
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// CacheDir returns the configured cache directory or the default one.
func CacheDir(cfg *config.Config) (string, error) {
	if cfg.CacheDir != "" {
		return cfg.CacheDir, nil
	}
	return DefaultCacheDir()
}

// OpenCache opens the configured cache backend. A file cache whose
// directory cannot be determined degrades to no caching.
func OpenCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		c, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis")
		}
		return c, nil
	default:
		dir, err := CacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// Keyer returns the cache key layout for cfg: the default layout, scoped
// by cache_prefix when one is set.
func Keyer(cfg *config.Config) cache.Keyer {
	if cfg.CachePrefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, cfg.CachePrefix)
}

// Sources builds [source.Source] values over shared HTTP clients.
type Sources struct {
	cache cache.Cache
	ttl   time.Duration
	keyer cache.Keyer

	// HTTP fetches lockfiles served over HTTP(S).
	HTTP *integrations.Client
	// Crates talks to crates.io.
	Crates *crates.Client
}

// NewSources creates the HTTP clients over c. Responses are cached for ttl.
func NewSources(c cache.Cache, ttl time.Duration) *Sources {
	if ttl <= 0 {
		ttl = deps.DefaultCacheTTL
	}
	return &Sources{
		cache:  c,
		ttl:    ttl,
		HTTP:   integrations.NewClient(c, "lock:", ttl, map[string]string{"User-Agent": integrations.UserAgent}),
		Crates: crates.NewClient(c, ttl),
	}
}

// WithKeyer makes every client built by s use k for cache keys.
func (s *Sources) WithKeyer(k cache.Keyer) *Sources {
	if k == nil {
		return s
	}
	s.keyer = k
	s.HTTP.WithKeyer(k)
	s.Crates.WithKeyer(k)
	return s
}

// Open returns the source for mode. location is the lockfile or manifest
// path, the lockfile URL, or for the registry an alternative API root.
func (s *Sources) Open(mode, location string, opts deps.Options) (source.Source, error) {
	switch mode {
	case config.ModeTest:
		return source.NewTestRepository(), nil
	case config.ModeFile:
		if location == "" {
			location = config.DefaultLockfile
		}
		return source.NewLockFile(location), nil
	case config.ModeURL:
		if err := errors.ValidateURL(location); err != nil {
			return nil, err
		}
		return source.NewLockURL(s.HTTP, location, opts.Refresh), nil
	case config.ModeManifest:
		if location == "" {
			location = config.DefaultManifest
		}
		return manifest.NewCargo(location, opts), nil
	case config.ModeRegistry:
		client := s.Crates
		if location != "" && strings.TrimSuffix(location, "/") != crates.DefaultBaseURL {
			if err := errors.ValidateURL(location); err != nil {
				return nil, err
			}
			client = crates.NewClientWithBaseURL(s.cache, s.ttl, strings.TrimSuffix(location, "/"))
			client.WithKeyer(s.keyer)
		}
		return source.NewRegistry(client, opts), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported mode %q", mode)
}

// OpenConfigured is [Sources.Open] for the mode and source cfg describes.
func (s *Sources) OpenConfigured(cfg *config.Config) (source.Source, error) {
	return s.Open(cfg.EffectiveMode(), cfg.SourceLocation(), cfg.DependencyOptions())
}
