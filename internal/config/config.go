// Package config loads lockgraph's run configuration.
//
// Values are layered, highest precedence first: command-line flags,
// LOCKGRAPH_* environment variables, a config file, built-in defaults.
// Config files may be YAML or the two-column parameter,value CSV format.
package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/pipeline"
	"github.com/matzehuels/lockgraph/pkg/render"
)

// Source modes.
const (
	ModeFile     = "file"     // local Cargo.lock
	ModeURL      = "url"      // Cargo.lock over HTTP(S)
	ModeRegistry = "registry" // crates.io API
	ModeManifest = "manifest" // local Cargo.toml
	ModeTest     = "test"     // built-in test repository
)

// Modes lists every accepted mode.
var Modes = []string{ModeFile, ModeURL, ModeRegistry, ModeManifest, ModeTest}

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Defaults.
const (
	DefaultOutput       = pipeline.DefaultOutput
	DefaultLockfile     = "Cargo.lock"
	DefaultManifest     = "Cargo.toml"
	DefaultCacheBackend = CacheFile
	DefaultMaxDepth     = 1
	DefaultListen       = ":8080"
	MaxDepthLimit       = 10
)

// Config holds every configurable value.
type Config struct {
	PackageName       string `koanf:"package_name"`
	Version           string `koanf:"version"`
	FilterSubstring   string `koanf:"filter_substring"`
	Mode              string `koanf:"mode"`
	Source            string `koanf:"source"`
	UseTestRepository bool   `koanf:"use_test_repository"`
	Output            string `koanf:"output"`
	Format            string `koanf:"format"`
	Detailed          bool   `koanf:"detailed"`
	SkipOptional      bool   `koanf:"skip_optional"`

	// MaxDepth is accepted for compatibility with older config files. Only
	// direct dependencies are ever drawn.
	MaxDepth int `koanf:"max_depth"`

	Refresh      bool          `koanf:"refresh"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
	CacheBackend string        `koanf:"cache_backend"`
	CacheDir     string        `koanf:"cache_dir"`
	RedisURL     string        `koanf:"redis_url"`

	// CachePrefix namespaces every cache key, for deployments sharing one
	// Redis instance.
	CachePrefix string `koanf:"cache_prefix"`

	Listen   string `koanf:"listen"`
	LockRoot string `koanf:"lock_root"`

	// AllowedURLs are lockfile URLs that serve requests may fetch.
	AllowedURLs []string `koanf:"allowed_urls"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// Defaults returns the built-in default values keyed by config key.
func Defaults() map[string]any {
	return map[string]any{
		"output":        DefaultOutput,
		"max_depth":     DefaultMaxDepth,
		"cache_ttl":     deps.DefaultCacheTTL.String(),
		"cache_backend": DefaultCacheBackend,
		"listen":        DefaultListen,
		"lock_root":     ".",
	}
}

// EffectiveMode returns the configured mode, or the one implied by the
// other fields when none is set: the test repository when enabled, a URL
// for http(s) sources, manifest mode for Cargo.toml, registry mode when no
// source is given, and a local lockfile otherwise.
func (c *Config) EffectiveMode() string {
	switch {
	case c.UseTestRepository:
		return ModeTest
	case c.Mode != "":
		return c.Mode
	case isHTTP(c.Source):
		return ModeURL
	case filepath.Base(c.Source) == DefaultManifest:
		return ModeManifest
	case c.Source == "":
		return ModeRegistry
	default:
		return ModeFile
	}
}

// SourceLocation returns the source with mode defaults applied.
func (c *Config) SourceLocation() string {
	if c.Source != "" {
		return c.Source
	}
	switch c.EffectiveMode() {
	case ModeFile:
		return DefaultLockfile
	case ModeManifest:
		return DefaultManifest
	}
	return ""
}

// Validate reports every problem in c at once, as one error with code
// INVALID_CONFIG.
func (c *Config) Validate() error {
	var problems []error
	add := func(err error) {
		if err != nil {
			problems = append(problems, err)
		}
	}
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(c.PackageName) == "" {
		addf("package_name cannot be empty")
	} else {
		add(errors.ValidatePackageName(c.PackageName))
	}
	add(errors.ValidateVersion(c.Version))

	mode := c.EffectiveMode()
	if !slices.Contains(Modes, mode) {
		addf("mode %q is not one of %s", mode, strings.Join(Modes, ", "))
	}
	switch mode {
	case ModeURL:
		if err := errors.ValidateURL(c.Source); err != nil {
			addf("source must be an http:// or https:// URL in url mode")
		}
	case ModeRegistry:
		if c.Source != "" && !isHTTP(c.Source) {
			addf("source must be an http:// or https:// URL in registry mode")
		}
	}

	if c.Output == "" {
		addf("output cannot be empty")
	} else if f, err := render.FormatFromPath(c.Output); err != nil {
		addf("output must end in .png, .svg or .dot")
	} else if c.Format != "" {
		want, err := render.ParseFormat(c.Format)
		switch {
		case err != nil:
			add(err)
		case want != f:
			addf("output %q does not match format %q", c.Output, c.Format)
		}
	}

	for _, u := range c.AllowedURLs {
		if err := errors.ValidateURL(u); err != nil {
			addf("allowed_urls entry %q must be an http:// or https:// URL", u)
		}
	}

	if c.MaxDepth < 1 || c.MaxDepth > MaxDepthLimit {
		addf("max_depth must be between 1 and %d", MaxDepthLimit)
	}
	if c.CacheTTL < 0 {
		addf("cache_ttl cannot be negative")
	}
	switch c.CacheBackend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.RedisURL == "" {
			addf("redis_url is required with the redis cache backend")
		}
	default:
		addf("cache_backend %q is not one of file, redis, none", c.CacheBackend)
	}

	return errors.Join(errors.ErrCodeInvalidConfig, "configuration errors", problems...)
}

// Core returns the pipeline request described by c.
func (c *Config) Core() pipeline.Request {
	return pipeline.Request{
		Package:      c.PackageName,
		Version:      c.Version,
		Filter:       c.FilterSubstring,
		Format:       c.Format,
		Detailed:     c.Detailed,
		SkipOptional: c.SkipOptional,
		Refresh:      c.Refresh,
		Output:       c.Output,
	}
}

// DependencyOptions returns the source options described by c.
func (c *Config) DependencyOptions() deps.Options {
	return deps.Options{
		CacheTTL:     c.CacheTTL,
		Refresh:      c.Refresh,
		SkipOptional: c.SkipOptional,
	}.WithDefaults()
}

// Entry is one printable key/value pair.
type Entry struct {
	Key   string
	Value string
}

// Entries returns the user-facing settings in a stable order.
func (c *Config) Entries() []Entry {
	return []Entry{
		{"package_name", c.PackageName},
		{"version", c.Version},
		{"mode", c.EffectiveMode()},
		{"source", c.SourceLocation()},
		{"use_test_repository", fmt.Sprint(c.UseTestRepository)},
		{"output", c.Output},
		{"max_depth", fmt.Sprint(c.MaxDepth)},
		{"filter_substring", c.FilterSubstring},
	}
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
