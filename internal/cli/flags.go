package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/matzehuels/lockgraph/internal/config"
)

// Flags are registered with zero defaults: only flags the user sets are
// layered over the config file, so defaults live in the config package.

// addSourceFlags registers the flags that select a package and its source.
func addSourceFlags(fs *pflag.FlagSet) {
	fs.String("package", "", "package name")
	fs.String("package-version", "", "package version (empty: the only version in a lockfile, or the latest on crates.io)")
	fs.String("mode", "", "source mode: "+strings.Join(config.Modes, ", "))
	fs.StringP("source", "s", "", "Cargo.lock or Cargo.toml path, lockfile URL, or registry API root")
	fs.Bool("test-repo", false, "use the built-in test repository")
	fs.Bool("skip-optional", false, "drop optional dependencies")
	fs.Bool("refresh", false, "bypass cached responses")
	addCacheFlags(fs)
}

// addCacheFlags registers the cache backend flags.
func addCacheFlags(fs *pflag.FlagSet) {
	fs.Duration("cache-ttl", 0, "how long fetched responses are reused (default 24h)")
	fs.String("cache-backend", "", "cache backend: file, redis or none (default file)")
	fs.String("cache-dir", "", "file cache directory (default ~/.cache/lockgraph)")
	fs.String("redis-url", "", "redis URL for the redis cache backend")
	fs.String("cache-prefix", "", "prefix for every cache key")
}

// addRenderFlags registers the flags that shape the drawn graph.
func addRenderFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", "", "output file (default "+config.DefaultOutput+")")
	fs.StringP("format", "f", "", "output format: png, svg or dot (default: from the output extension)")
	fs.String("filter", "", "only draw dependencies whose name contains this substring")
	fs.Bool("detailed", false, "label edges with version requirements")
	fs.Int("max-depth", 0, "maximum depth (1-10; only direct dependencies are drawn)")
}

// positional maps positional arguments onto config keys in order.
func positional(args []string, keys ...string) map[string]any {
	out := make(map[string]any, len(args))
	for i, a := range args {
		if i < len(keys) {
			out[keys[i]] = a
		}
	}
	return out
}
