package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/render"
)

func validConfig() *Config {
	return &Config{
		PackageName:  "serde",
		Version:      "1.0.200",
		Output:       "dependencies.png",
		MaxDepth:     1,
		CacheBackend: CacheFile,
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, CacheFile, cfg.CacheBackend)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Empty(t, cfg.File)
}

func TestLoadCSV(t *testing.T) {
	cfg, err := Load("testdata/config.csv", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "tokio", cfg.PackageName)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "https://example.com/Cargo.lock", cfg.Source)
	assert.Equal(t, "graphs/tokio.png", cfg.Output)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.False(t, cfg.UseTestRepository)
	assert.Empty(t, cfg.FilterSubstring)
	assert.Equal(t, ModeURL, cfg.EffectiveMode())
	assert.Equal(t, "testdata/config.csv", cfg.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load("testdata/lockgraph.yaml", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "reqwest", cfg.PackageName)
	assert.Equal(t, "0.11.0", cfg.Version)
	assert.Equal(t, ModeFile, cfg.EffectiveMode())
	assert.Equal(t, "fixtures/Cargo.lock", cfg.SourceLocation())
	assert.True(t, cfg.SkipOptional)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("LOCKGRAPH_PACKAGE_NAME", "from-env")
	t.Setenv("LOCKGRAPH_FILTER_SUBSTRING", "env-filter")
	t.Setenv("LOCKGRAPH_OUTPUT_FILENAME", "env.svg")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("package", "p", "", "")
	fs.String("filter", "", "")
	fs.Bool("test-repo", false, "")
	fs.Int("max-depth", 1, "")
	require.NoError(t, fs.Parse([]string{"--filter", "flag-filter", "--test-repo"}))

	cfg, err := Load("testdata/config.csv", fs, map[string]any{"version": "9.9.9"})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.PackageName, "env beats file")
	assert.Equal(t, "flag-filter", cfg.FilterSubstring, "flags beat env")
	assert.Equal(t, "env.svg", cfg.Output, "aliased env keys are renamed")
	assert.True(t, cfg.UseTestRepository)
	assert.Equal(t, 2, cfg.MaxDepth, "unchanged flags do not override the file")
	assert.Equal(t, "9.9.9", cfg.Version, "overrides beat everything")
	assert.Equal(t, ModeTest, cfg.EffectiveMode())
}

func TestLoadSearchPaths(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("config.csv", []byte("parameter,value\npackage_name,found\n"), 0o644))

	cfg, err := Load("", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "found", cfg.PackageName)
	assert.Equal(t, "config.csv", cfg.File)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.csv"), nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)

	ini := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(ini, []byte("a=b"), 0o644))
	_, err = Load(ini, nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("name,val\na,b\n"), 0o644))
	_, err = Load(bad, nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"Registry", Config{}, ModeRegistry},
		{"URL", Config{Source: "https://example.com/Cargo.lock"}, ModeURL},
		{"File", Config{Source: "vendor/Cargo.lock"}, ModeFile},
		{"Manifest", Config{Source: "crates/app/Cargo.toml"}, ModeManifest},
		{"Explicit", Config{Mode: ModeRegistry, Source: "https://mirror.example.com/api/v1"}, ModeRegistry},
		{"TestRepositoryWins", Config{Mode: ModeFile, UseTestRepository: true}, ModeTest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.EffectiveMode())
		})
	}
}

func TestSourceLocation(t *testing.T) {
	assert.Equal(t, DefaultLockfile, (&Config{Mode: ModeFile}).SourceLocation())
	assert.Equal(t, DefaultManifest, (&Config{Mode: ModeManifest}).SourceLocation())
	assert.Empty(t, (&Config{}).SourceLocation())
	assert.Equal(t, "x.lock", (&Config{Source: "x.lock"}).SourceLocation())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Valid", func(*Config) {}, ""},
		{"EmptyPackage", func(c *Config) { c.PackageName = " " }, "package_name cannot be empty"},
		{"BadURL", func(c *Config) { c.Mode = ModeURL; c.Source = "ftp://x" }, "http:// or https://"},
		{"RegistryLocalSource", func(c *Config) { c.Mode = ModeRegistry; c.Source = "Cargo.lock" }, "registry mode"},
		{"UnknownMode", func(c *Config) { c.Mode = "git" }, `mode "git"`},
		{"OutputExtension", func(c *Config) { c.Output = "graph.jpg" }, ".png, .svg or .dot"},
		{"FormatMismatch", func(c *Config) { c.Format = "svg" }, "does not match"},
		{"MaxDepthHigh", func(c *Config) { c.MaxDepth = 11 }, "max_depth"},
		{"MaxDepthZero", func(c *Config) { c.MaxDepth = 0 }, "max_depth"},
		{"RedisWithoutURL", func(c *Config) { c.CacheBackend = CacheRedis }, "redis_url"},
		{"UnknownBackend", func(c *Config) { c.CacheBackend = "memcached" }, "cache_backend"},
		{"BadVersion", func(c *Config) { c.Version = "1 0" }, "version"},
		{"AllowedURLs", func(c *Config) { c.AllowedURLs = []string{"https://mirror.example/Cargo.lock"} }, ""},
		{"AllowedURLNotHTTP", func(c *Config) { c.AllowedURLs = []string{"file:///etc/passwd"} }, "allowed_urls entry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(err))
		})
	}
}

func TestValidateListsEveryProblem(t *testing.T) {
	cfg := &Config{Output: "x.gif", CacheBackend: CacheFile}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t,
		"configuration errors:\n- package_name cannot be empty\n- output must end in .png, .svg or .dot\n- max_depth must be between 1 and 10",
		errors.UserMessage(err))
}

func TestCore(t *testing.T) {
	cfg := validConfig()
	cfg.FilterSubstring = "derive"
	cfg.SkipOptional = true
	cfg.Detailed = true

	req := cfg.Core()
	assert.Equal(t, "serde", req.Package)
	assert.Equal(t, "1.0.200", req.Version)
	assert.Equal(t, "derive", req.Filter)
	assert.True(t, req.SkipOptional)
	assert.True(t, req.Detailed)
	require.NoError(t, req.ValidateAndSetDefaults())
	assert.Equal(t, render.PNG, req.RenderFormat())
}

func TestEntries(t *testing.T) {
	cfg := validConfig()
	cfg.UseTestRepository = true
	entries := cfg.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, Entry{"package_name", "serde"}, entries[0])
	assert.Contains(t, entries, Entry{"mode", ModeTest})
	assert.Contains(t, entries, Entry{"use_test_repository", "true"})
}
