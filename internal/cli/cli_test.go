package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/integrations"
)

// runCLI executes the root command in a fresh temp directory and returns
// what it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func TestGraphTestRepository(t *testing.T) {
	dir := inTempDir(t)

	out, err := runCLI(t, "graph", "serde", "1.0.200", "--test-repo", "-o", "out/serde.dot")
	require.NoError(t, err)

	assert.Contains(t, out, "=== CONFIG PARAMETERS ===")
	assert.Contains(t, out, "package_name = serde")
	assert.Contains(t, out, "mode = test")
	assert.Contains(t, out, "=== DIRECT DEPENDENCIES ===")
	for _, name := range []string{"serde_derive", "proc-macro2", "quote", "syn"} {
		assert.Contains(t, out, "- "+name+": ")
	}
	assert.Contains(t, out, "graph saved: out/serde.dot")

	data, err := os.ReadFile(filepath.Join(dir, "out", "serde.dot"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "digraph G {"))
	assert.Contains(t, string(data), `"serde" -> "syn"`)
}

func TestGraphNoDependencies(t *testing.T) {
	inTempDir(t)
	out, err := runCLI(t, "graph", "syn", "--test-repo", "-o", "syn.dot")
	require.NoError(t, err)
	assert.Contains(t, out, "(no direct dependencies)")
}

func TestGraphFilter(t *testing.T) {
	dir := inTempDir(t)
	_, err := runCLI(t, "graph", "tokio", "1.0.0", "--test-repo", "--filter", "mio", "-o", "t.dot")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "t.dot"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tokio" -> "mio"`)
	assert.NotContains(t, string(data), `"bytes"`)
}

func TestGraphInvalidConfig(t *testing.T) {
	inTempDir(t)
	out, err := runCLI(t, "graph", "serde", "--test-repo", "-o", "graph.txt", "--max-depth", "11")
	require.Error(t, err)
	assert.Equal(t, ExitConfig, ExitCode(err))
	assert.Contains(t, err.Error(), "max_depth")
	assert.Contains(t, err.Error(), "output")
	// Parameters are printed before validation.
	assert.Contains(t, out, "=== CONFIG PARAMETERS ===")
}

func TestGraphMissingConfigFile(t *testing.T) {
	inTempDir(t)
	_, err := runCLI(t, "graph", "--config", "nope.csv")
	require.Error(t, err)
	assert.Equal(t, ExitConfig, ExitCode(err))
}

func TestGraphUnknownVersion(t *testing.T) {
	inTempDir(t)
	_, err := runCLI(t, "graph", "serde", "9.9.9", "--test-repo", "-o", "x.dot")
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, ExitCode(err))
}

func TestGraphMissingLockfile(t *testing.T) {
	inTempDir(t)
	_, err := runCLI(t, "graph", "app", "--mode", "file", "-o", "x.dot")
	require.Error(t, err)
	assert.Equal(t, ExitFetch, ExitCode(err))
}

func TestGraphFromCSVConfig(t *testing.T) {
	dir := inTempDir(t)
	csv := "parameter,value\n" +
		"package_name,tokio\n" +
		"package_version,1.0.0\n" +
		"use_test_repository,true\n" +
		"output_filename,tokio.dot\n" +
		"cache_backend,none\n"
	require.NoError(t, os.WriteFile("config.csv", []byte(csv), 0o644))

	out, err := runCLI(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "package_name = tokio")
	assert.Contains(t, out, "- socket2: ")
	assert.FileExists(t, filepath.Join(dir, "tokio.dot"))
}

func TestGraphFlagsOverrideFile(t *testing.T) {
	inTempDir(t)
	csv := "parameter,value\npackage_name,tokio\nuse_test_repository,true\noutput_filename,a.dot\n"
	require.NoError(t, os.WriteFile("config.csv", []byte(csv), 0o644))

	out, err := runCLI(t, "graph", "serde", "-o", "b.dot")
	require.NoError(t, err)
	assert.Contains(t, out, "package_name = serde")
	assert.FileExists(t, "b.dot")
	assert.NoFileExists(t, "a.dot")
}

const appLock = `[[package]]
name = "app"
version = "0.1.0"
dependencies = [
 "anyhow",
 "serde 1.0.200",
]

[[package]]
name = "anyhow"
version = "1.0.82"
`

func TestPackages(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("Cargo.lock", []byte(appLock), 0o644))

	out, err := runCLI(t, "packages", "--mode", "file")
	require.NoError(t, err)
	assert.Regexp(t, `app\s+│\s+0\.1\.0\s+│\s+2`, out)
	assert.Regexp(t, `anyhow\s+│\s+1\.0\.82\s+│\s+0`, out)
	assert.Contains(t, out, "2 packages in Cargo.lock")
}

func TestPackagesUnsupportedForRegistry(t *testing.T) {
	inTempDir(t)
	_, err := runCLI(t, "packages", "--mode", "registry", "--cache-backend", "none")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

func TestDepsTree(t *testing.T) {
	inTempDir(t)
	out, err := runCLI(t, "deps", "tokio", "1.0.0", "--test-repo")
	require.NoError(t, err)

	assert.Contains(t, out, "📦 tokio 1.0.0")
	assert.Contains(t, out, "├── 📦 bytes")
	assert.Contains(t, out, "└── 📦 socket2")
	assert.Contains(t, out, "Total: 4 direct dependencies")
}

func TestDepsTreeLockfile(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("Cargo.lock", []byte(appLock), 0o644))

	out, err := runCLI(t, "deps", "app", "--source", "Cargo.lock", "--filter", "any")
	require.NoError(t, err)
	assert.Contains(t, out, "└── 📦 anyhow")
	assert.NotContains(t, out, "serde")
	assert.Contains(t, out, "Total: 1 direct dependencies")
}

func TestConfigInit(t *testing.T) {
	inTempDir(t)

	out, err := runCLI(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created default config")
	data, err := os.ReadFile("config.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "parameter,value\n"))

	_, err = runCLI(t, "config", "init")
	require.Error(t, err, "existing file must not be overwritten")

	_, err = runCLI(t, "config", "init", "--force")
	require.NoError(t, err)

	_, err = runCLI(t, "config", "init", "lockgraph.yaml")
	require.NoError(t, err)
	assert.FileExists(t, "lockgraph.yaml")
}

func TestConfigShow(t *testing.T) {
	inTempDir(t)
	out, err := runCLI(t, "config", "show", "--package", "serde", "--test-repo")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	_, err = runCLI(t, "config", "show")
	require.Error(t, err)
	assert.Equal(t, ExitConfig, ExitCode(err))
}

func TestCachePathAndClear(t *testing.T) {
	dir := inTempDir(t)
	cacheDir := filepath.Join(dir, "c")

	out, err := runCLI(t, "cache", "path", "--cache-dir", cacheDir)
	require.NoError(t, err)
	assert.Equal(t, cacheDir+"\n", out)

	out, err = runCLI(t, "cache", "clear", "--cache-dir", cacheDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Cache is empty")

	require.NoError(t, os.MkdirAll(filepath.Join(cacheDir, "ab"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "ab", "x.json"), []byte("{}"), 0o644))
	out, err = runCLI(t, "cache", "clear", "--cache-dir", cacheDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared cache")
	assert.NoDirExists(t, filepath.Join(cacheDir, "ab"))
	assert.DirExists(t, cacheDir)
}

func TestCachePathDefault(t *testing.T) {
	dir := inTempDir(t)
	out, err := runCLI(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cache", appName)+"\n", out)
}

func TestCompletion(t *testing.T) {
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "lockgraph")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{context.Canceled, ExitCanceled},
		{fmt.Errorf("run: %w", context.Canceled), ExitCanceled},
		{errors.New(errors.ErrCodeInvalidConfig, "bad"), ExitConfig},
		{&deps.NotFoundError{Name: "x"}, ExitNotFound},
		{fmt.Errorf("lock: %w", &deps.NotFoundError{Name: "x"}), ExitNotFound},
		{integrations.ErrNetwork, ExitFetch},
		{errors.New(errors.ErrCodeFileNotFound, "gone"), ExitFetch},
		{errors.New(errors.ErrCodeRender, "boom"), ExitError},
		{io.EOF, ExitError},
	}
	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
