package pipeline

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lockgraph/pkg/cache"
	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/graph"
	"github.com/matzehuels/lockgraph/pkg/integrations/crates"
	"github.com/matzehuels/lockgraph/pkg/render"
	"github.com/matzehuels/lockgraph/pkg/source"
)

// fakeRegistry counts fetches and serves fixed records.
type fakeRegistry struct {
	calls   atomic.Int32
	records []deps.Dependency
}

func (f *fakeRegistry) Name() string { return source.KindRegistry }

func (f *fakeRegistry) Dependencies(_ context.Context, name, version string) ([]deps.Dependency, error) {
	f.calls.Add(1)
	if name != "serde" || version != "1.0.200" {
		return nil, &deps.NotFoundError{Name: name, Version: version}
	}
	return f.records, nil
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	return NewRunner(fc, nil, nil)
}

func TestRunTestRepositoryDOT(t *testing.T) {
	r := newTestRunner(t)
	out := filepath.Join(t.TempDir(), "serde.dot")

	res, err := r.Run(context.Background(), source.NewTestRepository(), Request{
		Package: "serde",
		Version: "1.0.200",
		Output:  out,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "1.0.200", res.Version)
	assert.Equal(t, render.DOT, res.Format)
	assert.Equal(t, []string{"serde", "serde_derive", "proc-macro2", "quote", "syn"}, res.Graph.Nodes())
	assert.Equal(t, 4, res.Stats.EdgeCount)
	assert.False(t, res.Fallback)
	assert.Equal(t, out, res.OutputPath)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, res.DOT, string(written))
	assert.Contains(t, res.DOT, `"serde" -> "serde_derive";`)
}

func TestRunFilter(t *testing.T) {
	res, err := newTestRunner(t).Run(context.Background(), source.NewTestRepository(), Request{
		Package: "reqwest",
		Version: "0.11.0",
		Filter:  "serde",
		Format:  "dot",
	})
	require.NoError(t, err)
	// "reqwest" does not contain "serde", so only matching targets remain.
	assert.Equal(t, []string{"serde", "serde_json"}, res.Graph.Targets())
	assert.Len(t, res.Dependencies, 5, "dependencies are reported before the substring filter")
}

func TestRunNotFound(t *testing.T) {
	_, err := newTestRunner(t).Run(context.Background(), source.NewTestRepository(), Request{
		Package: "serde",
		Version: "0.0.1",
		Format:  "dot",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, deps.ErrNotFound)
	assert.Contains(t, err.Error(), "available: 1.0.200")
}

func TestRunInvalidRequest(t *testing.T) {
	_, err := newTestRunner(t).Run(context.Background(), source.NewTestRepository(), Request{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPackage))
}

func TestRunFallbackWritesDOT(t *testing.T) {
	r := newTestRunner(t)
	boom := stderrors.New("graphviz unavailable")
	r.RenderFunc = func(context.Context, string, render.Format) ([]byte, error) { return nil, boom }

	out := filepath.Join(t.TempDir(), "dependencies.png")
	res, err := r.Run(context.Background(), source.NewTestRepository(), Request{
		Package: "tokio",
		Version: "1.0.0",
		Output:  out,
	})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.RenderErr, boom)
	assert.Equal(t, out+".dot", res.OutputPath)

	written, err := os.ReadFile(out + ".dot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(written), "digraph G {"))
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "image should not be written")
}

func TestRunRenderErrorWithoutOutput(t *testing.T) {
	r := newTestRunner(t)
	r.RenderFunc = func(context.Context, string, render.Format) ([]byte, error) {
		return nil, stderrors.New("boom")
	}
	_, err := r.Run(context.Background(), source.NewTestRepository(), Request{Package: "serde", Version: "1.0.200", Format: "svg"})
	assert.True(t, errors.Is(err, errors.ErrCodeRender), "got %v", err)
}

func TestRunCachesArtifacts(t *testing.T) {
	r := newTestRunner(t)
	var renders atomic.Int32
	r.RenderFunc = func(_ context.Context, dot string, _ render.Format) ([]byte, error) {
		renders.Add(1)
		return []byte("<svg>" + dot + "</svg>"), nil
	}
	req := Request{Package: "serde", Version: "1.0.200", Format: "svg"}

	first, err := r.Run(context.Background(), source.NewTestRepository(), req)
	require.NoError(t, err)
	second, err := r.Run(context.Background(), source.NewTestRepository(), req)
	require.NoError(t, err)

	assert.Equal(t, int32(1), renders.Load())
	assert.False(t, first.CacheInfo.RenderHit)
	assert.True(t, second.CacheInfo.RenderHit)
	assert.Equal(t, first.Artifact, second.Artifact)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestResolveCachesRegistryGraphs(t *testing.T) {
	r := newTestRunner(t)
	src := &fakeRegistry{records: []deps.Dependency{
		{Name: "serde_derive", Version: "=1.0.200", Optional: true, Kind: deps.KindNormal},
		{Name: "serde_derive", Version: "^1", Kind: deps.KindDev},
	}}
	req := Request{Package: "serde", Version: "1.0.200", Format: "dot"}

	res, hit, err := r.Resolve(context.Background(), src, req)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []graph.Edge{
		{From: "serde", To: "serde_derive", Optional: true},
		{From: "serde", To: "serde_derive"},
	}, res.Graph.Edges)

	res, hit, err = r.Resolve(context.Background(), src, req)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, res.Graph.Edges, 2)
	assert.Equal(t, int32(1), src.calls.Load())

	req.Refresh = true
	_, hit, err = r.Resolve(context.Background(), src, req)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestResolveRegistryGraphsPerRoot(t *testing.T) {
	root := func(dep string) *httptest.Server {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"dependencies": [{"crate_id": "` + dep + `", "req": "^1", "kind": "normal"}]}`))
		}))
		t.Cleanup(server.Close)
		return server
	}
	upstream, mirror := root("serde_derive"), root("mirror_derive")

	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(fc, nil, nil)
	registry := func(url string) source.Source {
		return source.NewRegistry(crates.NewClientWithBaseURL(fc, time.Hour, url), deps.Options{})
	}
	req := Request{Package: "serde", Version: "1.0.200", Format: "dot"}

	res, _, err := r.Resolve(context.Background(), registry(upstream.URL), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"serde_derive"}, res.Graph.Targets())

	res, hit, err := r.Resolve(context.Background(), registry(mirror.URL), req)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"mirror_derive"}, res.Graph.Targets())

	res, hit, err = r.Resolve(context.Background(), registry(upstream.URL), req)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"serde_derive"}, res.Graph.Targets())
}

func TestResolveSkipOptional(t *testing.T) {
	src := &fakeRegistry{records: []deps.Dependency{
		{Name: "serde_derive", Optional: true},
		{Name: "syn"},
	}}
	res, _, err := NewRunner(nil, nil, nil).Resolve(context.Background(), src, Request{
		Package: "serde", Version: "1.0.200", SkipOptional: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"syn"}, res.Graph.Targets())
}

func TestResolveLockNotCached(t *testing.T) {
	r := newTestRunner(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.lock")
	write := func(dep string) {
		lock := "[[package]]\nname = \"app\"\nversion = \"0.1.0\"\ndependencies = [\n \"" + dep + "\",\n]\n"
		require.NoError(t, os.WriteFile(path, []byte(lock), 0o644))
	}
	req := Request{Package: "app", Version: "0.1.0", Format: "dot"}

	write("anyhow")
	res, _, err := r.Resolve(context.Background(), source.NewLockFile(path), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"anyhow"}, res.Graph.Targets())

	write("thiserror")
	res, hit, err := r.Resolve(context.Background(), source.NewLockFile(path), req)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"thiserror"}, res.Graph.Targets())
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRunner(t).Run(ctx, source.NewTestRepository(), Request{Package: "serde", Version: "1.0.200"})
	assert.ErrorIs(t, err, context.Canceled)
}
