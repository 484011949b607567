package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/lockgraph/pkg/cache"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/render"
	"github.com/matzehuels/lockgraph/pkg/render/nodelink"
	"github.com/matzehuels/lockgraph/pkg/source"
)

// Runner executes pipeline runs against a cache.
// Both CLI and API use it so caching and fallback behave the same.
//
// A Runner holds no per-run state; one Runner can serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// RenderFunc draws DOT text in an image format. Defaults to nodelink.Render.
	RenderFunc func(ctx context.Context, dot string, f render.Format) ([]byte, error)
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		RenderFunc: nodelink.Render,
	}
}

// Run executes resolve → render → write for one package.
//
// A render failure is not an error when req.Output is set: the DOT text is
// written to the sidecar path and the result is marked as a fallback.
func (r *Runner) Run(ctx context.Context, src source.Source, req Request) (*Result, error) {
	if req.Logger == nil {
		req.Logger = r.Logger
	}
	if err := req.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := req.Logger.With("run", runID[:8])
	result := &Result{RunID: runID, Format: req.RenderFormat()}

	resolveStart := time.Now()
	res, hit, err := r.Resolve(ctx, src, req)
	if err != nil {
		return nil, err
	}
	result.Version = res.Version
	result.Dependencies = res.Dependencies
	result.Graph = res.Graph
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.DependencyCount = len(res.Dependencies)
	result.Stats.EdgeCount = len(res.Graph.Edges)
	result.CacheInfo.GraphHit = hit

	logger.Info("resolved dependencies",
		"source", src.Name(),
		"package", req.Package,
		"version", res.Version,
		"dependencies", len(res.Dependencies),
		"edges", len(res.Graph.Edges),
		"duration", result.Stats.ResolveTime)

	result.DOT = ToDOT(res.Graph, req)

	renderStart := time.Now()
	artifact, hit, renderErr := r.Render(ctx, result.DOT, req)
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	if renderErr != nil {
		if ctx.Err() != nil || req.Output == "" {
			return nil, errors.Wrap(errors.ErrCodeRender, renderErr, "render %s", result.Format)
		}
		logger.Warn("render failed, saving DOT instead", "format", result.Format, "err", renderErr)
		path := Sidecar(req.Output)
		if err := writeFile(path, []byte(result.DOT)); err != nil {
			return nil, err
		}
		result.Artifact = []byte(result.DOT)
		result.OutputPath = path
		result.Fallback = true
		result.RenderErr = renderErr
		return result, nil
	}
	result.Artifact = artifact

	logger.Debug("rendered output",
		"format", result.Format,
		"bytes", len(artifact),
		"cached", hit,
		"duration", result.Stats.RenderTime)

	if req.Output != "" {
		if err := writeFile(req.Output, artifact); err != nil {
			return nil, err
		}
		result.OutputPath = req.Output
		logger.Info("wrote output", "path", req.Output)
	}
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// String summarizes the result for logs.
func (res *Result) String() string {
	return fmt.Sprintf("%s %s: %d dependencies, %d edges", res.Graph.Root, res.Version, res.Stats.DependencyCount, res.Stats.EdgeCount)
}
