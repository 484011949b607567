package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/lockgraph/pkg/cache"
	"github.com/matzehuels/lockgraph/pkg/graph"
	"github.com/matzehuels/lockgraph/pkg/observability"
	"github.com/matzehuels/lockgraph/pkg/render"
	"github.com/matzehuels/lockgraph/pkg/render/nodelink"
)

// ToDOT returns the DOT text for d as the request asks for it.
func ToDOT(d graph.Description, req Request) string {
	return nodelink.ToDOT(d, nodelink.Options{Detailed: req.Detailed})
}

// Render turns DOT text into the requested format. Images are cached by the
// hash of the DOT text; DOT itself is returned as is.
func (r *Runner) Render(ctx context.Context, dot string, req Request) ([]byte, bool, error) {
	if err := req.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	format := req.RenderFormat()
	if !format.Image() {
		return []byte(dot), false, nil
	}

	key := r.Keyer.ArtifactKey(cache.Hash([]byte(dot)), req.ArtifactKeyOpts())
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		return data, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(format))
	start := time.Now()
	renderFn := r.RenderFunc
	if renderFn == nil {
		renderFn = nodelink.Render
	}
	data, err := renderFn(ctx, dot, format)
	hooks.OnRenderComplete(ctx, string(format), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	_ = r.Cache.Set(ctx, key, data, TTLArtifact)
	return data, false, nil
}

// Sidecar returns where the DOT fallback for output is written.
func Sidecar(output string) string { return render.SidecarPath(output) }
