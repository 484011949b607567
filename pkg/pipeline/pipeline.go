// Package pipeline runs the fetch → build → render sequence shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Resolve: ask a [source.Source] for the direct dependencies of one
//     package version and build a [graph.Description] from them
//  2. Render: turn the description into DOT and, for image formats, into
//     PNG or SVG bytes through Graphviz
//  3. Write: store the artifact at the requested output path. When
//     rendering fails the DOT text is written next to it instead
//     (output + ".dot") and [Result.Fallback] is set
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Run(ctx, source.NewTestRepository(), pipeline.Request{
//	    Package: "serde",
//	    Version: "1.0.200",
//	    Output:  "dependencies.png",
//	})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lockgraph/pkg/cache"
	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/graph"
	"github.com/matzehuels/lockgraph/pkg/render"
)

// DefaultFormat is used when neither the request nor the output path names one.
const DefaultFormat = render.PNG

// DefaultOutput is the output path used by the CLI when none is configured.
const DefaultOutput = "dependencies.png"

// TTLArtifact is how long rendered images stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// TTLGraph is how long registry-built descriptions stay cached. Published
// crate versions never change, so only yanked-crate metadata can go stale.
const TTLGraph = deps.DefaultCacheTTL

// Request describes one pipeline run.
type Request struct {
	Package  string `json:"package"`
	Version  string `json:"version,omitempty"`
	Filter   string `json:"filter,omitempty"`
	Format   string `json:"format,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`

	// SkipOptional drops feature-gated dependencies before the graph is built.
	SkipOptional bool `json:"skip_optional,omitempty"`
	Refresh      bool `json:"refresh,omitempty"`

	// Output is the file the artifact is written to. Empty means the result
	// is only returned.
	Output string `json:"-"`

	Logger *log.Logger `json:"-"`

	format    render.Format
	validated bool
}

// ValidateAndSetDefaults checks the request and fills in the format and
// logger. It is idempotent.
func (r *Request) ValidateAndSetDefaults() error {
	if r.validated {
		return nil
	}
	if err := errors.ValidatePackageName(r.Package); err != nil {
		return err
	}
	if err := errors.ValidateVersion(r.Version); err != nil {
		return err
	}

	switch {
	case r.Format != "":
		f, err := render.ParseFormat(r.Format)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid format %q", r.Format)
		}
		r.format = f
	case r.Output != "":
		f, err := render.FormatFromPath(r.Output)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "cannot infer format from %q", r.Output)
		}
		r.format = f
	default:
		r.format = DefaultFormat
	}
	r.Format = string(r.format)

	if r.Logger == nil {
		r.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	r.validated = true
	return nil
}

// RenderFormat returns the validated output format.
func (r *Request) RenderFormat() render.Format {
	if r.format == "" {
		return DefaultFormat
	}
	return r.format
}

// GraphKeyOpts returns cache key options for the built description.
func (r *Request) GraphKeyOpts(location string) cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Version:      r.Version,
		Filter:       r.Filter,
		SkipOptional: r.SkipOptional,
		Location:     location,
	}
}

// ArtifactKeyOpts returns cache key options for the rendered output.
func (r *Request) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   string(r.RenderFormat()),
		Detailed: r.Detailed,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Version is the resolved version; it differs from the request's when
	// the source picked one.
	Version string

	// Dependencies are the direct dependencies after optional filtering,
	// before the substring filter.
	Dependencies []deps.Dependency

	Graph graph.Description
	DOT   string

	// Artifact holds the rendered bytes in Format. For DOT it is the DOT text.
	Artifact []byte
	Format   render.Format

	// OutputPath is the file written, if any.
	OutputPath string

	// Fallback reports that rendering failed and the DOT text was written to
	// OutputPath instead. RenderErr holds the cause.
	Fallback  bool
	RenderErr error

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	DependencyCount int
	EdgeCount       int
	ResolveTime     time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	GraphHit  bool
	RenderHit bool
}
