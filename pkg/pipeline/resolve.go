package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/graph"
	"github.com/matzehuels/lockgraph/pkg/observability"
	"github.com/matzehuels/lockgraph/pkg/source"
)

// Resolution is the output of the resolve stage.
type Resolution struct {
	Version      string            `json:"version"`
	Dependencies []deps.Dependency `json:"dependencies"`
	Graph        graph.Description `json:"graph"`
}

// locator is implemented by sources bound to a path, URL or API root.
type locator interface {
	Location() string
}

// Resolve fetches the direct dependencies of the requested package and
// builds the filtered description. Registry results are cached; lockfiles
// are read and parsed on every call.
func (r *Runner) Resolve(ctx context.Context, src source.Source, req Request) (*Resolution, bool, error) {
	if err := req.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	var location string
	if l, ok := src.(locator); ok {
		location = l.Location()
	}
	cacheable := src.Name() == source.KindRegistry && req.Version != ""
	key := r.Keyer.GraphKey(src.Name(), req.Package, req.GraphKeyOpts(location))

	if cacheable && !req.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var res Resolution
			if json.Unmarshal(data, &res) == nil {
				return &res, true, nil
			}
		}
	}

	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, src.Name(), req.Package, req.Version)
	start := time.Now()

	version, err := source.ResolveVersion(ctx, src, req.Package, req.Version)
	var records []deps.Dependency
	if err == nil {
		records, err = src.Dependencies(ctx, req.Package, version)
	}
	hooks.OnFetchComplete(ctx, src.Name(), req.Package, version, len(records), time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("resolve %s %s: %w", req.Package, displayVersion(version), err)
	}

	records = deps.Options{SkipOptional: req.SkipOptional}.Filter(records)
	d := graph.BuildRecords(req.Package, records, req.Filter)
	d.Version = version
	hooks.OnGraphBuilt(ctx, req.Package, len(d.Edges))

	res := &Resolution{Version: version, Dependencies: records, Graph: d}
	if cacheable {
		if data, err := json.Marshal(res); err == nil {
			_ = r.Cache.Set(ctx, key, data, TTLGraph)
		}
	}
	return res, false, nil
}

func displayVersion(v string) string {
	if v == "" {
		return "(latest)"
	}
	return v
}
