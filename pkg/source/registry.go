package source

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/integrations"
	"github.com/matzehuels/lockgraph/pkg/integrations/crates"
)

// Registry is a crates.io-backed [Source].
type Registry struct {
	client *crates.Client
	opts   deps.Options
}

// NewRegistry returns a registry source. opts.Refresh bypasses the response
// cache and opts.SkipOptional drops feature-gated dependencies.
func NewRegistry(client *crates.Client, opts deps.Options) *Registry {
	return &Registry{client: client, opts: opts.WithDefaults()}
}

func (r *Registry) Name() string { return KindRegistry }

// Location returns the registry API root.
func (r *Registry) Location() string { return r.client.BaseURL() }

func (r *Registry) Dependencies(ctx context.Context, name, version string) ([]deps.Dependency, error) {
	version, err := r.ResolveVersion(ctx, name, version)
	if err != nil {
		return nil, err
	}
	r.opts.Logger("fetching crates.io dependencies of %s %s", name, version)
	records, err := r.client.FetchDependencies(ctx, name, version, r.opts.Refresh)
	if err != nil {
		return nil, notFound(err, name, version)
	}
	return r.opts.Filter(crates.AdaptDependencies(records)), nil
}

// ResolveVersion returns the crate's newest version when version is empty.
func (r *Registry) ResolveVersion(ctx context.Context, name, version string) (string, error) {
	if version != "" {
		return version, nil
	}
	info, err := r.client.FetchCrate(ctx, name, r.opts.Refresh)
	if err != nil {
		return "", notFound(err, name, "")
	}
	return info.Version, nil
}

// notFound turns an upstream 404 into the resolver's not-found error so
// callers see one error type for every source.
func notFound(err error, name, version string) error {
	if stderrors.Is(err, integrations.ErrNotFound) {
		return &deps.NotFoundError{Name: name, Version: version}
	}
	return err
}
