package source

import (
	"context"

	"github.com/matzehuels/lockgraph/pkg/deps"
)

// Source kinds, as reported by [Source.Name].
const (
	KindLock     = "lock"
	KindRegistry = "registry"
	KindManifest = "manifest"
)

// Source yields the direct dependencies of one package version.
//
// Implementations are safe for concurrent use.
type Source interface {
	// Name identifies the kind of source for logs and cache keys.
	Name() string

	// Dependencies returns the direct dependencies of (name, version) in
	// declaration order. A missing package yields an error matching
	// deps.ErrNotFound.
	Dependencies(ctx context.Context, name, version string) ([]deps.Dependency, error)
}

// VersionResolver is implemented by sources that can pick a version when the
// caller gives none.
type VersionResolver interface {
	ResolveVersion(ctx context.Context, name, version string) (string, error)
}

// ResolveVersion returns version unchanged unless it is empty and src can
// choose one.
func ResolveVersion(ctx context.Context, src Source, name, version string) (string, error) {
	if version != "" {
		return version, nil
	}
	if vr, ok := src.(VersionResolver); ok {
		return vr.ResolveVersion(ctx, name, version)
	}
	return version, nil
}
