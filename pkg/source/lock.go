package source

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/integrations"
	"github.com/matzehuels/lockgraph/pkg/lockfile"
)

// TestRepositoryLocation is the location reported by the built-in test
// repository.
const TestRepositoryLocation = "builtin:test-repository"

//go:embed testrepo/Cargo.lock
var testRepositoryLock string

// Lock is a lockfile-backed [Source]. The lock text is read again on every
// call; nothing is kept between calls.
type Lock struct {
	location string
	load     func(ctx context.Context) (*lockfile.Mapping, error)
}

// NewLockFile reads the lockfile at path.
func NewLockFile(path string) *Lock {
	return &Lock{
		location: path,
		load: func(context.Context) (*lockfile.Mapping, error) {
			f, err := os.Open(path)
			if err != nil {
				if os.IsNotExist(err) {
					return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "lockfile %s not found", path)
				}
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open lockfile %s", path)
			}
			defer f.Close()
			return lockfile.Read(f)
		},
	}
}

// NewLockURL fetches the lockfile at url through client, which caches the
// response body. refresh bypasses that cache.
func NewLockURL(client *integrations.Client, url string, refresh bool) *Lock {
	return &Lock{
		location: url,
		load: func(ctx context.Context) (*lockfile.Mapping, error) {
			text, err := client.CachedText(ctx, url, refresh)
			if err != nil {
				return nil, fmt.Errorf("fetch lockfile %s: %w", url, err)
			}
			return lockfile.Parse(text), nil
		},
	}
}

// NewTestRepository serves the built-in lockfile holding serde 1.0.200,
// tokio 1.0.0 and reqwest 0.11.0 with their direct dependencies.
func NewTestRepository() *Lock {
	return &Lock{
		location: TestRepositoryLocation,
		load: func(context.Context) (*lockfile.Mapping, error) {
			return lockfile.Parse(testRepositoryLock), nil
		},
	}
}

// NewLockText parses text directly. Used for request bodies.
func NewLockText(location, text string) *Lock {
	return &Lock{
		location: location,
		load: func(context.Context) (*lockfile.Mapping, error) {
			return lockfile.Parse(text), nil
		},
	}
}

// NewLock picks the file, URL or test repository loader for location.
func NewLock(client *integrations.Client, location string, refresh bool) *Lock {
	switch {
	case location == TestRepositoryLocation:
		return NewTestRepository()
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewLockURL(client, location, refresh)
	default:
		return NewLockFile(location)
	}
}

func (l *Lock) Name() string { return KindLock }

// Location returns the path, URL or builtin marker the lock is read from.
func (l *Lock) Location() string { return l.location }

// Mapping loads and parses the lockfile.
func (l *Lock) Mapping(ctx context.Context) (*lockfile.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.load(ctx)
}

func (l *Lock) Dependencies(ctx context.Context, name, version string) ([]deps.Dependency, error) {
	m, err := l.Mapping(ctx)
	if err != nil {
		return nil, err
	}
	return deps.ResolveRecords(m, name, version)
}

// ResolveVersion picks the only version of name when the lock holds exactly
// one; otherwise the version stays empty and resolution reports the
// available ones.
func (l *Lock) ResolveVersion(ctx context.Context, name, version string) (string, error) {
	if version != "" {
		return version, nil
	}
	m, err := l.Mapping(ctx)
	if err != nil {
		return "", err
	}
	if vs := m.Versions(name); len(vs) == 1 {
		return vs[0], nil
	}
	return "", nil
}
