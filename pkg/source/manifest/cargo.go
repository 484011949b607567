// Package manifest reads dependency declarations from Cargo.toml manifests.
//
// A manifest describes exactly one package: its own [package] name and
// version. Only that pair is resolvable; any other request is a not-found
// error listing the manifest's version.
//
// Dependencies come from [dependencies], [dev-dependencies] and
// [build-dependencies] in the order they are written, in either the short
// form (serde = "1.0") or the table form (serde = { version = "1.0",
// optional = true } or a [dependencies.serde] header). A package key
// renames the dependency to the crate it points at.
package manifest

import (
	"context"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/source"
)

// Manifest is the decoded part of a Cargo.toml.
type Manifest struct {
	Name         string
	Version      string
	Dependencies []deps.Dependency
}

var tables = map[string]string{
	"dependencies":       deps.KindNormal,
	"dev-dependencies":   deps.KindDev,
	"build-dependencies": deps.KindBuild,
}

// Parse decodes Cargo.toml text.
func Parse(data []byte) (*Manifest, error) {
	var doc map[string]any
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse Cargo.toml")
	}

	m := &Manifest{Dependencies: []deps.Dependency{}}
	if pkg, ok := doc["package"].(map[string]any); ok {
		m.Name, _ = pkg["name"].(string)
		m.Version, _ = pkg["version"].(string)
	}

	type seenKey struct{ table, name string }
	seen := map[seenKey]bool{}
	for _, key := range md.Keys() {
		if len(key) < 2 {
			continue
		}
		kind, ok := tables[key[0]]
		if !ok {
			continue
		}
		k := seenKey{key[0], key[1]}
		if seen[k] {
			continue
		}
		seen[k] = true

		table, _ := doc[key[0]].(map[string]any)
		m.Dependencies = append(m.Dependencies, decodeDependency(key[1], kind, table[key[1]]))
	}
	return m, nil
}

func decodeDependency(name, kind string, v any) deps.Dependency {
	d := deps.Dependency{Name: name, Kind: kind}
	switch spec := v.(type) {
	case string:
		d.Version = spec
	case map[string]any:
		d.Version, _ = spec["version"].(string)
		d.Optional, _ = spec["optional"].(bool)
		if pkg, ok := spec["package"].(string); ok && pkg != "" {
			d.Name = pkg
		}
		if ws, _ := spec["workspace"].(bool); ws && d.Version == "" {
			d.Version = "workspace"
		}
	}
	return d
}

// Cargo is a [source.Source] over one Cargo.toml file.
type Cargo struct {
	path string
	opts deps.Options
}

// NewCargo reads the manifest at path on every call. opts.SkipOptional drops
// optional dependencies.
func NewCargo(path string, opts deps.Options) *Cargo {
	return &Cargo{path: path, opts: opts.WithDefaults()}
}

func (c *Cargo) Name() string { return source.KindManifest }

// Location returns the manifest path.
func (c *Cargo) Location() string { return c.path }

// Load reads and decodes the manifest.
func (c *Cargo) Load() (*Manifest, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s not found", c.path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read manifest %s", c.path)
	}
	return Parse(data)
}

func (c *Cargo) Dependencies(ctx context.Context, name, version string) ([]deps.Dependency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := c.Load()
	if err != nil {
		return nil, err
	}
	if name != m.Name || (version != "" && version != m.Version) {
		nf := &deps.NotFoundError{Name: name, Version: version}
		if name == m.Name {
			nf.Available = []string{m.Version}
		}
		return nil, nf
	}
	c.opts.Logger("read %d dependencies from %s", len(m.Dependencies), c.path)
	return c.opts.Filter(slices.Clone(m.Dependencies)), nil
}

// ResolveVersion fills in the manifest's own version.
func (c *Cargo) ResolveVersion(ctx context.Context, name, version string) (string, error) {
	if version != "" {
		return version, nil
	}
	m, err := c.Load()
	if err != nil {
		return "", err
	}
	if name == m.Name {
		return m.Version, nil
	}
	return "", nil
}
