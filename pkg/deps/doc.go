// Package deps defines the dependency records shared by every source and the
// resolver that selects one package's direct dependencies from a parsed
// lockfile.
//
// # Overview
//
// Dependency data reaches lockgraph from three places:
//
//   - Lockfiles ([lockfile.Parse]): only dependency names are known
//   - Registries ([crates.AdaptDependencies]): name, requirement, kind and
//     whether the dependency is optional
//   - Manifests (Cargo.toml): the same fields as a registry
//
// All of them produce a []Dependency, so graph building and rendering never
// need to know where the data came from.
//
// # Resolving
//
// [Resolve] performs an exact (name, version) lookup against a
// [lockfile.Mapping]:
//
//	m := lockfile.Parse(text)
//	names, err := deps.Resolve(m, "serde", "1.0.200")
//	if errors.Is(err, deps.ErrNotFound) {
//	    // the lockfile has no such package/version
//	}
//
// A missing identity is an expected outcome, not a defect. The returned
// [*NotFoundError] lists the versions of the package that do exist so the
// caller can suggest one.
//
// [lockfile.Parse]: github.com/matzehuels/lockgraph/pkg/lockfile.Parse
// [lockfile.Mapping]: github.com/matzehuels/lockgraph/pkg/lockfile.Mapping
// [crates.AdaptDependencies]: github.com/matzehuels/lockgraph/pkg/integrations/crates.AdaptDependencies
package deps
