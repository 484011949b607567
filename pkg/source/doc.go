// Package source provides the places dependency data comes from.
//
// Every [Source] answers one question: what are the direct dependencies of
// package name at version? Three kinds exist:
//
//   - [Lock] reads a Cargo-style lockfile from disk, from an HTTP(S) URL or
//     from the built-in test repository, then resolves the exact
//     (name, version) pair in it.
//   - [Registry] asks crates.io for the dependency records of a published
//     crate version.
//   - manifest.Cargo (subpackage manifest) reads a Cargo.toml.
//
// A package that the source does not contain is reported as an error
// matching [deps.ErrNotFound], whatever the source kind.
package source
