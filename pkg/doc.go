// Package pkg provides the libraries behind lockgraph, a tool that draws the
// direct dependencies of one Rust package version.
//
// # Overview
//
// The pkg directory is organized into layers:
//
//  1. Parsing - [lockfile] scans Cargo.lock text into a name@version mapping
//  2. Domain - [deps] holds dependency records and exact-version resolution;
//     [graph] turns them into a filtered edge list
//  3. Sources - [source] reads lockfiles, Cargo.toml manifests and crates.io
//     behind one interface
//  4. Integrations - [integrations] and its crates client fetch over HTTP
//     with retries and caching through [cache]
//  5. Output - [render] and its nodelink package emit DOT and draw PNG/SVG
//  6. Orchestration - [pipeline] runs resolve → render → write
//
// # Data Flow
//
//	Cargo.lock / Cargo.toml / crates.io
//	         ↓
//	    [source] (direct dependencies of name@version)
//	         ↓
//	    [graph] (root → dependency edges, substring filter)
//	         ↓
//	    [render] (DOT text, PNG or SVG via Graphviz)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Run(ctx, source.NewTestRepository(), pipeline.Request{
//	    Package: "tokio",
//	    Version: "1.0.0",
//	    Output:  "tokio.svg",
//	})
//
// The command-line interface in internal/cli and the HTTP server in
// internal/server are thin layers over [pipeline.Runner].
//
// [lockfile]: github.com/matzehuels/lockgraph/pkg/lockfile
// [deps]: github.com/matzehuels/lockgraph/pkg/deps
// [graph]: github.com/matzehuels/lockgraph/pkg/graph
// [source]: github.com/matzehuels/lockgraph/pkg/source
// [integrations]: github.com/matzehuels/lockgraph/pkg/integrations
// [cache]: github.com/matzehuels/lockgraph/pkg/cache
// [render]: github.com/matzehuels/lockgraph/pkg/render
// [pipeline]: github.com/matzehuels/lockgraph/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/lockgraph/pkg/pipeline.Runner
package pkg
