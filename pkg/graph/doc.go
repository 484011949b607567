// Package graph builds and serializes the direct-dependency graph of a single
// package.
//
// # Overview
//
// A [Description] is a star: one root and an ordered list of edges from the
// root to each direct dependency. It is the renderer-agnostic artifact that
// pkg/render/nodelink turns into DOT, SVG or PNG and that the HTTP API
// returns as JSON.
//
//	d := graph.Build("serde", []string{"serde_derive"}, "")
//	// d.Root == "serde", d.Edges == [{serde serde_derive false}]
//
// # Filtering
//
// A non-empty filter keeps an edge only when the filter occurs in the root
// name or in the edge target (case-sensitive). Filtering never removes the
// root: a root with no retained edges is still a valid graph.
//
// # Duplicates
//
// Edges are not deduplicated. A dependency listed twice yields two edges.
//
// # Serialization
//
// Descriptions use a small JSON format:
//
//	{
//	  "root": "serde",
//	  "edges": [{"from": "serde", "to": "serde_derive"}]
//	}
//
// Use [Marshal], [WriteFile] and [Read] to move descriptions in and out of
// files and HTTP bodies.
package graph
