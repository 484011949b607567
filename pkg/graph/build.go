package graph

import (
	"strings"

	"github.com/matzehuels/lockgraph/pkg/deps"
)

// Build returns a description with one edge root -> dep per entry of names, in
// order. When filter is non-empty an edge is kept only if filter occurs in
// root or in dep.
func Build(root string, names []string, filter string) Description {
	d := Description{Root: root, Edges: make([]Edge, 0, len(names))}
	for _, dep := range names {
		if keep(root, dep, filter) {
			d.Edges = append(d.Edges, Edge{From: root, To: dep})
		}
	}
	return d
}

// BuildRecords is [Build] for rich dependency records. Each edge carries the
// record's Optional flag.
func BuildRecords(root string, records []deps.Dependency, filter string) Description {
	d := Description{Root: root, Edges: make([]Edge, 0, len(records))}
	for _, r := range records {
		if keep(root, r.Name, filter) {
			d.Edges = append(d.Edges, Edge{From: root, To: r.Name, Optional: r.Optional})
		}
	}
	return d
}

func keep(root, dep, filter string) bool {
	return filter == "" || strings.Contains(root, filter) || strings.Contains(dep, filter)
}
