package graph

// =============================================================================
// Description - Direct Dependency Graph
// =============================================================================

// Description is the graph of one package's direct dependencies. It is built
// fresh per request and never modified after it is returned.
type Description struct {
	Root    string `json:"root"`
	Version string `json:"version,omitempty"`
	Edges   []Edge `json:"edges"`
}

// Edge is a directed dependency from one package to another.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Optional bool   `json:"optional,omitempty"`
}

// Nodes returns the root followed by every distinct edge target, in first
// appearance order. The root is always present, even with no edges.
func (d Description) Nodes() []string {
	seen := map[string]bool{d.Root: true}
	nodes := []string{d.Root}
	for _, e := range d.Edges {
		if !seen[e.To] {
			seen[e.To] = true
			nodes = append(nodes, e.To)
		}
	}
	return nodes
}

// Targets returns the edge targets in order, including duplicates.
func (d Description) Targets() []string {
	out := make([]string, len(d.Edges))
	for i, e := range d.Edges {
		out[i] = e.To
	}
	return out
}

// Empty reports whether the description has no edges.
func (d Description) Empty() bool { return len(d.Edges) == 0 }
