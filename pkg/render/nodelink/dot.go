package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/lockgraph/pkg/graph"
)

// Options configures node-link diagram generation.
type Options struct {
	// Detailed adds the root version to the root label.
	Detailed bool
}

// ToDOT converts a description to Graphviz DOT source.
//
// The root is always declared, so a package with no dependencies still
// renders as a single box.
func ToDOT(d graph.Description, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	optionalOnly := optionalTargets(d)
	for _, id := range d.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(d, id, optionalOnly[id], opts), ", "))
	}

	if len(d.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range d.Edges {
		if e.Optional {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(d graph.Description, id string, detailed bool) string {
	if detailed && id == d.Root && d.Version != "" {
		return id + "\n" + d.Version
	}
	return id
}

func fmtAttrs(d graph.Description, id string, optional bool, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(d, id, opts.Detailed))}
	switch {
	case id == d.Root:
		attrs = append(attrs, "fillcolor=lightblue", "penwidth=2")
	case optional:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=dimgrey")
	}
	return attrs
}

// optionalTargets reports, per target, whether every edge reaching it is
// optional.
func optionalTargets(d graph.Description) map[string]bool {
	out := make(map[string]bool)
	for _, e := range d.Edges {
		prev, seen := out[e.To]
		out[e.To] = e.Optional && (!seen || prev)
	}
	return out
}
