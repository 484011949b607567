package graph_test

import (
	"fmt"

	"github.com/matzehuels/lockgraph/pkg/graph"
)

func ExampleBuild() {
	d := graph.Build("serde", []string{"serde_derive"}, "")
	for _, e := range d.Edges {
		fmt.Printf("%s -> %s\n", e.From, e.To)
	}
	// Output: serde -> serde_derive
}

func ExampleBuild_filter() {
	d := graph.Build("tokio", []string{"bytes", "mio", "tokio-macros"}, "macros")
	fmt.Println(d.Nodes())
	// Output: [tokio tokio-macros]
}
