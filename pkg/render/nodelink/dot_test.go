package nodelink

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/graph"
	"github.com/matzehuels/lockgraph/pkg/render"
)

func TestToDOT(t *testing.T) {
	tests := []struct {
		golden string
		desc   graph.Description
		opts   Options
	}{
		{
			golden: "serde",
			desc:   graph.Build("serde", []string{"serde_derive"}, ""),
		},
		{
			golden: "solo",
			desc:   graph.Build("unicode-ident", nil, ""),
		},
		{
			golden: "optional",
			desc: graph.BuildRecords("reqwest", []deps.Dependency{
				{Name: "bytes"},
				{Name: "serde_json", Optional: true},
				{Name: "http"},
				{Name: "http", Optional: true},
			}, ""),
		},
		{
			golden: "detailed",
			desc: func() graph.Description {
				d := graph.Build("tokio", []string{"bytes"}, "")
				d.Version = "1.37.0"
				return d
			}(),
			opts: Options{Detailed: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			g := goldie.New(t)
			g.Assert(t, tt.golden, []byte(ToDOT(tt.desc, tt.opts)))
		})
	}
}

func TestToDOT_Escaping(t *testing.T) {
	dot := ToDOT(graph.Build(`we"ird`, []string{`a\b`}, ""), Options{})
	assert.Contains(t, dot, `"we\"ird" -> "a\\b";`)
}

func TestToDOT_DetailedWithoutVersion(t *testing.T) {
	dot := ToDOT(graph.Build("tokio", nil, ""), Options{Detailed: true})
	assert.Contains(t, dot, `"tokio" [label="tokio",`)
}

func TestToDOT_FilteredRootOnly(t *testing.T) {
	d := graph.Build("tokio", []string{"bytes", "mio"}, "zzz")
	dot := ToDOT(d, Options{})
	assert.Contains(t, dot, `"tokio" [label="tokio"`)
	assert.NotContains(t, dot, "->")
}

func TestOptionalTargets(t *testing.T) {
	d := graph.Description{Root: "r", Edges: []graph.Edge{
		{From: "r", To: "a", Optional: true},
		{From: "r", To: "b", Optional: true},
		{From: "r", To: "b"},
		{From: "r", To: "c"},
	}}
	got := optionalTargets(d)
	assert.True(t, got["a"])
	assert.False(t, got["b"])
	assert.False(t, got["c"])
}

func TestRenderDOTPassthrough(t *testing.T) {
	dot := ToDOT(graph.Build("a", []string{"b"}, ""), Options{})
	out, err := Render(context.Background(), dot, render.DOT)
	require.NoError(t, err)
	assert.Equal(t, dot, string(out))
}

func TestRenderUnsupportedFormat(t *testing.T) {
	_, err := Render(context.Background(), "digraph G {}", render.Format("pdf"))
	assert.True(t, errors.Is(err, ErrRender))
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RenderPNG(ctx, "digraph G {}")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	dot := ToDOT(graph.Build("serde", []string{"serde_derive"}, ""), Options{})
	svg, err := RenderSVG(context.Background(), dot)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(svg), "<svg"))
	assert.Contains(t, string(svg), "serde_derive")
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	assert.Contains(t, out, `viewBox="0 0 62.00 116.00" width="62" height="116"`)
	assert.NotContains(t, out, "pt")

	assert.Equal(t, "<svg/>", string(normalizeViewBox([]byte("<svg/>"))))
}
