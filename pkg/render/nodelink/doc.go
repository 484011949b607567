// Package nodelink renders dependency descriptions as node-link diagrams.
//
// # Overview
//
// Each package is a rounded box and each dependency an arrow from the root.
// The root is highlighted; optional (feature-gated) dependencies are drawn
// with dashed arrows, and a dependency reached only through optional edges
// has a dashed outline.
//
// # Usage
//
// Convert a description to DOT, then render it:
//
//	dot := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// Or let [Render] pick by format:
//
//	out, err := nodelink.Render(ctx, dot, render.PNG)
//
// # Failures
//
// Every rendering failure wraps [ErrRender], so callers can fall back to
// writing the DOT text instead of an image.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering. No external Graphviz installation is needed.
package nodelink
