// Package nodelink renders block workspaces as node-link diagrams.
//
// Each block becomes a node and each connection an arrow, which makes it
// easy to inspect how an imported workspace is wired before generating code
// from it.
//
//	dot := nodelink.ToDOT(ws, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [Render] dispatches on the output format ("dot" or "svg").
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
