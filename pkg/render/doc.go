// Package render groups the diagram renderers for block workspaces.
//
// The [nodelink] subpackage draws the block graph as a Graphviz diagram:
// statement blocks are boxes, value blocks are ellipses, and next links are
// dashed arrows.
//
//	dot := nodelink.ToDOT(ws, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/blockgen/pkg/render/nodelink
package render
