package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/blockgen/pkg/block"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds field values and comments to node labels.
	// When false, only the block type is shown.
	Detailed bool
}

// ToDOT converts the blocks of ws into Graphviz DOT source.
//
// Statement blocks are boxes and value blocks are ellipses. Disabled blocks
// are dashed and grey. Input edges are labelled with the input name;
// statement inputs are drawn bold and next links dashed.
func ToDOT(ws *block.Workspace, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var blocks []*block.Block
	for _, top := range ws.TopBlocks() {
		blocks = append(blocks, top.Descendants()...)
	}

	for _, b := range blocks {
		fmt.Fprintf(&buf, "  %q [%s];\n", b.ID, strings.Join(fmtAttrs(b, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, b := range blocks {
		for _, in := range b.Inputs() {
			if in.Target == nil {
				continue
			}
			style := ""
			if in.Kind == block.InputStatement {
				style = ", style=bold"
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=%q%s];\n", b.ID, in.Target.ID, in.Name, style)
		}
		if next := b.Next(); next != nil {
			fmt.Fprintf(&buf, "  %q -> %q [label=\"next\", style=dashed];\n", b.ID, next.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(b *block.Block, detailed bool) string {
	if !detailed {
		return b.Type
	}
	parts := []string{b.Type}
	for _, k := range slices.Sorted(maps.Keys(b.Fields)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, b.Fields[k]))
	}
	if b.Comment != "" {
		parts = append(parts, "// "+b.Comment)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(b *block.Block, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(b, detailed))}
	if b.HasOutput() {
		attrs = append(attrs, "shape=ellipse")
	}
	if b.Disabled {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=grey30")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render produces the diagram of ws in the given format.
func Render(ctx context.Context, ws *block.Workspace, format string, opts Options) ([]byte, error) {
	dot := ToDOT(ws, opts)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported format %q (must be one of: dot, svg)", format)
	}
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a
// responsive one using the same viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
