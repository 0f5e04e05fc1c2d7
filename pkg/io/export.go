package io

import (
	"encoding/json"
	"io"
	"maps"
	"os"

	"github.com/matzehuels/blockgen/pkg/block"
	"github.com/matzehuels/blockgen/pkg/errors"
)

// WriteJSON encodes the top-level blocks of ws, and everything connected to
// them, as a JSON workspace document.
func WriteJSON(ws *block.Workspace, w io.Writer) error {
	out := document{Blocks: []*blockDoc{}}
	for _, b := range ws.TopBlocks() {
		out.Blocks = append(out.Blocks, toDoc(b))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode workspace")
	}
	return nil
}

// ExportJSON writes ws to a JSON file at path.
func ExportJSON(ws *block.Workspace, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(ws, f)
}

func toDoc(b *block.Block) *blockDoc {
	doc := &blockDoc{
		ID:       b.ID,
		Type:     b.Type,
		Output:   b.Output,
		Disabled: b.Disabled,
		Comment:  b.Comment,
	}
	if len(b.Fields) > 0 {
		doc.Fields = maps.Clone(b.Fields)
	}
	for _, in := range b.Inputs() {
		var d inputDoc
		switch {
		case in.Target == nil && in.Kind == block.InputStatement:
			d.Kind = kindStatement
		case in.Target == nil:
			d.Kind = kindValue
		case in.Kind == block.InputStatement:
			d.Statement = toDoc(in.Target)
		default:
			d.Block = toDoc(in.Target)
		}
		doc.Inputs = append(doc.Inputs, namedInput{Name: in.Name, Input: d})
	}
	if b.Next() != nil {
		doc.Next = toDoc(b.Next())
	}
	return doc
}
