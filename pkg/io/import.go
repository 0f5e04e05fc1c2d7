package io

import (
	"encoding/json"
	"io"
	"maps"
	"os"
	"strconv"

	"github.com/matzehuels/blockgen/pkg/block"
	"github.com/matzehuels/blockgen/pkg/errors"
)

// ReadJSON decodes a JSON workspace document from r.
//
// ReadJSON returns an INVALID_WORKSPACE error if:
//   - The JSON is malformed
//   - A block has a missing or malformed type
//   - Two blocks share an ID
//   - An input declares both "block" and "statement", or an unknown kind
//   - A block declares the same input twice
//
// Errors name the offending block by ID or, for blocks without an ID, by
// their position in the document. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*block.Workspace, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkspace, err, "decode workspace")
	}

	ws := block.NewWorkspace()
	for i, doc := range data.Blocks {
		if _, err := build(ws, doc, "blocks["+strconv.Itoa(i)+"]"); err != nil {
			return nil, err
		}
	}
	return ws, nil
}

// ImportJSON reads a workspace document from the file at path.
func ImportJSON(path string) (*block.Workspace, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkspace, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

func build(ws *block.Workspace, doc *blockDoc, path string) (*block.Block, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidWorkspace, "%s: null block", path)
	}
	if doc.ID != "" {
		path = doc.ID
	}
	if err := errors.ValidateBlockType(doc.Type); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkspace, err, "block %s", path)
	}

	b := &block.Block{
		ID:       doc.ID,
		Type:     doc.Type,
		Output:   doc.Output,
		Disabled: doc.Disabled,
		Comment:  doc.Comment,
		Fields:   maps.Clone(doc.Fields),
	}
	if b.Fields == nil {
		b.Fields = map[string]string{}
	}
	if err := ws.Add(b); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkspace, err, "block %s", path)
	}

	for _, in := range doc.Inputs {
		if err := attachInput(ws, b, in.Name, in.Input, path); err != nil {
			return nil, err
		}
	}
	if doc.Next != nil {
		next, err := build(ws, doc.Next, path+".next")
		if err != nil {
			return nil, err
		}
		if err := b.SetNext(next); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidWorkspace, err, "block %s: next", path)
		}
	}
	return b, nil
}

func attachInput(ws *block.Workspace, b *block.Block, name string, in inputDoc, path string) error {
	var (
		kind   block.InputKind
		target *blockDoc
	)
	switch {
	case in.Block != nil && in.Statement != nil:
		return errors.New(errors.ErrCodeInvalidWorkspace, "block %s: input %q has both block and statement", path, name)
	case in.Block != nil:
		kind, target = block.InputValue, in.Block
	case in.Statement != nil:
		kind, target = block.InputStatement, in.Statement
	case in.Kind == kindStatement:
		kind = block.InputStatement
	case in.Kind == kindValue || in.Kind == "":
		kind = block.InputValue
	default:
		return errors.New(errors.ErrCodeInvalidWorkspace, "block %s: input %q has unknown kind %q", path, name, in.Kind)
	}

	var child *block.Block
	if target != nil {
		var err error
		if child, err = build(ws, target, path+".inputs."+name); err != nil {
			return err
		}
	}
	if err := b.SetInput(name, kind, child); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidWorkspace, err, "block %s: input %q", path, name)
	}
	return nil
}
