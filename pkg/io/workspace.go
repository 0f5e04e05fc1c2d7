package io

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/blockgen/pkg/errors"
)

type document struct {
	Blocks []*blockDoc `json:"blocks"`
}

type blockDoc struct {
	ID       string            `json:"id,omitempty"`
	Type     string            `json:"type"`
	Output   bool              `json:"output,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
	Comment  string            `json:"comment,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Inputs   inputList         `json:"inputs,omitempty"`
	Next     *blockDoc         `json:"next,omitempty"`
}

type inputDoc struct {
	Kind      string    `json:"kind,omitempty"`
	Block     *blockDoc `json:"block,omitempty"`
	Statement *blockDoc `json:"statement,omitempty"`
}

type namedInput struct {
	Name  string
	Input inputDoc
}

// inputList is the "inputs" object of a block, kept in document order.
// Input order decides the order of clauses such as IF0, DO0, IF1, DO1.
type inputList []namedInput

func (l *inputList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New(errors.ErrCodeInvalidWorkspace, "inputs must be an object")
	}

	var out inputList
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		if _, dup := seen[name]; dup {
			return errors.New(errors.ErrCodeInvalidWorkspace, "duplicate input %q", name)
		}
		seen[name] = struct{}{}

		var in inputDoc
		if err := dec.Decode(&in); err != nil {
			return err
		}
		out = append(out, namedInput{Name: name, Input: in})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

func (l inputList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, in := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(in.Name)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(in.Input)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

const (
	kindValue     = "value"
	kindStatement = "statement"
)
