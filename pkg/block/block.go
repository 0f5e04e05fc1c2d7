package block

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNilBlock is returned when a nil block is connected or added.
	ErrNilBlock = errors.New("block must not be nil")

	// ErrAlreadyConnected is returned by [Block.SetInput] and [Block.SetNext]
	// when the target block is already plugged into another parent. A block
	// has at most one parent connection.
	ErrAlreadyConnected = errors.New("block is already connected to a parent")

	// ErrSelfConnection is returned when a block is connected to itself.
	ErrSelfConnection = errors.New("block cannot be connected to itself")

	// ErrDuplicateBlockID is returned by [Workspace.Add] when a block with the
	// same ID already exists in the workspace.
	ErrDuplicateBlockID = errors.New("duplicate block ID")

	// ErrInputKindMismatch is returned when an existing input is reconnected
	// with a different kind.
	ErrInputKindMismatch = errors.New("input kind mismatch")
)

// InputKind distinguishes value inputs from statement inputs.
type InputKind int

const (
	// InputValue holds a single expression-producing block.
	InputValue InputKind = iota
	// InputStatement holds the head of a chain of statement blocks.
	InputStatement
)

// String returns "value" or "statement".
func (k InputKind) String() string {
	if k == InputStatement {
		return "statement"
	}
	return "value"
}

// Input is a named slot on a block.
type Input struct {
	Name   string
	Kind   InputKind
	Target *Block // nil when nothing is connected
}

// Block is a node in the block graph.
//
// Value inputs point to a single producer block; statement inputs and the
// next link point to chains of statement blocks. Connections are made with
// [Block.SetInput] and [Block.SetNext], which also record the parent link
// used by [Workspace.TopBlocks].
//
// The graph must be acyclic along next links and statement chains. This is a
// precondition owned by the editor; nothing here checks it, and generating
// code for a cyclic graph does not terminate.
type Block struct {
	ID       string            // Unique identifier within a workspace
	Type     string            // Type tag selecting the translation rule
	Disabled bool              // Disabled blocks generate no code
	Comment  string            // Optional free-text comment
	Output   bool              // True for value blocks (block has an output connection)
	Fields   map[string]string // Literal field values (text, numbers, variable names)

	inputs []*Input
	next   *Block
	parent *Block
}

// New creates a statement block with the given type and a random ID.
func New(typ string) *Block {
	return &Block{
		ID:     uuid.NewString(),
		Type:   typ,
		Fields: map[string]string{},
	}
}

// NewValue creates a value block (one with an output connection).
func NewValue(typ string) *Block {
	b := New(typ)
	b.Output = true
	return b
}

// WithField sets a field and returns the block for chaining.
func (b *Block) WithField(name, value string) *Block {
	b.SetField(name, value)
	return b
}

// SetField sets a literal field value.
func (b *Block) SetField(name, value string) {
	if b.Fields == nil {
		b.Fields = map[string]string{}
	}
	b.Fields[name] = value
}

// Field returns the value of the named field, or "" if unset.
func (b *Block) Field(name string) string {
	return b.Fields[name]
}

// HasOutput reports whether the block is a value block.
func (b *Block) HasOutput() bool { return b.Output }

// Next returns the block connected to the next-statement link, or nil.
func (b *Block) Next() *Block { return b.next }

// Parent returns the block this one is plugged into, or nil for top-level blocks.
func (b *Block) Parent() *Block { return b.parent }

// Inputs returns the block's inputs in declaration order.
func (b *Block) Inputs() []*Input { return b.inputs }

// Input returns the named input, or nil if the block has no such input.
func (b *Block) Input(name string) *Input {
	for _, in := range b.inputs {
		if in.Name == name {
			return in
		}
	}
	return nil
}

// InputTarget returns the block connected to the named input, or nil.
func (b *Block) InputTarget(name string) *Block {
	if in := b.Input(name); in != nil {
		return in.Target
	}
	return nil
}

// AddInput declares an empty input. Declaring an existing input with the
// same kind is a no-op.
func (b *Block) AddInput(name string, kind InputKind) error {
	if in := b.Input(name); in != nil {
		if in.Kind != kind {
			return ErrInputKindMismatch
		}
		return nil
	}
	b.inputs = append(b.inputs, &Input{Name: name, Kind: kind})
	return nil
}

// SetInput connects target to the named input, declaring the input if
// needed. A nil target leaves the input declared but empty.
func (b *Block) SetInput(name string, kind InputKind, target *Block) error {
	if err := b.AddInput(name, kind); err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	if err := b.adopt(target); err != nil {
		return err
	}
	in := b.Input(name)
	if in.Target != nil {
		in.Target.parent = nil
	}
	in.Target = target
	return nil
}

// SetValue is shorthand for SetInput with [InputValue].
func (b *Block) SetValue(name string, target *Block) error {
	return b.SetInput(name, InputValue, target)
}

// SetStatement is shorthand for SetInput with [InputStatement].
func (b *Block) SetStatement(name string, target *Block) error {
	return b.SetInput(name, InputStatement, target)
}

// SetNext connects target as the following statement.
func (b *Block) SetNext(target *Block) error {
	if target == nil {
		if b.next != nil {
			b.next.parent = nil
		}
		b.next = nil
		return nil
	}
	if err := b.adopt(target); err != nil {
		return err
	}
	if b.next != nil {
		b.next.parent = nil
	}
	b.next = target
	return nil
}

func (b *Block) adopt(target *Block) error {
	if target == b {
		return ErrSelfConnection
	}
	if target.parent != nil && target.parent != b {
		return ErrAlreadyConnected
	}
	target.parent = b
	return nil
}

// Children returns the directly connected blocks: input targets in input
// order, then the next block.
func (b *Block) Children() []*Block {
	var out []*Block
	for _, in := range b.inputs {
		if in.Target != nil {
			out = append(out, in.Target)
		}
	}
	if b.next != nil {
		out = append(out, b.next)
	}
	return out
}

// Descendants returns b and every block reachable from it, depth first in
// [Block.Children] order.
func (b *Block) Descendants() []*Block {
	out := []*Block{b}
	for _, c := range b.Children() {
		out = append(out, c.Descendants()...)
	}
	return out
}
