package generator

import (
	"slices"

	"github.com/matzehuels/blockgen/pkg/block"
	"github.com/matzehuels/blockgen/pkg/errors"
)

// Default formatting used when a [Language] leaves the field empty.
const (
	DefaultIndent        = "  "
	DefaultCommentPrefix = "// "
)

// Rule translates one block. Statement blocks return a [Statement]; value
// blocks return an [Expr]. Rules reach connected blocks through the pass:
// [Pass.ValueToCode] for value inputs and [Pass.StatementToCode] for
// statement inputs. The next block is appended by the generator.
type Rule func(p *Pass, b *block.Block) (Result, error)

// Language is a target-language binding.
//
// Each binding package (python, javascript, ...) exports a Language value
// with its translation rules and hooks. Only Name and Rules are required.
type Language struct {
	// Name identifies the language ("python") and appears in error messages.
	Name string

	// ReservedWords are never used as generated identifiers.
	ReservedWords []string

	// Indent prefixes every line of nested statement code. Defaults to
	// DefaultIndent.
	Indent string

	// CommentPrefix starts each line of a block comment emitted by the
	// default scrub. Defaults to DefaultCommentPrefix.
	CommentPrefix string

	// Rules maps block type tags to translation rules.
	Rules map[string]Rule

	// Init runs at the start of every pass, after per-pass state is reset.
	// May be nil.
	Init func(p *Pass) error

	// Finish post-processes the joined top-level code, typically to emit
	// collected definitions and helper functions. Nil means [DefaultFinish].
	Finish func(p *Pass, code string) string

	// ScrubNakedValue terminates a value block used as a top-level
	// statement, e.g. by appending ";\n". May be nil.
	ScrubNakedValue func(code string) string

	// Scrub post-processes the code of every translated block and must
	// append the code of the following block. Nil means [DefaultScrub].
	Scrub func(p *Pass, b *block.Block, code string) (string, error)
}

// Validate checks that the binding can be used to construct a generator.
func (l *Language) Validate() error {
	if l == nil {
		return errors.New(errors.ErrCodeInvalidLanguage, "language must not be nil")
	}
	if err := errors.ValidateLanguageName(l.Name); err != nil {
		return err
	}
	for typ, rule := range l.Rules {
		if rule == nil {
			return errors.New(errors.ErrCodeInvalidLanguage, "language %q: nil rule for block type %q", l.Name, typ)
		}
	}
	return nil
}

// BlockTypes returns the block types the language has rules for, sorted.
func (l *Language) BlockTypes() []string {
	types := make([]string, 0, len(l.Rules))
	for typ := range l.Rules {
		types = append(types, typ)
	}
	slices.Sort(types)
	return types
}

func (l *Language) indent() string {
	if l.Indent == "" {
		return DefaultIndent
	}
	return l.Indent
}

func (l *Language) commentPrefix() string {
	if l.CommentPrefix == "" {
		return DefaultCommentPrefix
	}
	return l.CommentPrefix
}
