package generator

import (
	"strings"

	"github.com/matzehuels/blockgen/pkg/block"
	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/names"
)

// Pass holds the state of one [Generator.WorkspaceToCode] call and is handed
// to every [Rule]. It must not be retained after the pass returns.
type Pass struct {
	gen       *Generator
	names     *names.DB
	functions *FunctionRegistry

	definitions map[string]string
	defOrder    []string
}

func newPass(g *Generator, db *names.DB) *Pass {
	return &Pass{
		gen:         g,
		names:       db,
		functions:   NewFunctionRegistry(db),
		definitions: make(map[string]string),
	}
}

// Language returns the binding the pass generates for.
func (p *Pass) Language() *Language { return p.gen.lang }

// Names returns the name database used for identifiers in this pass.
func (p *Pass) Names() *names.DB { return p.names }

// Functions returns the helper functions collected so far.
func (p *Pass) Functions() *FunctionRegistry { return p.functions }

// Indent returns the indentation unit applied to nested statements.
func (p *Pass) Indent() string { return p.gen.lang.indent() }

// BlockToCode translates b and the statement chain that follows it.
//
// A nil block yields an empty [Statement]. A disabled block contributes no
// code of its own; its next block is translated in its place.
func (p *Pass) BlockToCode(b *block.Block) (Result, error) {
	if b == nil {
		return Statement(""), nil
	}
	if b.Disabled {
		return p.BlockToCode(b.Next())
	}

	rule, ok := p.gen.rules[b.Type]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedBlock,
			"language %q does not know how to generate code for block type %q", p.gen.lang.Name, b.Type)
	}
	res, err := rule(p, b)
	if err != nil {
		return nil, err
	}

	switch r := res.(type) {
	case Statement:
		code, err := p.scrub(b, string(r))
		if err != nil {
			return nil, err
		}
		return Statement(code), nil
	case Expr:
		if !r.Order.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidOrder,
				"block %q (%s) returned precedence order %d", b.ID, b.Type, r.Order)
		}
		code, err := p.scrub(b, r.Code)
		if err != nil {
			return nil, err
		}
		return Expr{Code: code, Order: r.Order}, nil
	default:
		return nil, errors.New(errors.ErrCodeMalformedResult,
			"rule for block type %q returned no result", b.Type)
	}
}

// ValueToCode translates the block connected to the named value input of b.
// The code is wrapped in parentheses when its precedence is weaker than
// maxOrder, the weakest binding acceptable at the call site. A nil b has no
// inputs and yields "".
func (p *Pass) ValueToCode(b *block.Block, input string, maxOrder Order) (string, error) {
	if b == nil {
		return "", nil
	}
	if !maxOrder.Valid() {
		return "", errors.New(errors.ErrCodeInvalidOrder,
			"invalid precedence order %d for input %q of block %q", maxOrder, input, b.ID)
	}
	target := b.InputTarget(input)
	if target == nil {
		return "", nil
	}
	res, err := p.BlockToCode(target)
	if err != nil {
		return "", err
	}

	expr, ok := res.(Expr)
	if !ok {
		if res.String() == "" {
			return "", nil
		}
		return "", errors.New(errors.ErrCodeMalformedValue,
			"expecting an expression from value block %q (%s)", target.ID, target.Type)
	}
	if expr.Code != "" && needsParens(expr.Order, maxOrder) {
		return "(" + expr.Code + ")", nil
	}
	return expr.Code, nil
}

// StatementToCode translates the statement chain connected to the named
// statement input of b and indents every line. A nil b yields "".
func (p *Pass) StatementToCode(b *block.Block, input string) (string, error) {
	if b == nil {
		return "", nil
	}
	target := b.InputTarget(input)
	res, err := p.BlockToCode(target)
	if err != nil {
		return "", err
	}
	stmt, ok := res.(Statement)
	if !ok {
		return "", errors.New(errors.ErrCodeMalformedStatement,
			"expecting statement code from block %q (%s)", target.ID, target.Type)
	}
	if stmt == "" {
		return "", nil
	}
	return PrefixLines(string(stmt), p.Indent()), nil
}

// ProvideFunction registers a helper function for this pass and returns its
// identifier. See [FunctionRegistry.Provide].
func (p *Pass) ProvideFunction(name string, lines []string) (string, error) {
	return p.functions.Provide(name, lines)
}

// VariableName returns the identifier for a user variable.
func (p *Pass) VariableName(name string) string {
	return p.names.GetName(name, names.CategoryVariable)
}

// Define records a top-of-file definition such as an import. The first
// definition stored under a key wins.
func (p *Pass) Define(key, code string) {
	if _, ok := p.definitions[key]; ok {
		return
	}
	p.definitions[key] = code
	p.defOrder = append(p.defOrder, key)
}

// Definitions returns the recorded definitions in insertion order.
func (p *Pass) Definitions() []string {
	out := make([]string, 0, len(p.defOrder))
	for _, key := range p.defOrder {
		out = append(out, p.definitions[key])
	}
	return out
}

// AllNestedComments collects the comments of b and every block below it,
// one per line.
func AllNestedComments(b *block.Block) string {
	if b == nil {
		return ""
	}
	var comments []string
	for _, d := range b.Descendants() {
		if d.Comment != "" {
			comments = append(comments, d.Comment)
		}
	}
	if len(comments) == 0 {
		return ""
	}
	return strings.Join(comments, "\n") + "\n"
}

func (p *Pass) scrub(b *block.Block, code string) (string, error) {
	if fn := p.gen.lang.Scrub; fn != nil {
		return fn(p, b, code)
	}
	return DefaultScrub(p, b, code)
}

// DefaultScrub attaches comments and the following block to code.
//
// Comments are emitted only for blocks that start a line: statement blocks
// and value blocks that are not plugged into a parent. For those, the block's
// own comment is followed by the nested comments of everything connected to
// its value inputs.
func DefaultScrub(p *Pass, b *block.Block, code string) (string, error) {
	var comments strings.Builder
	if !b.HasOutput() || b.Parent() == nil {
		prefix := p.gen.lang.commentPrefix()
		if b.Comment != "" {
			comments.WriteString(PrefixLines(b.Comment, prefix))
			comments.WriteString("\n")
		}
		for _, in := range b.Inputs() {
			if in.Kind != block.InputValue || in.Target == nil {
				continue
			}
			if nested := AllNestedComments(in.Target); nested != "" {
				comments.WriteString(PrefixLines(nested, prefix))
			}
		}
	}

	next, err := p.BlockToCode(b.Next())
	if err != nil {
		return "", err
	}
	if _, ok := next.(Statement); !ok {
		return "", errors.New(errors.ErrCodeMalformedStatement,
			"expecting statement code after block %q (%s)", b.ID, b.Type)
	}
	return comments.String() + code + next.String(), nil
}

// DefaultFinish emits the recorded definitions, then the helper functions,
// each group separated from the program by a blank line.
func DefaultFinish(p *Pass, code string) string {
	var head []string
	if defs := p.Definitions(); len(defs) > 0 {
		head = append(head, strings.Join(defs, "\n"))
	}
	for _, fn := range p.functions.Definitions() {
		head = append(head, fn.Code)
	}
	if len(head) == 0 {
		return code
	}
	return strings.Join(head, "\n\n") + "\n\n" + code
}
