// Package python generates Python 3 source from block workspaces.
//
// The binding covers literals, arithmetic, comparisons, variables, printing,
// conditionals and counted loops:
//
//	gen, _ := generator.New(python.Language)
//	code, _ := gen.WorkspaceToCode(ctx, ws)
package python

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/blockgen/pkg/block"
	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/generator"
	"github.com/matzehuels/blockgen/pkg/names"
)

// Operator precedence, tightest first.
// https://docs.python.org/3/reference/expressions.html#operator-precedence
const (
	OrderAtomic                         = generator.OrderAtomic
	OrderMember         generator.Order = 2 // . []
	OrderFunctionCall   generator.Order = 2 // ()
	OrderExponentiation generator.Order = 3 // **
	OrderUnarySign      generator.Order = 4 // + -
	OrderMultiplicative generator.Order = 5 // * / // %
	OrderAdditive       generator.Order = 6 // + -
	OrderRelational     generator.Order = 11
	OrderLogicalNot     generator.Order = 12
	OrderLogicalAnd     generator.Order = 13
	OrderLogicalOr      generator.Order = 14
	OrderNone                           = generator.OrderNone
)

// Language is the Python binding.
var Language = &generator.Language{
	Name:          "python",
	ReservedWords: reservedWords,
	Indent:        "  ",
	CommentPrefix: "# ",
	Rules: map[string]generator.Rule{
		"text":            text,
		"math_number":     number,
		"math_arithmetic": arithmetic,
		"math_max":        maxOf,
		"logic_boolean":   boolean,
		"logic_compare":   compare,
		"text_print":      textPrint,
		"variables_get":   variableGet,
		"variables_set":   variableSet,
		"controls_if":     ifElse,
		"controls_repeat": repeat,
		"comment_out":     commentOut,
	},
	ScrubNakedValue: func(code string) string { return code + "\n" },
}

var reservedWords = []string{
	"False", "None", "True", "and", "as", "assert", "async", "await", "break",
	"class", "continue", "def", "del", "elif", "else", "except", "finally",
	"for", "from", "global", "if", "import", "in", "is", "lambda", "nonlocal",
	"not", "or", "pass", "raise", "return", "try", "while", "with", "yield",
	"abs", "all", "any", "bool", "dict", "float", "input", "int", "len",
	"list", "max", "min", "print", "range", "round", "set", "str", "sum",
	"tuple", "type",
}

var quoter = strings.NewReplacer(`\`, `\\`, "\n", `\n`, `'`, `\'`)

// Quote returns s as a single-quoted Python string literal.
func Quote(s string) string {
	return "'" + quoter.Replace(s) + "'"
}

func text(_ *generator.Pass, b *block.Block) (generator.Result, error) {
	return generator.Expr{Code: Quote(b.Field("TEXT")), Order: OrderAtomic}, nil
}

func number(_ *generator.Pass, b *block.Block) (generator.Result, error) {
	raw := strings.TrimSpace(b.Field("NUM"))
	if raw == "" {
		return generator.Expr{Code: "0", Order: OrderAtomic}, nil
	}
	f, err := parseNumber(b, raw)
	if err != nil {
		return nil, err
	}
	if f < 0 {
		return generator.Expr{Code: raw, Order: OrderUnarySign}, nil
	}
	return generator.Expr{Code: raw, Order: OrderAtomic}, nil
}

// arithmeticOps lists each operator with the weakest level accepted on
// either side. A level one tighter than the operator's own forces
// parentheses around an equal-level operand: the right side of - and /,
// and the left side of the right-associative **.
var arithmeticOps = map[string]struct {
	op     string
	order  generator.Order
	orderA generator.Order
	orderB generator.Order
}{
	"ADD":      {" + ", OrderAdditive, OrderAdditive, OrderAdditive},
	"MINUS":    {" - ", OrderAdditive, OrderAdditive, OrderAdditive - 1},
	"MULTIPLY": {" * ", OrderMultiplicative, OrderMultiplicative, OrderMultiplicative},
	"DIVIDE":   {" / ", OrderMultiplicative, OrderMultiplicative, OrderMultiplicative - 1},
	"POWER":    {" ** ", OrderExponentiation, OrderExponentiation - 1, OrderExponentiation},
}

func arithmetic(p *generator.Pass, b *block.Block) (generator.Result, error) {
	op, ok := arithmeticOps[b.Field("OP")]
	if !ok {
		return nil, unknownOp(b)
	}
	left, right, err := operandsAt(p, b, op.orderA, op.orderB, "0")
	if err != nil {
		return nil, err
	}
	return generator.Expr{Code: left + op.op + right, Order: op.order}, nil
}

var compareOps = map[string]string{
	"EQ": "==", "NEQ": "!=", "LT": "<", "LTE": "<=", "GT": ">", "GTE": ">=",
}

func compare(p *generator.Pass, b *block.Block) (generator.Result, error) {
	op, ok := compareOps[b.Field("OP")]
	if !ok {
		return nil, unknownOp(b)
	}
	left, right, err := operands(p, b, OrderRelational, "0")
	if err != nil {
		return nil, err
	}
	return generator.Expr{Code: left + " " + op + " " + right, Order: OrderRelational}, nil
}

func boolean(_ *generator.Pass, b *block.Block) (generator.Result, error) {
	if b.Field("BOOL") == "TRUE" {
		return generator.Expr{Code: "True", Order: OrderAtomic}, nil
	}
	return generator.Expr{Code: "False", Order: OrderAtomic}, nil
}

func maxOf(p *generator.Pass, b *block.Block) (generator.Result, error) {
	name, err := p.ProvideFunction("math_max", []string{
		"def " + generator.FunctionNamePlaceholder + "(a, b):",
		"  return a if a > b else b",
	})
	if err != nil {
		return nil, err
	}
	left, right, err := operands(p, b, OrderNone, "0")
	if err != nil {
		return nil, err
	}
	return generator.Expr{Code: name + "(" + left + ", " + right + ")", Order: OrderFunctionCall}, nil
}

func textPrint(p *generator.Pass, b *block.Block) (generator.Result, error) {
	msg, err := p.ValueToCode(b, "TEXT", OrderNone)
	if err != nil {
		return nil, err
	}
	if msg == "" {
		msg = "''"
	}
	return generator.Statement("print(" + msg + ")\n"), nil
}

func variableGet(p *generator.Pass, b *block.Block) (generator.Result, error) {
	return generator.Expr{Code: p.VariableName(b.Field("VAR")), Order: OrderAtomic}, nil
}

func variableSet(p *generator.Pass, b *block.Block) (generator.Result, error) {
	value, err := p.ValueToCode(b, "VALUE", OrderNone)
	if err != nil {
		return nil, err
	}
	if value == "" {
		value = "0"
	}
	return generator.Statement(p.VariableName(b.Field("VAR")) + " = " + value + "\n"), nil
}

func ifElse(p *generator.Pass, b *block.Block) (generator.Result, error) {
	var sb strings.Builder
	for n := 0; b.Input(fmt.Sprintf("IF%d", n)) != nil; n++ {
		cond, err := p.ValueToCode(b, fmt.Sprintf("IF%d", n), OrderNone)
		if err != nil {
			return nil, err
		}
		if cond == "" {
			cond = "False"
		}
		body, err := branch(p, b, fmt.Sprintf("DO%d", n))
		if err != nil {
			return nil, err
		}
		keyword := "if "
		if n > 0 {
			keyword = "elif "
		}
		sb.WriteString(keyword + cond + ":\n" + body)
	}
	if sb.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidWorkspace, "block %q: controls_if has no IF0 input", b.ID)
	}
	if b.Input("ELSE") != nil {
		body, err := branch(p, b, "ELSE")
		if err != nil {
			return nil, err
		}
		sb.WriteString("else:\n" + body)
	}
	return generator.Statement(sb.String()), nil
}

func repeat(p *generator.Pass, b *block.Block) (generator.Result, error) {
	times := "0"
	if b.Input("TIMES") != nil {
		v, err := p.ValueToCode(b, "TIMES", OrderNone)
		if err != nil {
			return nil, err
		}
		f, perr := strconv.ParseFloat(v, 64)
		switch {
		case v == "":
		case perr == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && math.Abs(f) <= math.MaxInt32:
			times = strconv.Itoa(int(f))
		default:
			times = "int(" + v + ")"
		}
	} else if raw := strings.TrimSpace(b.Field("TIMES")); raw != "" {
		f, err := parseNumber(b, raw)
		if err != nil {
			return nil, err
		}
		if math.Abs(f) > math.MaxInt32 {
			return nil, errors.New(errors.ErrCodeInvalidWorkspace, "block %q: repeat count %q out of range", b.ID, raw)
		}
		times = strconv.Itoa(int(f))
	}
	body, err := branch(p, b, "DO")
	if err != nil {
		return nil, err
	}
	loopVar := p.Names().GetDistinctName("count", names.CategoryVariable)
	return generator.Statement("for " + loopVar + " in range(" + times + "):\n" + body), nil
}

func commentOut(_ *generator.Pass, b *block.Block) (generator.Result, error) {
	notes := generator.AllNestedComments(b.InputTarget("DO"))
	if notes == "" {
		return generator.Statement(""), nil
	}
	return generator.Statement(generator.PrefixLines(notes, "# ")), nil
}

// branch returns the indented body of a statement input, or pass.
func branch(p *generator.Pass, b *block.Block, input string) (string, error) {
	code, err := p.StatementToCode(b, input)
	if err != nil {
		return "", err
	}
	if code == "" {
		return p.Indent() + "pass\n", nil
	}
	return code, nil
}

func operands(p *generator.Pass, b *block.Block, order generator.Order, zero string) (string, string, error) {
	return operandsAt(p, b, order, order, zero)
}

func operandsAt(p *generator.Pass, b *block.Block, orderA, orderB generator.Order, zero string) (string, string, error) {
	left, err := p.ValueToCode(b, "A", orderA)
	if err != nil {
		return "", "", err
	}
	right, err := p.ValueToCode(b, "B", orderB)
	if err != nil {
		return "", "", err
	}
	if left == "" {
		left = zero
	}
	if right == "" {
		right = zero
	}
	return left, right, nil
}

// parseNumber parses a numeric field, rejecting NaN and infinities.
func parseNumber(b *block.Block, raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidWorkspace, err, "block %q: invalid number %q", b.ID, raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New(errors.ErrCodeInvalidWorkspace, "block %q: number %q is not finite", b.ID, raw)
	}
	return f, nil
}

func unknownOp(b *block.Block) error {
	return errors.New(errors.ErrCodeInvalidWorkspace, "block %q (%s): unknown operator %q", b.ID, b.Type, b.Field("OP"))
}
