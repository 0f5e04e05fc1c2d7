// Package javascript generates JavaScript (ES5 syntax) from block workspaces.
//
// Variables assigned or read anywhere in the program are declared once at
// the top with a single var statement.
package javascript

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
// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_precedence
const (
	OrderAtomic                         = generator.OrderAtomic
	OrderMember         generator.Order = 1  // . []
	OrderFunctionCall   generator.Order = 2  // ()
	OrderUnaryNegation  generator.Order = 4  // -
	OrderMultiplication generator.Order = 5  // * / %
	OrderAddition       generator.Order = 6  // + -
	OrderRelational     generator.Order = 8  // < <= > >=
	OrderEquality       generator.Order = 9  // == != === !==
	OrderLogicalAnd     generator.Order = 13 // &&
	OrderLogicalOr      generator.Order = 14 // ||
	OrderAssignment     generator.Order = 16 // =
	OrderNone                           = generator.OrderNone
)

// Language is the JavaScript binding.
var Language = &generator.Language{
	Name:          "javascript",
	ReservedWords: reservedWords,
	Indent:        "  ",
	CommentPrefix: "// ",
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
	Finish:          finish,
	ScrubNakedValue: func(code string) string { return code + ";\n" },
}

var reservedWords = []string{
	"break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "export", "extends", "finally", "for",
	"function", "if", "import", "in", "instanceof", "new", "return", "super",
	"switch", "this", "throw", "try", "typeof", "var", "void", "while", "with",
	"yield", "let", "static", "enum", "await", "implements", "package",
	"protected", "interface", "private", "public", "null", "true", "false",
	"undefined", "NaN", "Infinity", "arguments", "console", "Math", "window",
	"document", "eval",
}

var quoter = strings.NewReplacer(`\`, `\\`, "\n", `\n`, `'`, `\'`)

// Quote returns s as a single-quoted JavaScript string literal.
func Quote(s string) string {
	return "'" + quoter.Replace(s) + "'"
}

func finish(p *generator.Pass, code string) string {
	if vars := p.Names().Assigned(names.CategoryVariable); len(vars) > 0 {
		p.Define("variables", "var "+strings.Join(vars, ", ")+";")
	}
	return generator.DefaultFinish(p, code)
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
		return generator.Expr{Code: raw, Order: OrderUnaryNegation}, nil
	}
	return generator.Expr{Code: raw, Order: OrderAtomic}, nil
}

// arithmeticOps lists each operator with the weakest level accepted on its
// right side; - and / wrap an equal-level right operand.
var arithmeticOps = map[string]struct {
	op     string
	order  generator.Order
	orderB generator.Order
}{
	"ADD":      {" + ", OrderAddition, OrderAddition},
	"MINUS":    {" - ", OrderAddition, OrderAddition - 1},
	"MULTIPLY": {" * ", OrderMultiplication, OrderMultiplication},
	"DIVIDE":   {" / ", OrderMultiplication, OrderMultiplication - 1},
}

func arithmetic(p *generator.Pass, b *block.Block) (generator.Result, error) {
	if b.Field("OP") == "POWER" {
		base, exp, err := operands(p, b, OrderNone)
		if err != nil {
			return nil, err
		}
		return generator.Expr{Code: "Math.pow(" + base + ", " + exp + ")", Order: OrderFunctionCall}, nil
	}
	op, ok := arithmeticOps[b.Field("OP")]
	if !ok {
		return nil, unknownOp(b)
	}
	left, right, err := operandsAt(p, b, op.order, op.orderB)
	if err != nil {
		return nil, err
	}
	return generator.Expr{Code: left + op.op + right, Order: op.order}, nil
}

var compareOps = map[string]struct {
	op    string
	order generator.Order
}{
	"EQ":  {"==", OrderEquality},
	"NEQ": {"!=", OrderEquality},
	"LT":  {"<", OrderRelational},
	"LTE": {"<=", OrderRelational},
	"GT":  {">", OrderRelational},
	"GTE": {">=", OrderRelational},
}

func compare(p *generator.Pass, b *block.Block) (generator.Result, error) {
	op, ok := compareOps[b.Field("OP")]
	if !ok {
		return nil, unknownOp(b)
	}
	left, right, err := operands(p, b, op.order)
	if err != nil {
		return nil, err
	}
	return generator.Expr{Code: left + " " + op.op + " " + right, Order: op.order}, nil
}

func boolean(_ *generator.Pass, b *block.Block) (generator.Result, error) {
	if b.Field("BOOL") == "TRUE" {
		return generator.Expr{Code: "true", Order: OrderAtomic}, nil
	}
	return generator.Expr{Code: "false", Order: OrderAtomic}, nil
}

func maxOf(p *generator.Pass, b *block.Block) (generator.Result, error) {
	name, err := p.ProvideFunction("mathMax", []string{
		"function " + generator.FunctionNamePlaceholder + "(a, b) {",
		"  return a > b ? a : b;",
		"}",
	})
	if err != nil {
		return nil, err
	}
	left, right, err := operands(p, b, OrderNone)
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
	return generator.Statement("console.log(" + msg + ");\n"), nil
}

func variableGet(p *generator.Pass, b *block.Block) (generator.Result, error) {
	return generator.Expr{Code: p.VariableName(b.Field("VAR")), Order: OrderAtomic}, nil
}

func variableSet(p *generator.Pass, b *block.Block) (generator.Result, error) {
	value, err := p.ValueToCode(b, "VALUE", OrderAssignment)
	if err != nil {
		return nil, err
	}
	if value == "" {
		value = "0"
	}
	return generator.Statement(p.VariableName(b.Field("VAR")) + " = " + value + ";\n"), nil
}

func ifElse(p *generator.Pass, b *block.Block) (generator.Result, error) {
	var sb strings.Builder
	for n := 0; b.Input(fmt.Sprintf("IF%d", n)) != nil; n++ {
		cond, err := p.ValueToCode(b, fmt.Sprintf("IF%d", n), OrderNone)
		if err != nil {
			return nil, err
		}
		if cond == "" {
			cond = "false"
		}
		body, err := p.StatementToCode(b, fmt.Sprintf("DO%d", n))
		if err != nil {
			return nil, err
		}
		if n > 0 {
			sb.WriteString(" else ")
		}
		sb.WriteString("if (" + cond + ") {\n" + body + "}")
	}
	if sb.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidWorkspace, "block %q: controls_if has no IF0 input", b.ID)
	}
	if b.Input("ELSE") != nil {
		body, err := p.StatementToCode(b, "ELSE")
		if err != nil {
			return nil, err
		}
		sb.WriteString(" else {\n" + body + "}")
	}
	sb.WriteString("\n")
	return generator.Statement(sb.String()), nil
}

func repeat(p *generator.Pass, b *block.Block) (generator.Result, error) {
	times := strings.TrimSpace(b.Field("TIMES"))
	if b.Input("TIMES") != nil {
		v, err := p.ValueToCode(b, "TIMES", OrderRelational)
		if err != nil {
			return nil, err
		}
		times = v
	} else if times != "" {
		if _, err := parseNumber(b, times); err != nil {
			return nil, err
		}
	}
	if times == "" {
		times = "0"
	}
	body, err := p.StatementToCode(b, "DO")
	if err != nil {
		return nil, err
	}
	i := p.Names().GetDistinctName("count", names.CategoryVariable)
	return generator.Statement(fmt.Sprintf("for (var %[1]s = 0; %[1]s < %[2]s; %[1]s++) {\n%[3]s}\n", i, times, body)), nil
}

func commentOut(_ *generator.Pass, b *block.Block) (generator.Result, error) {
	notes := generator.AllNestedComments(b.InputTarget("DO"))
	if notes == "" {
		return generator.Statement(""), nil
	}
	return generator.Statement(generator.PrefixLines(notes, "// ")), nil
}

func operands(p *generator.Pass, b *block.Block, order generator.Order) (string, string, error) {
	return operandsAt(p, b, order, order)
}

func operandsAt(p *generator.Pass, b *block.Block, orderA, orderB generator.Order) (string, string, error) {
	left, err := p.ValueToCode(b, "A", orderA)
	if err != nil {
		return "", "", err
	}
	right, err := p.ValueToCode(b, "B", orderB)
	if err != nil {
		return "", "", err
	}
	if left == "" {
		left = "0"
	}
	if right == "" {
		right = "0"
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
