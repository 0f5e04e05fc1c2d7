package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/blockgen/pkg/block"
	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/names"
)

const (
	orderCall Order = 2
	orderMul  Order = 3
	orderAdd  Order = 4
)

func binary(op string, order Order) Rule {
	return func(p *Pass, b *block.Block) (Result, error) {
		left, err := p.ValueToCode(b, "A", order)
		if err != nil {
			return nil, err
		}
		right, err := p.ValueToCode(b, "B", order)
		if err != nil {
			return nil, err
		}
		return Expr{Code: left + " " + op + " " + right, Order: order}, nil
	}
}

func testLanguage() *Language {
	return &Language{
		Name:          "test",
		ReservedWords: []string{"print", "if"},
		CommentPrefix: "# ",
		Rules: map[string]Rule{
			"print": func(p *Pass, b *block.Block) (Result, error) {
				if b.Input("VALUE") == nil {
					return Statement("print('" + b.Field("TEXT") + "')\n"), nil
				}
				v, err := p.ValueToCode(b, "VALUE", OrderNone)
				if err != nil {
					return nil, err
				}
				return Statement("print(" + v + ")\n"), nil
			},
			"var": func(p *Pass, b *block.Block) (Result, error) {
				return Expr{Code: p.VariableName(b.Field("NAME")), Order: OrderAtomic}, nil
			},
			"add": binary("+", orderAdd),
			"mul": binary("*", orderMul),
			"if": func(p *Pass, b *block.Block) (Result, error) {
				cond, err := p.ValueToCode(b, "COND", OrderNone)
				if err != nil {
					return nil, err
				}
				body, err := p.StatementToCode(b, "DO")
				if err != nil {
					return nil, err
				}
				return Statement("if " + cond + ":\n" + body), nil
			},
			"max": func(p *Pass, b *block.Block) (Result, error) {
				name, err := p.ProvideFunction("max", []string{
					"def " + FunctionNamePlaceholder + "(a, b):",
					"  return a if a > b else b",
				})
				if err != nil {
					return nil, err
				}
				a, err := p.ValueToCode(b, "A", OrderNone)
				if err != nil {
					return nil, err
				}
				c, err := p.ValueToCode(b, "B", OrderNone)
				if err != nil {
					return nil, err
				}
				return Expr{Code: name + "(" + a + ", " + c + ")", Order: orderCall}, nil
			},
		},
	}
}

func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	g, err := New(testLanguage(), opts...)
	require.NoError(t, err)
	return g
}

func printText(text string) *block.Block {
	return block.New("print").WithField("TEXT", text)
}

func variable(name string) *block.Block {
	return block.NewValue("var").WithField("NAME", name)
}

func op(typ string, a, b *block.Block) *block.Block {
	blk := block.NewValue(typ)
	if err := blk.SetValue("A", a); err != nil {
		panic(err)
	}
	if err := blk.SetValue("B", b); err != nil {
		panic(err)
	}
	return blk
}

func printValue(t *testing.T, v *block.Block) *block.Block {
	t.Helper()
	p := block.New("print")
	require.NoError(t, p.SetValue("VALUE", v))
	return p
}

func workspace(t *testing.T, blocks ...*block.Block) *block.Workspace {
	t.Helper()
	ws := block.NewWorkspace()
	require.NoError(t, ws.Add(blocks...))
	return ws
}

func generate(t *testing.T, g *Generator, blocks ...*block.Block) string {
	t.Helper()
	code, err := g.WorkspaceToCode(context.Background(), workspace(t, blocks...))
	require.NoError(t, err)
	return code
}

func TestNewRejectsInvalidLanguage(t *testing.T) {
	_, err := New(nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidLanguage))

	_, err = New(&Language{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidLanguage))

	_, err = New(&Language{Name: "x", Rules: map[string]Rule{"a": nil}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidLanguage))
}

func TestWorkspaceToCodeSkipsDisabledBlock(t *testing.T) {
	hello, skip, world := printText("hello"), printText("skip"), printText("world")
	skip.Disabled = true
	require.NoError(t, hello.SetNext(skip))
	require.NoError(t, skip.SetNext(world))

	code := generate(t, newTestGenerator(t), hello, skip, world)
	assert.Equal(t, "print('hello')\nprint('world')\n", code)
}

func TestWorkspaceToCodeDisabledHeadOfChain(t *testing.T) {
	skip, world := printText("skip"), printText("world")
	skip.Disabled = true
	require.NoError(t, skip.SetNext(world))

	code := generate(t, newTestGenerator(t), skip)
	assert.Equal(t, "print('world')\n", code)
}

func TestWorkspaceToCodeJoinsTopBlocks(t *testing.T) {
	empty := printText("gone")
	empty.Disabled = true

	code := generate(t, newTestGenerator(t), printText("a"), empty, printText("b"))
	assert.Equal(t, "print('a')\n\nprint('b')\n", code)
}

func TestWorkspaceToCodeEmpty(t *testing.T) {
	g := newTestGenerator(t)

	code, err := g.WorkspaceToCode(context.Background(), block.NewWorkspace())
	require.NoError(t, err)
	assert.Equal(t, "", code)

	code, err = g.WorkspaceToCode(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", code)
}

func TestWorkspaceToCodeIsDeterministic(t *testing.T) {
	g := newTestGenerator(t)
	build := func() []*block.Block {
		loop := block.New("if")
		require.NoError(t, loop.SetValue("COND", variable("ready")))
		require.NoError(t, loop.SetStatement("DO", printValue(t, op("max", variable("a"), variable("b")))))
		return []*block.Block{loop, printValue(t, variable("print"))}
	}
	first := generate(t, g, build()...)
	second := generate(t, g, build()...)
	assert.Equal(t, first, second)
}

func TestValueToCodeParenthesizesWeakerOperand(t *testing.T) {
	sum := op("add", variable("a"), variable("b"))
	product := op("mul", variable("x"), sum)

	g := newTestGenerator(t)
	p := newPass(g, names.New())

	got, err := p.ValueToCode(product, "B", orderMul)
	require.NoError(t, err)
	assert.Equal(t, "(a + b)", got)

	code := generate(t, g, printValue(t, product))
	assert.Equal(t, "print(x * (a + b))\n", code)
}

func TestValueToCodeKeepsTighterOperand(t *testing.T) {
	product := op("mul", variable("x"), variable("y"))
	sum := op("add", product, variable("z"))

	code := generate(t, newTestGenerator(t), printValue(t, sum))
	assert.Equal(t, "print(x * y + z)\n", code)
}

func TestValueToCodeEqualOrderNeverWraps(t *testing.T) {
	// ((a + b) + c) + d nested as left operands
	expr := variable("a")
	for _, name := range []string{"b", "c", "d"} {
		expr = op("add", expr, variable(name))
	}
	code := generate(t, newTestGenerator(t), printValue(t, expr))
	assert.Equal(t, "print(a + b + c + d)\n", code)
}

func TestNeedsParens(t *testing.T) {
	tests := []struct {
		inner, outer Order
		want         bool
	}{
		{orderAdd, orderMul, true},
		{orderMul, orderAdd, false},
		{orderAdd, orderAdd, false},
		{OrderAtomic, orderMul, false},
		{OrderNone, orderMul, false},
		{orderAdd, OrderNone, false},
		{orderAdd, OrderAtomic, false},
		{OrderNone, OrderAtomic, false},
		{98, 97, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, needsParens(tt.inner, tt.outer), "inner=%d outer=%d", tt.inner, tt.outer)
	}
}

func TestValueToCodeEmptyInputs(t *testing.T) {
	g := newTestGenerator(t)
	p := newPass(g, names.New())

	lonely := block.NewValue("add")
	got, err := p.ValueToCode(lonely, "A", orderAdd)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	disabled := variable("x")
	disabled.Disabled = true
	holder := op("add", disabled, variable("y"))
	got, err = p.ValueToCode(holder, "A", orderAdd)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestNilBlockYieldsNoCode(t *testing.T) {
	p := newPass(newTestGenerator(t), names.New())

	got, err := p.ValueToCode(nil, "A", orderAdd)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = p.StatementToCode(nil, "DO")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestValueToCodeRejectsStatement(t *testing.T) {
	code, err := newTestGenerator(t).WorkspaceToCode(context.Background(),
		workspace(t, printValue(t, printText("inner"))))
	assert.Empty(t, code)
	assert.True(t, errors.Is(err, errors.ErrCodeMalformedValue), "got %v", err)
}

func TestValueToCodeRejectsInvalidMaxOrder(t *testing.T) {
	p := newPass(newTestGenerator(t), names.New())
	holder := op("add", variable("a"), variable("b"))

	for _, order := range []Order{-1, OrderNone + 1} {
		_, err := p.ValueToCode(holder, "A", order)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidOrder), "order %d: %v", order, err)
	}
}

func TestBlockToCodeRejectsInvalidRuleOrder(t *testing.T) {
	g := newTestGenerator(t)
	require.NoError(t, g.Register("bad", func(*Pass, *block.Block) (Result, error) {
		return Expr{Code: "x", Order: 100}, nil
	}))

	_, err := g.WorkspaceToCode(context.Background(), workspace(t, printValue(t, block.NewValue("bad"))))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidOrder), "got %v", err)
}

func TestBlockToCodeRejectsNilResult(t *testing.T) {
	g := newTestGenerator(t)
	require.NoError(t, g.Register("nothing", func(*Pass, *block.Block) (Result, error) {
		return nil, nil
	}))

	_, err := g.WorkspaceToCode(context.Background(), workspace(t, block.New("nothing")))
	assert.True(t, errors.Is(err, errors.ErrCodeMalformedResult), "got %v", err)
}

func TestUnsupportedBlockType(t *testing.T) {
	_, err := newTestGenerator(t).WorkspaceToCode(context.Background(),
		workspace(t, printText("ok"), block.New("teleport")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedBlock))
	assert.Contains(t, err.Error(), `"test"`)
	assert.Contains(t, err.Error(), `"teleport"`)
}

func TestStatementToCodeIndents(t *testing.T) {
	first, second := printText("a"), printText("b")
	require.NoError(t, first.SetNext(second))
	cond := block.New("if")
	require.NoError(t, cond.SetValue("COND", variable("x")))
	require.NoError(t, cond.SetStatement("DO", first))

	code := generate(t, newTestGenerator(t), cond)
	assert.Equal(t, "if x:\n  print('a')\n  print('b')\n", code)
}

func TestStatementToCodeNested(t *testing.T) {
	inner := block.New("if")
	require.NoError(t, inner.SetValue("COND", variable("y")))
	require.NoError(t, inner.SetStatement("DO", printText("deep")))
	outer := block.New("if")
	require.NoError(t, outer.SetValue("COND", variable("x")))
	require.NoError(t, outer.SetStatement("DO", inner))

	code := generate(t, newTestGenerator(t), outer)
	assert.Equal(t, "if x:\n  if y:\n    print('deep')\n", code)
}

func TestStatementToCodeRejectsExpr(t *testing.T) {
	cond := block.New("if")
	require.NoError(t, cond.SetStatement("DO", variable("x")))

	_, err := newTestGenerator(t).WorkspaceToCode(context.Background(), workspace(t, cond))
	assert.True(t, errors.Is(err, errors.ErrCodeMalformedStatement), "got %v", err)
}

func TestStatementToCodeEmpty(t *testing.T) {
	p := newPass(newTestGenerator(t), names.New())
	got, err := p.StatementToCode(block.New("if"), "DO")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestScrubNakedValue(t *testing.T) {
	lang := testLanguage()
	lang.ScrubNakedValue = func(code string) string { return code + ";\n" }
	g, err := New(lang)
	require.NoError(t, err)

	code := generate(t, g, op("add", variable("a"), variable("b")))
	assert.Equal(t, "a + b;\n", code)
}

func TestNakedValueWithoutScrub(t *testing.T) {
	code := generate(t, newTestGenerator(t), variable("a"))
	assert.Equal(t, "a\n", code)
}

func TestDefaultScrubComments(t *testing.T) {
	inner := variable("x")
	inner.Comment = "the value"
	stmt := printValue(t, inner)
	stmt.Comment = "say it\ntwice"

	code := generate(t, newTestGenerator(t), stmt)
	assert.Equal(t, "# say it\n# twice\n# the value\nprint(x)\n", code)
}

func TestDefaultScrubSkipsPluggedValueComments(t *testing.T) {
	inner := variable("x")
	inner.Comment = "once"
	sum := op("add", inner, variable("y"))
	sum.Comment = "sum"

	// Comments of plugged value blocks are emitted once, by the statement.
	code := generate(t, newTestGenerator(t), printValue(t, sum))
	assert.Equal(t, "# sum\n# once\nprint(x + y)\n", code)
}

func TestAllNestedComments(t *testing.T) {
	assert.Equal(t, "", AllNestedComments(nil))
	assert.Equal(t, "", AllNestedComments(variable("x")))

	a, b := variable("a"), variable("b")
	a.Comment = "first"
	b.Comment = "second"
	sum := op("add", a, b)
	sum.Comment = "top"
	assert.Equal(t, "top\nfirst\nsecond\n", AllNestedComments(sum))
}

func TestProvideFunctionMemoizes(t *testing.T) {
	first := printValue(t, op("max", variable("a"), variable("b")))
	second := printValue(t, op("max", variable("c"), variable("d")))
	require.NoError(t, first.SetNext(second))

	out, err := newTestGenerator(t).Generate(context.Background(), workspace(t, first))
	require.NoError(t, err)
	require.Len(t, out.Functions, 1)
	assert.Equal(t, "max", out.Functions[0].ActualName)
	assert.Equal(t,
		"def max(a, b):\n  return a if a > b else b\n\nprint(max(a, b))\nprint(max(c, d))\n",
		out.Code)
	assert.NotContains(t, out.Code, FunctionNamePlaceholder)
}

func TestProvideFunctionAvoidsVariables(t *testing.T) {
	// A user variable named "max" claims the identifier first.
	first := printValue(t, variable("max"))
	second := printValue(t, op("max", variable("a"), variable("b")))
	require.NoError(t, first.SetNext(second))

	code := generate(t, newTestGenerator(t), first)
	assert.True(t, strings.HasPrefix(code, "def max2(a, b):\n"), code)
	assert.Contains(t, code, "print(max)\nprint(max2(a, b))\n")
}

func TestFunctionRegistry(t *testing.T) {
	r := NewFunctionRegistry(names.New("reserved"))

	name, err := r.Provide("reserved", []string{"fn " + FunctionNamePlaceholder + "() {", "  " + FunctionNamePlaceholder + "()", "}"})
	require.NoError(t, err)
	assert.Equal(t, "reserved2", name)

	again, err := r.Provide("reserved", []string{"ignored"})
	require.NoError(t, err)
	assert.Equal(t, name, again)
	assert.Equal(t, 1, r.Len())

	def, ok := r.Lookup("reserved")
	require.True(t, ok)
	assert.Equal(t, "fn reserved2() {\n  reserved2()\n}", def.Code)

	_, err = r.Provide("", nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	r.Reset()
	assert.Equal(t, 0, r.Len())
	_, ok = r.Lookup("reserved")
	assert.False(t, ok)
}

func TestFinishEmitsDefinitionsFirst(t *testing.T) {
	lang := testLanguage()
	lang.Init = func(p *Pass) error {
		p.Define("import_math", "import math")
		p.Define("import_sys", "import sys")
		p.Define("import_math", "import math as m")
		return nil
	}
	g, err := New(lang)
	require.NoError(t, err)

	code := generate(t, g, printValue(t, op("max", variable("a"), variable("b"))))
	assert.Equal(t,
		"import math\nimport sys\n\ndef max(a, b):\n  return a if a > b else b\n\nprint(max(a, b))\n",
		code)
}

func TestInitErrorAbortsPass(t *testing.T) {
	lang := testLanguage()
	lang.Init = func(*Pass) error { return errors.New(errors.ErrCodeInternal, "boom") }
	g, err := New(lang)
	require.NoError(t, err)

	_, err = g.WorkspaceToCode(context.Background(), workspace(t, printText("x")))
	assert.True(t, errors.Is(err, errors.ErrCodeInternal))
}

func TestReservedWordsAreAvoided(t *testing.T) {
	g := newTestGenerator(t)
	g.AddReservedWords("len, str,,len")
	assert.Equal(t, []string{"print", "if", "len", "str"}, g.ReservedWords())

	code := generate(t, g, printValue(t, op("add", variable("len"), variable("if"))))
	assert.Equal(t, "print(len2 + if2)\n", code)
}

func TestNamesResetBetweenPasses(t *testing.T) {
	g := newTestGenerator(t)
	// Within a pass "A" and "a" collide case-insensitively.
	assert.Equal(t, "print(a + a)\n", generate(t, g, printValue(t, op("add", variable("a"), variable("A")))))
	assert.Equal(t, "print(b)\n", generate(t, g, printValue(t, variable("b"))))
}

func TestStableNamesAcrossPasses(t *testing.T) {
	db := names.New()
	g := newTestGenerator(t, WithNameDB(db))

	first := generate(t, g, printValue(t, op("max", variable("max"), variable("b"))))
	second := generate(t, g, printValue(t, op("max", variable("max"), variable("b"))))
	assert.Equal(t, first, second)
	assert.True(t, db.IsReserved("print"), "language reserved words seed the shared database")
}

func TestWithStableNames(t *testing.T) {
	g := newTestGenerator(t, WithStableNames())
	g.AddReservedWords("x")
	assert.Equal(t, "print(x2)\n", generate(t, g, printValue(t, variable("x"))))
	assert.Equal(t, "print(x2)\n", generate(t, g, printValue(t, variable("x"))))
}

func TestRegisterIsPerGenerator(t *testing.T) {
	lang := testLanguage()
	a, err := New(lang)
	require.NoError(t, err)
	b, err := New(lang)
	require.NoError(t, err)

	require.NoError(t, a.Register("noop", func(*Pass, *block.Block) (Result, error) {
		return Statement("pass\n"), nil
	}))
	assert.Equal(t, "pass\n", generate(t, a, block.New("noop")))

	_, err = b.WorkspaceToCode(context.Background(), workspace(t, block.New("noop")))
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedBlock))
	_, ok := lang.Rules["noop"]
	assert.False(t, ok)

	assert.Error(t, a.Register("bad type", func(*Pass, *block.Block) (Result, error) { return Statement(""), nil }))
	assert.Error(t, a.Register("nilrule", nil))
}

func TestPassInProgress(t *testing.T) {
	g := newTestGenerator(t)
	var nested error
	require.NoError(t, g.Register("reenter", func(*Pass, *block.Block) (Result, error) {
		_, nested = g.WorkspaceToCode(context.Background(), block.NewWorkspace())
		return Statement("done\n"), nil
	}))

	assert.Equal(t, "done\n", generate(t, g, block.New("reenter")))
	assert.True(t, errors.Is(nested, errors.ErrCodePassInProgress), "got %v", nested)

	// The flag is released after the pass.
	assert.Equal(t, "print('again')\n", generate(t, g, printText("again")))
}

func TestWorkspaceToCodeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGenerator(t).WorkspaceToCode(ctx, workspace(t, printText("x")))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorkspaceToCodeNormalizesWhitespace(t *testing.T) {
	g := newTestGenerator(t)
	require.NoError(t, g.Register("messy", func(*Pass, *block.Block) (Result, error) {
		return Statement("\n\n  x = 1   \ny = 2\t\n\n\n"), nil
	}))

	code := generate(t, g, block.New("messy"))
	assert.Equal(t, "  x = 1\ny = 2\n", code)
}

func TestGenerateReportsTopBlocks(t *testing.T) {
	out, err := newTestGenerator(t).Generate(context.Background(), workspace(t, printText("a"), printText("b")))
	require.NoError(t, err)
	assert.Equal(t, 2, out.TopBlocks)
	assert.Empty(t, out.Functions)
}
