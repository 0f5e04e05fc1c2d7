package python

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/blockgen/pkg/block"
	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/generator"
)

func num(n string) *block.Block {
	return block.NewValue("math_number").WithField("NUM", n)
}

func str(s string) *block.Block {
	return block.NewValue("text").WithField("TEXT", s)
}

func variable(name string) *block.Block {
	return block.NewValue("variables_get").WithField("VAR", name)
}

func binary(t *testing.T, typ, op string, a, b *block.Block) *block.Block {
	t.Helper()
	blk := block.NewValue(typ).WithField("OP", op)
	require.NoError(t, blk.SetValue("A", a))
	require.NoError(t, blk.SetValue("B", b))
	return blk
}

func printOf(t *testing.T, v *block.Block) *block.Block {
	t.Helper()
	p := block.New("text_print")
	require.NoError(t, p.SetValue("TEXT", v))
	return p
}

func chain(t *testing.T, blocks ...*block.Block) *block.Block {
	t.Helper()
	for i := 1; i < len(blocks); i++ {
		require.NoError(t, blocks[i-1].SetNext(blocks[i]))
	}
	return blocks[0]
}

func generate(t *testing.T, blocks ...*block.Block) (string, error) {
	t.Helper()
	g, err := generator.New(Language)
	require.NoError(t, err)
	ws := block.NewWorkspace()
	require.NoError(t, ws.Add(blocks...))
	return g.WorkspaceToCode(context.Background(), ws)
}

func mustGenerate(t *testing.T, blocks ...*block.Block) string {
	t.Helper()
	code, err := generate(t, blocks...)
	require.NoError(t, err)
	return code
}

func TestLanguageDefinition(t *testing.T) {
	require.NotNil(t, Language)
	assert.Equal(t, "python", Language.Name)
	assert.NoError(t, Language.Validate())
	assert.Contains(t, Language.BlockTypes(), "text_print")
	assert.Len(t, Language.BlockTypes(), 12)
}

func TestPrintText(t *testing.T) {
	assert.Equal(t, "print('hello')\n", mustGenerate(t, printOf(t, str("hello"))))
	assert.Equal(t, "print('')\n", mustGenerate(t, block.New("text_print")))
}

func TestArithmeticPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		build func() *block.Block
		want  string
	}{
		{
			name: "sum inside product",
			build: func() *block.Block {
				return binary(t, "math_arithmetic", "MULTIPLY", binary(t, "math_arithmetic", "ADD", num("1"), num("2")), num("3"))
			},
			want: "print((1 + 2) * 3)\n",
		},
		{
			name: "product inside sum",
			build: func() *block.Block {
				return binary(t, "math_arithmetic", "ADD", binary(t, "math_arithmetic", "MULTIPLY", num("1"), num("2")), num("3"))
			},
			want: "print(1 * 2 + 3)\n",
		},
		{
			name: "negative base",
			build: func() *block.Block {
				return binary(t, "math_arithmetic", "POWER", num("-2"), num("2"))
			},
			want: "print((-2) ** 2)\n",
		},
		{
			name: "missing operand",
			build: func() *block.Block {
				return binary(t, "math_arithmetic", "MINUS", num("5"), nil)
			},
			want: "print(5 - 0)\n",
		},
		{
			name: "comparison of sums",
			build: func() *block.Block {
				return binary(t, "logic_compare", "LTE", binary(t, "math_arithmetic", "ADD", variable("a"), num("1")), variable("b"))
			},
			want: "print(a + 1 <= b)\n",
		},
		{
			name: "nested subtrahend",
			build: func() *block.Block {
				return binary(t, "math_arithmetic", "MINUS", num("10"), binary(t, "math_arithmetic", "MINUS", num("4"), num("3")))
			},
			want: "print(10 - (4 - 3))\n",
		},
		{
			name: "left associated subtraction",
			build: func() *block.Block {
				return binary(t, "math_arithmetic", "MINUS", binary(t, "math_arithmetic", "MINUS", num("10"), num("4")), num("3"))
			},
			want: "print(10 - 4 - 3)\n",
		},
		{
			name: "product as divisor",
			build: func() *block.Block {
				return binary(t, "math_arithmetic", "DIVIDE", num("8"), binary(t, "math_arithmetic", "MULTIPLY", num("2"), num("2")))
			},
			want: "print(8 / (2 * 2))\n",
		},
		{
			name: "power as base",
			build: func() *block.Block {
				return binary(t, "math_arithmetic", "POWER", binary(t, "math_arithmetic", "POWER", num("2"), num("3")), num("2"))
			},
			want: "print((2 ** 3) ** 2)\n",
		},
		{
			name: "power as exponent",
			build: func() *block.Block {
				return binary(t, "math_arithmetic", "POWER", num("2"), binary(t, "math_arithmetic", "POWER", num("3"), num("2")))
			},
			want: "print(2 ** 3 ** 2)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustGenerate(t, printOf(t, tt.build())))
		})
	}
}

func TestVariables(t *testing.T) {
	set := block.New("variables_set").WithField("VAR", "x")
	require.NoError(t, set.SetValue("VALUE", num("5")))
	reserved := block.New("variables_set").WithField("VAR", "print")

	code := mustGenerate(t, chain(t, set, printOf(t, variable("X")), reserved))
	assert.Equal(t, "x = 5\nprint(x)\nprint2 = 0\n", code)
}

func TestIfElifElse(t *testing.T) {
	cond := block.New("controls_if")
	require.NoError(t, cond.SetValue("IF0", binary(t, "logic_compare", "GT", variable("x"), num("1"))))
	require.NoError(t, cond.SetStatement("DO0", printOf(t, str("big"))))
	require.NoError(t, cond.SetValue("IF1", block.NewValue("logic_boolean").WithField("BOOL", "TRUE")))
	require.NoError(t, cond.AddInput("DO1", block.InputStatement))
	require.NoError(t, cond.SetStatement("ELSE", printOf(t, str("small"))))

	assert.Equal(t,
		"if x > 1:\n  print('big')\nelif True:\n  pass\nelse:\n  print('small')\n",
		mustGenerate(t, cond))
}

func TestIfWithoutCondition(t *testing.T) {
	_, err := generate(t, block.New("controls_if"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidWorkspace))
}

func TestRepeat(t *testing.T) {
	loop := block.New("controls_repeat").WithField("TIMES", "3")
	require.NoError(t, loop.SetStatement("DO", printOf(t, str("hi"))))
	assert.Equal(t, "for count in range(3):\n  print('hi')\n", mustGenerate(t, loop))

	dynamic := block.New("controls_repeat")
	require.NoError(t, dynamic.SetValue("TIMES", variable("n")))
	assert.Equal(t, "for count in range(int(n)):\n  pass\n", mustGenerate(t, dynamic))
}

func TestMathMaxHelperEmittedOnce(t *testing.T) {
	code := mustGenerate(t, chain(t,
		printOf(t, binary(t, "math_max", "", num("1"), num("2"))),
		printOf(t, binary(t, "math_max", "", num("3"), num("4"))),
	))
	assert.Equal(t,
		"def math_max(a, b):\n  return a if a > b else b\n\nprint(math_max(1, 2))\nprint(math_max(3, 4))\n",
		code)
}

func TestCommentOut(t *testing.T) {
	first, second := printOf(t, str("a")), printOf(t, str("b"))
	first.Comment = "note one"
	second.Comment = "note two"
	wrapper := block.New("comment_out")
	require.NoError(t, wrapper.SetStatement("DO", chain(t, first, second)))

	assert.Equal(t, "# note one\n# note two\n", mustGenerate(t, wrapper))
}

func TestBlockComment(t *testing.T) {
	p := printOf(t, str("x"))
	p.Comment = "greet"
	assert.Equal(t, "# greet\nprint('x')\n", mustGenerate(t, p))
}

func TestNakedValue(t *testing.T) {
	assert.Equal(t, "42\n", mustGenerate(t, num("42")))
}

func TestInvalidFields(t *testing.T) {
	_, err := generate(t, printOf(t, num("twelve")))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidWorkspace))

	_, err = generate(t, printOf(t, binary(t, "math_arithmetic", "MODULO", num("1"), num("2"))))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidWorkspace))
}

func TestNonFiniteNumbers(t *testing.T) {
	for _, raw := range []string{"nan", "NaN", "inf", "-Infinity", "1e400"} {
		t.Run(raw, func(t *testing.T) {
			_, err := generate(t, printOf(t, num(raw)))
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidWorkspace))

			_, err = generate(t, block.New("controls_repeat").WithField("TIMES", raw))
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidWorkspace))
		})
	}

	_, err := generate(t, block.New("controls_repeat").WithField("TIMES", "3e9"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidWorkspace))
}

func TestStableLoopCounters(t *testing.T) {
	g, err := generator.New(Language, generator.WithStableNames())
	require.NoError(t, err)
	ws := block.NewWorkspace()
	require.NoError(t, ws.Add(block.New("controls_repeat").WithField("TIMES", "2")))

	for pass := 0; pass < 3; pass++ {
		code, err := g.WorkspaceToCode(context.Background(), ws)
		require.NoError(t, err)
		assert.Equal(t, "for count in range(2):\n  pass\n", code, "pass %d", pass)
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `'it\'s'`, Quote("it's"))
	assert.Equal(t, `'a\nb'`, Quote("a\nb"))
	assert.Equal(t, `'c:\\dir'`, Quote(`c:\dir`))
}
