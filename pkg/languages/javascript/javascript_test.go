package javascript

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

func mustGenerate(t *testing.T, blocks ...*block.Block) string {
	t.Helper()
	g, err := generator.New(Language)
	require.NoError(t, err)
	ws := block.NewWorkspace()
	require.NoError(t, ws.Add(blocks...))
	code, err := g.WorkspaceToCode(context.Background(), ws)
	require.NoError(t, err)
	return code
}

func TestLanguageDefinition(t *testing.T) {
	require.NotNil(t, Language)
	assert.Equal(t, "javascript", Language.Name)
	assert.NoError(t, Language.Validate())
	assert.Len(t, Language.BlockTypes(), 12)
}

func TestPrint(t *testing.T) {
	assert.Equal(t, "console.log('hello');\n", mustGenerate(t, printOf(t, str("hello"))))
}

func TestArithmetic(t *testing.T) {
	sum := binary(t, "math_arithmetic", "ADD", num("1"), num("2"))
	product := binary(t, "math_arithmetic", "MULTIPLY", sum, num("3"))
	assert.Equal(t, "console.log((1 + 2) * 3);\n", mustGenerate(t, printOf(t, product)))

	power := binary(t, "math_arithmetic", "POWER", num("2"), binary(t, "math_arithmetic", "ADD", num("1"), num("1")))
	assert.Equal(t, "console.log(Math.pow(2, 1 + 1));\n", mustGenerate(t, printOf(t, power)))

	diff := binary(t, "math_arithmetic", "MINUS", num("10"), binary(t, "math_arithmetic", "MINUS", num("4"), num("3")))
	assert.Equal(t, "console.log(10 - (4 - 3));\n", mustGenerate(t, printOf(t, diff)))

	leftDiff := binary(t, "math_arithmetic", "MINUS", binary(t, "math_arithmetic", "MINUS", num("10"), num("4")), num("3"))
	assert.Equal(t, "console.log(10 - 4 - 3);\n", mustGenerate(t, printOf(t, leftDiff)))

	quotient := binary(t, "math_arithmetic", "DIVIDE", num("8"), binary(t, "math_arithmetic", "MULTIPLY", num("2"), num("2")))
	assert.Equal(t, "console.log(8 / (2 * 2));\n", mustGenerate(t, printOf(t, quotient)))
}

func TestNonFiniteNumbers(t *testing.T) {
	for _, raw := range []string{"nan", "inf", "-Infinity", "1e400"} {
		t.Run(raw, func(t *testing.T) {
			g, err := generator.New(Language)
			require.NoError(t, err)
			ws := block.NewWorkspace()
			require.NoError(t, ws.Add(printOf(t, num(raw)), block.New("controls_repeat").WithField("TIMES", raw)))

			_, err = g.WorkspaceToCode(context.Background(), ws)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidWorkspace))
		})
	}
}

func TestCompareUsesEqualityOrder(t *testing.T) {
	lt := binary(t, "logic_compare", "LT", variable("a"), variable("b"))
	eq := binary(t, "logic_compare", "EQ", lt, block.NewValue("logic_boolean").WithField("BOOL", "TRUE"))
	assert.Equal(t, "var a, b;\n\nconsole.log(a < b == true);\n", mustGenerate(t, printOf(t, eq)))

	inner := binary(t, "logic_compare", "EQ", variable("a"), variable("b"))
	outer := binary(t, "logic_compare", "LT", inner, num("1"))
	assert.Equal(t, "var a, b;\n\nconsole.log((a == b) < 1);\n", mustGenerate(t, printOf(t, outer)))
}

func TestVariablesAreDeclared(t *testing.T) {
	set := block.New("variables_set").WithField("VAR", "total")
	require.NoError(t, set.SetValue("VALUE", num("5")))
	require.NoError(t, set.SetNext(printOf(t, variable("total"))))

	assert.Equal(t, "var total;\n\ntotal = 5;\nconsole.log(total);\n", mustGenerate(t, set))
}

func TestIfElse(t *testing.T) {
	cond := block.New("controls_if")
	require.NoError(t, cond.SetValue("IF0", binary(t, "logic_compare", "GT", num("2"), num("1"))))
	require.NoError(t, cond.SetStatement("DO0", printOf(t, str("big"))))
	require.NoError(t, cond.SetValue("IF1", block.NewValue("logic_boolean")))
	require.NoError(t, cond.SetStatement("ELSE", printOf(t, str("small"))))

	assert.Equal(t,
		"if (2 > 1) {\n  console.log('big');\n} else if (false) {\n} else {\n  console.log('small');\n}\n",
		mustGenerate(t, cond))
}

func TestRepeat(t *testing.T) {
	loop := block.New("controls_repeat").WithField("TIMES", "3")
	require.NoError(t, loop.SetStatement("DO", printOf(t, str("hi"))))

	assert.Equal(t,
		"for (var count = 0; count < 3; count++) {\n  console.log('hi');\n}\n",
		mustGenerate(t, loop))
}

func TestMathMaxHelper(t *testing.T) {
	first := printOf(t, binary(t, "math_max", "", num("1"), num("2")))
	require.NoError(t, first.SetNext(printOf(t, binary(t, "math_max", "", num("3"), num("4")))))

	assert.Equal(t,
		"function mathMax(a, b) {\n  return a > b ? a : b;\n}\n\nconsole.log(mathMax(1, 2));\nconsole.log(mathMax(3, 4));\n",
		mustGenerate(t, first))
}

func TestNakedValueGetsSemicolon(t *testing.T) {
	assert.Equal(t, "1 + 2;\n", mustGenerate(t, binary(t, "math_arithmetic", "ADD", num("1"), num("2"))))
}

func TestCommentOut(t *testing.T) {
	inner := printOf(t, str("x"))
	inner.Comment = "todo: restore"
	wrapper := block.New("comment_out")
	require.NoError(t, wrapper.SetStatement("DO", inner))

	assert.Equal(t, "// todo: restore\n", mustGenerate(t, wrapper))
}

func TestUnknownOperator(t *testing.T) {
	g, err := generator.New(Language)
	require.NoError(t, err)
	ws := block.NewWorkspace()
	require.NoError(t, ws.Add(printOf(t, binary(t, "logic_compare", "LIKE", num("1"), num("2")))))

	_, err = g.WorkspaceToCode(context.Background(), ws)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidWorkspace))
}
