package clang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/minic/internal/ast"
	"github.com/dekarrin/minic/internal/lexer"
	"github.com/dekarrin/minic/internal/parser"
)

func parseSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	stream, err := lexer.Analyze(src, lexer.DefaultOptions())
	require.NoError(t, err)

	g, err := Build()
	require.NoError(t, err)
	p := parser.New(g)
	res := p.Parse(stream)
	require.True(t, res.Success, "parse errors: %v", res.Report.Errors())

	prog, ok := res.Value.(*ast.Program)
	require.True(t, ok, "expected *ast.Program, got %T", res.Value)
	return prog
}

func Test_Parse_SimpleFunction(t *testing.T) {
	prog := parseSrc(t, `
int add(int a, int b) {
    return a + b;
}
`)
	require.Len(t, prog.Declarations, 1)
	fn, ok := prog.Declarations[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, ast.TypeInt, fn.ReturnType)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, "b", fn.Params[1].Name)
	require.Len(t, fn.Body.Statements, 1)
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Operator)
}

func Test_Parse_DanglingElseBindsToNearestIf(t *testing.T) {
	prog := parseSrc(t, `
int main() {
    if (1)
        if (0)
            return 1;
        else
            return 2;
    return 3;
}
`)
	fn := prog.Declarations[0].(*ast.FuncDecl)
	outer, ok := fn.Body.Statements[0].(*ast.If)
	require.True(t, ok)
	inner, ok := outer.Then.(*ast.If)
	require.True(t, ok, "expected nested if as outer's then-branch")
	assert.NotNil(t, inner.Else, "else must bind to the nearest (inner) if")
	assert.Nil(t, outer.Else)
}

func Test_Parse_ForLoop(t *testing.T) {
	prog := parseSrc(t, `
int main() {
    int total = 0;
    for (i = 0; i < 10; i = i + 1) {
        total = total + i;
    }
    return total;
}
`)
	fn := prog.Declarations[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Statements, 3)
	forStmt, ok := fn.Body.Statements[1].(*ast.For)
	require.True(t, ok)
	assert.NotNil(t, forStmt.Init)
	assert.NotNil(t, forStmt.Cond)
	assert.NotNil(t, forStmt.Update)
}

func Test_Parse_SwitchStatement(t *testing.T) {
	prog := parseSrc(t, `
int main() {
    switch (1) {
        case 1:
            return 1;
        case 2:
            return 2;
        default:
            return 0;
    }
}
`)
	fn := prog.Declarations[0].(*ast.FuncDecl)
	sw, ok := fn.Body.Statements[0].(*ast.Switch)
	require.True(t, ok)
	assert.Len(t, sw.Cases, 2)
	assert.True(t, sw.HasDef)
}

func Test_Parse_CompoundAssignmentOperators(t *testing.T) {
	prog := parseSrc(t, `
int main() {
    int x = 0;
    x += 1;
    x -= 1;
    x *= 2;
    x /= 2;
    x %= 2;
    return x;
}
`)
	fn := prog.Declarations[0].(*ast.FuncDecl)
	ops := []string{"+=", "-=", "*=", "/=", "%="}
	for i, op := range ops {
		assign, ok := fn.Body.Statements[i+1].(*ast.Assignment)
		require.True(t, ok)
		assert.Equal(t, op, assign.Operator)
	}
}

func Test_Parse_LabelAndGoto(t *testing.T) {
	prog := parseSrc(t, `
int main() {
    goto done;
done:
    return 0;
}
`)
	fn := prog.Declarations[0].(*ast.FuncDecl)
	_, ok := fn.Body.Statements[0].(*ast.Goto)
	require.True(t, ok)
	label, ok := fn.Body.Statements[1].(*ast.Label)
	require.True(t, ok)
	assert.Equal(t, "done", label.Name)
}

func Test_Build_Succeeds(t *testing.T) {
	_, err := Build()
	assert.NoError(t, err)
}
