package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/minic/internal/ast"
	"github.com/dekarrin/minic/internal/diag"
)

func intLit(v string) *ast.Literal {
	return &ast.Literal{Kind: ast.LiteralInt, Value: v}
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

func prog(decls ...ast.Decl) *ast.Program {
	return &ast.Program{Declarations: decls}
}

func Test_Analyze_RedefinedVariable(t *testing.T) {
	p := prog(
		&ast.VarDecl{Name: "x", Type: ast.TypeInt, Initializer: intLit("1")},
		&ast.VarDecl{Name: "x", Type: ast.TypeInt, Initializer: intLit("2")},
	)
	res := Analyze(p, DefaultConfig())
	require.False(t, res.Success)
	require.Len(t, res.Report.Errors(), 1)
	assert.Equal(t, diag.CategoryRedefinedVariable, res.Report.Errors()[0].Kind)
}

func Test_Analyze_UndefinedVariable(t *testing.T) {
	p := prog(&ast.FuncDecl{
		Name: "main", ReturnType: ast.TypeVoid,
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.ExprStmt{Expr: ident("y")},
		}},
	})
	res := Analyze(p, DefaultConfig())
	require.False(t, res.Success)
	assert.Equal(t, diag.CategoryUndefinedVariable, res.Report.Errors()[0].Kind)
}

func Test_Analyze_UndefinedFunction(t *testing.T) {
	p := prog(&ast.FuncDecl{
		Name: "main", ReturnType: ast.TypeVoid,
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.ExprStmt{Expr: &ast.Call{Callee: "nope"}},
		}},
	})
	res := Analyze(p, DefaultConfig())
	require.False(t, res.Success)
	assert.Equal(t, diag.CategoryUndefinedFunction, res.Report.Errors()[0].Kind)
}

func Test_Analyze_ArityMismatch(t *testing.T) {
	p := prog(
		&ast.FuncDecl{Name: "f", ReturnType: ast.TypeInt, Params: []ast.Param{{Name: "a", Type: ast.TypeInt}},
			Body: &ast.Block{Statements: []ast.Stmt{&ast.Return{Value: ident("a")}}}},
		&ast.FuncDecl{Name: "main", ReturnType: ast.TypeVoid,
			Body: &ast.Block{Statements: []ast.Stmt{
				&ast.ExprStmt{Expr: &ast.Call{Callee: "f", Args: []ast.Expr{intLit("1"), intLit("2")}}},
			}}},
	)
	res := Analyze(p, DefaultConfig())
	require.False(t, res.Success)
	assert.Equal(t, diag.CategoryArityMismatch, res.Report.Errors()[0].Kind)
}

func Test_Analyze_TypeMismatch_VarInit(t *testing.T) {
	p := prog(&ast.VarDecl{Name: "s", Type: ast.TypeString, Initializer: intLit("1")})
	res := Analyze(p, DefaultConfig())
	// int is numeric, string is not, so this is a real mismatch
	require.False(t, res.Success)
	assert.Equal(t, diag.CategoryTypeMismatch, res.Report.Errors()[0].Kind)
}

func Test_Analyze_NumericTypesCompatible(t *testing.T) {
	p := prog(&ast.VarDecl{Name: "f", Type: ast.TypeFloat, Initializer: intLit("1")})
	res := Analyze(p, DefaultConfig())
	assert.True(t, res.Success)
}

func Test_Analyze_DivisionByZero(t *testing.T) {
	p := prog(&ast.FuncDecl{
		Name: "main", ReturnType: ast.TypeVoid,
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.VarDeclStmt{Name: "x", Type: ast.TypeInt, Initializer: &ast.BinaryOp{
				Operator: "/", Left: intLit("1"), Right: intLit("0"),
			}},
		}},
	})
	res := Analyze(p, DefaultConfig())
	require.False(t, res.Success)
	assert.Equal(t, diag.CategoryDivisionByZero, res.Report.Errors()[0].Kind)
}

func Test_Analyze_MissingReturn(t *testing.T) {
	p := prog(&ast.FuncDecl{Name: "f", ReturnType: ast.TypeInt, Body: &ast.Block{}})
	res := Analyze(p, DefaultConfig())
	require.False(t, res.Success)
	assert.Equal(t, diag.CategoryMissingReturn, res.Report.Errors()[0].Kind)
}

func Test_Analyze_VoidFunctionBareReturnOK(t *testing.T) {
	p := prog(&ast.FuncDecl{
		Name: "f", ReturnType: ast.TypeVoid,
		Body: &ast.Block{Statements: []ast.Stmt{&ast.Return{}}},
	})
	res := Analyze(p, DefaultConfig())
	assert.True(t, res.Success)
}

func Test_Analyze_UnusedVariableWarning(t *testing.T) {
	p := prog(&ast.FuncDecl{
		Name: "main", ReturnType: ast.TypeVoid,
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.VarDeclStmt{Name: "x", Type: ast.TypeInt, Initializer: intLit("1")},
		}},
	})
	res := Analyze(p, DefaultConfig())
	assert.True(t, res.Success)
	require.Len(t, res.Report.Warnings(), 1)
	assert.Equal(t, diag.CategoryUnreachableCode, res.Report.Warnings()[0].Kind)
}

func Test_Analyze_UsedBeforeInitWarning(t *testing.T) {
	p := prog(&ast.FuncDecl{
		Name: "main", ReturnType: ast.TypeVoid,
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.VarDeclStmt{Name: "x", Type: ast.TypeInt},
			&ast.ExprStmt{Expr: ident("x")},
		}},
	})
	res := Analyze(p, DefaultConfig())
	assert.True(t, res.Success)
	found := false
	for _, w := range res.Report.Warnings() {
		if w.Kind == diag.CategoryUninitializedVariable {
			found = true
		}
	}
	assert.True(t, found)
}

func Test_Analyze_WarningsAsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WarningsAsErrors = true
	p := prog(&ast.FuncDecl{
		Name: "main", ReturnType: ast.TypeVoid,
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.VarDeclStmt{Name: "x", Type: ast.TypeInt, Initializer: intLit("1")},
		}},
	})
	res := Analyze(p, cfg)
	assert.False(t, res.Success)
}

func Test_Analyze_ConditionMustBeBool(t *testing.T) {
	p := prog(&ast.FuncDecl{
		Name: "main", ReturnType: ast.TypeVoid,
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.If{Condition: intLit("1"), Then: &ast.Block{}},
		}},
	})
	res := Analyze(p, DefaultConfig())
	require.False(t, res.Success)
	assert.Equal(t, diag.CategoryTypeMismatch, res.Report.Errors()[0].Kind)
}
