package irgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/minic/internal/ast"
	"github.com/dekarrin/minic/internal/ir"
)

func intLit(v string) *ast.Literal {
	return &ast.Literal{Kind: ast.LiteralInt, Value: v, Type: ast.TypeInt}
}

func ident(name string, t ast.DataType) *ast.Identifier {
	return &ast.Identifier{Name: name, Type: t}
}

func Test_Generate_CompoundAssignDesugars(t *testing.T) {
	prog := &ast.Program{Declarations: []ast.Decl{
		&ast.FuncDecl{Name: "main", ReturnType: ast.TypeVoid, Body: &ast.Block{Statements: []ast.Stmt{
			&ast.Assignment{Operator: "+=", Left: ident("x", ast.TypeInt), Right: intLit("1")},
		}}},
	}}
	res := Generate(prog, Config{FoldConstants: false})
	require.True(t, res.Success)

	var ops []ir.Op
	for _, ins := range res.Program.Instructions {
		ops = append(ops, ins.Op)
	}
	// label main, add into temp, assign temp back to x, return
	assert.Contains(t, ops, ir.OpAdd)
	assert.Contains(t, ops, ir.OpAssign)

	var sawAdd, sawAssignFromTemp bool
	for i, ins := range res.Program.Instructions {
		if ins.Op == ir.OpAdd {
			sawAdd = true
			// the next instruction should assign x from the add's result temp
			next := res.Program.Instructions[i+1]
			if next.Op == ir.OpAssign && next.Arg1 == ins.Result && next.Result.Name == "x" {
				sawAssignFromTemp = true
			}
		}
	}
	assert.True(t, sawAdd)
	assert.True(t, sawAssignFromTemp)
}

func Test_Generate_PlainAssignNoExtraTemp(t *testing.T) {
	prog := &ast.Program{Declarations: []ast.Decl{
		&ast.FuncDecl{Name: "main", ReturnType: ast.TypeVoid, Body: &ast.Block{Statements: []ast.Stmt{
			&ast.Assignment{Operator: "=", Left: ident("x", ast.TypeInt), Right: intLit("5")},
		}}},
	}}
	res := Generate(prog, DefaultConfig())
	require.True(t, res.Success)
	for _, ins := range res.Program.Instructions {
		assert.NotEqual(t, ir.OpAdd, ins.Op)
	}
}

func Test_Generate_ConstantFolding(t *testing.T) {
	prog := &ast.Program{Declarations: []ast.Decl{
		&ast.VarDecl{Name: "x", Type: ast.TypeInt, Initializer: &ast.BinaryOp{
			Operator: "+", Left: intLit("2"), Right: intLit("3"), Type: ast.TypeInt,
		}},
	}}
	res := Generate(prog, Config{FoldConstants: true})
	require.True(t, res.Success)

	found := false
	for _, ins := range res.Program.Instructions {
		if ins.Op == ir.OpAssign && ins.Arg1.Kind == ir.OperandConstant && ins.Arg1.Const == "5" {
			found = true
		}
		assert.NotEqual(t, ir.OpAdd, ins.Op)
	}
	assert.True(t, found)
}

func Test_Generate_NoFold_KeepsAddInstruction(t *testing.T) {
	prog := &ast.Program{Declarations: []ast.Decl{
		&ast.VarDecl{Name: "x", Type: ast.TypeInt, Initializer: &ast.BinaryOp{
			Operator: "+", Left: intLit("2"), Right: intLit("3"), Type: ast.TypeInt,
		}},
	}}
	res := Generate(prog, Config{FoldConstants: false})
	require.True(t, res.Success)

	found := false
	for _, ins := range res.Program.Instructions {
		if ins.Op == ir.OpAdd {
			found = true
		}
	}
	assert.True(t, found)
}

func Test_Generate_IfElse(t *testing.T) {
	prog := &ast.Program{Declarations: []ast.Decl{
		&ast.FuncDecl{Name: "main", ReturnType: ast.TypeVoid, Body: &ast.Block{Statements: []ast.Stmt{
			&ast.If{
				Condition: &ast.BinaryOp{Operator: "<", Left: ident("x", ast.TypeInt), Right: intLit("0"), Type: ast.TypeBool},
				Then:      &ast.Block{Statements: []ast.Stmt{&ast.Return{}}},
				Else:      &ast.Block{Statements: []ast.Stmt{&ast.Return{}}},
			},
		}}},
	}}
	res := Generate(prog, DefaultConfig())
	require.True(t, res.Success)

	var gotoCount, labelCount int
	for _, ins := range res.Program.Instructions {
		if ins.Op == ir.OpGoto {
			gotoCount++
		}
		if ins.Op == ir.OpLabel {
			labelCount++
		}
	}
	assert.Equal(t, 1, gotoCount)  // then-branch jumps past else
	assert.Equal(t, 3, labelCount) // func label + else label + end label
}

func Test_Generate_BreakOutsideLoop_Errors(t *testing.T) {
	prog := &ast.Program{Declarations: []ast.Decl{
		&ast.FuncDecl{Name: "main", ReturnType: ast.TypeVoid, Body: &ast.Block{Statements: []ast.Stmt{
			&ast.Break{},
		}}},
	}}
	res := Generate(prog, DefaultConfig())
	assert.False(t, res.Success)
	require.Len(t, res.Report.Errors(), 1)
}

func Test_Generate_WhileLoop_BreakContinue(t *testing.T) {
	prog := &ast.Program{Declarations: []ast.Decl{
		&ast.FuncDecl{Name: "main", ReturnType: ast.TypeVoid, Body: &ast.Block{Statements: []ast.Stmt{
			&ast.While{
				Condition: &ast.Literal{Kind: ast.LiteralBool, Value: "true", Type: ast.TypeBool},
				Body: &ast.Block{Statements: []ast.Stmt{
					&ast.Break{},
					&ast.Continue{},
				}},
			},
		}}},
	}}
	res := Generate(prog, DefaultConfig())
	require.True(t, res.Success)

	var gotoTargets []string
	for _, ins := range res.Program.Instructions {
		if ins.Op == ir.OpGoto {
			gotoTargets = append(gotoTargets, ins.Arg1.Name)
		}
	}
	require.Len(t, gotoTargets, 3) // break, continue, and the loop's back edge
}

func Test_EliminateDeadCode_IsNoOp(t *testing.T) {
	p := ir.NewProgram()
	p.Emit(ir.Instruction{Op: ir.OpAssign, Result: ir.Var("x", "int"), Arg1: ir.Const("1", "int")})
	before := len(p.Instructions)
	EliminateDeadCode(p)
	assert.Equal(t, before, len(p.Instructions))
}
