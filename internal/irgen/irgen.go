// Package irgen lowers an annotated AST into three-address IR: fresh
// temporaries and labels, structured control-flow lowering for
// conditionals/loops/switch, and a constant-folding peephole pass.
package irgen

import (
	"fmt"

	"github.com/dekarrin/minic/internal/ast"
	"github.com/dekarrin/minic/internal/diag"
	"github.com/dekarrin/minic/internal/ir"
)

// Config controls optional generator behavior.
type Config struct {
	EmitComments bool
	FoldConstants bool
}

// DefaultConfig folds constants but omits comment instructions.
func DefaultConfig() Config {
	return Config{EmitComments: false, FoldConstants: true}
}

// loopLabels records the break/continue targets of the innermost enclosing
// loop or switch, restored on exit the way a compiler's lowering context
// normally threads this through recursive calls.
type loopLabels struct {
	breakLabel    string
	continueLabel string
}

// Generator lowers one AST into one ir.Program.
type Generator struct {
	cfg    Config
	prog   *ir.Program
	report diag.Report
	loop   *loopLabels
}

// New returns a Generator configured per cfg.
func New(cfg Config) *Generator {
	return &Generator{cfg: cfg, prog: ir.NewProgram()}
}

// Result is everything the generator produces.
type Result struct {
	Success bool
	Report  diag.Report
	Program *ir.Program
}

// Generate lowers prog into IR per cfg and returns the result, folding
// constants afterward if cfg.FoldConstants is set.
func Generate(prog *ast.Program, cfg Config) Result {
	g := New(cfg)
	return g.Run(prog)
}

// Run performs the lowering pass.
func (g *Generator) Run(prog *ast.Program) Result {
	if prog != nil {
		for _, decl := range prog.Declarations {
			g.genDecl(decl)
		}
	}
	if g.cfg.FoldConstants {
		FoldConstants(g.prog)
	}
	EliminateDeadCode(g.prog)
	return Result{Success: !g.report.HasErrors(), Report: g.report, Program: g.prog}
}

func (g *Generator) errorf(line, col int, format string, args ...any) {
	g.report.Add(diag.New(diag.CategoryGeneratorError, line, col, fmt.Sprintf(format, args...)))
}

func (g *Generator) comment(text string) {
	if g.cfg.EmitComments {
		g.prog.Emit(ir.Instruction{Op: ir.OpNop, Comment: text})
	}
}

// ---- Declarations ----

func (g *Generator) genDecl(d ast.Decl) {
	if d == nil {
		return
	}
	switch decl := d.(type) {
	case *ast.VarDecl:
		g.genVarDecl(decl.Name, decl.Type, decl.Initializer, decl.Pos.Line)
	case *ast.FuncDecl:
		g.genFuncDecl(decl)
	}
}

func (g *Generator) genVarDecl(name string, dataType ast.DataType, init ast.Expr, line int) {
	g.comment(fmt.Sprintf("Variable declaration: %s", name))
	if init == nil {
		return
	}
	r := g.genExpr(init)
	g.prog.Emit(ir.Instruction{Op: ir.OpAssign, Result: ir.Var(name, string(dataType)), Arg1: r, Line: line})
}

func (g *Generator) genFuncDecl(f *ast.FuncDecl) {
	g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(f.Name), Line: f.Pos.Line})
	if f.Body != nil {
		for _, stmt := range f.Body.Statements {
			g.genStmt(stmt)
		}
	}
	g.prog.Emit(ir.Instruction{Op: ir.OpReturn, Line: f.Pos.Line})
}

// ---- Statements ----

func (g *Generator) genStmt(s ast.Stmt) {
	if s == nil {
		return
	}
	switch st := s.(type) {
	case *ast.Assignment:
		g.genAssignment(st)
	case *ast.Block:
		for _, inner := range st.Statements {
			g.genStmt(inner)
		}
	case *ast.If:
		g.genIf(st)
	case *ast.While:
		g.genWhile(st)
	case *ast.DoWhile:
		g.genDoWhile(st)
	case *ast.For:
		g.genFor(st)
	case *ast.Switch:
		g.genSwitch(st)
	case *ast.Return:
		g.genReturn(st)
	case *ast.Break:
		g.genBreak(st)
	case *ast.Continue:
		g.genContinue(st)
	case *ast.Goto:
		g.prog.Emit(ir.Instruction{Op: ir.OpGoto, Arg1: ir.Label(st.Label), Line: st.Pos.Line})
	case *ast.Label:
		g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(st.Name), Line: st.Pos.Line})
		g.genStmt(st.Stmt)
	case *ast.ExprStmt:
		g.genExpr(st.Expr)
	case *ast.VarDeclStmt:
		g.genVarDecl(st.Name, st.Type, st.Initializer, st.Pos.Line)
	}
}

// compoundAssignOp maps a compound-assignment operator to the binary
// operator its desugared form uses: "x += e" becomes "x = x + e".
var compoundAssignOp = map[string]string{
	"+=": "+",
	"-=": "-",
	"*=": "*",
	"/=": "/",
	"%=": "%",
}

func (g *Generator) genAssignment(st *ast.Assignment) {
	ident, ok := st.Left.(*ast.Identifier)
	if !ok {
		pos := st.Position()
		g.errorf(pos.Line, pos.Column, "assignment target is not an identifier")
		return
	}
	l := ir.Var(ident.Name, string(ident.Type))
	r := g.genExpr(st.Right)

	if op, compound := compoundAssignOp[st.Operator]; compound {
		t := g.prog.NewTemp(string(ident.Type))
		g.prog.Emit(ir.Instruction{Op: binaryOpCode(op), Result: t, Arg1: l, Arg2: r, Line: st.Pos.Line})
		r = t
	}
	g.prog.Emit(ir.Instruction{Op: ir.OpAssign, Result: l, Arg1: r, Line: st.Pos.Line})
}

func (g *Generator) genIf(st *ast.If) {
	g.comment("If statement")
	lEnd := g.prog.NewLabel()
	if st.Else == nil {
		c := g.genExpr(st.Condition)
		g.prog.Emit(ir.Instruction{Op: ir.OpIfFalseGoto, Result: ir.Label(lEnd), Arg1: c, Line: st.Pos.Line})
		g.genStmt(st.Then)
		g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(lEnd), Line: st.Pos.Line})
		return
	}
	lElse := g.prog.NewLabel()
	c := g.genExpr(st.Condition)
	g.prog.Emit(ir.Instruction{Op: ir.OpIfFalseGoto, Result: ir.Label(lElse), Arg1: c, Line: st.Pos.Line})
	g.genStmt(st.Then)
	g.prog.Emit(ir.Instruction{Op: ir.OpGoto, Arg1: ir.Label(lEnd), Line: st.Pos.Line})
	g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(lElse), Line: st.Pos.Line})
	g.genStmt(st.Else)
	g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(lEnd), Line: st.Pos.Line})
}

func (g *Generator) genWhile(st *ast.While) {
	g.comment("While loop")
	lTop := g.prog.NewLabel()
	lEnd := g.prog.NewLabel()
	g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(lTop), Line: st.Pos.Line})
	c := g.genExpr(st.Condition)
	g.prog.Emit(ir.Instruction{Op: ir.OpIfFalseGoto, Result: ir.Label(lEnd), Arg1: c, Line: st.Pos.Line})

	outer := g.loop
	g.loop = &loopLabels{breakLabel: lEnd, continueLabel: lTop}
	g.genStmt(st.Body)
	g.loop = outer

	g.prog.Emit(ir.Instruction{Op: ir.OpGoto, Arg1: ir.Label(lTop), Line: st.Pos.Line})
	g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(lEnd), Line: st.Pos.Line})
}

func (g *Generator) genDoWhile(st *ast.DoWhile) {
	g.comment("Do-while loop")
	lTop := g.prog.NewLabel()
	lCond := g.prog.NewLabel()
	lEnd := g.prog.NewLabel()
	g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(lTop), Line: st.Pos.Line})

	outer := g.loop
	g.loop = &loopLabels{breakLabel: lEnd, continueLabel: lCond}
	g.genStmt(st.Body)
	g.loop = outer

	g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(lCond), Line: st.Pos.Line})
	c := g.genExpr(st.Condition)
	g.prog.Emit(ir.Instruction{Op: ir.OpIfTrueGoto, Result: ir.Label(lTop), Arg1: c, Line: st.Pos.Line})
	g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(lEnd), Line: st.Pos.Line})
}

func (g *Generator) genFor(st *ast.For) {
	g.comment("For loop")
	lTop := g.prog.NewLabel()
	lUpdate := g.prog.NewLabel()
	lEnd := g.prog.NewLabel()

	g.genStmt(st.Init)
	g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(lTop), Line: st.Pos.Line})
	if st.Cond != nil {
		c := g.genExpr(st.Cond)
		g.prog.Emit(ir.Instruction{Op: ir.OpIfFalseGoto, Result: ir.Label(lEnd), Arg1: c, Line: st.Pos.Line})
	}

	outer := g.loop
	g.loop = &loopLabels{breakLabel: lEnd, continueLabel: lUpdate}
	g.genStmt(st.Body)
	g.loop = outer

	g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(lUpdate), Line: st.Pos.Line})
	if st.Update != nil {
		g.genStmt(st.Update)
	}
	g.prog.Emit(ir.Instruction{Op: ir.OpGoto, Arg1: ir.Label(lTop), Line: st.Pos.Line})
	g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(lEnd), Line: st.Pos.Line})
}

func (g *Generator) genSwitch(st *ast.Switch) {
	g.comment("Switch statement")
	lEnd := g.prog.NewLabel()
	outer := g.loop
	g.loop = &loopLabels{breakLabel: lEnd, continueLabel: ""}
	if outer != nil {
		g.loop.continueLabel = outer.continueLabel
	}

	s := g.genExpr(st.Selector)

	caseLabels := make([]string, len(st.Cases))
	for i, c := range st.Cases {
		caseLabels[i] = g.prog.NewLabel()
		v := g.genExpr(c.Value)
		t := g.prog.NewTemp(string(ast.TypeBool))
		g.prog.Emit(ir.Instruction{Op: ir.OpEq, Result: t, Arg1: s, Arg2: v, Line: st.Pos.Line})
		g.prog.Emit(ir.Instruction{Op: ir.OpIfTrueGoto, Result: ir.Label(caseLabels[i]), Arg1: t, Line: st.Pos.Line})
	}

	defaultTarget := lEnd
	if st.HasDef {
		defaultTarget = g.prog.NewLabel()
	}
	g.prog.Emit(ir.Instruction{Op: ir.OpGoto, Arg1: ir.Label(defaultTarget), Line: st.Pos.Line})

	for i, c := range st.Cases {
		g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(caseLabels[i]), Line: st.Pos.Line})
		for _, inner := range c.Statements {
			g.genStmt(inner)
		}
	}
	if st.HasDef {
		g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(defaultTarget), Line: st.Pos.Line})
		for _, inner := range st.DefStmts {
			g.genStmt(inner)
		}
	}

	g.prog.Emit(ir.Instruction{Op: ir.OpLabel, Result: ir.Label(lEnd), Line: st.Pos.Line})
	g.loop = outer
}

func (g *Generator) genReturn(st *ast.Return) {
	if st.Value == nil {
		g.prog.Emit(ir.Instruction{Op: ir.OpReturn, Line: st.Pos.Line})
		return
	}
	v := g.genExpr(st.Value)
	g.prog.Emit(ir.Instruction{Op: ir.OpReturn, Arg1: v, Line: st.Pos.Line})
}

func (g *Generator) genBreak(st *ast.Break) {
	if g.loop == nil || g.loop.breakLabel == "" {
		g.errorf(st.Pos.Line, st.Pos.Column, "break statement not within a loop or switch")
		return
	}
	g.prog.Emit(ir.Instruction{Op: ir.OpGoto, Arg1: ir.Label(g.loop.breakLabel), Line: st.Pos.Line})
}

func (g *Generator) genContinue(st *ast.Continue) {
	if g.loop == nil || g.loop.continueLabel == "" {
		g.errorf(st.Pos.Line, st.Pos.Column, "continue statement not within a loop")
		return
	}
	g.prog.Emit(ir.Instruction{Op: ir.OpGoto, Arg1: ir.Label(g.loop.continueLabel), Line: st.Pos.Line})
}

// ---- Expressions ----

func (g *Generator) genExpr(e ast.Expr) ir.Operand {
	if e == nil {
		return ir.Operand{}
	}
	switch ex := e.(type) {
	case *ast.Literal:
		return ir.Const(ex.Value, string(ex.Type))
	case *ast.Identifier:
		return ir.Var(ex.Name, string(ex.Type))
	case *ast.UnaryOp:
		return g.genUnary(ex)
	case *ast.BinaryOp:
		return g.genBinary(ex)
	case *ast.Call:
		return g.genCall(ex)
	case *ast.ArrayIndex:
		return g.genArrayIndex(ex)
	}
	return ir.Operand{}
}

func unaryOpCode(op string) ir.Op {
	switch op {
	case "!":
		return ir.OpNot
	case "-":
		return ir.OpNeg
	default:
		return ir.OpAssign
	}
}

func binaryOpCode(op string) ir.Op {
	switch op {
	case "+":
		return ir.OpAdd
	case "-":
		return ir.OpSub
	case "*":
		return ir.OpMul
	case "/":
		return ir.OpDiv
	case "%":
		return ir.OpMod
	case "&&":
		return ir.OpAnd
	case "||":
		return ir.OpOr
	case "==":
		return ir.OpEq
	case "!=":
		return ir.OpNeq
	case "<":
		return ir.OpLt
	case "<=":
		return ir.OpLeq
	case ">":
		return ir.OpGt
	case ">=":
		return ir.OpGeq
	default:
		return ir.OpAssign
	}
}

func (g *Generator) genUnary(u *ast.UnaryOp) ir.Operand {
	x := g.genExpr(u.Operand)
	if u.Operator == "+" {
		return x
	}
	t := g.prog.NewTemp(string(u.Type))
	g.prog.Emit(ir.Instruction{Op: unaryOpCode(u.Operator), Result: t, Arg1: x, Line: u.Pos.Line})
	return t
}

func (g *Generator) genBinary(b *ast.BinaryOp) ir.Operand {
	l := g.genExpr(b.Left)
	r := g.genExpr(b.Right)
	t := g.prog.NewTemp(string(b.Type))
	g.prog.Emit(ir.Instruction{Op: binaryOpCode(b.Operator), Result: t, Arg1: l, Arg2: r, Line: b.Pos.Line})
	return t
}

func (g *Generator) genCall(c *ast.Call) ir.Operand {
	for _, arg := range c.Args {
		a := g.genExpr(arg)
		g.prog.Emit(ir.Instruction{Op: ir.OpParam, Arg1: a, Line: c.Pos.Line})
	}
	t := g.prog.NewTemp(string(c.Type))
	g.prog.Emit(ir.Instruction{Op: ir.OpCall, Result: t, Arg1: ir.Func(c.Callee), Line: c.Pos.Line})
	return t
}

func (g *Generator) genArrayIndex(ix *ast.ArrayIndex) ir.Operand {
	arr := g.genExpr(ix.Array)
	idx := g.genExpr(ix.Index)
	t := g.prog.NewTemp(string(ix.Type))
	g.prog.Emit(ir.Instruction{Op: ir.OpArrayRef, Result: t, Arg1: arr, Arg2: idx, Line: ix.Pos.Line})
	return t
}
