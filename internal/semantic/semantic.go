// Package semantic implements the semantic analyzer: a tree walk over the
// AST that threads a symbol table, the enclosing function's declared
// return type, and a has-return-been-seen flag, producing type
// annotations on the AST in place plus a diagnostic report.
package semantic

import (
	"fmt"

	"github.com/dekarrin/minic/internal/ast"
	"github.com/dekarrin/minic/internal/diag"
	"github.com/dekarrin/minic/internal/symbols"
)

// Config controls optional analyzer behavior.
type Config struct {
	CheckUninitializedVars bool
	WarningsAsErrors       bool
	ReportUnusedVariables  bool
}

// DefaultConfig enables every optional check.
func DefaultConfig() Config {
	return Config{CheckUninitializedVars: true, WarningsAsErrors: false, ReportUnusedVariables: true}
}

// Result is everything the analyzer produces.
type Result struct {
	Success      bool
	Report       diag.Report
	Symbols      *symbols.Table
	TotalSymbols int
	TotalScopes  int
}

// Analyzer walks a Program and annotates it with types while recording
// diagnostics. It never aborts: structurally impossible (nil) subtrees are
// skipped rather than causing a panic.
type Analyzer struct {
	cfg     Config
	table   *symbols.Table
	report  diag.Report
	retType ast.DataType
	inFunc  bool
	hasReturn bool
}

// New returns an Analyzer ready to walk a single Program.
func New(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg, table: symbols.NewTable()}
}

// Analyze runs the full pass over prog and returns the result.
func Analyze(prog *ast.Program, cfg Config) Result {
	a := New(cfg)
	return a.Run(prog)
}

// Run performs the analysis and returns the accumulated Result.
func (a *Analyzer) Run(prog *ast.Program) Result {
	if prog != nil {
		for _, decl := range prog.Declarations {
			a.analyzeDecl(decl)
		}
	}

	if a.cfg.ReportUnusedVariables {
		for _, u := range a.table.Unused() {
			a.warnf(diag.CategoryUnreachableCode, u.Symbol.Line, u.Symbol.Column,
				fmt.Sprintf("variable %q is never used", u.Symbol.Name))
		}
	}
	if a.cfg.CheckUninitializedVars {
		for _, u := range a.table.UsedBeforeInit() {
			a.warnf(diag.CategoryUninitializedVariable, u.Symbol.Line, u.Symbol.Column,
				fmt.Sprintf("variable %q used before initialization", u.Symbol.Name))
		}
	}

	return Result{
		Success:      !a.report.HasErrors(),
		Report:       a.report,
		Symbols:      a.table,
		TotalSymbols: a.table.TotalSymbols(),
		TotalScopes:  a.table.TotalScopes(),
	}
}

func (a *Analyzer) errorf(kind diag.Category, line, col int, format string, args ...any) {
	a.report.Add(diag.New(kind, line, col, fmt.Sprintf(format, args...)))
}

func (a *Analyzer) warnf(kind diag.Category, line, col int, format string, args ...any) {
	sev := diag.SeverityWarning
	if a.cfg.WarningsAsErrors {
		sev = diag.SeverityError
	}
	a.report.Add(diag.Diagnostic{Kind: kind, Severity: sev, Line: line, Column: col, Message: fmt.Sprintf(format, args...)})
}

// ---- Declarations ----

func (a *Analyzer) analyzeDecl(d ast.Decl) {
	if d == nil {
		return
	}
	switch decl := d.(type) {
	case *ast.VarDecl:
		a.analyzeVarDecl(decl.Name, decl.Type, decl.Initializer, decl.Pos)
	case *ast.FuncDecl:
		a.analyzeFuncDecl(decl)
	}
}

func (a *Analyzer) analyzeVarDecl(name string, declType ast.DataType, init ast.Expr, pos ast.Pos) {
	if a.table.FindLocal(name) != nil {
		a.errorf(diag.CategoryRedefinedVariable, pos.Line, pos.Column, "variable %q is already declared in this scope", name)
	}
	sym := &symbols.Symbol{Name: name, Kind: symbols.KindVariable, Type: declType, Line: pos.Line, Column: pos.Column}
	a.table.AddSymbol(sym)

	if init != nil {
		initType := a.analyzeExpr(init)
		if isCompatible(initType, declType) {
			sym.Initialized = true
		} else if initType != ast.TypeUnknown {
			a.errorf(diag.CategoryTypeMismatch, pos.Line, pos.Column,
				"cannot initialize %q of type %s with value of type %s", name, declType, initType)
		}
	}
}

func (a *Analyzer) analyzeFuncDecl(f *ast.FuncDecl) {
	if a.table.FindLocal(f.Name) != nil {
		a.errorf(diag.CategoryRedefinedFunction, f.Pos.Line, f.Pos.Column, "function %q is already declared", f.Name)
	}
	paramTypes := make([]ast.DataType, len(f.Params))
	for i, p := range f.Params {
		paramTypes[i] = p.Type
	}
	a.table.AddSymbol(&symbols.Symbol{
		Name: f.Name, Kind: symbols.KindFunction, Type: ast.TypeFunction,
		Line: f.Pos.Line, Column: f.Pos.Column, ReturnType: f.ReturnType, ParamTypes: paramTypes,
	})

	outerRet, outerIn, outerHas := a.retType, a.inFunc, a.hasReturn
	a.retType, a.inFunc, a.hasReturn = f.ReturnType, true, false

	a.table.EnterScope()
	for _, p := range f.Params {
		a.table.AddSymbol(&symbols.Symbol{Name: p.Name, Kind: symbols.KindParameter, Type: p.Type, Initialized: true, Line: f.Pos.Line, Column: f.Pos.Column})
	}
	if f.Body != nil {
		for _, stmt := range f.Body.Statements {
			a.analyzeStmt(stmt)
		}
	}
	if f.ReturnType != ast.TypeVoid && !a.hasReturn {
		a.errorf(diag.CategoryMissingReturn, f.Pos.Line, f.Pos.Column, "function %q must return a value of type %s", f.Name, f.ReturnType)
	}
	a.table.ExitScope()

	a.retType, a.inFunc, a.hasReturn = outerRet, outerIn, outerHas
}

// ---- Statements ----

func (a *Analyzer) analyzeStmt(s ast.Stmt) {
	if s == nil {
		return
	}
	switch st := s.(type) {
	case *ast.Assignment:
		a.analyzeAssignment(st)
	case *ast.If:
		a.requireBoolCondition(st.Condition)
		a.analyzeStmt(st.Then)
		a.analyzeStmt(st.Else)
	case *ast.While:
		a.requireBoolCondition(st.Condition)
		a.analyzeStmt(st.Body)
	case *ast.DoWhile:
		a.analyzeStmt(st.Body)
		a.requireBoolCondition(st.Condition)
	case *ast.For:
		a.table.EnterScope()
		a.analyzeStmt(st.Init)
		if st.Cond != nil {
			a.requireBoolCondition(st.Cond)
		}
		a.analyzeStmt(st.Body)
		a.analyzeStmt(st.Update)
		a.table.ExitScope()
	case *ast.Block:
		a.table.EnterScope()
		for _, inner := range st.Statements {
			a.analyzeStmt(inner)
		}
		a.table.ExitScope()
	case *ast.Return:
		a.analyzeReturn(st)
	case *ast.ExprStmt:
		a.analyzeExpr(st.Expr)
	case *ast.VarDeclStmt:
		a.analyzeVarDecl(st.Name, st.Type, st.Initializer, st.Pos)
	case *ast.Switch:
		a.analyzeExpr(st.Selector)
		for _, c := range st.Cases {
			a.analyzeExpr(c.Value)
			for _, inner := range c.Statements {
				a.analyzeStmt(inner)
			}
		}
		for _, inner := range st.DefStmts {
			a.analyzeStmt(inner)
		}
	case *ast.Label:
		a.analyzeStmt(st.Stmt)
	case *ast.Break, *ast.Continue, *ast.Goto:
		// syntactic only; no semantic check required.
	}
}

func (a *Analyzer) requireBoolCondition(cond ast.Expr) {
	if cond == nil {
		return
	}
	t := a.analyzeExpr(cond)
	if t != ast.TypeUnknown && !isCompatible(t, ast.TypeBool) {
		pos := cond.Position()
		a.errorf(diag.CategoryTypeMismatch, pos.Line, pos.Column, "condition must be bool, got %s", t)
	}
}

func (a *Analyzer) analyzeAssignment(st *ast.Assignment) {
	rt := a.analyzeExpr(st.Right)
	lt := a.analyzeExpr(st.Left)

	ident, ok := st.Left.(*ast.Identifier)
	if !ok {
		pos := st.Position()
		a.errorf(diag.CategoryInvalidAssignment, pos.Line, pos.Column, "left-hand side of assignment is not an lvalue")
		return
	}
	if lt != ast.TypeUnknown && rt != ast.TypeUnknown && !isCompatible(rt, lt) {
		pos := st.Position()
		a.errorf(diag.CategoryTypeMismatch, pos.Line, pos.Column, "cannot assign value of type %s to %q of type %s", rt, ident.Name, lt)
	}
	a.table.MarkInitialized(ident.Name)
}

func (a *Analyzer) analyzeReturn(st *ast.Return) {
	if !a.inFunc {
		a.errorf(diag.CategoryScopeError, st.Pos.Line, st.Pos.Column, "return statement outside of a function")
		return
	}
	if st.Value == nil {
		if a.retType != ast.TypeVoid {
			a.errorf(diag.CategoryReturnTypeMismatch, st.Pos.Line, st.Pos.Column, "function must return a value of type %s", a.retType)
		}
		a.hasReturn = true
		return
	}
	if a.retType == ast.TypeVoid {
		a.errorf(diag.CategoryReturnTypeMismatch, st.Pos.Line, st.Pos.Column, "void function must not return a value")
		a.analyzeExpr(st.Value)
		a.hasReturn = true
		return
	}
	vt := a.analyzeExpr(st.Value)
	if vt != ast.TypeUnknown && !isCompatible(vt, a.retType) {
		a.errorf(diag.CategoryReturnTypeMismatch, st.Pos.Line, st.Pos.Column, "returning %s where %s is expected", vt, a.retType)
	}
	a.hasReturn = true
}

// ---- Expressions ----

func (a *Analyzer) analyzeExpr(e ast.Expr) ast.DataType {
	if e == nil {
		return ast.TypeUnknown
	}
	switch ex := e.(type) {
	case *ast.Literal:
		ex.Type = literalType(ex.Kind)
		return ex.Type
	case *ast.Identifier:
		return a.analyzeIdentifier(ex)
	case *ast.UnaryOp:
		return a.analyzeUnary(ex)
	case *ast.BinaryOp:
		return a.analyzeBinary(ex)
	case *ast.Call:
		return a.analyzeCall(ex)
	case *ast.ArrayIndex:
		a.analyzeExpr(ex.Array)
		a.analyzeExpr(ex.Index)
		ex.Type = ast.TypeUnknown
		return ex.Type
	}
	return ast.TypeUnknown
}

func literalType(kind ast.LiteralKind) ast.DataType {
	switch kind {
	case ast.LiteralInt:
		return ast.TypeInt
	case ast.LiteralReal:
		return ast.TypeFloat
	case ast.LiteralString:
		return ast.TypeString
	case ast.LiteralBool:
		return ast.TypeBool
	}
	return ast.TypeUnknown
}

func (a *Analyzer) analyzeIdentifier(id *ast.Identifier) ast.DataType {
	sym := a.table.FindSymbol(id.Name)
	if sym == nil {
		a.errorf(diag.CategoryUndefinedVariable, id.Pos.Line, id.Pos.Column, "undefined variable %q", id.Name)
		id.Type = ast.TypeUnknown
		return ast.TypeUnknown
	}
	a.table.MarkUsed(id.Name)
	if a.cfg.CheckUninitializedVars && !sym.Initialized {
		a.warnf(diag.CategoryUninitializedVariable, id.Pos.Line, id.Pos.Column, "variable %q may be used uninitialized", id.Name)
	}
	id.Type = sym.Type
	id.Lvalue = sym.Kind == symbols.KindVariable || sym.Kind == symbols.KindParameter
	id.Constant = sym.Kind == symbols.KindConstant
	return sym.Type
}

func (a *Analyzer) analyzeUnary(u *ast.UnaryOp) ast.DataType {
	opType := a.analyzeExpr(u.Operand)
	switch u.Operator {
	case "!":
		u.Type = ast.TypeBool
	case "+", "-":
		if isNumeric(opType) {
			u.Type = opType
		} else {
			if opType != ast.TypeUnknown {
				pos := u.Position()
				a.errorf(diag.CategoryTypeMismatch, pos.Line, pos.Column, "operator %q requires a numeric operand, got %s", u.Operator, opType)
			}
			u.Type = ast.TypeUnknown
		}
	default:
		u.Type = ast.TypeUnknown
	}
	return u.Type
}

var comparisonOps = map[string]bool{"&&": true, "||": true, "==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

func (a *Analyzer) analyzeBinary(b *ast.BinaryOp) ast.DataType {
	lt := a.analyzeExpr(b.Left)
	rt := a.analyzeExpr(b.Right)

	if lt == ast.TypeUnknown || rt == ast.TypeUnknown {
		b.Type = ast.TypeUnknown
		return b.Type
	}

	if (b.Operator == "/" || b.Operator == "%") && isZeroConstant(b.Right) {
		pos := b.Position()
		a.errorf(diag.CategoryDivisionByZero, pos.Line, pos.Column, "division by constant zero")
	}

	if comparisonOps[b.Operator] {
		if !isCompatible(lt, rt) {
			pos := b.Position()
			a.errorf(diag.CategoryTypeMismatch, pos.Line, pos.Column, "operands of %q must be compatible types, got %s and %s", b.Operator, lt, rt)
		}
		b.Type = ast.TypeBool
		return b.Type
	}

	switch {
	case lt == rt:
		b.Type = lt
	case isNumeric(lt) && isNumeric(rt):
		b.Type = promote(lt, rt)
	default:
		pos := b.Position()
		a.errorf(diag.CategoryTypeMismatch, pos.Line, pos.Column, "incompatible operand types %s and %s for %q", lt, rt, b.Operator)
		b.Type = ast.TypeUnknown
	}

	b.Constant = isConstantExpr(b.Left) && isConstantExpr(b.Right)
	return b.Type
}

func (a *Analyzer) analyzeCall(c *ast.Call) ast.DataType {
	sym := a.table.FindSymbol(c.Callee)
	for _, arg := range c.Args {
		a.analyzeExpr(arg)
	}
	if sym == nil || sym.Kind != symbols.KindFunction {
		a.errorf(diag.CategoryUndefinedFunction, c.Pos.Line, c.Pos.Column, "undefined function %q", c.Callee)
		c.Type = ast.TypeUnknown
		return c.Type
	}
	a.table.MarkUsed(c.Callee)
	if len(c.Args) != len(sym.ParamTypes) {
		a.errorf(diag.CategoryArityMismatch, c.Pos.Line, c.Pos.Column,
			"function %q expects %d argument(s), got %d", c.Callee, len(sym.ParamTypes), len(c.Args))
	} else {
		for i, arg := range c.Args {
			argType := exprType(arg)
			if argType != ast.TypeUnknown && !isCompatible(argType, sym.ParamTypes[i]) {
				a.errorf(diag.CategoryArityMismatch, c.Pos.Line, c.Pos.Column,
					"argument %d to %q has type %s, expected %s", i+1, c.Callee, argType, sym.ParamTypes[i])
			}
		}
	}
	c.Type = sym.ReturnType
	return c.Type
}

// exprType reads back the Type field an expression node was already
// annotated with by analyzeExpr, without re-walking it.
func exprType(e ast.Expr) ast.DataType {
	switch ex := e.(type) {
	case *ast.Literal:
		return ex.Type
	case *ast.Identifier:
		return ex.Type
	case *ast.UnaryOp:
		return ex.Type
	case *ast.BinaryOp:
		return ex.Type
	case *ast.Call:
		return ex.Type
	case *ast.ArrayIndex:
		return ex.Type
	}
	return ast.TypeUnknown
}

func isConstantExpr(e ast.Expr) bool {
	switch ex := e.(type) {
	case *ast.Literal:
		return true
	case *ast.Identifier:
		return ex.Constant
	case *ast.BinaryOp:
		return ex.Constant
	case *ast.UnaryOp:
		return ex.Constant
	}
	return false
}

func isZeroConstant(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Kind == ast.LiteralInt && lit.Value == "0"
}

func isNumeric(t ast.DataType) bool {
	switch t {
	case ast.TypeInt, ast.TypeFloat, ast.TypeDouble, ast.TypeChar:
		return true
	}
	return false
}

// numericRank orders numeric types for promotion: double > float > int,
// with char promoting to int.
var numericRank = map[ast.DataType]int{
	ast.TypeChar: 0, ast.TypeInt: 1, ast.TypeFloat: 2, ast.TypeDouble: 3,
}

func promote(a, b ast.DataType) ast.DataType {
	ra, oka := numericRank[a]
	rb, okb := numericRank[b]
	if !oka || !okb {
		return ast.TypeUnknown
	}
	if ra >= rb {
		if a == ast.TypeChar {
			return ast.TypeInt
		}
		return a
	}
	if b == ast.TypeChar {
		return ast.TypeInt
	}
	return b
}

// isCompatible reports whether a value of type from may be used where a
// value of type to is expected: equal types are always compatible; numeric
// types (including char) are compatible with each other in either
// direction (narrowing is permitted at this layer, unlike true C semantics,
// matching the specified "numeric <-> numeric: compatible" rule).
func isCompatible(from, to ast.DataType) bool {
	if from == to {
		return true
	}
	return isNumeric(from) && isNumeric(to)
}
