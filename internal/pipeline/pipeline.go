// Package pipeline orchestrates a full compile run: source bytes through
// the lexer, the clang grammar's parser, the semantic analyzer, and the IR
// generator, in that order, collecting one result struct per stage. A
// pipeline run never panics on user input; fatal errors (ierrors) are
// reserved for conditions that make the pipeline itself unusable (a
// grammar that fails to build its LALR(1) table).
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/minic/internal/ast"
	"github.com/dekarrin/minic/internal/clang"
	"github.com/dekarrin/minic/internal/config"
	"github.com/dekarrin/minic/internal/diag"
	"github.com/dekarrin/minic/internal/ir"
	"github.com/dekarrin/minic/internal/irgen"
	"github.com/dekarrin/minic/internal/lexer"
	"github.com/dekarrin/minic/internal/parser"
	"github.com/dekarrin/minic/internal/semantic"
	"github.com/dekarrin/minic/internal/symbols"
	"github.com/dekarrin/minic/internal/token"
)

// LexicalResult is the lexer stage's output.
type LexicalResult struct {
	Tokens  []token.Token
	Errors  []*lexer.Error
	Success bool
}

// ParseResult is the parser stage's output.
type ParseResult struct {
	AST          *ast.Program
	Errors       diag.Report
	Success      bool
	NumTokens    int
	ParseTimeMS  float64
	ASTNodeCount int
}

// SemanticAnalysisResult is the semantic analysis stage's output.
type SemanticAnalysisResult struct {
	Success        bool
	Errors         []diag.Diagnostic
	Warnings       []diag.Diagnostic
	SymbolTable    *symbols.Table
	TotalSymbols   int
	TotalScopes    int
	AnalysisTimeMS float64
}

// CodeGenStatistics are the summary counts a driver prints alongside the IR.
type CodeGenStatistics struct {
	InstructionCount int
	BasicBlockCount  int
	TemporaryCount   int
	LabelCount       int
}

// CodeGenResult is the IR generation stage's output.
type CodeGenResult struct {
	Success    bool
	Errors     []diag.Diagnostic
	Warnings   []diag.Diagnostic
	IR         *ir.Program
	Statistics CodeGenStatistics
}

// Result is the outcome of one full pipeline run.
type Result struct {
	RunID    string
	Lexical  LexicalResult
	Parse    ParseResult
	Semantic SemanticAnalysisResult
	CodeGen  CodeGenResult
	Success  bool
}

// Pipeline runs source text through every compile stage using cfg.
type Pipeline struct {
	cfg     config.Pipeline
	grammar parser.Grammar
}

// New returns a Pipeline configured per cfg, building the clang grammar's
// LALR(1) table once up front (a fixed cost independent of any one run). The
// returned error is an ierrors fatal value: the grammar is fixed at compile
// time, so this only ever fires if the grammar itself is broken, but the
// caller still decides how to report it rather than New panicking.
func New(cfg config.Pipeline) (*Pipeline, error) {
	g, err := clang.Build()
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, grammar: g}, nil
}

// Compile runs the full pipeline over src and returns every stage's result.
// Each stage still runs even if an earlier one reported errors, mirroring a
// single-pass compiler's "keep going to surface as many diagnostics as
// possible" policy — except a stage whose own input is unusable (no AST
// for semantic analysis to walk) short-circuits its own remaining stages.
func (pl *Pipeline) Compile(src string) Result {
	runID := uuid.NewString()

	lexRes := pl.runLexer(src)
	parseRes := pl.runParser(lexRes.Tokens)

	var semRes SemanticAnalysisResult
	var codeRes CodeGenResult
	if parseRes.AST != nil {
		semRes = pl.runSemantic(parseRes.AST)
		codeRes = pl.runCodeGen(parseRes.AST)
	}

	success := lexRes.Success && parseRes.Success && semRes.Success && codeRes.Success

	return Result{
		RunID:    runID,
		Lexical:  lexRes,
		Parse:    parseRes,
		Semantic: semRes,
		CodeGen:  codeRes,
		Success:  success,
	}
}

func (pl *Pipeline) runLexer(src string) LexicalResult {
	opts := lexer.DefaultOptions()
	for _, id := range pl.cfg.SuppressedTokenKinds {
		opts.Suppress[id] = true
	}
	toks, errs := lexer.AnalyzeAll(src, opts)
	return LexicalResult{Tokens: toks, Errors: errs, Success: len(errs) == 0}
}

func (pl *Pipeline) runParser(toks []token.Token) ParseResult {
	if len(toks) == 0 {
		toks = []token.Token{token.New(token.EndOfText, "", 1, 1, "")}
	}
	stream := token.NewStream(toks)

	start := time.Now()
	p := parser.New(pl.grammar)
	res := p.Parse(stream)
	elapsed := time.Since(start)

	prog, _ := res.Value.(*ast.Program)
	return ParseResult{
		AST:          prog,
		Errors:       res.Report,
		Success:      res.Success && prog != nil,
		NumTokens:    len(toks),
		ParseTimeMS:  float64(elapsed.Microseconds()) / 1000,
		ASTNodeCount: countNodes(prog),
	}
}

func (pl *Pipeline) runSemantic(prog *ast.Program) SemanticAnalysisResult {
	cfg := semantic.Config{
		CheckUninitializedVars: pl.cfg.CheckUninitializedVars,
		WarningsAsErrors:       pl.cfg.WarningsAsErrors,
		ReportUnusedVariables:  pl.cfg.ReportUnusedVariables,
	}
	start := time.Now()
	res := semantic.Analyze(prog, cfg)
	elapsed := time.Since(start)

	return SemanticAnalysisResult{
		Success:        res.Success,
		Errors:         res.Report.Errors(),
		Warnings:       res.Report.Warnings(),
		SymbolTable:    res.Symbols,
		TotalSymbols:   res.TotalSymbols,
		TotalScopes:    res.TotalScopes,
		AnalysisTimeMS: float64(elapsed.Microseconds()) / 1000,
	}
}

func (pl *Pipeline) runCodeGen(prog *ast.Program) CodeGenResult {
	cfg := irgen.Config{
		EmitComments:  pl.cfg.EmitComments,
		FoldConstants: pl.cfg.FoldConstants,
	}
	res := irgen.Generate(prog, cfg)

	stats := CodeGenStatistics{}
	if res.Program != nil {
		stats = CodeGenStatistics{
			InstructionCount: res.Program.InstructionCount(),
			BasicBlockCount:  res.Program.BasicBlockCount(),
			TemporaryCount:   res.Program.TemporaryCount(),
			LabelCount:       res.Program.LabelCount(),
		}
	}

	return CodeGenResult{
		Success:    res.Success,
		Errors:     res.Report.Errors(),
		Warnings:   res.Report.Warnings(),
		IR:         res.Program,
		Statistics: stats,
	}
}

// countNodes returns a rough AST node count: one per declaration, statement,
// and expression node reachable from prog, reported as ASTNodeCount.
func countNodes(prog *ast.Program) int {
	if prog == nil {
		return 0
	}
	n := 1
	for _, d := range prog.Declarations {
		n += countDecl(d)
	}
	return n
}

func countDecl(d ast.Decl) int {
	switch v := d.(type) {
	case *ast.VarDecl:
		return 1 + countExpr(v.Initializer)
	case *ast.FuncDecl:
		n := 1 + len(v.Params)
		n += countStmt(v.Body)
		return n
	}
	return 1
}

func countStmt(s ast.Stmt) int {
	if s == nil {
		return 0
	}
	n := 1
	switch v := s.(type) {
	case *ast.Block:
		for _, inner := range v.Statements {
			n += countStmt(inner)
		}
	case *ast.If:
		n += countExpr(v.Condition) + countStmt(v.Then) + countStmt(v.Else)
	case *ast.While:
		n += countExpr(v.Condition) + countStmt(v.Body)
	case *ast.DoWhile:
		n += countExpr(v.Condition) + countStmt(v.Body)
	case *ast.For:
		n += countStmt(v.Init) + countExpr(v.Cond) + countStmt(v.Update) + countStmt(v.Body)
	case *ast.Switch:
		n += countExpr(v.Selector)
		for _, c := range v.Cases {
			n += countExpr(c.Value)
			for _, inner := range c.Statements {
				n += countStmt(inner)
			}
		}
		for _, inner := range v.DefStmts {
			n += countStmt(inner)
		}
	case *ast.Return:
		n += countExpr(v.Value)
	case *ast.ExprStmt:
		n += countExpr(v.Expr)
	case *ast.VarDeclStmt:
		n += countExpr(v.Initializer)
	case *ast.Assignment:
		n += countExpr(v.Left) + countExpr(v.Right)
	case *ast.Label:
		n += countStmt(v.Stmt)
	}
	return n
}

func countExpr(e ast.Expr) int {
	if e == nil {
		return 0
	}
	n := 1
	switch v := e.(type) {
	case *ast.BinaryOp:
		n += countExpr(v.Left) + countExpr(v.Right)
	case *ast.UnaryOp:
		n += countExpr(v.Operand)
	case *ast.Call:
		for _, arg := range v.Args {
			n += countExpr(arg)
		}
	case *ast.ArrayIndex:
		n += countExpr(v.Array) + countExpr(v.Index)
	}
	return n
}
