// Package clang defines the concrete context-free grammar for the small
// C-like language the pipeline compiles, and the per-production builder
// functions that turn a parse into an internal/ast tree. It is the single
// place that ties the generic internal/grammar, internal/lalr, and
// internal/parser packages to one specific language.
package clang

import (
	"github.com/dekarrin/minic/internal/grammar"
	"github.com/dekarrin/minic/internal/ierrors"
	"github.com/dekarrin/minic/internal/lalr"
	"github.com/dekarrin/minic/internal/parser"
	"github.com/dekarrin/minic/internal/token"
)

// Non-terminal names.
const (
	nProgram        = "Program"
	nDeclList       = "DeclList"
	nDecl           = "Decl"
	nType           = "Type"
	nVarDecl        = "VarDecl"
	nFuncDecl       = "FuncDecl"
	nParamListOpt   = "ParamListOpt"
	nParamList      = "ParamList"
	nParam          = "Param"
	nBlock          = "Block"
	nStmtList       = "StmtList"
	nStmt           = "Stmt"
	nExprStmt       = "ExprStmt"
	nVarDeclStmt    = "VarDeclStmt"
	nAssignStmt     = "AssignStmt"
	nAssignOp       = "AssignOp"
	nIfStmt         = "IfStmt"
	nWhileStmt      = "WhileStmt"
	nDoWhileStmt    = "DoWhileStmt"
	nForStmt        = "ForStmt"
	nForInitOpt     = "ForInitOpt"
	nForUpdateOpt   = "ForUpdateOpt"
	nVarDeclNoSemi  = "VarDeclNoSemi"
	nAssignNoSemi   = "AssignNoSemi"
	nExprOpt        = "ExprOpt"
	nReturnStmt     = "ReturnStmt"
	nBreakStmt      = "BreakStmt"
	nContinueStmt   = "ContinueStmt"
	nGotoStmt       = "GotoStmt"
	nLabelStmt      = "LabelStmt"
	nSwitchStmt     = "SwitchStmt"
	nCaseList       = "CaseList"
	nCaseClause     = "CaseClause"
	nDefaultOpt     = "DefaultOpt"
	nConstExpr      = "ConstExpr"
	nExpr           = "Expr"
	nLogicalOr      = "LogicalOr"
	nLogicalAnd     = "LogicalAnd"
	nEquality       = "Equality"
	nRelational     = "Relational"
	nAdditive       = "Additive"
	nMultiplicative = "Multiplicative"
	nUnary          = "Unary"
	nPostfix        = "Postfix"
	nPrimary        = "Primary"
	nArgListOpt     = "ArgListOpt"
	nArgList        = "ArgList"
)

// t returns the grammar terminal symbol name for a token class: its ID.
func t(c token.Class) string { return c.ID() }

// rule is a (non-terminal, production) pair used to build both the grammar
// and the builder-function registry from one literal table, so the two
// never drift apart.
type rule struct {
	nt   string
	prod grammar.Production
	build parser.BuildFunc
}

// Build assembles the full grammar plus its builder-function registry. The
// grammar is fixed at compile time, so a failure here is a grammar-
// construction bug rather than anything a caller's input could trigger, but
// it is still returned as a fatal ierrors value rather than panicking: the
// caller (a CLI driver or a pipeline construction) decides how to report it.
func Build() (parser.Grammar, error) {
	g := grammar.Grammar{}

	for _, cls := range token.AllClasses() {
		g.AddTerm(cls.ID(), cls)
	}

	builders := map[string]parser.BuildFunc{}
	for _, r := range rules() {
		g.AddRule(r.nt, r.prod)
		if r.build != nil {
			builders[parser.BuilderKey(r.nt, r.prod)] = r.build
		}
	}
	g.SetStartSymbol(nProgram)

	tbl, err := lalr.BuildTable(g)
	if err != nil {
		return parser.Grammar{}, ierrors.Wrap(err, "the clang grammar could not build its LALR(1) table", "")
	}

	return parser.Grammar{Grammar: g, Table: tbl, Builders: builders}, nil
}
