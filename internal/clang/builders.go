package clang

import (
	"github.com/dekarrin/minic/internal/ast"
	"github.com/dekarrin/minic/internal/token"
)

func tok(v any) token.Token { return v.(token.Token) }

func asExpr(v any) ast.Expr {
	if v == nil {
		return nil
	}
	return v.(ast.Expr)
}

func asStmt(v any) ast.Stmt {
	if v == nil {
		return nil
	}
	return v.(ast.Stmt)
}

func asDecl(v any) ast.Decl { return v.(ast.Decl) }

func asDeclList(v any) []ast.Decl {
	if v == nil {
		return nil
	}
	return v.([]ast.Decl)
}

func asStmtList(v any) []ast.Stmt {
	if v == nil {
		return nil
	}
	return v.([]ast.Stmt)
}

func asParamList(v any) []ast.Param {
	if v == nil {
		return nil
	}
	return v.([]ast.Param)
}

func asArgList(v any) []ast.Expr {
	if v == nil {
		return nil
	}
	return v.([]ast.Expr)
}

func asCaseList(v any) []ast.Case {
	if v == nil {
		return nil
	}
	return v.([]ast.Case)
}

func asType(v any) ast.DataType { return v.(ast.DataType) }

func tokPos(tk token.Token) ast.Pos { return ast.Pos{Line: tk.Line(), Column: tk.LinePos()} }

func binOp(pos ast.Pos, left any, opTok any, right any) ast.Expr {
	return &ast.BinaryOp{Pos: pos, Operator: tok(opTok).Lexeme(), Left: asExpr(left), Right: asExpr(right)}
}
