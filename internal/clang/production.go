package clang

import (
	"github.com/dekarrin/minic/internal/ast"
	"github.com/dekarrin/minic/internal/grammar"
	"github.com/dekarrin/minic/internal/parser"
	"github.com/dekarrin/minic/internal/token"
)

// rules lists every production of the grammar, paired with the builder
// that turns a reduce of that exact production into an AST value.
// Single-symbol alternatives in a precedence chain (e.g. LogicalOr ->
// LogicalAnd) need no builder: the parser passes the lone child through
// unchanged.
func rules() []rule {
	var rs []rule
	add := func(nt string, prod []string, build parser.BuildFunc) {
		rs = append(rs, rule{nt: nt, prod: grammar.Production(prod), build: build})
	}

	// ---- Program / declarations ----

	add(nProgram, []string{nDeclList}, func(pos ast.Pos, c []any) any {
		return &ast.Program{Pos: pos, Declarations: asDeclList(c[0])}
	})

	add(nDeclList, []string{nDeclList, nDecl}, func(pos ast.Pos, c []any) any {
		return append(asDeclList(c[0]), asDecl(c[1]))
	})
	add(nDeclList, []string{nDecl}, func(pos ast.Pos, c []any) any {
		return []ast.Decl{asDecl(c[0])}
	})

	add(nDecl, []string{nVarDecl}, nil)
	add(nDecl, []string{nFuncDecl}, nil)

	add(nType, []string{t(token.KwInt)}, func(pos ast.Pos, c []any) any { return ast.TypeInt })
	add(nType, []string{t(token.KwFloat)}, func(pos ast.Pos, c []any) any { return ast.TypeFloat })
	add(nType, []string{t(token.KwDouble)}, func(pos ast.Pos, c []any) any { return ast.TypeDouble })
	add(nType, []string{t(token.KwChar)}, func(pos ast.Pos, c []any) any { return ast.TypeChar })
	add(nType, []string{t(token.KwString)}, func(pos ast.Pos, c []any) any { return ast.TypeString })
	add(nType, []string{t(token.KwBool)}, func(pos ast.Pos, c []any) any { return ast.TypeBool })
	add(nType, []string{t(token.KwVoid)}, func(pos ast.Pos, c []any) any { return ast.TypeVoid })

	add(nVarDecl, []string{nType, t(token.Identifier), t(token.Semi)}, func(pos ast.Pos, c []any) any {
		return &ast.VarDecl{Pos: pos, Name: tok(c[1]).Lexeme(), Type: asType(c[0])}
	})
	add(nVarDecl, []string{nType, t(token.Identifier), t(token.Assign), nExpr, t(token.Semi)}, func(pos ast.Pos, c []any) any {
		return &ast.VarDecl{Pos: pos, Name: tok(c[1]).Lexeme(), Type: asType(c[0]), Initializer: asExpr(c[3])}
	})

	add(nFuncDecl, []string{nType, t(token.Identifier), t(token.LParen), nParamListOpt, t(token.RParen), nBlock},
		func(pos ast.Pos, c []any) any {
			blk := c[5].(*ast.Block)
			return &ast.FuncDecl{Pos: pos, Name: tok(c[1]).Lexeme(), ReturnType: asType(c[0]), Params: asParamList(c[3]), Body: blk}
		})

	add(nParamListOpt, []string{nParamList}, nil)
	add(nParamListOpt, []string{}, func(pos ast.Pos, c []any) any { return []ast.Param(nil) })

	add(nParamList, []string{nParamList, t(token.Comma), nParam}, func(pos ast.Pos, c []any) any {
		return append(asParamList(c[0]), c[2].(ast.Param))
	})
	add(nParamList, []string{nParam}, func(pos ast.Pos, c []any) any {
		return []ast.Param{c[0].(ast.Param)}
	})
	add(nParam, []string{nType, t(token.Identifier)}, func(pos ast.Pos, c []any) any {
		return ast.Param{Name: tok(c[1]).Lexeme(), Type: asType(c[0])}
	})

	// ---- Blocks and statements ----

	add(nBlock, []string{t(token.LBrace), nStmtList, t(token.RBrace)}, func(pos ast.Pos, c []any) any {
		return &ast.Block{Pos: pos, Statements: asStmtList(c[1])}
	})

	add(nStmtList, []string{nStmtList, nStmt}, func(pos ast.Pos, c []any) any {
		return append(asStmtList(c[0]), asStmt(c[1]))
	})
	add(nStmtList, []string{}, func(pos ast.Pos, c []any) any { return []ast.Stmt(nil) })

	for _, alt := range []string{
		nExprStmt, nVarDeclStmt, nAssignStmt, nBlock, nIfStmt, nWhileStmt, nDoWhileStmt,
		nForStmt, nReturnStmt, nBreakStmt, nContinueStmt, nGotoStmt, nLabelStmt, nSwitchStmt,
	} {
		add(nStmt, []string{alt}, nil)
	}

	add(nExprStmt, []string{nExpr, t(token.Semi)}, func(pos ast.Pos, c []any) any {
		return &ast.ExprStmt{Pos: pos, Expr: asExpr(c[0])}
	})

	add(nVarDeclStmt, []string{nType, t(token.Identifier), t(token.Semi)}, func(pos ast.Pos, c []any) any {
		return &ast.VarDeclStmt{Pos: pos, Name: tok(c[1]).Lexeme(), Type: asType(c[0])}
	})
	add(nVarDeclStmt, []string{nType, t(token.Identifier), t(token.Assign), nExpr, t(token.Semi)}, func(pos ast.Pos, c []any) any {
		return &ast.VarDeclStmt{Pos: pos, Name: tok(c[1]).Lexeme(), Type: asType(c[0]), Initializer: asExpr(c[3])}
	})

	add(nAssignOp, []string{t(token.Assign)}, nil)
	add(nAssignOp, []string{t(token.PlusAssign)}, nil)
	add(nAssignOp, []string{t(token.MinusAssig)}, nil)
	add(nAssignOp, []string{t(token.StarAssign)}, nil)
	add(nAssignOp, []string{t(token.SlashAssig)}, nil)
	add(nAssignOp, []string{t(token.PercAssign)}, nil)

	add(nAssignStmt, []string{t(token.Identifier), nAssignOp, nExpr, t(token.Semi)}, func(pos ast.Pos, c []any) any {
		idTok := tok(c[0])
		return &ast.Assignment{
			Pos:      pos,
			Operator: tok(c[1]).Lexeme(),
			Left:     &ast.Identifier{Pos: tokPos(idTok), Name: idTok.Lexeme()},
			Right:    asExpr(c[2]),
		}
	})

	add(nIfStmt, []string{t(token.KwIf), t(token.LParen), nExpr, t(token.RParen), nStmt}, func(pos ast.Pos, c []any) any {
		return &ast.If{Pos: pos, Condition: asExpr(c[2]), Then: asStmt(c[4])}
	})
	add(nIfStmt, []string{t(token.KwIf), t(token.LParen), nExpr, t(token.RParen), nStmt, t(token.KwElse), nStmt}, func(pos ast.Pos, c []any) any {
		return &ast.If{Pos: pos, Condition: asExpr(c[2]), Then: asStmt(c[4]), Else: asStmt(c[6])}
	})

	add(nWhileStmt, []string{t(token.KwWhile), t(token.LParen), nExpr, t(token.RParen), nStmt}, func(pos ast.Pos, c []any) any {
		return &ast.While{Pos: pos, Condition: asExpr(c[2]), Body: asStmt(c[4])}
	})

	add(nDoWhileStmt, []string{t(token.KwDo), nStmt, t(token.KwWhile), t(token.LParen), nExpr, t(token.RParen), t(token.Semi)}, func(pos ast.Pos, c []any) any {
		return &ast.DoWhile{Pos: pos, Body: asStmt(c[1]), Condition: asExpr(c[4])}
	})

	add(nExprOpt, []string{nExpr}, nil)
	add(nExprOpt, []string{}, func(pos ast.Pos, c []any) any { return ast.Expr(nil) })

	add(nVarDeclNoSemi, []string{nType, t(token.Identifier), t(token.Assign), nExpr}, func(pos ast.Pos, c []any) any {
		return ast.Stmt(&ast.VarDeclStmt{Pos: pos, Name: tok(c[1]).Lexeme(), Type: asType(c[0]), Initializer: asExpr(c[3])})
	})
	add(nAssignNoSemi, []string{t(token.Identifier), t(token.Assign), nExpr}, func(pos ast.Pos, c []any) any {
		idTok := tok(c[0])
		return ast.Stmt(&ast.Assignment{
			Pos: pos, Operator: "=",
			Left:  &ast.Identifier{Pos: tokPos(idTok), Name: idTok.Lexeme()},
			Right: asExpr(c[2]),
		})
	})

	add(nForInitOpt, []string{nVarDeclNoSemi}, nil)
	add(nForInitOpt, []string{nAssignNoSemi}, nil)
	add(nForInitOpt, []string{}, func(pos ast.Pos, c []any) any { return ast.Stmt(nil) })

	add(nForUpdateOpt, []string{nAssignNoSemi}, nil)
	add(nForUpdateOpt, []string{}, func(pos ast.Pos, c []any) any { return ast.Stmt(nil) })

	add(nForStmt, []string{
		t(token.KwFor), t(token.LParen), nForInitOpt, t(token.Semi), nExprOpt, t(token.Semi), nForUpdateOpt, t(token.RParen), nStmt,
	}, func(pos ast.Pos, c []any) any {
		return &ast.For{Pos: pos, Init: asStmt(c[2]), Cond: asExpr(c[4]), Update: asStmt(c[6]), Body: asStmt(c[8])}
	})

	add(nReturnStmt, []string{t(token.KwReturn), t(token.Semi)}, func(pos ast.Pos, c []any) any {
		return &ast.Return{Pos: pos}
	})
	add(nReturnStmt, []string{t(token.KwReturn), nExpr, t(token.Semi)}, func(pos ast.Pos, c []any) any {
		return &ast.Return{Pos: pos, Value: asExpr(c[1])}
	})

	add(nBreakStmt, []string{t(token.KwBreak), t(token.Semi)}, func(pos ast.Pos, c []any) any {
		return &ast.Break{Pos: pos}
	})
	add(nContinueStmt, []string{t(token.KwContinue), t(token.Semi)}, func(pos ast.Pos, c []any) any {
		return &ast.Continue{Pos: pos}
	})
	add(nGotoStmt, []string{t(token.KwGoto), t(token.Identifier), t(token.Semi)}, func(pos ast.Pos, c []any) any {
		return &ast.Goto{Pos: pos, Label: tok(c[1]).Lexeme()}
	})
	add(nLabelStmt, []string{t(token.Identifier), t(token.Colon), nStmt}, func(pos ast.Pos, c []any) any {
		return &ast.Label{Pos: pos, Name: tok(c[0]).Lexeme(), Stmt: asStmt(c[2])}
	})

	// ---- Switch ----

	add(nConstExpr, []string{t(token.IntLiteral)}, func(pos ast.Pos, c []any) any {
		return &ast.Literal{Pos: pos, Kind: ast.LiteralInt, Value: tok(c[0]).Lexeme()}
	})
	add(nConstExpr, []string{t(token.KwTrue)}, func(pos ast.Pos, c []any) any {
		return &ast.Literal{Pos: pos, Kind: ast.LiteralBool, Value: "true"}
	})
	add(nConstExpr, []string{t(token.KwFalse)}, func(pos ast.Pos, c []any) any {
		return &ast.Literal{Pos: pos, Kind: ast.LiteralBool, Value: "false"}
	})

	add(nSwitchStmt, []string{
		t(token.KwSwitch), t(token.LParen), nExpr, t(token.RParen), t(token.LBrace), nCaseList, nDefaultOpt, t(token.RBrace),
	}, func(pos ast.Pos, c []any) any {
		sw := &ast.Switch{Pos: pos, Selector: asExpr(c[2]), Cases: asCaseList(c[5])}
		if def, ok := c[6].([]ast.Stmt); ok {
			sw.HasDef = true
			sw.DefStmts = def
		}
		return sw
	})

	add(nCaseList, []string{nCaseList, nCaseClause}, func(pos ast.Pos, c []any) any {
		return append(asCaseList(c[0]), c[1].(ast.Case))
	})
	add(nCaseList, []string{}, func(pos ast.Pos, c []any) any { return []ast.Case(nil) })

	add(nCaseClause, []string{t(token.KwCase), nConstExpr, t(token.Colon), nStmtList}, func(pos ast.Pos, c []any) any {
		return ast.Case{Pos: pos, Value: asExpr(c[1]), Statements: asStmtList(c[3])}
	})

	add(nDefaultOpt, []string{t(token.KwDefault), t(token.Colon), nStmtList}, func(pos ast.Pos, c []any) any {
		return asStmtList(c[2])
	})
	add(nDefaultOpt, []string{}, func(pos ast.Pos, c []any) any { return nil })

	// ---- Expressions (precedence climbing) ----

	add(nExpr, []string{nLogicalOr}, nil)

	add(nLogicalOr, []string{nLogicalOr, t(token.Or), nLogicalAnd}, func(pos ast.Pos, c []any) any {
		return binOp(pos, c[0], c[1], c[2])
	})
	add(nLogicalOr, []string{nLogicalAnd}, nil)

	add(nLogicalAnd, []string{nLogicalAnd, t(token.And), nEquality}, func(pos ast.Pos, c []any) any {
		return binOp(pos, c[0], c[1], c[2])
	})
	add(nLogicalAnd, []string{nEquality}, nil)

	add(nEquality, []string{nEquality, t(token.Eq), nRelational}, func(pos ast.Pos, c []any) any { return binOp(pos, c[0], c[1], c[2]) })
	add(nEquality, []string{nEquality, t(token.Neq), nRelational}, func(pos ast.Pos, c []any) any { return binOp(pos, c[0], c[1], c[2]) })
	add(nEquality, []string{nRelational}, nil)

	add(nRelational, []string{nRelational, t(token.Lt), nAdditive}, func(pos ast.Pos, c []any) any { return binOp(pos, c[0], c[1], c[2]) })
	add(nRelational, []string{nRelational, t(token.Leq), nAdditive}, func(pos ast.Pos, c []any) any { return binOp(pos, c[0], c[1], c[2]) })
	add(nRelational, []string{nRelational, t(token.Gt), nAdditive}, func(pos ast.Pos, c []any) any { return binOp(pos, c[0], c[1], c[2]) })
	add(nRelational, []string{nRelational, t(token.Geq), nAdditive}, func(pos ast.Pos, c []any) any { return binOp(pos, c[0], c[1], c[2]) })
	add(nRelational, []string{nAdditive}, nil)

	add(nAdditive, []string{nAdditive, t(token.Plus), nMultiplicative}, func(pos ast.Pos, c []any) any { return binOp(pos, c[0], c[1], c[2]) })
	add(nAdditive, []string{nAdditive, t(token.Minus), nMultiplicative}, func(pos ast.Pos, c []any) any { return binOp(pos, c[0], c[1], c[2]) })
	add(nAdditive, []string{nMultiplicative}, nil)

	add(nMultiplicative, []string{nMultiplicative, t(token.Star), nUnary}, func(pos ast.Pos, c []any) any { return binOp(pos, c[0], c[1], c[2]) })
	add(nMultiplicative, []string{nMultiplicative, t(token.Slash), nUnary}, func(pos ast.Pos, c []any) any { return binOp(pos, c[0], c[1], c[2]) })
	add(nMultiplicative, []string{nMultiplicative, t(token.Percent), nUnary}, func(pos ast.Pos, c []any) any { return binOp(pos, c[0], c[1], c[2]) })
	add(nMultiplicative, []string{nUnary}, nil)

	add(nUnary, []string{t(token.Not), nUnary}, func(pos ast.Pos, c []any) any {
		return &ast.UnaryOp{Pos: pos, Operator: "!", Operand: asExpr(c[1])}
	})
	add(nUnary, []string{t(token.Minus), nUnary}, func(pos ast.Pos, c []any) any {
		return &ast.UnaryOp{Pos: pos, Operator: "-", Operand: asExpr(c[1])}
	})
	add(nUnary, []string{t(token.Plus), nUnary}, func(pos ast.Pos, c []any) any {
		return &ast.UnaryOp{Pos: pos, Operator: "+", Operand: asExpr(c[1])}
	})
	add(nUnary, []string{nPostfix}, nil)

	add(nPostfix, []string{nPostfix, t(token.LBracket), nExpr, t(token.RBracket)}, func(pos ast.Pos, c []any) any {
		return &ast.ArrayIndex{Pos: pos, Array: asExpr(c[0]), Index: asExpr(c[2])}
	})
	add(nPostfix, []string{nPrimary}, nil)

	add(nPrimary, []string{t(token.Identifier)}, func(pos ast.Pos, c []any) any {
		return &ast.Identifier{Pos: pos, Name: tok(c[0]).Lexeme()}
	})
	add(nPrimary, []string{t(token.Identifier), t(token.LParen), nArgListOpt, t(token.RParen)}, func(pos ast.Pos, c []any) any {
		return &ast.Call{Pos: pos, Callee: tok(c[0]).Lexeme(), Args: asArgList(c[2])}
	})
	add(nPrimary, []string{t(token.IntLiteral)}, func(pos ast.Pos, c []any) any {
		return &ast.Literal{Pos: pos, Kind: ast.LiteralInt, Value: tok(c[0]).Lexeme()}
	})
	add(nPrimary, []string{t(token.RealLit)}, func(pos ast.Pos, c []any) any {
		return &ast.Literal{Pos: pos, Kind: ast.LiteralReal, Value: tok(c[0]).Lexeme()}
	})
	add(nPrimary, []string{t(token.StringLit)}, func(pos ast.Pos, c []any) any {
		return &ast.Literal{Pos: pos, Kind: ast.LiteralString, Value: tok(c[0]).Lexeme()}
	})
	add(nPrimary, []string{t(token.KwTrue)}, func(pos ast.Pos, c []any) any {
		return &ast.Literal{Pos: pos, Kind: ast.LiteralBool, Value: "true"}
	})
	add(nPrimary, []string{t(token.KwFalse)}, func(pos ast.Pos, c []any) any {
		return &ast.Literal{Pos: pos, Kind: ast.LiteralBool, Value: "false"}
	})
	add(nPrimary, []string{t(token.LParen), nExpr, t(token.RParen)}, func(pos ast.Pos, c []any) any {
		return asExpr(c[1])
	})

	add(nArgListOpt, []string{nArgList}, nil)
	add(nArgListOpt, []string{}, func(pos ast.Pos, c []any) any { return []ast.Expr(nil) })
	add(nArgList, []string{nArgList, t(token.Comma), nExpr}, func(pos ast.Pos, c []any) any {
		return append(asArgList(c[0]), asExpr(c[2]))
	})
	add(nArgList, []string{nExpr}, func(pos ast.Pos, c []any) any {
		return []ast.Expr{asExpr(c[0])}
	})

	return rs
}
