// Package parser implements the table-driven LR parser: a shift/reduce/
// accept/error loop over an LALR(1) action/goto table, building an AST via
// per-production builder functions registered against the grammar.
package parser

import (
	"fmt"

	"github.com/dekarrin/minic/internal/ast"
	"github.com/dekarrin/minic/internal/diag"
	"github.com/dekarrin/minic/internal/grammar"
	"github.com/dekarrin/minic/internal/lalr"
	"github.com/dekarrin/minic/internal/token"
)

// BuildFunc constructs one AST value from the values its production's
// right-hand side reduced to, in left-to-right order. Terminal symbols
// contribute their token.Token; non-terminal symbols contribute whatever
// their own BuildFunc returned.
type BuildFunc func(pos ast.Pos, children []any) any

// Grammar pairs a context-free grammar and its LALR(1) table with the
// builder functions that turn a parse into an AST. Key format matches
// grammar.Production.String(): "NT -> sym1 sym2 ..." (or "NT -> ε").
type Grammar struct {
	Grammar  grammar.Grammar
	Table    *lalr.Table
	Builders map[string]BuildFunc
}

// Parser drives Grammar.Table's action/goto loop over a token stream.
type Parser struct {
	g     Grammar
	trace func(s string)
}

// New returns a Parser over g.
func New(g Grammar) *Parser {
	return &Parser{g: g}
}

// RegisterTraceListener installs a callback invoked with a description of
// every shift/reduce/goto step, a no-op-by-default observability seam for a
// driver (GUI, test harness) to watch the parse without coupling the core
// to any UI.
func (p *Parser) RegisterTraceListener(listener func(s string)) {
	p.trace = listener
}

func (p *Parser) notifyTrace(format string, args ...any) {
	if p.trace != nil {
		p.trace(fmt.Sprintf(format, args...))
	}
}

// stackEntry pairs a parser state with the semantic value built (or
// shifted) to reach it.
type stackEntry struct {
	state string
	value any
	pos   ast.Pos
}

// Result is what Parse produces.
type Result struct {
	Success bool
	Report  diag.Report
	Value   any // the value the start symbol's production reduced to, or nil
}

// Parse runs the shift/reduce/accept/error loop over stream, an
// implementation of the classic LR-parsing algorithm (Dragon Book
// Algorithm 4.44) generalized to also build an AST via p.g.Builders.
//
// On an unexpected token, panic-mode recovery emits one error diagnostic
// and advances one token before retrying; recovery terminates the parse at
// end of input.
func (p *Parser) Parse(stream token.Stream) Result {
	var report diag.Report
	stack := []stackEntry{{state: p.g.Table.Initial()}}

	a := stream.Next()
	p.notifyTrace("next token: %s", a)

	for {
		s := stack[len(stack)-1].state
		action := p.g.Table.Action(s, a.Class().ID())
		p.notifyTrace("state %s, lookahead %s -> %s", s, a.Class().ID(), action)

		switch action.Type {
		case lalr.ActionShift:
			stack = append(stack, stackEntry{
				state: action.State,
				value: a,
				pos:   ast.Pos{Line: a.Line(), Column: a.LinePos()},
			})
			a = stream.Next()
			p.notifyTrace("next token: %s", a)

		case lalr.ActionReduce:
			prod := action.Production
			n := len(prod)

			children := make([]any, n)
			pos := ast.Pos{}
			for i := 0; i < n; i++ {
				children[i] = stack[len(stack)-n+i].value
			}
			if n > 0 {
				pos = stack[len(stack)-n].pos
			}
			stack = stack[:len(stack)-n]

			var value any
			if build, ok := p.g.Builders[BuilderKey(action.Symbol, prod)]; ok {
				value = build(pos, children)
			} else if len(children) == 1 {
				value = children[0]
			}

			t := stack[len(stack)-1].state
			next := p.g.Table.Goto(t, action.Symbol)
			if next == "" {
				report.Add(diag.New(diag.CategorySyntaxError, a.Line(), a.LinePos(),
					fmt.Sprintf("no GOTO entry for state %s on %s", t, action.Symbol)))
				return Result{Success: false, Report: report}
			}
			stack = append(stack, stackEntry{state: next, value: value, pos: pos})

		case lalr.ActionAccept:
			return Result{Success: !report.HasErrors(), Report: report, Value: stack[len(stack)-1].value}

		case lalr.ActionError:
			report.Add(diag.New(diag.CategorySyntaxError, a.Line(), a.LinePos(),
				fmt.Sprintf("unexpected token: %s", a.Lexeme())))
			if a.Class().ID() == token.EndOfText.ID() {
				return Result{Success: false, Report: report}
			}
			a = stream.Next()
			p.notifyTrace("recovery: skipped to %s", a)
		}
	}
}

// BuilderKey is the Grammar.Builders map key for the production nt -> prod:
// its full text, "nt -> sym1 sym2 ...". Used both when registering builders
// and when looking one up during a reduce.
func BuilderKey(nt string, prod grammar.Production) string {
	return nt + " -> " + prod.String()
}
