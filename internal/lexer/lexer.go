// Package lexer drives the hand-assembled character DFAs in internal/dfa
// over source text: at each position it tries every sub-automaton family,
// keeps the longest match (ties broken by family priority order), advances
// past it, and reclassifies identifier-shaped lexemes against
// token.KeywordMap. Whitespace and comments are suppressed by default.
package lexer

import (
	"fmt"
	"strings"

	"github.com/dekarrin/minic/internal/dfa"
	"github.com/dekarrin/minic/internal/token"
)

// Error is a lexical error: no sub-automaton accepted any prefix starting at
// the given line/column.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexical error: %s (line %d, col %d)", e.Message, e.Line, e.Column)
}

// Options configures a Lexer's behavior.
type Options struct {
	// Suppress is the set of token class IDs that should never be emitted
	// into the output token stream (still scanned and skipped over, just
	// not reported). Defaults to whitespace and comments.
	Suppress map[string]bool
}

// DefaultOptions suppresses whitespace and comments, the normal mode for
// feeding a parser.
func DefaultOptions() Options {
	return Options{Suppress: map[string]bool{
		token.Whitespace.ID(): true,
		token.Comment.ID():    true,
	}}
}

// Lexer is a reusable lexical analyzer: Reset points it at new source text,
// Analyze runs it to completion.
type Lexer struct {
	families []dfa.Automaton
	opts     Options

	src      []rune
	pos      int
	line     int
	linePos  int
	lineText []string
}

// New returns a Lexer over the standard set of hand-assembled sub-automata
// (internal/dfa.All), using opts to decide which classes are suppressed.
func New(opts Options) *Lexer {
	return &Lexer{families: dfa.All(), opts: opts}
}

// Reset points the Lexer at new source text, for reuse across multiple
// compilation runs without reallocating its sub-automata.
func (l *Lexer) Reset(src string) {
	l.src = []rune(src)
	l.pos = 0
	l.line = 1
	l.linePos = 1
	l.lineText = strings.Split(src, "\n")
}

// HasMore reports whether there is unconsumed input.
func (l *Lexer) HasMore() bool {
	return l.pos < len(l.src)
}

// currentLineText returns the full text of the line the lexer is currently
// on, for attaching to tokens/errors.
func (l *Lexer) currentLineText() string {
	idx := l.line - 1
	if idx < 0 || idx >= len(l.lineText) {
		return ""
	}
	return l.lineText[idx]
}

// NextToken scans and returns the next non-suppressed token, or an *Error if
// no sub-automaton matches at the current position. Returns a token.EndOfText
// token (never an error) once input is exhausted.
func (l *Lexer) NextToken() (token.Token, error) {
	for {
		if !l.HasMore() {
			return token.New(token.EndOfText, "", l.line, l.linePos, l.currentLineText()), nil
		}

		startLine, startCol := l.line, l.linePos
		lexeme, cls, consumed, matched := l.longestMatch()
		if !matched {
			r := l.src[l.pos]
			return nil, &Error{
				Message: fmt.Sprintf("unrecognized character %q", r),
				Line:    startLine,
				Column:  startCol,
			}
		}

		l.advance(consumed)

		if cls.ID() == token.Identifier.ID() {
			if kw, ok := token.KeywordMap[lexeme]; ok {
				cls = kw
			}
		}

		if l.opts.Suppress[cls.ID()] {
			continue
		}

		return token.New(cls, lexeme, startLine, startCol, l.lineText[startLine-1]), nil
	}
}

// longestMatch tries every family at the current position and returns the
// longest accepted run, its class, how many runes it consumed, and whether
// any family matched at all. Ties are broken by family declaration order
// (internal/dfa.All's priority order).
func (l *Lexer) longestMatch() (lexeme string, cls token.Class, consumed int, matched bool) {
	bestLen := -1
	var bestCls token.Class

	for _, fam := range l.families {
		n, c, ok := l.tryFamily(fam)
		if !ok {
			continue
		}
		if n > bestLen {
			bestLen = n
			bestCls = c
		}
	}

	if bestLen <= 0 {
		return "", nil, 0, false
	}
	return string(l.src[l.pos : l.pos+bestLen]), bestCls, bestLen, true
}

// tryFamily runs a single family's DFA from the lexer's current position as
// far as it can, tracking the most recently seen accepting state so the
// family's answer is always a maximal-munch match, not just "does the whole
// rest of input match".
func (l *Lexer) tryFamily(fam dfa.Automaton) (consumed int, cls token.Class, ok bool) {
	state := fam.DFA.Start
	lastAcceptLen := -1
	var lastAcceptCls token.Class

	for i := l.pos; i < len(l.src); i++ {
		sym, recognized := fam.Classify(l.src[i])
		if !recognized {
			break
		}
		next := fam.DFA.Next(state, sym)
		if next == "" {
			break
		}
		state = next
		if fam.DFA.IsAccepting(state) {
			lastAcceptLen = i - l.pos + 1
			lastAcceptCls = fam.DFA.GetValue(state)
		}
	}

	if lastAcceptLen < 0 {
		return 0, nil, false
	}
	return lastAcceptLen, lastAcceptCls, true
}

// advance moves the lexer's position forward n runes, updating line/column
// bookkeeping for every newline it passes (a whitespace lexeme can span
// lines; string literals and comments stop at end of line by construction).
func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.src[l.pos] == '\n' {
			l.line++
			l.linePos = 1
		} else {
			l.linePos++
		}
		l.pos++
	}
}

// Analyze runs the lexer to completion over src and returns the full token
// stream (ending with an EndOfText token) or the first lexical error
// encountered.
func Analyze(src string, opts Options) (token.Stream, error) {
	l := New(opts)
	l.Reset(src)

	var toks []token.Token
	for {
		t, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Class().ID() == token.EndOfText.ID() {
			break
		}
	}
	return token.NewStream(toks), nil
}

// Recover skips one rune at the lexer's current position, for use after
// NextToken returns an *Error: the offending character is discarded and
// scanning resumes at the next one.
func (l *Lexer) Recover() {
	if l.HasMore() {
		l.advance(1)
	}
}

// AnalyzeAll runs the lexer to completion over src and never aborts on a
// lexical error: every unrecognized character is recorded as an *Error and
// skipped, and scanning continues to end of input. Returns every non-
// suppressed token (always ending with an EndOfText token) alongside every
// error encountered, in source order.
func AnalyzeAll(src string, opts Options) ([]token.Token, []*Error) {
	l := New(opts)
	l.Reset(src)

	var toks []token.Token
	var errs []*Error
	for {
		t, err := l.NextToken()
		if err != nil {
			errs = append(errs, err.(*Error))
			l.Recover()
			continue
		}
		toks = append(toks, t)
		if t.Class().ID() == token.EndOfText.ID() {
			break
		}
	}
	return toks, errs
}
