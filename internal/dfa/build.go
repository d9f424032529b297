// Package dfa hand-assembles the character-level lexical automata: one small
// DFA per token family (identifiers/keywords-as-identifiers, integer and
// real literals, string literals, line comments, and the fixed operator/
// punctuator spellings), plus a Hopcroft-style partition-refinement
// minimizer shared by all of them.
//
// Each family DFA is defined over its own local input alphabet rather than
// raw Unicode code points: a Classify function maps a rune to the symbol
// the family's automaton actually branches on ("alpha", "digit", "quote",
// ...), the same simplification the Dragon Book's own transition diagrams
// make (edges labeled "letter" or "digit", not one edge per code point).
// Only the operator/punctuator family needs the literal character itself as
// its alphabet, since its spellings are a small fixed set.
package dfa

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/dekarrin/minic/internal/automaton"
	"github.com/dekarrin/minic/internal/token"
)

// Class is the per-state payload: which token class (if any) a state
// accepts as.
type Class = token.Class

// Family names one of the hand-assembled sub-automata. The lexer driver
// tries every family at the current input position and keeps the longest
// match, breaking ties by this declared priority order (keywords are not a
// separate family: they fall out of post-classifying an Identifier match
// against token.KeywordMap).
type Family int

const (
	FamilyIdentifier Family = iota
	FamilyNumber
	FamilyString
	FamilyLineComment
	FamilyOperator
	FamilyWhitespace
)

// Automaton pairs a family's DFA with the rune classifier that turns raw
// input into that family's local alphabet.
type Automaton struct {
	Family   Family
	DFA      automaton.DFA[Class]
	Classify func(r rune) (symbol string, ok bool)
}

// isASCIILetter reports whether r is in [A-Za-z]. Identifiers are ASCII-only
// per the language grammar ([A-Za-z_][A-Za-z0-9_]*); non-ASCII letters are
// not supported.
func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isASCIIDigit reports whether r is in [0-9].
func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isIdentStart reports whether r may start an identifier: an ASCII letter
// or underscore.
func isIdentStart(r rune) bool {
	return isASCIILetter(r) || r == '_'
}

// isIdentCont reports whether r may continue an identifier already begun.
func isIdentCont(r rune) bool {
	return isASCIILetter(r) || isASCIIDigit(r) || r == '_'
}

func classifyIdentifier(r rune) (string, bool) {
	switch {
	case isIdentStart(r):
		return "alpha", true
	case isASCIIDigit(r):
		return "digit", true
	default:
		return "", false
	}
}

// BuildIdentifierDFA recognizes [A-Za-z_][A-Za-z0-9_]*. Every run that
// reaches the single accepting state is lexed as token.Identifier; the
// lexer driver (not this DFA) reclassifies known spellings via
// token.KeywordMap afterward.
func BuildIdentifierDFA() Automaton {
	d := automaton.DFA[Class]{Start: "start"}
	d.AddState("start", false)
	d.AddState("body", true)
	d.SetValue("body", token.Identifier)

	d.AddTransition("start", "alpha", "body")
	d.AddTransition("body", "alpha", "body")
	d.AddTransition("body", "digit", "body")

	return Automaton{Family: FamilyIdentifier, DFA: d, Classify: classifyIdentifier}
}

func classifyNumber(r rune) (string, bool) {
	switch {
	case unicode.IsDigit(r):
		return "digit", true
	case r == '.':
		return "dot", true
	default:
		return "", false
	}
}

// BuildNumberDFA recognizes digit+ (int_literal) and digit+.digit+
// (real_literal). A trailing dot with no following digit is not consumed by
// this automaton (it stops in the int-literal accepting state and leaves the
// dot for the operator family to pick up as token.Dot).
func BuildNumberDFA() Automaton {
	d := automaton.DFA[Class]{Start: "start"}
	d.AddState("start", false)
	d.AddState("intPart", true)
	d.AddState("afterDot", false)
	d.AddState("realPart", true)
	d.SetValue("intPart", token.IntLiteral)
	d.SetValue("realPart", token.RealLit)

	d.AddTransition("start", "digit", "intPart")
	d.AddTransition("intPart", "digit", "intPart")
	d.AddTransition("intPart", "dot", "afterDot")
	d.AddTransition("afterDot", "digit", "realPart")
	d.AddTransition("realPart", "digit", "realPart")

	return Automaton{Family: FamilyNumber, DFA: d, Classify: classifyNumber}
}

func classifyString(r rune) (string, bool) {
	switch r {
	case '"':
		return "quote", true
	case '\\':
		return "backslash", true
	case '\n':
		return "", false
	default:
		return "other", true
	}
}

// BuildStringDFA recognizes "..."-delimited string literals with backslash
// escaping of the next character (any character, including a second quote
// or backslash). An unterminated literal (reaching end of line or input
// while still inside the quotes) never reaches the accepting state; the
// lexer driver reports that as a lexical error rather than this automaton,
// which only ever answers "matched so far" vs "not matched".
func BuildStringDFA() Automaton {
	d := automaton.DFA[Class]{Start: "start"}
	d.AddState("start", false)
	d.AddState("body", false)
	d.AddState("escape", false)
	d.AddState("closed", true)
	d.SetValue("closed", token.StringLit)

	d.AddTransition("start", "quote", "body")
	d.AddTransition("body", "other", "body")
	d.AddTransition("body", "backslash", "escape")
	d.AddTransition("escape", "other", "body")
	d.AddTransition("escape", "quote", "body")
	d.AddTransition("escape", "backslash", "body")
	d.AddTransition("body", "quote", "closed")

	return Automaton{Family: FamilyString, DFA: d, Classify: classifyString}
}

func classifyLineComment(r rune) (string, bool) {
	if r == '\n' {
		return "", false
	}
	if r == '/' {
		return "slash", true
	}
	return "other", true
}

// BuildLineCommentDFA recognizes "//" followed by any run of non-newline
// characters. Comments are suppressed by default (see internal/lexer), but
// still get a real token class (token.Comment) so a caller that disables
// suppression can inspect them.
func BuildLineCommentDFA() Automaton {
	d := automaton.DFA[Class]{Start: "start"}
	d.AddState("start", false)
	d.AddState("firstSlash", false)
	d.AddState("body", true)
	d.SetValue("body", token.Comment)

	d.AddTransition("start", "slash", "firstSlash")
	d.AddTransition("firstSlash", "slash", "body")
	d.AddTransition("body", "slash", "body")
	d.AddTransition("body", "other", "body")

	return Automaton{Family: FamilyLineComment, DFA: d, Classify: classifyLineComment}
}

func classifyWhitespace(r rune) (string, bool) {
	if unicode.IsSpace(r) {
		return "space", true
	}
	return "", false
}

// BuildWhitespaceDFA recognizes a maximal run of Unicode whitespace.
// Suppressed by default, like comments.
func BuildWhitespaceDFA() Automaton {
	d := automaton.DFA[Class]{Start: "start"}
	d.AddState("start", false)
	d.AddState("body", true)
	d.SetValue("body", token.Whitespace)

	d.AddTransition("start", "space", "body")
	d.AddTransition("body", "space", "body")

	return Automaton{Family: FamilyWhitespace, DFA: d, Classify: classifyWhitespace}
}

// operatorLiterals is every fixed operator/punctuator spelling, shortest
// first within a shared prefix so the trie built by addLiteralPath below
// reuses states (e.g. "<" is a prefix of "<=").
var operatorLiterals = []struct {
	lit string
	cls Class
}{
	{"+", token.Plus}, {"+=", token.PlusAssign},
	{"-", token.Minus}, {"-=", token.MinusAssig},
	{"*", token.Star}, {"*=", token.StarAssign},
	{"/", token.Slash}, {"/=", token.SlashAssig},
	{"%", token.Percent}, {"%=", token.PercAssign},
	{"=", token.Assign}, {"==", token.Eq},
	{"!", token.Not}, {"!=", token.Neq},
	{"<", token.Lt}, {"<=", token.Leq},
	{">", token.Gt}, {">=", token.Geq},
	{"&&", token.And},
	{"||", token.Or},
	{";", token.Semi}, {",", token.Comma},
	{"(", token.LParen}, {")", token.RParen},
	{"{", token.LBrace}, {"}", token.RBrace},
	{"[", token.LBracket}, {"]", token.RBracket},
	{".", token.Dot}, {":", token.Colon},
}

func classifyOperator(r rune) (string, bool) {
	return string(r), true
}

// BuildOperatorDFA assembles the sub-automaton recognizing every fixed
// operator and punctuator spelling as a literal-character trie: shared
// prefixes (e.g. "<" and "<=") fall out of ordinary longest-match DFA
// traversal rather than a hand-written disambiguation table.
func BuildOperatorDFA() Automaton {
	d := automaton.DFA[Class]{Start: "start"}
	d.AddState("start", false)

	literals := append([]struct {
		lit string
		cls Class
	}{}, operatorLiterals...)
	sort.Slice(literals, func(i, j int) bool {
		if len(literals[i].lit) != len(literals[j].lit) {
			return len(literals[i].lit) < len(literals[j].lit)
		}
		return literals[i].lit < literals[j].lit
	})

	nextState := 0
	newState := func(accepting bool) string {
		name := fmt.Sprintf("op%d", nextState)
		nextState++
		d.AddState(name, accepting)
		return name
	}

	for _, l := range literals {
		cur := d.Start
		runes := []rune(l.lit)
		for i, r := range runes {
			sym := string(r)
			last := i == len(runes)-1
			next := d.Next(cur, sym)
			if next == "" {
				next = newState(last)
				d.AddTransition(cur, sym, next)
			}
			if last {
				d.SetValue(next, l.cls)
			}
			cur = next
		}
	}

	return Automaton{Family: FamilyOperator, DFA: d, Classify: classifyOperator}
}

// All returns every hand-assembled sub-automaton, in lexer dispatch-priority
// order (see Family).
func All() []Automaton {
	return []Automaton{
		BuildIdentifierDFA(),
		BuildNumberDFA(),
		BuildStringDFA(),
		BuildLineCommentDFA(),
		BuildOperatorDFA(),
		BuildWhitespaceDFA(),
	}
}
