// Package token defines the lexical category model shared by the DFA, the
// lexer driver, the grammar, and the parser: token classes, tokens, and token
// streams.
package token

import "strings"

// Class is a lexical category. The ID uniquely identifies the class among all
// terminals of the grammar; Human is a display name used in diagnostics.
type Class interface {
	// ID returns the ID of the token class. The ID must uniquely identify the
	// token within all terminals of a grammar.
	ID() string

	// Human returns a human-readable name for the token class, for use in
	// contexts such as error reporting.
	Human() string

	// Equal returns whether the Class equals another. If two IDs are the
	// same, Equal must return true.
	Equal(o any) bool
}

type simpleClass struct {
	id    string
	human string
}

func (c simpleClass) ID() string    { return c.id }
func (c simpleClass) Human() string { return c.human }

func (c simpleClass) Equal(o any) bool {
	other, ok := o.(Class)
	if !ok {
		otherPtr, ok := o.(*Class)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	return strings.EqualFold(other.ID(), c.id)
}

func (c simpleClass) String() string { return c.id }

// NewClass returns a new Class with the given ID and human-readable name. The
// ID is lower-cased for use as a map key and grammar terminal name.
func NewClass(id string, human string) Class {
	return simpleClass{id: strings.ToLower(id), human: human}
}

// Fixed lexical categories named directly in the spec's token model (§3).
var (
	Identifier = NewClass("identifier", "identifier")
	IntLiteral = NewClass("int_literal", "integer literal")
	RealLit    = NewClass("real_literal", "real literal")
	StringLit  = NewClass("string_literal", "string literal")

	KwIf       = NewClass("kw_if", "'if'")
	KwElse     = NewClass("kw_else", "'else'")
	KwWhile    = NewClass("kw_while", "'while'")
	KwFor      = NewClass("kw_for", "'for'")
	KwDo       = NewClass("kw_do", "'do'")
	KwBreak    = NewClass("kw_break", "'break'")
	KwContinue = NewClass("kw_continue", "'continue'")
	KwReturn   = NewClass("kw_return", "'return'")
	KwInt      = NewClass("kw_int", "'int'")
	KwFloat    = NewClass("kw_float", "'float'")
	KwDouble   = NewClass("kw_double", "'double'")
	KwChar     = NewClass("kw_char", "'char'")
	KwString   = NewClass("kw_string", "'string'")
	KwVoid     = NewClass("kw_void", "'void'")
	KwBool     = NewClass("kw_bool", "'bool'")
	KwTrue     = NewClass("kw_true", "'true'")
	KwFalse    = NewClass("kw_false", "'false'")
	KwGoto     = NewClass("kw_goto", "'goto'")
	KwSwitch   = NewClass("kw_switch", "'switch'")
	KwCase     = NewClass("kw_case", "'case'")
	KwDefault  = NewClass("kw_default", "'default'")

	Plus       = NewClass("plus", "'+'")
	Minus      = NewClass("minus", "'-'")
	Star       = NewClass("star", "'*'")
	Slash      = NewClass("slash", "'/'")
	Percent    = NewClass("percent", "'%'")
	Assign     = NewClass("assign", "'='")
	PlusAssign = NewClass("plus_assign", "'+='")
	MinusAssig = NewClass("minus_assign", "'-='")
	StarAssign = NewClass("star_assign", "'*='")
	SlashAssig = NewClass("slash_assign", "'/='")
	PercAssign = NewClass("percent_assign", "'%='")
	Eq         = NewClass("eq", "'=='")
	Neq        = NewClass("neq", "'!='")
	Lt         = NewClass("lt", "'<'")
	Leq        = NewClass("leq", "'<='")
	Gt         = NewClass("gt", "'>'")
	Geq        = NewClass("geq", "'>='")
	And        = NewClass("and", "'&&'")
	Or         = NewClass("or", "'||'")
	Not        = NewClass("not", "'!'")

	Semi       = NewClass("semi", "';'")
	Comma      = NewClass("comma", "','")
	LParen     = NewClass("lparen", "'('")
	RParen     = NewClass("rparen", "')'")
	LBrace     = NewClass("lbrace", "'{'")
	RBrace     = NewClass("rbrace", "'}'")
	LBracket   = NewClass("lbracket", "'['")
	RBracket   = NewClass("rbracket", "']'")
	Dot        = NewClass("dot", "'.'")
	Colon      = NewClass("colon", "':'")

	EndOfText = NewClass("$", "end of input")
	Error     = NewClass("error", "lexical error")
	Comment   = NewClass("comment", "comment")
	Whitespace = NewClass("whitespace", "whitespace")
	Undefined = NewClass("undefined_token", "undefined token")
)

// KeywordMap is the single source of truth mapping a lexeme (scanned as an
// identifier-shaped maximal run) to the keyword class it should be
// reclassified to. It is a fixed, immutable, process-wide constant — the only
// global mutable-adjacent state the core needs (per §5).
var KeywordMap = map[string]Class{
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"do":       KwDo,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"int":      KwInt,
	"float":    KwFloat,
	"double":   KwDouble,
	"char":     KwChar,
	"string":   KwString,
	"void":     KwVoid,
	"bool":     KwBool,
	"true":     KwTrue,
	"false":    KwFalse,
	"goto":     KwGoto,
	"switch":   KwSwitch,
	"case":     KwCase,
	"default":  KwDefault,
}

// AllClasses lists every token class the grammar matches, including the
// EndOfText marker that ends every LR(1) lookahead, for registering with the
// grammar as bound terminals.
func AllClasses() []Class {
	return []Class{
		Identifier, IntLiteral, RealLit, StringLit,
		KwIf, KwElse, KwWhile, KwFor, KwDo, KwBreak, KwContinue, KwReturn,
		KwInt, KwFloat, KwDouble, KwChar, KwString, KwVoid,
		KwBool, KwTrue, KwFalse, KwGoto, KwSwitch, KwCase, KwDefault,
		Plus, Minus, Star, Slash, Percent,
		Assign, PlusAssign, MinusAssig, StarAssign, SlashAssig, PercAssign,
		Eq, Neq, Lt, Leq, Gt, Geq, And, Or, Not,
		Semi, Comma, LParen, RParen, LBrace, RBrace, LBracket, RBracket, Dot, Colon,
		EndOfText,
	}
}
