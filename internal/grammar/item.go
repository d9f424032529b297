// Package grammar models a context-free grammar: terminals bound to token
// classes, non-terminals, productions, and the derived LR(1) item sets used
// to build the LALR(1) viable-prefix automaton.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/minic/internal/util"
)

// Epsilon is the empty-production symbol.
const Epsilon = ""

// LR0Item is a production with a dot marking how much of its right-hand side
// has been matched: Left is the symbols before the dot, Right the symbols
// after it.
type LR0Item struct {
	NonTerminal string
	Left        []string
	Right       []string
}

func (lr0 LR0Item) Equal(o any) bool {
	other, ok := o.(LR0Item)
	if !ok {
		return false
	}
	if lr0.NonTerminal != other.NonTerminal {
		return false
	}
	if len(lr0.Left) != len(other.Left) || len(lr0.Right) != len(other.Right) {
		return false
	}
	for i := range lr0.Left {
		if lr0.Left[i] != other.Left[i] {
			return false
		}
	}
	for i := range lr0.Right {
		if lr0.Right[i] != other.Right[i] {
			return false
		}
	}
	return true
}

func (item LR0Item) String() string {
	nonTermPhrase := ""
	if item.NonTerminal != "" {
		nonTermPhrase = fmt.Sprintf("%s -> ", item.NonTerminal)
	}
	left := strings.Join(item.Left, " ")
	right := strings.Join(item.Right, " ")
	if len(left) > 0 {
		left += " "
	}
	if len(right) > 0 {
		right = " " + right
	}
	return fmt.Sprintf("%s%s.%s", nonTermPhrase, left, right)
}

// Advance returns a copy of item with the dot moved one symbol to the right.
// Panics if the dot is already at the end.
func (item LR0Item) Advance() LR0Item {
	if len(item.Right) == 0 {
		panic("cannot advance an item with nothing after the dot")
	}
	next := LR0Item{
		NonTerminal: item.NonTerminal,
		Left:        make([]string, len(item.Left)+1),
		Right:       make([]string, len(item.Right)-1),
	}
	copy(next.Left, item.Left)
	next.Left[len(item.Left)] = item.Right[0]
	copy(next.Right, item.Right[1:])
	return next
}

// AtEnd returns whether the dot is at the end of the production (a reduce
// item).
func (item LR0Item) AtEnd() bool {
	return len(item.Right) == 0
}

// NextSymbol returns the symbol immediately after the dot, or "" if AtEnd.
func (item LR0Item) NextSymbol() string {
	if item.AtEnd() {
		return ""
	}
	return item.Right[0]
}

// LR1Item is an LR0Item paired with a single lookahead terminal.
type LR1Item struct {
	LR0Item
	Lookahead string
}

func (lr1 LR1Item) Equal(o any) bool {
	other, ok := o.(LR1Item)
	if !ok {
		return false
	}
	return lr1.LR0Item.Equal(other.LR0Item) && lr1.Lookahead == other.Lookahead
}

func (lr1 LR1Item) Copy() LR1Item {
	cp := LR1Item{Lookahead: lr1.Lookahead}
	cp.NonTerminal = lr1.NonTerminal
	cp.Left = append([]string(nil), lr1.Left...)
	cp.Right = append([]string(nil), lr1.Right...)
	return cp
}

func (lr1 LR1Item) String() string {
	return fmt.Sprintf("%s, %s", lr1.LR0Item.String(), lr1.Lookahead)
}

func (lr1 LR1Item) Advance() LR1Item {
	return LR1Item{LR0Item: lr1.LR0Item.Advance(), Lookahead: lr1.Lookahead}
}

// CoreSet reduces a set of LR1Items to their LR0 cores, keyed by core string.
// Two LR(1) states with equal core sets (but possibly different lookaheads)
// are merge candidates when building the LALR(1) automaton.
func CoreSet(s util.VSet[string, LR1Item]) util.SVSet[LR0Item] {
	cores := util.NewSVSet[LR0Item]()
	for _, elem := range s.Elements() {
		lr1 := s.Get(elem)
		cores.Set(lr1.LR0Item.String(), lr1.LR0Item)
	}
	return cores
}

// EqualCoreSets returns whether two LR(1) item sets share the same LR0 cores.
func EqualCoreSets(s1, s2 util.VSet[string, LR1Item]) bool {
	return CoreSet(s1).Equal(CoreSet(s2))
}

// Production is a single right-hand-side alternative for a non-terminal. An
// empty Production denotes an epsilon production.
type Production []string

func (p Production) Equal(o Production) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p Production) String() string {
	if len(p) == 0 {
		return "ε"
	}
	return strings.Join(p, " ")
}

// Rule is the set of all productions for a single non-terminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

func (r Rule) String() string {
	alts := make([]string, len(r.Productions))
	for i, p := range r.Productions {
		alts[i] = p.String()
	}
	return fmt.Sprintf("%s -> %s", r.NonTerminal, strings.Join(alts, " | "))
}
