package lalr

import (
	"fmt"
	"strings"

	"github.com/dekarrin/minic/internal/automaton"
	"github.com/dekarrin/minic/internal/grammar"
	"github.com/dekarrin/minic/internal/util"
)

// Table is the ACTION/GOTO parse table for a grammar, plus the automaton it
// was derived from (kept around for tracing and debug dumps).
type Table struct {
	DFA automaton.DFA[itemSet]

	action map[string]map[string]Action
	goTo   map[string]map[string]string

	terminals    []string
	nonTerminals []string

	Conflicts []error
}

// BuildTable constructs the LALR(1) ACTION/GOTO table for g. Conflicts are
// recorded (first action wins, by insertion order: shifts are processed
// before reduces for a given state/terminal pair) and returned in Conflicts
// rather than aborting table construction, so a caller can report every
// conflict found in one pass instead of stopping at the first one.
func BuildTable(g grammar.Grammar) (*Table, error) {
	dfa, err := BuildViablePrefixDFA(g)
	if err != nil {
		return nil, err
	}
	dfa.NumberStates()

	t := &Table{
		DFA:          dfa,
		action:       map[string]map[string]Action{},
		goTo:         map[string]map[string]string{},
		terminals:    g.Terminals().Elements(),
		nonTerminals: g.NonTerminals().Elements(),
	}

	aug := g.Augmented()
	augStart := aug.StartSymbol()
	origStart := g.StartSymbol()

	for _, state := range dfa.States().Elements() {
		items := dfa.GetValue(state)

		// shifts are recorded in a first pass so that, for any state/
		// terminal pair with a genuine conflict, the shift is the one
		// already present when the reduce pass calls setAction — matching
		// the usual shift-wins tie-break while still logging the conflict.
		for _, key := range items.Elements() {
			item := items.Get(key)
			if item.AtEnd() {
				continue
			}
			sym := item.NextSymbol()
			if !g.IsTerminal(sym) {
				continue
			}
			dest := dfa.Next(state, sym)
			if dest == "" {
				continue
			}
			t.setAction(state, sym, Action{Type: ActionShift, State: dest})
		}

		for _, key := range items.Elements() {
			item := items.Get(key)
			if !item.AtEnd() {
				continue
			}

			if item.NonTerminal == augStart && len(item.Left) == 1 && item.Left[0] == origStart && item.Lookahead == EndOfInput {
				t.setAction(state, EndOfInput, Action{Type: ActionAccept})
				continue
			}
			if item.NonTerminal == augStart {
				continue
			}

			prod := grammar.Production(item.Left)
			t.setAction(state, item.Lookahead, Action{Type: ActionReduce, Production: prod, Symbol: item.NonTerminal})
		}

		for _, nt := range g.NonTerminals().Elements() {
			dest := dfa.Next(state, nt)
			if dest != "" {
				t.setGoto(state, nt, dest)
			}
		}
	}

	return t, nil
}

func (t *Table) setAction(state, term string, a Action) {
	row, ok := t.action[state]
	if !ok {
		row = map[string]Action{}
		t.action[state] = row
	}
	existing, ok := row[term]
	if !ok {
		row[term] = a
		return
	}
	if existing.Equal(a) {
		return
	}
	t.Conflicts = append(t.Conflicts, fmt.Errorf("in state %s: %w", state, makeConflictError(existing, a, term)))
	// keep the first action recorded (shift-before-reduce insertion order
	// above means shifts already win ties against later reduces).
}

func (t *Table) setGoto(state, nt, dest string) {
	row, ok := t.goTo[state]
	if !ok {
		row = map[string]string{}
		t.goTo[state] = row
	}
	row[nt] = dest
}

// Initial returns the automaton's start state.
func (t *Table) Initial() string {
	return t.DFA.Start
}

// Action returns the ACTION table entry for (state, terminal). Returns the
// zero Action (ActionError) if none is defined.
func (t *Table) Action(state, terminal string) Action {
	row, ok := t.action[state]
	if !ok {
		return Action{Type: ActionError}
	}
	a, ok := row[terminal]
	if !ok {
		return Action{Type: ActionError}
	}
	return a
}

// Goto returns the GOTO table entry for (state, nonTerminal), or "" if
// undefined.
func (t *Table) Goto(state, nonTerminal string) string {
	row, ok := t.goTo[state]
	if !ok {
		return ""
	}
	return row[nonTerminal]
}

// String renders the full ACTION/GOTO table as a plain-text grid, for
// --dump-table style debug output.
func (t *Table) String() string {
	var sb strings.Builder
	states := util.OrderedKeys(t.action)
	sb.WriteString("STATE\tACTION\tGOTO\n")
	for _, s := range states {
		sb.WriteString(s)
		sb.WriteString("\t{")
		terms := util.OrderedKeys(t.action[s])
		for i, term := range terms {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(term)
			sb.WriteString(": ")
			sb.WriteString(t.action[s][term].String())
		}
		sb.WriteString("}\t{")
		ntRow := t.goTo[s]
		nts := util.OrderedKeys(ntRow)
		for i, nt := range nts {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(nt)
			sb.WriteString(": ")
			sb.WriteString(ntRow[nt])
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}
