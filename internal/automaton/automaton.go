// Package automaton provides a generic deterministic/non-deterministic
// finite-automaton representation used both by the hand-assembled lexical
// DFA (internal/dfa) and by the LALR(1) viable-prefix automaton
// (internal/lalr). States are addressed by string name and carry an
// arbitrary value payload E; transitions map an input symbol (a one-rune
// string for the lexer, a grammar symbol name for the parser) to a next
// state.
package automaton

import (
	"fmt"
	"strings"

	"github.com/dekarrin/minic/internal/util"
)

// FATransition is a single transition edge, from an implicit source state on
// an input symbol to a destination state.
type FATransition struct {
	Input string
	Next  string
}

func (t FATransition) String() string {
	return fmt.Sprintf("=(%s)=>%s", t.Input, t.Next)
}

// DFAState is a single state of a DFA, carrying an arbitrary value payload.
type DFAState[E any] struct {
	name        string
	value       E
	transitions map[string]FATransition
	accepting   bool
	ordering    uint64
}

func (s DFAState[E]) Copy() DFAState[E] {
	cp := DFAState[E]{name: s.name, value: s.value, accepting: s.accepting, ordering: s.ordering}
	cp.transitions = make(map[string]FATransition, len(s.transitions))
	for k, v := range s.transitions {
		cp.transitions[k] = v
	}
	return cp
}

func (s DFAState[E]) String() string {
	transList := make([]string, 0, len(s.transitions))
	for _, sym := range util.OrderedKeys(s.transitions) {
		transList = append(transList, fmt.Sprintf("%s%s", sym, s.transitions[sym]))
	}
	accCh := " "
	if s.accepting {
		accCh = "*"
	}
	return fmt.Sprintf("(%s%s [%s])", accCh, s.name, strings.Join(transList, ", "))
}

// DFA is a deterministic finite automaton over string-named states and
// string-named input symbols.
type DFA[E any] struct {
	order  uint64
	states map[string]DFAState[E]
	Start  string
}

// Copy returns a duplicate of this DFA.
func (dfa DFA[E]) Copy() DFA[E] {
	copied := DFA[E]{Start: dfa.Start, states: make(map[string]DFAState[E]), order: dfa.order}
	for k := range dfa.states {
		copied.states[k] = dfa.states[k].Copy()
	}
	return copied
}

// AddState adds a new named state. A no-op if the state already exists.
func (dfa *DFA[E]) AddState(state string, accepting bool) {
	if _, ok := dfa.states[state]; ok {
		return
	}
	if dfa.states == nil {
		dfa.states = map[string]DFAState[E]{}
	}
	dfa.states[state] = DFAState[E]{
		name:        state,
		transitions: map[string]FATransition{},
		accepting:   accepting,
		ordering:    dfa.order,
	}
	dfa.order++
}

// RemoveState removes a state. Panics if anything still transitions to it.
func (dfa *DFA[E]) RemoveState(state string) {
	if _, ok := dfa.states[state]; !ok {
		return
	}
	if len(dfa.AllTransitionsTo(state)) > 0 {
		panic("can't remove state that is currently traversed to")
	}
	delete(dfa.states, state)
}

// AddTransition adds (or replaces) the transition from fromState to toState
// on input. Both states must already exist.
func (dfa *DFA[E]) AddTransition(fromState, input, toState string) {
	st, ok := dfa.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	if _, ok := dfa.states[toState]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", toState))
	}
	st.transitions[input] = FATransition{Input: input, Next: toState}
	dfa.states[fromState] = st
}

// RemoveTransition removes a single transition edge, if present.
func (dfa *DFA[E]) RemoveTransition(fromState, input, toState string) {
	st, ok := dfa.states[fromState]
	if !ok {
		return
	}
	cur, ok := st.transitions[input]
	if !ok || cur.Next != toState {
		return
	}
	delete(st.transitions, input)
}

// SetValue sets the value payload of a state.
func (dfa *DFA[E]) SetValue(state string, v E) {
	st, ok := dfa.states[state]
	if !ok {
		panic(fmt.Sprintf("setting value on non-existing state: %q", state))
	}
	st.value = v
	dfa.states[state] = st
}

// GetValue returns the value payload of a state.
func (dfa DFA[E]) GetValue(state string) E {
	return dfa.states[state].value
}

// IsAccepting returns whether state is an accepting state. Returns false if
// the state does not exist.
func (dfa DFA[E]) IsAccepting(state string) bool {
	st, ok := dfa.states[state]
	return ok && st.accepting
}

// States returns the set of all state names.
func (dfa DFA[E]) States() util.StringSet {
	s := util.NewStringSet()
	for k := range dfa.states {
		s.Add(k)
	}
	return s
}

// Next returns the next state given a current state and an input symbol, or
// "" if there is no such state or no such transition.
func (dfa DFA[E]) Next(fromState, input string) string {
	st, ok := dfa.states[fromState]
	if !ok {
		return ""
	}
	t, ok := st.transitions[input]
	if !ok {
		return ""
	}
	return t.Next
}

// Transitions returns the outgoing symbol/destination pairs of a state, in
// deterministic (sorted-by-symbol) order.
func (dfa DFA[E]) Transitions(fromState string) []FATransition {
	st, ok := dfa.states[fromState]
	if !ok {
		return nil
	}
	out := make([]FATransition, 0, len(st.transitions))
	for _, sym := range util.OrderedKeys(st.transitions) {
		out = append(out, st.transitions[sym])
	}
	return out
}

// AllTransitionsTo returns (fromState, input) pairs of every transition that
// leads to toState.
func (dfa DFA[E]) AllTransitionsTo(toState string) [][2]string {
	if _, ok := dfa.states[toState]; !ok {
		return [][2]string{}
	}
	var transitions [][2]string
	for _, sName := range dfa.States().Elements() {
		st := dfa.states[sName]
		for k := range st.transitions {
			if st.transitions[k].Next == toState {
				transitions = append(transitions, [2]string{sName, k})
			}
		}
	}
	return transitions
}

// Validate checks for unreachable states and dangling transitions.
func (dfa DFA[E]) Validate() error {
	var errs []string

	for sName := range dfa.states {
		if sName == dfa.Start {
			continue
		}
		reachable := false
		for otherName, st := range dfa.states {
			if otherName == sName {
				continue
			}
			for _, t := range st.transitions {
				if t.Next == sName {
					reachable = true
					break
				}
			}
			if reachable {
				break
			}
		}
		if !reachable {
			errs = append(errs, fmt.Sprintf("no transitions to non-start state %q", sName))
		}
	}

	for sName, st := range dfa.states {
		for symbol, t := range st.transitions {
			if _, ok := dfa.states[t.Next]; !ok {
				errs = append(errs, fmt.Sprintf("state %q transitions to non-existing state %q on %q", sName, t.Next, symbol))
			}
		}
	}

	if _, ok := dfa.states[dfa.Start]; !ok {
		errs = append(errs, fmt.Sprintf("start state does not exist: %q", dfa.Start))
	}

	if len(errs) > 0 {
		return fmt.Errorf(strings.Join(errs, "\n"))
	}
	return nil
}

// NumberStates renames all states to "0", "1", ... in a deterministic order,
// with the start state always renamed to "0". Used so two builds of the same
// automaton produce byte-identical dumps.
func (dfa *DFA[E]) NumberStates() {
	if _, ok := dfa.states[dfa.Start]; !ok {
		panic("can't number states of DFA with no start state set")
	}
	names := util.OrderedKeys(dfa.states)

	startIdx := -1
	for i, n := range names {
		if n == dfa.Start {
			startIdx = i
			break
		}
	}
	names = append(names[:startIdx], names[startIdx+1:]...)
	names = append([]string{dfa.Start}, names...)

	mapping := make(map[string]string, len(names))
	for i, n := range names {
		mapping[n] = fmt.Sprintf("%d", i)
	}

	newDFA := &DFA[E]{states: make(map[string]DFAState[E]), Start: mapping[dfa.Start]}
	for _, n := range names {
		st := dfa.states[n]
		newName := mapping[n]
		newDFA.AddState(newName, st.accepting)
		newSt := newDFA.states[newName]
		newSt.ordering = st.ordering
		newDFA.states[newName] = newSt
		newDFA.SetValue(newName, st.value)
	}
	for _, n := range names {
		st := dfa.states[n]
		from := mapping[n]
		for sym, t := range st.transitions {
			newDFA.AddTransition(from, sym, mapping[t.Next])
		}
	}

	dfa.states = newDFA.states
	dfa.Start = newDFA.Start
}

func (dfa DFA[E]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", dfa.Start))
	names := util.OrderedKeys(dfa.states)
	for i, n := range names {
		sb.WriteString("\n\t")
		sb.WriteString(dfa.states[n].String())
		if i+1 < len(names) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}
	sb.WriteRune('>')
	return sb.String()
}

// TransformDFA builds a new DFA with the same shape but a transformed value
// payload.
func TransformDFA[E1, E2 any](dfa DFA[E1], transform func(E1) E2) DFA[E2] {
	copied := DFA[E2]{states: make(map[string]DFAState[E2]), Start: dfa.Start, order: dfa.order}
	for k, old := range dfa.states {
		newSt := DFAState[E2]{name: old.name, value: transform(old.value), transitions: map[string]FATransition{}, accepting: old.accepting, ordering: old.ordering}
		for sym, t := range old.transitions {
			newSt.transitions[sym] = t
		}
		copied.states[k] = newSt
	}
	return copied
}

// NFAState is a single state of an NFA: like DFAState, but each symbol may
// lead to more than one destination.
type NFAState[E any] struct {
	name        string
	value       E
	transitions map[string][]FATransition
	accepting   bool
	ordering    uint64
}

func (s NFAState[E]) String() string {
	transList := make([]string, 0, len(s.transitions))
	for _, sym := range util.OrderedKeys(s.transitions) {
		for _, t := range s.transitions[sym] {
			transList = append(transList, fmt.Sprintf("%s%s", sym, t))
		}
	}
	accCh := " "
	if s.accepting {
		accCh = "*"
	}
	return fmt.Sprintf("(%s%s [%s])", accCh, s.name, strings.Join(transList, ", "))
}

// NFA is a non-deterministic finite automaton: like DFA but transitions from
// a state on a symbol may lead to more than one destination. Used internally
// as the working representation while merging same-core LALR states; never
// exposed as the final parse automaton (see directNFAToDFA).
type NFA[E any] struct {
	order  uint64
	states map[string]NFAState[E]
	Start  string
}

// DFAToNFA lifts a DFA into the (more permissive) NFA representation.
func DFAToNFA[E any](dfa DFA[E]) NFA[E] {
	nfa := NFA[E]{Start: dfa.Start, states: map[string]NFAState[E]{}, order: dfa.order}
	for sName, dState := range dfa.states {
		nState := NFAState[E]{ordering: dState.ordering, name: dState.name, value: dState.value, transitions: map[string][]FATransition{}, accepting: dState.accepting}
		for sym, t := range dState.transitions {
			nState.transitions[sym] = []FATransition{{Input: t.Input, Next: t.Next}}
		}
		nfa.states[sName] = nState
	}
	return nfa
}

func (nfa *NFA[E]) AddState(state string, accepting bool) {
	if _, ok := nfa.states[state]; ok {
		return
	}
	if nfa.states == nil {
		nfa.states = map[string]NFAState[E]{}
	}
	nfa.states[state] = NFAState[E]{name: state, transitions: map[string][]FATransition{}, accepting: accepting, ordering: nfa.order}
	nfa.order++
}

func (nfa *NFA[E]) SetValue(state string, v E) {
	st := nfa.states[state]
	st.value = v
	nfa.states[state] = st
}

func (nfa NFA[E]) GetValue(state string) E {
	return nfa.states[state].value
}

func (nfa *NFA[E]) AddTransition(fromState, input, toState string) {
	st, ok := nfa.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	st.transitions[input] = append(st.transitions[input], FATransition{Input: input, Next: toState})
	nfa.states[fromState] = st
}

func (nfa NFA[E]) States() util.StringSet {
	s := util.NewStringSet()
	for k := range nfa.states {
		s.Add(k)
	}
	return s
}

// Transitions returns every outgoing transition edge of fromState, in
// deterministic (sorted-by-symbol) order.
func (nfa NFA[E]) Transitions(fromState string) []FATransition {
	st, ok := nfa.states[fromState]
	if !ok {
		return nil
	}
	var out []FATransition
	for _, sym := range util.OrderedKeys(st.transitions) {
		out = append(out, st.transitions[sym]...)
	}
	return out
}

// NFATransitionTo identifies one transition edge by its source, symbol, and
// index into that state's transition-list for the symbol (needed to rewrite
// a single edge in place during state merging).
type NFATransitionTo struct {
	from  string
	input string
	index int
}

// AllTransitionsTo returns every transition edge (by source/symbol/index)
// leading to toState.
func (nfa NFA[E]) AllTransitionsTo(toState string) []NFATransitionTo {
	var out []NFATransitionTo
	for _, sName := range util.OrderedKeys(nfa.states) {
		st := nfa.states[sName]
		for sym, trans := range st.transitions {
			for i, t := range trans {
				if t.Next == toState {
					out = append(out, NFATransitionTo{from: sName, input: sym, index: i})
				}
			}
		}
	}
	return out
}

func (nfa NFA[E]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", nfa.Start))
	names := util.OrderedKeys(nfa.states)
	for i, n := range names {
		sb.WriteString("\n\t")
		sb.WriteString(nfa.states[n].String())
		if i+1 < len(names) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}
	sb.WriteRune('>')
	return sb.String()
}

// CollapseNFA converts nfa to a DFA, requiring that the NFA already be
// deterministic in practice (every symbol out of every state leads to at
// most one distinct destination). This is the step that follows same-core
// state merging in LALR(1) automaton construction: a merge that introduces a
// genuine conflict surfaces here as a non-determinism error.
func CollapseNFA[E any](nfa NFA[E]) (DFA[E], error) {
	return directNFAToDFA(nfa)
}

// directNFAToDFA collapses an NFA back to a DFA, requiring that every symbol
// out of every state lead to at most one distinct destination. A symbol with
// more than one distinct destination means the states that were merged to
// produce this NFA did not actually share a core with consistent transitions
// — the caller reports this as "not LALR(1)".
func directNFAToDFA[E any](nfa NFA[E]) (DFA[E], error) {
	dfa := DFA[E]{Start: nfa.Start, states: map[string]DFAState[E]{}}
	for sName, nState := range nfa.states {
		dState := DFAState[E]{name: nState.name, value: nState.value, transitions: map[string]FATransition{}, accepting: nState.accepting, ordering: nState.ordering}
		for sym, transList := range nState.transitions {
			goesTo := ""
			for _, t := range transList {
				if t.Next == "" {
					return DFA[E]{}, fmt.Errorf("state %q has empty transition-to for %q", nState.name, sym)
				}
				if goesTo == "" {
					goesTo = t.Next
					dState.transitions[sym] = FATransition{Input: sym, Next: t.Next}
				} else if t.Next != goesTo {
					return DFA[E]{}, fmt.Errorf("state %q has non-deterministic transition for symbol %q", nState.name, sym)
				}
			}
		}
		dfa.states[sName] = dState
	}
	return dfa, nil
}
