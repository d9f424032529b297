// Package lalr builds the LALR(1) viable-prefix automaton for a grammar and
// derives its ACTION/GOTO parse table, recording shift/reduce and
// reduce/reduce conflicts as human-readable diagnostics rather than picking
// a silent default resolution.
package lalr

import (
	"fmt"

	"github.com/dekarrin/minic/internal/automaton"
	"github.com/dekarrin/minic/internal/grammar"
	"github.com/dekarrin/minic/internal/util"
)

// EndOfInput is the lookahead/terminal symbol denoting end of token stream.
const EndOfInput = "$"

// itemSet is the state payload: the full LR(1) item set (core + lookaheads)
// that state represents.
type itemSet = util.SVSet[grammar.LR1Item]

// BuildViablePrefixDFA constructs the LALR(1) viable-prefix automaton for g:
// the canonical collection of LR(1) item sets, merged by core. Returns an
// error if the grammar is not LALR(1) (merging same-core states produces
// transitions that are no longer deterministic).
//
// This follows the teacher's actually-working strategy (full LR(1)
// collection, then same-core merge, then collapse to a DFA) rather than the
// "efficient kernels" algorithm (Dragon Book Algorithm 4.63), which is left
// incomplete in the source this project is grounded on.
func BuildViablePrefixDFA(g grammar.Grammar) (automaton.DFA[itemSet], error) {
	canonical := canonicalLR1Collection(g)
	merged := mergeByCore(canonical)
	dfa, err := automaton.CollapseNFA(merged)
	if err != nil {
		return automaton.DFA[itemSet]{}, fmt.Errorf("grammar is not LALR(1); resulted in inconsistent state merges: %w", err)
	}
	return dfa, nil
}

// canonicalLR1Collection builds the full canonical LR(1) collection as an
// automaton.NFA keyed by item-set string (before any core merging). Each
// state's value is its LR(1) item set.
func canonicalLR1Collection(g grammar.Grammar) automaton.NFA[itemSet] {
	oldStart := g.StartSymbol()
	aug := g.Augmented()

	initialItem := grammar.LR1Item{
		LR0Item:   grammar.LR0Item{NonTerminal: aug.StartSymbol(), Right: []string{oldStart}},
		Lookahead: EndOfInput,
	}
	startKernel := util.NewSVSet[grammar.LR1Item]()
	startKernel.Set(initialItem.String(), initialItem)
	startSet := aug.LR1_CLOSURE(startKernel)

	nfa := automaton.NFA[itemSet]{}
	startName := startSet.StringOrdered()
	nfa.AddState(startName, true)
	nfa.SetValue(startName, startSet)
	nfa.Start = startName

	allStates := map[string]itemSet{startName: startSet}
	worklist := []string{startName}

	for len(worklist) > 0 {
		curName := worklist[0]
		worklist = worklist[1:]
		curSet := allStates[curName]

		symbols := nextSymbols(curSet)
		for _, sym := range symbols {
			nextSet := aug.LR1_GOTO(curSet, sym)
			if nextSet.Empty() {
				continue
			}
			nextName := nextSet.StringOrdered()
			if _, ok := allStates[nextName]; !ok {
				allStates[nextName] = nextSet
				nfa.AddState(nextName, true)
				nfa.SetValue(nextName, nextSet)
				worklist = append(worklist, nextName)
			}
			nfa.AddTransition(curName, sym, nextName)
		}
	}

	return nfa
}

// nextSymbols returns, in deterministic order, every grammar symbol that
// immediately follows the dot in some item of I.
func nextSymbols(I itemSet) []string {
	seen := util.NewStringSet()
	for _, key := range I.Elements() {
		item := I.Get(key)
		if !item.AtEnd() {
			seen.Add(item.NextSymbol())
		}
	}
	out := seen.Elements()
	return out
}

// mergeByCore groups the canonical LR(1) states by their LR0 core and merges
// each group into a single state whose item set is the union of the
// lookaheads of every state sharing that core. Transitions are rewritten to
// point at the merged state names; a symbol that ends up with transitions to
// more than one distinct destination after merging is left as-is and
// reported by CollapseNFA as a non-determinism error (the grammar is not
// LALR(1)).
func mergeByCore(canonical automaton.NFA[itemSet]) automaton.NFA[itemSet] {
	// group state names by core key
	coreGroups := map[string][]string{}
	coreOrder := []string{}
	for _, sName := range canonical.States().Elements() {
		core := grammar.CoreSet(canonical.GetValue(sName))
		key := core.StringOrdered()
		if _, ok := coreGroups[key]; !ok {
			coreOrder = append(coreOrder, key)
		}
		coreGroups[key] = append(coreGroups[key], sName)
	}

	// assign each old state name to its merged name, "merged(<core key>)",
	// which is the same for every member of a core group
	oldToNew := map[string]string{}
	mergedValue := map[string]itemSet{}
	for _, key := range coreOrder {
		members := coreGroups[key]
		newName := fmt.Sprintf("merged(%s)", key)

		union := util.NewSVSet[grammar.LR1Item]()
		for _, m := range members {
			oldToNew[m] = newName
			set := canonical.GetValue(m)
			for _, ik := range set.Elements() {
				item := set.Get(ik)
				if !union.Has(ik) {
					union.Set(ik, item)
				}
			}
		}
		mergedValue[newName] = union
	}

	merged := automaton.NFA[itemSet]{}
	for _, key := range coreOrder {
		newName := fmt.Sprintf("merged(%s)", key)
		merged.AddState(newName, true)
		merged.SetValue(newName, mergedValue[newName])
	}
	merged.Start = oldToNew[canonical.Start]

	for _, sName := range canonical.States().Elements() {
		from := oldToNew[sName]
		for _, t := range canonical.Transitions(sName) {
			to := oldToNew[t.Next]
			merged.AddTransition(from, t.Input, to)
		}
	}

	return merged
}
