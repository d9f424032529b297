package dfa

import (
	"fmt"
	"sort"

	"github.com/dekarrin/minic/internal/automaton"
	"github.com/dekarrin/minic/internal/util"
)

// MinimizeResult carries the minimized automaton plus reduction statistics,
// so a caller can report how much the hand-assembled automaton shrank.
type MinimizeResult struct {
	Minimized      automaton.DFA[Class]
	OriginalStates int
	MinimalStates  int
}

// ReductionRatio returns the fraction of states eliminated by minimization,
// in [0, 1).
func (r MinimizeResult) ReductionRatio() float64 {
	if r.OriginalStates == 0 {
		return 0
	}
	return 1 - float64(r.MinimalStates)/float64(r.OriginalStates)
}

// Minimize reduces d to its minimal equivalent DFA via Hopcroft-style
// partition refinement over d's actual alphabet and transitions (not a
// pre-scripted merge list): states are first split into accepting vs
// non-accepting classes (further split by accepted token class, since two
// accepting states that classify differently must never be merged), then
// repeatedly refined by asking, for each input symbol, whether a block's
// members all transition into the same other block. Refinement stops at a
// fixed point, at which every remaining block is an equivalence class of
// indistinguishable states.
func Minimize(d automaton.DFA[Class]) MinimizeResult {
	states := d.States().Elements()
	alphabet := inputAlphabet(d, states)

	blocks := initialPartition(d, states)

	changed := true
	for changed {
		changed = false
		var next [][]string
		for _, block := range blocks {
			split := splitBlock(d, block, blocks, alphabet)
			if len(split) > 1 {
				changed = true
			}
			next = append(next, split...)
		}
		blocks = next
	}

	return buildMinimizedDFA(d, blocks)
}

// inputAlphabet collects every symbol that appears on some transition out of
// any of the given states.
func inputAlphabet(d automaton.DFA[Class], states []string) []string {
	seen := util.NewStringSet()
	for _, s := range states {
		for _, t := range d.Transitions(s) {
			seen.Add(t.Input)
		}
	}
	return seen.Elements()
}

// initialPartition splits states into non-accepting vs. one block per
// distinct accepted token class.
func initialPartition(d automaton.DFA[Class], states []string) [][]string {
	groups := map[string][]string{}
	var order []string
	for _, s := range states {
		key := "_reject_"
		if d.IsAccepting(s) {
			key = "accept:" + d.GetValue(s).ID()
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], s)
	}
	sort.Strings(order)
	var blocks [][]string
	for _, k := range order {
		b := append([]string(nil), groups[k]...)
		sort.Strings(b)
		blocks = append(blocks, b)
	}
	return blocks
}

// blockOf returns the index into blocks containing state s, or -1.
func blockOf(blocks [][]string, s string) int {
	for i, b := range blocks {
		for _, m := range b {
			if m == s {
				return i
			}
		}
	}
	return -1
}

// splitBlock partitions block into sub-blocks of states that are currently
// indistinguishable: two states stay together only if, for every input
// symbol, they transition into the same other block (or both have no
// transition on that symbol).
func splitBlock(d automaton.DFA[Class], block []string, blocks [][]string, alphabet []string) [][]string {
	signature := func(s string) string {
		sig := ""
		for _, sym := range alphabet {
			next := d.Next(s, sym)
			target := -1
			if next != "" {
				target = blockOf(blocks, next)
			}
			sig += fmt.Sprintf("%s:%d|", sym, target)
		}
		return sig
	}

	groups := map[string][]string{}
	var order []string
	for _, s := range block {
		sig := signature(s)
		if _, ok := groups[sig]; !ok {
			order = append(order, sig)
		}
		groups[sig] = append(groups[sig], s)
	}
	sort.Strings(order)

	var out [][]string
	for _, sig := range order {
		out = append(out, groups[sig])
	}
	return out
}

// buildMinimizedDFA collapses each block into a single new state, and
// rewrites transitions accordingly.
func buildMinimizedDFA(d automaton.DFA[Class], blocks [][]string) MinimizeResult {
	nameOf := map[string]string{}
	blockName := func(i int) string { return fmt.Sprintf("m%d", i) }
	for i, b := range blocks {
		for _, s := range b {
			nameOf[s] = blockName(i)
		}
	}

	min := automaton.DFA[Class]{}
	for i, b := range blocks {
		name := blockName(i)
		representative := b[0]
		min.AddState(name, d.IsAccepting(representative))
		if d.IsAccepting(representative) {
			min.SetValue(name, d.GetValue(representative))
		}
		if containsState(b, d.Start) {
			min.Start = name
		}
	}

	for i, b := range blocks {
		from := blockName(i)
		representative := b[0]
		for _, t := range d.Transitions(representative) {
			min.AddTransition(from, t.Input, nameOf[t.Next])
		}
	}

	return MinimizeResult{
		Minimized:      min,
		OriginalStates: len(d.States().Elements()),
		MinimalStates:  len(blocks),
	}
}

func containsState(block []string, s string) bool {
	for _, m := range block {
		if m == s {
			return true
		}
	}
	return false
}

// Validate re-runs every string in samples through both a's automaton and
// minimized (using a's own Classify function to translate input
// runes into the automaton's alphabet) and reports any input whose
// accept/reject verdict or accepted class differs — the correctness check a
// minimizer needs before anything downstream trusts its output.
func Validate(a Automaton, minimized automaton.DFA[Class], samples []string) []string {
	var mismatches []string
	for _, sample := range samples {
		accD, clsD := run(a.DFA, a.Classify, sample)
		accM, clsM := run(minimized, a.Classify, sample)
		switch {
		case accD != accM:
			mismatches = append(mismatches, fmt.Sprintf("input %q: original(accept=%v) vs minimized(accept=%v)", sample, accD, accM))
		case accD && clsD.ID() != clsM.ID():
			mismatches = append(mismatches, fmt.Sprintf("input %q: original class %q vs minimized class %q", sample, clsD.ID(), clsM.ID()))
		}
	}
	return mismatches
}

func run(d automaton.DFA[Class], classify func(rune) (string, bool), input string) (bool, Class) {
	state := d.Start
	for _, r := range input {
		sym, ok := classify(r)
		if !ok {
			return false, nil
		}
		next := d.Next(state, sym)
		if next == "" {
			return false, nil
		}
		state = next
	}
	return d.IsAccepting(state), d.GetValue(state)
}
