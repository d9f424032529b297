package grammar

import "github.com/dekarrin/minic/internal/util"

// LR1_CLOSURE computes the closure of a kernel set of LR(1) items: Dragon
// Book Algorithm 4.42. Repeatedly adds, for every item [A -> α.Bβ, a] in the
// set, the items [B -> .γ, b] for each production B -> γ and each terminal b
// in FIRST(βa), until no more items can be added.
func (g Grammar) LR1_CLOSURE(kernel util.SVSet[LR1Item]) util.SVSet[LR1Item] {
	closure := util.NewSVSet[LR1Item]()
	for _, k := range kernel.Elements() {
		closure.Set(k, kernel.Get(k))
	}

	changed := true
	for changed {
		changed = false
		for _, key := range closure.Elements() {
			item := closure.Get(key)
			if item.AtEnd() {
				continue
			}
			B := item.NextSymbol()
			if !g.IsNonTerminal(B) {
				continue
			}

			beta := append([]string(nil), item.Right[1:]...)
			lookaheadSeq := append(beta, item.Lookahead)
			lookaheads := g.firstOfSequence(lookaheadSeq, map[string]util.StringSet{}, util.NewStringSet())

			for _, gamma := range g.Rule(B).Productions {
				for _, la := range lookaheads.Elements() {
					if la == Epsilon {
						continue
					}
					var right []string
					if len(gamma) == 1 && gamma[0] == Epsilon {
						right = nil
					} else {
						right = append([]string(nil), gamma...)
					}
					newItem := LR1Item{
						LR0Item:   LR0Item{NonTerminal: B, Right: right},
						Lookahead: la,
					}
					k := newItem.String()
					if !closure.Has(k) {
						closure.Set(k, newItem)
						changed = true
					}
				}
			}
		}
	}
	return closure
}

// LR1_GOTO computes GOTO(I, X) for an LR(1) item set I and grammar symbol X:
// Dragon Book Algorithm 4.42. Advances the dot over X in every item of I that
// has X next, then closes the resulting kernel.
func (g Grammar) LR1_GOTO(I util.SVSet[LR1Item], X string) util.SVSet[LR1Item] {
	kernel := util.NewSVSet[LR1Item]()
	for _, key := range I.Elements() {
		item := I.Get(key)
		if item.AtEnd() || item.NextSymbol() != X {
			continue
		}
		advanced := item.Advance()
		kernel.Set(advanced.String(), advanced)
	}
	if kernel.Empty() {
		return kernel
	}
	return g.LR1_CLOSURE(kernel)
}
