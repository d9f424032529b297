package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/minic/internal/token"
	"github.com/dekarrin/minic/internal/util"
)

// augmentedStartSuffix marks the synthetic start symbol added by Augmented.
const augmentedStartSuffix = "-P"

// Grammar is a context-free grammar: a set of terminals bound to token
// classes, a set of non-terminal rules, and a designated start symbol. The
// zero value is an empty, usable grammar.
type Grammar struct {
	rules     []Rule
	ruleIndex map[string]int
	terminals map[string]token.Class
	start     string

	uniqueTermCounter int
}

// AddTerm registers id as a terminal symbol bound to the given token class.
// id is expected to already be lower-case (token class IDs are).
func (g *Grammar) AddTerm(id string, cls token.Class) {
	if g.terminals == nil {
		g.terminals = map[string]token.Class{}
	}
	g.terminals[id] = cls
}

// Term returns the token class bound to terminal id.
func (g Grammar) Term(id string) token.Class {
	return g.terminals[id]
}

// IsTerminal returns whether sym names a registered terminal.
func (g Grammar) IsTerminal(sym string) bool {
	_, ok := g.terminals[sym]
	return ok
}

// IsNonTerminal returns whether sym names a non-terminal with at least one
// rule.
func (g Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.ruleIndex[sym]
	return ok
}

// Terminals returns the set of all registered terminal symbol names.
func (g Grammar) Terminals() util.StringSet {
	s := util.NewStringSet()
	for k := range g.terminals {
		s.Add(k)
	}
	return s
}

// NonTerminals returns the set of all non-terminal symbol names that have at
// least one rule.
func (g Grammar) NonTerminals() util.StringSet {
	s := util.NewStringSet()
	for _, r := range g.rules {
		s.Add(r.NonTerminal)
	}
	return s
}

// AddRule appends production p as an alternative for non-terminal nt. If nt
// already has a rule, p is appended to its existing production list;
// otherwise a new rule is created. The first non-terminal ever added becomes
// the grammar's start symbol unless StartSymbol is explicitly set first via
// SetStartSymbol.
func (g *Grammar) AddRule(nt string, p Production) {
	if g.ruleIndex == nil {
		g.ruleIndex = map[string]int{}
	}
	if g.start == "" {
		g.start = nt
	}
	if idx, ok := g.ruleIndex[nt]; ok {
		g.rules[idx].Productions = append(g.rules[idx].Productions, p)
		return
	}
	g.ruleIndex[nt] = len(g.rules)
	g.rules = append(g.rules, Rule{NonTerminal: nt, Productions: []Production{p}})
}

// SetStartSymbol explicitly sets the grammar's start symbol, overriding the
// "first non-terminal added" default.
func (g *Grammar) SetStartSymbol(nt string) {
	g.start = nt
}

// StartSymbol returns the grammar's start non-terminal.
func (g Grammar) StartSymbol() string {
	return g.start
}

// Rule returns the Rule for non-terminal nt, or the zero Rule if nt has no
// productions.
func (g Grammar) Rule(nt string) Rule {
	idx, ok := g.ruleIndex[nt]
	if !ok {
		return Rule{}
	}
	return g.rules[idx]
}

// Rules returns all rules in the grammar, in the order they were added.
func (g Grammar) Rules() []Rule {
	cp := make([]Rule, len(g.rules))
	copy(cp, g.rules)
	return cp
}

// GenerateUniqueTerminal returns a terminal name derived from base that does
// not collide with any terminal or non-terminal currently in the grammar.
func (g *Grammar) GenerateUniqueTerminal(base string) string {
	candidate := base
	for g.IsTerminal(candidate) || g.IsNonTerminal(candidate) {
		g.uniqueTermCounter++
		candidate = fmt.Sprintf("%s%d", base, g.uniqueTermCounter)
	}
	return candidate
}

// Augmented returns a copy of g with a new start rule S' -> S added, where S
// is g's original start symbol. Required before any LR(0)/LR(1)/LALR(1)
// automaton construction so the accepting state can be recognized
// unambiguously.
func (g Grammar) Augmented() Grammar {
	newStart := g.start + augmentedStartSuffix
	for g.IsNonTerminal(newStart) || g.IsTerminal(newStart) {
		newStart += augmentedStartSuffix
	}

	aug := Grammar{
		terminals: make(map[string]token.Class, len(g.terminals)),
		ruleIndex: make(map[string]int, len(g.ruleIndex)+1),
		start:     newStart,
	}
	for k, v := range g.terminals {
		aug.terminals[k] = v
	}
	aug.ruleIndex[newStart] = 0
	aug.rules = append(aug.rules, Rule{NonTerminal: newStart, Productions: []Production{{g.start}}})
	for _, r := range g.rules {
		aug.ruleIndex[r.NonTerminal] = len(aug.rules)
		aug.rules = append(aug.rules, r)
	}
	return aug
}

// Validate checks that the grammar has at least one rule, a start symbol
// with a rule, at least one terminal, and that every symbol referenced in a
// production is either a known terminal or a non-terminal with its own rule.
func (g Grammar) Validate() error {
	var errs []string

	if len(g.rules) == 0 {
		errs = append(errs, "grammar has no rules")
	}
	if len(g.terminals) == 0 {
		errs = append(errs, "grammar has no terminals")
	}
	if g.start == "" || !g.IsNonTerminal(g.start) {
		errs = append(errs, fmt.Sprintf("start symbol %q has no rule", g.start))
	}

	for _, r := range g.rules {
		for _, p := range r.Productions {
			for _, sym := range p {
				if sym == Epsilon {
					continue
				}
				if !g.IsTerminal(sym) && !g.IsNonTerminal(sym) {
					errs = append(errs, fmt.Sprintf("%s: symbol %q is neither a terminal nor a non-terminal with rules", r.NonTerminal, sym))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(strings.Join(errs, "\n"))
	}
	return nil
}

func (g Grammar) String() string {
	lines := make([]string, len(g.rules))
	for i, r := range g.rules {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

// First computes FIRST(sym) for a single grammar symbol (terminal or
// non-terminal). An empty-string member of the returned set denotes that sym
// can derive epsilon.
func (g Grammar) First(sym string) util.StringSet {
	memo := map[string]util.StringSet{}
	return g.firstOf(sym, memo, util.NewStringSet())
}

func (g Grammar) firstOf(sym string, memo map[string]util.StringSet, inProgress util.StringSet) util.StringSet {
	if sym == Epsilon {
		return util.StringSetOf([]string{Epsilon})
	}
	if cached, ok := memo[sym]; ok {
		return cached
	}
	if g.IsTerminal(sym) {
		s := util.StringSetOf([]string{sym})
		memo[sym] = s
		return s
	}
	if !g.IsNonTerminal(sym) {
		return util.NewStringSet()
	}
	if inProgress.Has(sym) {
		// cycle guard: returning empty here just avoids infinite recursion.
		return util.NewStringSet()
	}
	inProgress.Add(sym)

	// memo[sym] is set before the walk, so a left-recursive reference to sym
	// sees the set built so far, and the walk repeats until the set stops
	// growing. A non-terminal first reached during sym's walk keeps the set
	// it had when its own walk ended.
	result := util.NewStringSet()
	memo[sym] = result
	for changed := true; changed; {
		before := result.Len()
		for _, p := range g.Rule(sym).Productions {
			seqFirst := g.firstOfSequence(p, memo, inProgress)
			result.AddAll(seqFirst)
		}
		changed = result.Len() != before
	}
	return result
}

// firstOfSequence computes FIRST of a string of grammar symbols.
func (g Grammar) firstOfSequence(seq []string, memo map[string]util.StringSet, inProgress util.StringSet) util.StringSet {
	result := util.NewStringSet()
	if len(seq) == 0 {
		result.Add(Epsilon)
		return result
	}

	allDeriveEpsilon := true
	for _, sym := range seq {
		symFirst := g.firstOf(sym, memo, inProgress)
		for _, f := range symFirst.Elements() {
			if f != Epsilon {
				result.Add(f)
			}
		}
		if !symFirst.Has(Epsilon) {
			allDeriveEpsilon = false
			break
		}
	}
	if allDeriveEpsilon {
		result.Add(Epsilon)
	}
	return result
}

// FirstOfSequence computes FIRST of a string of grammar symbols (exported
// form, used by closure/goto construction).
func (g Grammar) FirstOfSequence(seq []string) util.StringSet {
	return g.firstOfSequence(seq, map[string]util.StringSet{}, util.NewStringSet())
}

// Follow computes FOLLOW(nt) via fixed-point iteration over all productions.
func (g Grammar) Follow(nt string) util.StringSet {
	table := g.followAll()
	if s, ok := table[nt]; ok {
		return s
	}
	return util.NewStringSet()
}

func (g Grammar) followAll() map[string]util.StringSet {
	follow := map[string]util.StringSet{}
	for _, nt := range g.NonTerminals().Elements() {
		follow[nt] = util.NewStringSet()
	}
	follow[g.start].Add("$")

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			for _, p := range r.Productions {
				for i, sym := range p {
					if !g.IsNonTerminal(sym) {
						continue
					}
					rest := p[i+1:]
					restFirst := g.firstOfSequence(rest, map[string]util.StringSet{}, util.NewStringSet())

					before := follow[sym].Len()
					for _, f := range restFirst.Elements() {
						if f != Epsilon {
							follow[sym].Add(f)
						}
					}
					if restFirst.Has(Epsilon) {
						for _, f := range follow[r.NonTerminal].Elements() {
							follow[sym].Add(f)
						}
					}
					if follow[sym].Len() != before {
						changed = true
					}
				}
			}
		}
	}
	return follow
}

// orderedTerminals returns terminal symbol names in deterministic order, for
// use building parse tables and diagnostics.
func (g Grammar) orderedTerminals() []string {
	names := make([]string, 0, len(g.terminals))
	for k := range g.terminals {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
