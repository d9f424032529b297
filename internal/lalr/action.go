package lalr

import (
	"fmt"

	"github.com/dekarrin/minic/internal/grammar"
)

// ActionType identifies the kind of parse action to take for a given state
// and lookahead terminal.
type ActionType int

const (
	ActionError ActionType = iota
	ActionShift
	ActionReduce
	ActionAccept
)

// Action is a single ACTION-table entry.
type Action struct {
	Type ActionType

	// Production/Symbol are used when Type is ActionReduce: the production
	// being reduced, and the non-terminal it reduces to.
	Production grammar.Production
	Symbol     string

	// State is the destination state when Type is ActionShift.
	State string
}

func (a Action) String() string {
	switch a.Type {
	case ActionAccept:
		return "accept"
	case ActionError:
		return "error"
	case ActionReduce:
		return fmt.Sprintf("reduce %s -> %s", a.Symbol, a.Production.String())
	case ActionShift:
		return fmt.Sprintf("shift %s", a.State)
	default:
		return "unknown"
	}
}

func (a Action) Equal(o Action) bool {
	return a.Type == o.Type && a.Production.Equal(o.Production) && a.State == o.State && a.Symbol == o.Symbol
}

func isShiftReduceConflict(a1, a2 Action) (bool, Action) {
	if a1.Type == ActionReduce && a2.Type == ActionShift {
		return true, a2
	}
	if a2.Type == ActionReduce && a1.Type == ActionShift {
		return true, a1
	}
	return false, a1
}

// makeConflictError formats a human-readable description of a parse-table
// conflict between two actions competing for the same (state, terminal)
// cell: shift/reduce, reduce/reduce, accept/shift, accept/reduce, or (should
// never legitimately happen for a deterministic automaton) shift/shift.
func makeConflictError(a1, a2 Action, onInput string) error {
	isSR, _ := isShiftReduceConflict(a1, a2)
	if isSR {
		var reduceRule string
		if a1.Type == ActionReduce {
			reduceRule = a1.Symbol + " -> " + a1.Production.String()
		} else {
			reduceRule = a2.Symbol + " -> " + a2.Production.String()
		}
		return fmt.Errorf("shift/reduce conflict detected on terminal %q (shift or reduce %s)", onInput, reduceRule)
	}
	if a1.Type == ActionReduce && a2.Type == ActionReduce {
		r1 := a1.Symbol + " -> " + a1.Production.String()
		r2 := a2.Symbol + " -> " + a2.Production.String()
		return fmt.Errorf("reduce/reduce conflict detected on terminal %q (reduce %s or reduce %s)", onInput, r1, r2)
	}
	if a1.Type == ActionAccept || a2.Type == ActionAccept {
		nonAccept := a2
		if a2.Type == ActionAccept {
			nonAccept = a1
		}
		if nonAccept.Type == ActionShift {
			return fmt.Errorf("accept/shift conflict detected on terminal %q", onInput)
		}
		if nonAccept.Type == ActionReduce {
			reduce := nonAccept.Symbol + " -> " + nonAccept.Production.String()
			return fmt.Errorf("accept/reduce conflict detected on terminal %q (accept or reduce %s)", onInput, reduce)
		}
	}
	if a1.Type == ActionShift && a2.Type == ActionShift {
		return fmt.Errorf("(!) shift/shift conflict on terminal %q", onInput)
	}
	return fmt.Errorf("LR action conflict on terminal %q (%s or %s)", onInput, a1.String(), a2.String())
}
