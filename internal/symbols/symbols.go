// Package symbols implements the scoped symbol table: a tree of scopes
// rooted at the global scope, with a stack tracking the currently open
// scope. Shadowing never overwrites an outer symbol, and the global scope
// can never be popped off the stack.
package symbols

import "github.com/dekarrin/minic/internal/ast"

// Kind identifies what a Symbol names.
type Kind string

const (
	KindVariable  Kind = "variable"
	KindFunction  Kind = "function"
	KindParameter Kind = "parameter"
	KindConstant  Kind = "constant"
	KindTypeName  Kind = "type-name"
	KindLabel     Kind = "label"
)

// Symbol is one entry in a scope.
type Symbol struct {
	Name        string
	Kind        Kind
	Type        ast.DataType
	Line        int
	Column      int
	ScopeLevel  int
	Initialized bool
	Used        bool

	// Function-only fields.
	ReturnType ast.DataType
	ParamTypes []ast.DataType
}

// Scope is one level of nested naming: the global scope has Parent == nil.
type Scope struct {
	Level    int
	Names    map[string]*Symbol
	Parent   *Scope
	Children []*Scope
}

func newScope(level int, parent *Scope) *Scope {
	return &Scope{Level: level, Names: map[string]*Symbol{}, Parent: parent}
}

// Table is a symbol table: a scope tree plus a stack of currently open
// scopes, the bottom of which is always the global scope.
type Table struct {
	global *Scope
	stack  []*Scope
}

// NewTable returns a Table with only the global scope open, at level 0.
func NewTable() *Table {
	g := newScope(0, nil)
	return &Table{global: g, stack: []*Scope{g}}
}

// Global returns the table's global (level 0) scope.
func (t *Table) Global() *Scope {
	return t.global
}

// Current returns the currently open (innermost) scope.
func (t *Table) Current() *Scope {
	return t.stack[len(t.stack)-1]
}

// CurrentLevel returns the level of the currently open scope.
func (t *Table) CurrentLevel() int {
	return t.Current().Level
}

// EnterScope opens a new child scope of the current one and makes it
// current. Scope levels are monotonically assigned.
func (t *Table) EnterScope() *Scope {
	parent := t.Current()
	child := newScope(parent.Level+1, parent)
	parent.Children = append(parent.Children, child)
	t.stack = append(t.stack, child)
	return child
}

// ExitScope closes the current scope, unless it is the global scope, in
// which case it is a no-op: the stack never underflows.
func (t *Table) ExitScope() {
	if len(t.stack) <= 1 {
		return
	}
	t.stack = t.stack[:len(t.stack)-1]
}

// AddSymbol adds sym to the current scope. Returns false iff a symbol with
// the same name already exists in the current scope (outer-scope symbols of
// the same name are shadowed, never overwritten).
func (t *Table) AddSymbol(sym *Symbol) bool {
	cur := t.Current()
	if _, exists := cur.Names[sym.Name]; exists {
		return false
	}
	sym.ScopeLevel = cur.Level
	cur.Names[sym.Name] = sym
	return true
}

// FindSymbol looks up name starting at the current scope and walking up
// parent links. Returns nil if not found anywhere.
func (t *Table) FindSymbol(name string) *Symbol {
	for s := t.Current(); s != nil; s = s.Parent {
		if sym, ok := s.Names[name]; ok {
			return sym
		}
	}
	return nil
}

// FindLocal looks up name in the current scope only.
func (t *Table) FindLocal(name string) *Symbol {
	return t.Current().Names[name]
}

// MarkUsed marks the nearest-visible symbol named name as used, if found.
func (t *Table) MarkUsed(name string) {
	if sym := t.FindSymbol(name); sym != nil {
		sym.Used = true
	}
}

// MarkInitialized marks the nearest-visible symbol named name as
// initialized, if found.
func (t *Table) MarkInitialized(name string) {
	if sym := t.FindSymbol(name); sym != nil {
		sym.Initialized = true
	}
}

// UnusedReport describes one unused-variable finding from a post-walk
// traversal of the scope tree.
type UnusedReport struct {
	Symbol *Symbol
}

// UsedBeforeInitReport describes one used-but-never-initialized finding.
type UsedBeforeInitReport struct {
	Symbol *Symbol
}

// Unused recursively walks the scope tree and returns every variable symbol
// with Used == false.
func (t *Table) Unused() []UnusedReport {
	var out []UnusedReport
	var walk func(s *Scope)
	walk = func(s *Scope) {
		for _, name := range orderedNames(s) {
			sym := s.Names[name]
			if sym.Kind == KindVariable && !sym.Used {
				out = append(out, UnusedReport{Symbol: sym})
			}
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(t.global)
	return out
}

// UsedBeforeInit recursively walks the scope tree and returns every symbol
// that was used while never having been initialized.
func (t *Table) UsedBeforeInit() []UsedBeforeInitReport {
	var out []UsedBeforeInitReport
	var walk func(s *Scope)
	walk = func(s *Scope) {
		for _, name := range orderedNames(s) {
			sym := s.Names[name]
			if sym.Kind == KindVariable && sym.Used && !sym.Initialized {
				out = append(out, UsedBeforeInitReport{Symbol: sym})
			}
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(t.global)
	return out
}

// TotalSymbols counts every symbol in every scope.
func (t *Table) TotalSymbols() int {
	count := 0
	var walk func(s *Scope)
	walk = func(s *Scope) {
		count += len(s.Names)
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(t.global)
	return count
}

// TotalScopes counts every scope in the tree, including the global scope.
func (t *Table) TotalScopes() int {
	count := 0
	var walk func(s *Scope)
	walk = func(s *Scope) {
		count++
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(t.global)
	return count
}

// orderedNames returns a scope's symbol names in a deterministic order
// (insertion-independent), so reports are reproducible across runs.
func orderedNames(s *Scope) []string {
	names := make([]string, 0, len(s.Names))
	for n := range s.Names {
		names = append(names, n)
	}
	// simple insertion sort is fine here: scopes are small.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}
