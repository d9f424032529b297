package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/minic/internal/ast"
)

func Test_Table_Scoping(t *testing.T) {
	tbl := NewTable()
	assert.Equal(t, 0, tbl.CurrentLevel())

	ok := tbl.AddSymbol(&Symbol{Name: "x", Kind: KindVariable, Type: ast.TypeInt})
	require.True(t, ok)

	tbl.EnterScope()
	assert.Equal(t, 1, tbl.CurrentLevel())

	// shadowing: a new "x" in the inner scope does not overwrite the outer one
	ok = tbl.AddSymbol(&Symbol{Name: "x", Kind: KindVariable, Type: ast.TypeFloat})
	require.True(t, ok)
	assert.Equal(t, ast.TypeFloat, tbl.FindSymbol("x").Type)

	tbl.ExitScope()
	assert.Equal(t, 0, tbl.CurrentLevel())
	assert.Equal(t, ast.TypeInt, tbl.FindSymbol("x").Type)

	// the global scope can never be popped
	tbl.ExitScope()
	assert.Equal(t, 0, tbl.CurrentLevel())
}

func Test_Table_AddSymbol_RedeclarationInSameScope(t *testing.T) {
	tbl := NewTable()
	require.True(t, tbl.AddSymbol(&Symbol{Name: "x", Kind: KindVariable}))
	assert.False(t, tbl.AddSymbol(&Symbol{Name: "x", Kind: KindVariable}))
}

func Test_Table_FindSymbol_Undefined(t *testing.T) {
	tbl := NewTable()
	assert.Nil(t, tbl.FindSymbol("nope"))
}

func Test_Table_MarkUsed_MarkInitialized(t *testing.T) {
	tbl := NewTable()
	tbl.AddSymbol(&Symbol{Name: "x", Kind: KindVariable})

	tbl.MarkUsed("x")
	tbl.MarkInitialized("x")

	sym := tbl.FindSymbol("x")
	assert.True(t, sym.Used)
	assert.True(t, sym.Initialized)
}

func Test_Table_Unused_And_UsedBeforeInit(t *testing.T) {
	tbl := NewTable()
	tbl.AddSymbol(&Symbol{Name: "used", Kind: KindVariable, Initialized: true})
	tbl.AddSymbol(&Symbol{Name: "unused", Kind: KindVariable, Initialized: true})
	tbl.AddSymbol(&Symbol{Name: "stale", Kind: KindVariable})

	tbl.MarkUsed("used")
	tbl.MarkUsed("stale")

	unused := tbl.Unused()
	require.Len(t, unused, 1)
	assert.Equal(t, "unused", unused[0].Symbol.Name)

	stale := tbl.UsedBeforeInit()
	require.Len(t, stale, 1)
	assert.Equal(t, "stale", stale[0].Symbol.Name)
}

func Test_Table_TotalSymbols_TotalScopes(t *testing.T) {
	tbl := NewTable()
	tbl.AddSymbol(&Symbol{Name: "a", Kind: KindVariable})
	tbl.EnterScope()
	tbl.AddSymbol(&Symbol{Name: "b", Kind: KindVariable})
	tbl.EnterScope()
	tbl.AddSymbol(&Symbol{Name: "c", Kind: KindVariable})
	tbl.ExitScope()
	tbl.ExitScope()

	assert.Equal(t, 3, tbl.TotalSymbols())
	assert.Equal(t, 3, tbl.TotalScopes())
}
