package pipeline

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/minic/internal/config"
	"github.com/dekarrin/minic/internal/diag"
)

func readCorpus(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/" + name)
	require.NoError(t, err)
	return string(data)
}

func Test_SeedCorpus_BasicTypes(t *testing.T) {
	src := readCorpus(t, "basic_types.mc")
	pl, err := New(config.Default())
	require.NoError(t, err)
	result := pl.Compile(src)

	require.True(t, result.Success)
	assert.Equal(t, 4, result.Semantic.TotalSymbols) // main, plus age/height/ok in its scope
	ir := result.CodeGen.IR.String()
	assert.Contains(t, ir, "age = 25")
	assert.Contains(t, ir, "height = 175.5")
	assert.Contains(t, ir, "ok = true")
}

func Test_SeedCorpus_ArithmeticFolding(t *testing.T) {
	src := readCorpus(t, "arithmetic_folding.mc")
	pl, err := New(config.Default())
	require.NoError(t, err)
	result := pl.Compile(src)

	require.True(t, result.Success)
	ir := result.CodeGen.IR.String()
	assert.Contains(t, ir, "x = 13")
	assert.NotContains(t, ir, "*")
}

func Test_SeedCorpus_ArithmeticNoFolding(t *testing.T) {
	src := readCorpus(t, "arithmetic_folding.mc")
	cfg := config.Default()
	cfg.FoldConstants = false
	pl, err := New(cfg)
	require.NoError(t, err)
	result := pl.Compile(src)

	require.True(t, result.Success)
	ir := result.CodeGen.IR.String()
	assert.Contains(t, ir, "*")
	assert.Contains(t, ir, "+")
}

func Test_SeedCorpus_ControlFlow(t *testing.T) {
	src := readCorpus(t, "control_flow.mc")
	pl, err := New(config.Default())
	require.NoError(t, err)
	result := pl.Compile(src)

	require.True(t, result.Success)
	ir := result.CodeGen.IR.String()
	assert.Contains(t, ir, "< 10")
	assert.Contains(t, ir, "goto")
	assert.Contains(t, ir, "ifFalse")
}

func Test_SeedCorpus_UndefinedVariable(t *testing.T) {
	src := readCorpus(t, "undefined_variable.mc")
	pl, err := New(config.Default())
	require.NoError(t, err)
	result := pl.Compile(src)

	assert.False(t, result.Semantic.Success)
	require.NotEmpty(t, result.Semantic.Errors)
	assert.Equal(t, diag.CategoryUndefinedVariable, result.Semantic.Errors[0].Kind)
}

func Test_SeedCorpus_TypeMismatchReturn(t *testing.T) {
	src := readCorpus(t, "type_mismatch_return.mc")
	pl, err := New(config.Default())
	require.NoError(t, err)
	result := pl.Compile(src)

	assert.False(t, result.Semantic.Success)
	require.NotEmpty(t, result.Semantic.Errors)
	assert.Equal(t, diag.CategoryReturnTypeMismatch, result.Semantic.Errors[0].Kind)
	// the function must still get a label and a defensive return in the IR
	ir := result.CodeGen.IR.String()
	assert.Contains(t, ir, "f:")
	assert.Contains(t, ir, "return")
}

func Test_SeedCorpus_MissingReturn(t *testing.T) {
	src := readCorpus(t, "missing_return.mc")
	pl, err := New(config.Default())
	require.NoError(t, err)
	result := pl.Compile(src)

	assert.False(t, result.Semantic.Success)
	require.NotEmpty(t, result.Semantic.Errors)
	assert.Equal(t, diag.CategoryMissingReturn, result.Semantic.Errors[0].Kind)
}
