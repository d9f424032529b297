package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/minic/internal/config"
)

func Test_Compile_SimpleFunction_Succeeds(t *testing.T) {
	src := `
int add(int a, int b) {
    int total = a + b;
    return total;
}
`
	pl, err := New(config.Default())
	require.NoError(t, err)
	result := pl.Compile(src)

	require.NotEmpty(t, result.RunID)
	assert.True(t, result.Lexical.Success)
	assert.True(t, result.Parse.Success)
	assert.True(t, result.Semantic.Success)
	assert.True(t, result.CodeGen.Success)
	assert.True(t, result.Success)

	require.NotNil(t, result.CodeGen.IR)
	assert.Greater(t, result.CodeGen.Statistics.InstructionCount, 0)
}

func Test_Compile_LexicalError_StopsCleanlyButReportsIt(t *testing.T) {
	src := `int x = 1 @ 2;`
	pl, err := New(config.Default())
	require.NoError(t, err)
	result := pl.Compile(src)

	assert.False(t, result.Lexical.Success)
	assert.NotEmpty(t, result.Lexical.Errors)
	assert.False(t, result.Success)
}

func Test_Compile_UndefinedVariable_ReportedBySemanticStage(t *testing.T) {
	src := `
int main() {
    x = 1;
    return 0;
}
`
	pl, err := New(config.Default())
	require.NoError(t, err)
	result := pl.Compile(src)

	assert.True(t, result.Parse.Success)
	assert.False(t, result.Semantic.Success)
	require.NotEmpty(t, result.Semantic.Errors)
	assert.False(t, result.Success)
}

func Test_Compile_IfElseControlFlow(t *testing.T) {
	src := `
int abs(int x) {
    if (x < 0) {
        return -x;
    } else {
        return x;
    }
}
`
	pl, err := New(config.Default())
	require.NoError(t, err)
	result := pl.Compile(src)

	require.True(t, result.Success)
	assert.Contains(t, result.CodeGen.IR.String(), "goto")
}

func Test_Compile_WhileLoopWithCompoundAssignment(t *testing.T) {
	src := `
int sum(int n) {
    int total = 0;
    int i = 0;
    while (i < n) {
        total += i;
        i = i + 1;
    }
    return total;
}
`
	pl, err := New(config.Default())
	require.NoError(t, err)
	result := pl.Compile(src)

	require.True(t, result.Success)
	assert.Contains(t, result.CodeGen.IR.String(), "+")
}

func Test_Compile_EmptySource(t *testing.T) {
	pl, err := New(config.Default())
	require.NoError(t, err)
	result := pl.Compile("")

	assert.True(t, result.Lexical.Success)
	assert.Equal(t, 0, len(result.Lexical.Tokens)-1) // just EndOfText
}
