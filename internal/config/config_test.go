package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Default(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.CheckUninitializedVars)
	assert.False(t, cfg.WarningsAsErrors)
	assert.True(t, cfg.ReportUnusedVariables)
	assert.False(t, cfg.EmitComments)
	assert.True(t, cfg.FoldConstants)
	assert.Empty(t, cfg.SuppressedTokenKinds)
}

func Test_Load_OverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minic.toml")
	contents := `
warnings_as_errors = true
suppress_tokens = ["COMMENT"]
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.WarningsAsErrors)
	assert.Equal(t, []string{"COMMENT"}, cfg.SuppressedTokenKinds)
	// untouched fields keep their Default() values
	assert.True(t, cfg.CheckUninitializedVars)
	assert.True(t, cfg.FoldConstants)
}

func Test_Load_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func Test_Load_MalformedToml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not = valid [[ toml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
