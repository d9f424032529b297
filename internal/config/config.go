// Package config holds the pipeline's tunable options: which checks the
// semantic analyzer runs, whether the IR generator emits comments or folds
// constants, and which token kinds the lexer suppresses. A Pipeline is built
// from CLI-flag defaults and optionally overridden by a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/minic/internal/ierrors"
)

// Pipeline controls the behavior of every stage of a compile run.
type Pipeline struct {
	// SuppressedTokenKinds lists lexer token class IDs that should be
	// scanned but never reported in the token stream (beyond the default
	// whitespace/comment suppression).
	SuppressedTokenKinds []string `toml:"suppress_tokens"`

	// CheckUninitializedVars enables the semantic analyzer's
	// read-before-initialization warning.
	CheckUninitializedVars bool `toml:"check_uninitialized"`

	// WarningsAsErrors promotes every warning-severity diagnostic to an
	// error for the purpose of the pipeline's success/fail determination.
	WarningsAsErrors bool `toml:"warnings_as_errors"`

	// ReportUnusedVariables enables the semantic analyzer's unused-variable
	// report.
	ReportUnusedVariables bool `toml:"report_unused"`

	// EmitComments makes the IR generator annotate constructed regions
	// (if/while/for/switch) with a leading nop comment instruction.
	EmitComments bool `toml:"emit_comments"`

	// FoldConstants enables the constant-folding peephole pass over the
	// generated IR.
	FoldConstants bool `toml:"fold_constants"`
}

// Default returns the pipeline's default configuration: uninitialized-
// variable checking on, warnings kept as warnings,
// unused-variable reporting on, constant folding on, no comments.
func Default() Pipeline {
	return Pipeline{
		CheckUninitializedVars: true,
		WarningsAsErrors:       false,
		ReportUnusedVariables:  true,
		EmitComments:           false,
		FoldConstants:          true,
	}
}

// Load reads a TOML configuration file at path and returns it merged over
// Default: only fields present in the file differ from the defaults, since
// toml.Unmarshal is applied directly to a Default()-initialized struct.
func Load(path string) (Pipeline, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, ierrors.Wrap(err, fmt.Sprintf("could not read config file %q", path), fmt.Sprintf("%q: reading config file: %s", path, err))
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Pipeline{}, ierrors.Wrap(err, fmt.Sprintf("could not parse config file %q", path), fmt.Sprintf("%q: parsing config file: %s", path, err))
	}
	return cfg, nil
}
