// Package diag defines the diagnostic type shared by every pipeline stage
// and its rendering into the printed and summary forms the CLI emits.
package diag

import (
	"fmt"

	"github.com/dekarrin/rosed"
)

// Category is the kind of condition a Diagnostic reports.
type Category int

const (
	CategoryLexicalError Category = iota
	CategorySyntaxError
	CategoryUndefinedVariable
	CategoryUndefinedFunction
	CategoryRedefinedVariable
	CategoryRedefinedFunction
	CategoryTypeMismatch
	CategoryInvalidAssignment
	CategoryInvalidOperation
	CategoryArityMismatch
	CategoryReturnTypeMismatch
	CategoryUninitializedVariable
	CategoryUnreachableCode
	CategoryMissingReturn
	CategoryDivisionByZero
	CategoryArrayIndexError
	CategoryScopeError
	CategoryGeneratorError
)

var categoryNames = map[Category]string{
	CategoryLexicalError:          "Lexical Error",
	CategorySyntaxError:           "Syntax Error",
	CategoryUndefinedVariable:     "Undefined Variable",
	CategoryUndefinedFunction:     "Undefined Function",
	CategoryRedefinedVariable:     "Redefined Variable",
	CategoryRedefinedFunction:     "Redefined Function",
	CategoryTypeMismatch:          "Type Mismatch",
	CategoryInvalidAssignment:     "Invalid Assignment",
	CategoryInvalidOperation:      "Invalid Operation",
	CategoryArityMismatch:         "Argument Mismatch",
	CategoryReturnTypeMismatch:    "Return Type Mismatch",
	CategoryUninitializedVariable: "Uninitialized Variable",
	CategoryUnreachableCode:       "Unreachable Code",
	CategoryMissingReturn:         "Missing Return",
	CategoryDivisionByZero:        "Division By Zero",
	CategoryArrayIndexError:       "Array Index Error",
	CategoryScopeError:            "Scope Error",
	CategoryGeneratorError:        "Generator Error",
}

// String returns the human-readable category name used in the printed
// diagnostic form.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Severity distinguishes a hard error from a warning.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported condition from any pipeline stage.
type Diagnostic struct {
	Kind     Category
	Severity Severity
	Message  string
	Line     int
	Column   int
	Context  string // optional, e.g. an enclosing function name
}

// New builds an error-severity Diagnostic.
func New(kind Category, line, column int, message string) Diagnostic {
	return Diagnostic{Kind: kind, Severity: SeverityError, Line: line, Column: column, Message: message}
}

// NewWarning builds a warning-severity Diagnostic.
func NewWarning(kind Category, line, column int, message string) Diagnostic {
	return Diagnostic{Kind: kind, Severity: SeverityWarning, Line: line, Column: column, Message: message}
}

// WithContext returns a copy of d carrying the given context string.
func (d Diagnostic) WithContext(context string) Diagnostic {
	d.Context = context
	return d
}

// String renders d in the specified printed form:
// "<Category> [Line L:C] <Message> (in <context>)".
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s [Line %d:%d] %s", d.Kind, d.Line, d.Column, d.Message)
	if d.Context != "" {
		s += fmt.Sprintf(" (in %s)", d.Context)
	}
	return s
}

// Report is a full list of diagnostics accumulated across one pipeline
// run, split by severity for summary purposes.
type Report struct {
	Diagnostics []Diagnostic
}

// Add appends d to the report.
func (r *Report) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Errors returns only the error-severity diagnostics.
func (r *Report) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-severity diagnostics.
func (r *Report) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether the report contains at least one error.
func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

// Summary renders a wrapped, indented block listing every diagnostic, one
// per line, errors before warnings, the way a driver prints the
// "diagnostics summary" the pipeline's stdout contract calls for.
func (r *Report) Summary() string {
	if len(r.Diagnostics) == 0 {
		return "no diagnostics\n"
	}

	lines := ""
	for _, d := range append(append([]Diagnostic{}, r.Errors()...), r.Warnings()...) {
		lines += d.String() + "\n"
	}
	return rosed.Edit(lines).
		WithOptions(rosed.Options{NoTrailingLineSeparators: true}).
		Wrap(100).
		String() + "\n"
}
