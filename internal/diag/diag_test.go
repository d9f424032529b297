package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Diagnostic_String(t *testing.T) {
	testCases := []struct {
		name   string
		d      Diagnostic
		expect string
	}{
		{
			name:   "no context",
			d:      New(CategoryUndefinedVariable, 3, 7, "'x' is not defined"),
			expect: "Undefined Variable [Line 3:7] 'x' is not defined",
		},
		{
			name:   "with context",
			d:      NewWarning(CategoryUnreachableCode, 10, 1, "statement is unreachable").WithContext("main"),
			expect: "Unreachable Code [Line 10:1] statement is unreachable (in main)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.d.String())
		})
	}
}

func Test_Diagnostic_Severity(t *testing.T) {
	assert.Equal(t, SeverityError, New(CategoryTypeMismatch, 1, 1, "x").Severity)
	assert.Equal(t, SeverityWarning, NewWarning(CategoryTypeMismatch, 1, 1, "x").Severity)
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
}

func Test_Report_ErrorsAndWarnings(t *testing.T) {
	var r Report
	r.Add(New(CategoryUndefinedVariable, 1, 1, "err1"))
	r.Add(NewWarning(CategoryUnreachableCode, 2, 1, "warn1"))
	r.Add(New(CategoryTypeMismatch, 3, 1, "err2"))

	assert.False(t, (&Report{}).HasErrors())
	assert.True(t, r.HasErrors())

	errs := r.Errors()
	assert.Len(t, errs, 2)
	assert.Equal(t, "err1", errs[0].Message)
	assert.Equal(t, "err2", errs[1].Message)

	warns := r.Warnings()
	assert.Len(t, warns, 1)
	assert.Equal(t, "warn1", warns[0].Message)
}

func Test_Report_Summary_Empty(t *testing.T) {
	var r Report
	assert.Equal(t, "no diagnostics\n", r.Summary())
}

func Test_Report_Summary_ErrorsBeforeWarnings(t *testing.T) {
	var r Report
	r.Add(NewWarning(CategoryUnreachableCode, 2, 1, "warn1"))
	r.Add(New(CategoryUndefinedVariable, 1, 1, "err1"))

	summary := r.Summary()
	assert.Contains(t, summary, "Undefined Variable")
	assert.Contains(t, summary, "Unreachable Code")

	errIdx := indexOf(summary, "Undefined Variable")
	warnIdx := indexOf(summary, "Unreachable Code")
	assert.True(t, errIdx < warnIdx, "expected errors to be listed before warnings")
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
