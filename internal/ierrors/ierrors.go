// Package ierrors defines the pipeline's fatal error type: an error that
// aborts a compile run before diagnostics can even be collected (a
// malformed grammar, an LALR conflict that blocks table construction, an
// I/O failure reading source). These are distinct from diag.Diagnostic,
// which reports a condition found *within* an otherwise-running pipeline.
package ierrors

import "fmt"

// fatalError pairs a technical Error() message with a short operator-facing
// one, the way a driver would print a one-line cause before exiting.
type fatalError struct {
	msg     string
	display string
	wrap    error
}

func (e *fatalError) Error() string {
	return e.msg
}

// Display returns the short message a driver should print to an operator,
// distinct from the more detailed Error() string.
func (e *fatalError) Display() string {
	return e.display
}

func (e *fatalError) Unwrap() error {
	return e.wrap
}

// New returns a fatal error with the given operator-facing message and
// technical description.
func New(display, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got fatal error(%q)", display)
	}
	return &fatalError{msg: technical, display: display}
}

// Wrap returns a fatal error that wraps err, with the given operator-facing
// message and technical description.
func Wrap(err error, display, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got fatal error(%q)", display)
	}
	return &fatalError{msg: technical, display: display, wrap: err}
}

// Wrapf is Wrap with a formatted operator-facing message.
func Wrapf(err error, displayFormat string, a ...any) error {
	return Wrap(err, fmt.Sprintf(displayFormat, a...), "")
}

// Display returns the message a driver should show an operator for err: the
// fatal-error display text if err is one, or err.Error() otherwise.
func Display(err error) string {
	if fe, ok := err.(*fatalError); ok {
		return fe.Display()
	}
	return err.Error()
}
