package osb

import (
	"errors"
	"fmt"
)

var (
	ErrFormat   = errors.New("format error")
	ErrState    = errors.New("invalid state")
	ErrGeometry = errors.New("geometry error")
)

// FormatError reports a malformed line. Line is 1-based; zero when the
// offending input is not tied to a line.
type FormatError struct {
	Line int
	Text string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Text)
}

func (e *FormatError) Unwrap() []error { return []error{ErrFormat, e.Err} }

// Formatf builds a FormatError for line n.
func Formatf(n int, text, format string, a ...any) error {
	return &FormatError{Line: n, Text: text, Err: fmt.Errorf(format, a...)}
}

func stateErrorf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrState, fmt.Sprintf(format, a...))
}

func geometryErrorf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrGeometry, fmt.Sprintf(format, a...))
}
