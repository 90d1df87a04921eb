package importer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedInput indicates the CSV has no data rows or a row has the
	// wrong shape.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvalidDateFormat indicates a date cell that is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format (expected YYYY-MM-DD)")

	// ErrInvalidNumber indicates an hours cell that is not a number.
	ErrInvalidNumber = errors.New("invalid number")
)

// ParseError locates a CSV failure. Row is the 1-based line number in the
// input (the header is row 1); Column is 1-based and zero when the failure
// concerns the whole row.
type ParseError struct {
	Row    int
	Column int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "row %d", e.Row)
	if e.Column > 0 {
		fmt.Fprintf(&b, ", column %d", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Column > 0 {
		fmt.Fprintf(&b, ": %q", e.Value)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }
