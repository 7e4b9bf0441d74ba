package ingest

import (
	"errors"
	"fmt"
)

// ErrMissingColumn matches any MissingColumnError via errors.Is.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError reports a required column absent from an input table.
type MissingColumnError struct {
	Source string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing required column %q", e.Source, e.Column)
}

// Is lets errors.Is(err, ErrMissingColumn) match.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// ValueError reports an unparseable cell.
type ValueError struct {
	Source string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s:%d: invalid %s value %q: %v", e.Source, e.Line, e.Column, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
