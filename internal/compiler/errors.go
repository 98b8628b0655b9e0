package compiler

import (
	"errors"
	"fmt"

	"github.com/loomlang/loom/internal/jsparse"
	"github.com/loomlang/loom/internal/template"
)

// CompileError is a compilation failure with its source location when one
// is known. Line and Column are 1-based; zero means unknown.
type CompileError struct {
	Message  string
	Filename string
	Line     int
	Column   int
	Err      error
}

func (e *CompileError) Error() string {
	name := e.Filename
	if name == "" {
		name = "template"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", name, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", name, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// wrapError lifts lower-layer errors into a CompileError, carrying
// positions through where the layer recorded them.
func wrapError(err error, filename string) error {
	var pe *template.ParseError
	if errors.As(err, &pe) {
		return &CompileError{
			Message:  pe.Message,
			Filename: filename,
			Line:     pe.Line,
			Column:   pe.Column,
			Err:      err,
		}
	}
	var je *jsparse.ParseError
	if errors.As(err, &je) {
		return &CompileError{
			Message:  fmt.Sprintf("invalid expression %q", je.Src),
			Filename: filename,
			Err:      err,
		}
	}
	return &CompileError{Message: err.Error(), Filename: filename, Err: err}
}
