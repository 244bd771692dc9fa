package meta

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCompile is wrapped by every grammar compilation failure.
var ErrCompile = errors.New("grammar compilation failed")

// CompileError locates a compilation failure in the grammar source.
type CompileError struct {
	Offset int
	Line   int
	Col    int
	Msg    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("line %d col %d: %s", e.Line, e.Col, e.Msg)
}

func (e *CompileError) Unwrap() error { return ErrCompile }

func newCompileError(source string, offset int, format string, args ...any) *CompileError {
	if offset > len(source) {
		offset = len(source)
	}
	before := source[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - strings.LastIndex(before, "\n")
	return &CompileError{
		Offset: offset,
		Line:   line,
		Col:    col,
		Msg:    fmt.Sprintf(format, args...),
	}
}
