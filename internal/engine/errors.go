package engine

import (
	"fmt"

	"sift/internal/source"
)

// PatternError reports a failure during pattern evaluation: an unresolvable
// binding, a builtin misuse, or any other engine-internal matching failure.
// It is fatal to the single execute call that raised it.
type PatternError struct {
	msg string
}

func NewPatternError(msg string) *PatternError {
	return &PatternError{msg: msg}
}

func PatternErrorf(format string, args ...any) *PatternError {
	return &PatternError{msg: fmt.Sprintf(format, args...)}
}

func (e *PatternError) Error() string {
	return e.msg
}

// CompileError reports malformed plugin source. It carries the engine's
// structured detail and the originating path for error messages.
type CompileError struct {
	Path   string
	Span   source.Span
	Detail string
}

func (e *CompileError) Error() string {
	if e.Path == "" {
		return e.Detail
	}
	return e.Path + ": " + e.Detail
}
