package pattern

import (
	"errors"
	"fmt"
)

// Common pattern-construction errors.
var (
	// ErrNilPattern indicates a nil Pattern was passed where one was
	// required (e.g. as a Concat/Alternation child, or Captured/Marked's
	// wrapped pattern).
	ErrNilPattern = errors.New("pattern: nil pattern")

	// ErrInvalidBounds indicates Repetition was given min > max (after
	// clamping both to the configured limit). Rejected outright rather than
	// silently reinterpreting min as max.
	ErrInvalidBounds = errors.New("pattern: repetition min exceeds max")

	// ErrNilCallback indicates CallP was given a nil callback.
	ErrNilCallback = errors.New("pattern: nil callback")

	// ErrTooComplex indicates the pattern tree's nesting depth exceeds the
	// configured Limits.MaxRecursionDepth.
	ErrTooComplex = errors.New("pattern: too deeply nested")
)

// CompileError wraps a construction-time error with the pattern that
// triggered it: a sentinel error plus enough context to locate the
// mistake, rather than a bare panic.
type CompileError struct {
	Pattern string // a short description of the offending pattern node
	Err     error
}

func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("pattern: compile error in %s: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("pattern: compile error: %v", e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }
