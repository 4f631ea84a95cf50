// Package pattern is a declarative combinator algebra: a Pattern tree
// describes a match intent, and Compile walks it in continuation-passing
// style to produce an instr.Instruction entry node.
//
// The set of concrete Pattern variants is closed: only this package's
// constructors (Test, Literal, Any, OneOfLiterals, Concat, Alternation,
// Captured, Marked, CallP, ZeroOrOne, ZeroOrMore, OneOrMore, Repetition)
// produce values satisfying Pattern: the unexported build field keeps the
// set from being extended outside the package.
package pattern

import (
	"fmt"

	"github.com/coregx/vmregex/instr"
)

type kind uint8

const (
	kindTest kind = iota
	kindLiteral
	kindAny
	kindOneOf
	kindConcat
	kindAlternation
	kindCaptured
	kindMarked
	kindCall
	kindZeroOrOne
	kindZeroOrMore
	kindOneOrMore
	kindRepetition
)

// Pattern is a declarative combinator over values of type T. Build one with
// the package-level constructors and compile it with Compile.
//
// T must be comparable because Literal and OneOfLiterals compare values
// with ==, and structural Pattern equality (used to dedup Alternation
// branches) is defined in terms of that comparison.
type Pattern[T comparable] struct {
	kind     kind
	children []Pattern[T]
	keyStr   string
	err      error
	depth    int

	build func(next *instr.Instruction[T]) *instr.Instruction[T]
}

// Err returns a construction-time error recorded on this pattern (e.g. a
// nil child, nil callback, or invalid Repetition bounds), or nil. Compile
// surfaces it rather than building a malformed graph.
func (p Pattern[T]) Err() error {
	if p.err != nil {
		return p.err
	}
	for _, c := range p.children {
		if err := c.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether p and other have identical structure and payload
// ("structural pattern equality"), used to dedup Alternation branches and
// available to callers for their own caching. Test and CallP patterns hold
// a function, which cannot be compared, so each one constructed is Equal
// only to itself and its copies.
func (p Pattern[T]) Equal(other Pattern[T]) bool {
	return p.keyStr == other.keyStr
}

// Then returns Concat(p, next...) — concatenation read left to right.
func (p Pattern[T]) Then(next ...Pattern[T]) Pattern[T] {
	return Concat(append([]Pattern[T]{p}, next...)...)
}

// Or returns Alternation(p, alts...) — p tried first, highest priority.
func (p Pattern[T]) Or(alts ...Pattern[T]) Pattern[T] {
	return Alternation(append([]Pattern[T]{p}, alts...)...)
}

// Call wraps p so cb fires at the given moment (default After) whenever a
// thread executes the wrapped pattern's call site.
func (p Pattern[T]) Call(cb instr.Callback[T], moment ...Moment) Pattern[T] {
	m := After
	if len(moment) > 0 {
		m = moment[0]
	}
	return CallP(p, cb, m)
}

func errPattern[T comparable](err error) Pattern[T] {
	return Pattern[T]{err: err, keyStr: "<error>"}
}

// Compile is the top-level entry point: Compile(p) = p.compile(Accept),
// returning a finalized Program whose Entry is the executor's starting
// instruction. It returns an error if p (or any descendant) recorded a
// construction-time error instead of building a malformed graph. It uses
// DefaultLimits(); use CompileWithLimits to override them.
func Compile[T comparable](p Pattern[T]) (*instr.Program[T], error) {
	return CompileWithLimits(p, DefaultLimits())
}

// CompileWithLimits is Compile with an explicit Limits, in particular a
// non-default MaxRecursionDepth guarding against stack overflow while
// walking a pathologically nested Pattern tree.
func CompileWithLimits[T comparable](p Pattern[T], limits Limits) (*instr.Program[T], error) {
	if err := p.Err(); err != nil {
		return nil, &CompileError{Pattern: describe(p), Err: err}
	}
	if p.build == nil {
		return nil, &CompileError{Err: ErrNilPattern}
	}
	if limits.MaxRecursionDepth > 0 && p.depth > limits.MaxRecursionDepth {
		return nil, &CompileError{Pattern: describe(p), Err: ErrTooComplex}
	}
	accept := instr.NewAccept[T]()
	entry := p.build(accept)
	return instr.Finalize(entry, accept), nil
}

func describe[T comparable](p Pattern[T]) string {
	return fmt.Sprintf("kind=%d", p.kind)
}
