// Package vmregex is a generic Pike/Cox-style virtual-machine pattern
// matcher: it matches patterns against sequences of arbitrary comparable
// values, not just bytes or runes.
//
// A Pattern is built programmatically from the combinators in package
// pattern (Literal, Concat, Alternation, Captured, Repetition, and so on),
// compiled once with Compile, and then matched repeatedly and
// concurrently against any number of input sequences with Regex.Find /
// Regex.FindAll / Regex.Match.
//
// Basic usage:
//
//	p := pattern.Captured(nil, pattern.Concat(
//		pattern.Literal('<'),
//		pattern.ZeroOrMore(pattern.Any[rune](), pattern.Lazy),
//		pattern.Literal('>'),
//	))
//	re, err := vmregex.Compile(p)
//	if err != nil {
//		log.Fatal(err)
//	}
//	m, ok := re.Find([]rune("<a><b>"))
//
// vmregex favors direct combinator construction over a parsed string
// syntax, so a pattern's structure is always explicit in the call site
// that builds it.
package vmregex

import (
	"github.com/coregx/vmregex/dot"
	"github.com/coregx/vmregex/instr"
	"github.com/coregx/vmregex/pattern"
	"github.com/coregx/vmregex/vm"
)

// Regex is a compiled Pattern ready to run against any number of input
// sequences. A Regex is immutable after Compile and safe for concurrent
// use: each call to Find/FindAll/Match constructs its own vm.Parser.
type Regex[T comparable] struct {
	program *instr.Program[T]
}

// Compile builds p's instruction graph under pattern.DefaultLimits and
// wraps it as a Regex.
func Compile[T comparable](p pattern.Pattern[T]) (*Regex[T], error) {
	return CompileWithLimits(p, pattern.DefaultLimits())
}

// CompileWithLimits is Compile with caller-supplied complexity limits.
func CompileWithLimits[T comparable](p pattern.Pattern[T], limits pattern.Limits) (*Regex[T], error) {
	program, err := pattern.CompileWithLimits(p, limits)
	if err != nil {
		return nil, err
	}
	return &Regex[T]{program: program}, nil
}

// MustCompile is Compile but panics on error, for patterns known valid at
// init time.
func MustCompile[T comparable](p pattern.Pattern[T]) *Regex[T] {
	re, err := Compile(p)
	if err != nil {
		panic("vmregex: Compile: " + err.Error())
	}
	return re
}

// Match reports whether any thread of re's program reaches Accept when run
// against values from the start.
func (re *Regex[T]) Match(values []T) bool {
	_, ok := re.Find(values)
	return ok
}

// Find runs re once against values from index 0 and returns the
// highest-priority Match reached, or (nil, false) if none was.
func (re *Regex[T]) Find(values []T) (*vm.Match[T], bool) {
	p := vm.NewParser(re.program)
	return p.Run(values)
}

// FindAll returns every non-overlapping match of re against values, in
// order, by repeated search (see vm.FindAllFrom).
func (re *Regex[T]) FindAll(values []T) []*vm.Match[T] {
	return vm.FindAllFrom(re.program, values)
}

// Dot renders re's compiled instruction graph as Graphviz "digraph" text,
// for diagnostics.
func (re *Regex[T]) Dot() string {
	return dot.Dump(re.program)
}
