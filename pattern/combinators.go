package pattern

import (
	"fmt"
	"sync/atomic"

	"github.com/coregx/vmregex/instr"
)

// funcSeq numbers Test and CallP patterns: their predicate or callback
// cannot be compared, so each such pattern gets a keyStr of its own.
var funcSeq atomic.Uint64

func maxChildDepth[T comparable](children []Pattern[T]) int {
	d := 0
	for _, c := range children {
		if c.depth > d {
			d = c.depth
		}
	}
	return d + 1
}

// Test matches one value for which pred returns true.
func Test[T comparable](pred instr.Predicate[T]) Pattern[T] {
	if pred == nil {
		return errPattern[T](fmt.Errorf("Test: %w", ErrNilPattern))
	}
	return Pattern[T]{
		kind:   kindTest,
		keyStr: fmt.Sprintf("Test#%d", funcSeq.Add(1)),
		depth:  1,
		build: func(next *instr.Instruction[T]) *instr.Instruction[T] {
			return instr.NewAtom(pred, next)
		},
	}
}

// Literal matches exactly the value v (null-safe equality via ==).
func Literal[T comparable](v T) Pattern[T] {
	return Pattern[T]{
		kind:   kindLiteral,
		keyStr: fmt.Sprintf("Literal(%v)", v),
		depth:  1,
		build: func(next *instr.Instruction[T]) *instr.Instruction[T] {
			return instr.NewAtom(func(x T) bool { return x == v }, next)
		},
	}
}

// Any matches any single value.
func Any[T comparable]() Pattern[T] {
	return Pattern[T]{
		kind:   kindAny,
		keyStr: "Any",
		depth:  1,
		build: func(next *instr.Instruction[T]) *instr.Instruction[T] {
			return instr.NewAtom(func(T) bool { return true }, next)
		},
	}
}

// OneOfLiterals matches one value equal to any of vs. Duplicates are
// removed, preserving first-seen order (relevant only for the pattern's
// keyStr/introspection, since set membership doesn't depend on order). A
// single distinct value degenerates to Literal.
func OneOfLiterals[T comparable](vs ...T) Pattern[T] {
	if len(vs) == 0 {
		return errPattern[T](fmt.Errorf("OneOfLiterals: %w", ErrNilPattern))
	}
	seen := make(map[T]bool, len(vs))
	var uniq []T
	for _, v := range vs {
		if !seen[v] {
			seen[v] = true
			uniq = append(uniq, v)
		}
	}
	if len(uniq) == 1 {
		return Literal(uniq[0])
	}
	set := make(map[T]bool, len(uniq))
	for _, v := range uniq {
		set[v] = true
	}
	return Pattern[T]{
		kind:   kindOneOf,
		keyStr: fmt.Sprintf("OneOf(%v)", uniq),
		depth:  1,
		build: func(next *instr.Instruction[T]) *instr.Instruction[T] {
			return instr.NewAtom(func(x T) bool { return set[x] }, next)
		},
	}
}

// flattenConcat splices nested Concat children into a single flat list so
// that associativity holds and the canonical keyStr is stable.
func flattenConcat[T comparable](ps []Pattern[T]) []Pattern[T] {
	var flat []Pattern[T]
	for _, p := range ps {
		if p.kind == kindConcat {
			flat = append(flat, p.children...)
		} else {
			flat = append(flat, p)
		}
	}
	return flat
}

// Concat matches p1 then p2 then ... then pn in sequence. Nested Concats
// are flattened before compilation.
func Concat[T comparable](ps ...Pattern[T]) Pattern[T] {
	flat := flattenConcat(ps)
	if len(flat) == 0 {
		return errPattern[T](fmt.Errorf("Concat: %w", ErrNilPattern))
	}
	for _, c := range flat {
		if c.build == nil && c.err == nil {
			return errPattern[T](fmt.Errorf("Concat: %w", ErrNilPattern))
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	keys := make([]string, len(flat))
	for i, c := range flat {
		keys[i] = c.keyStr
	}
	return Pattern[T]{
		kind:     kindConcat,
		children: flat,
		keyStr:   fmt.Sprintf("Concat%v", keys),
		depth:    maxChildDepth(flat),
		build: func(next *instr.Instruction[T]) *instr.Instruction[T] {
			// Compile right-to-left: c_n.compile(next) -> c_n', then
			// c_{n-1}.compile(c_n') -> c_{n-1}', ... returning c_1'.
			cont := next
			for i := len(flat) - 1; i >= 0; i-- {
				cont = flat[i].build(cont)
			}
			return cont
		},
	}
}

// flattenAlternation splices nested Alternation children and removes
// structural duplicates, preserving first-seen order.
func flattenAlternation[T comparable](ps []Pattern[T]) []Pattern[T] {
	var flat []Pattern[T]
	for _, p := range ps {
		if p.kind == kindAlternation {
			flat = append(flat, p.children...)
		} else {
			flat = append(flat, p)
		}
	}
	seen := make(map[string]bool, len(flat))
	var uniq []Pattern[T]
	for _, p := range flat {
		if !seen[p.keyStr] {
			seen[p.keyStr] = true
			uniq = append(uniq, p)
		}
	}
	return uniq
}

// Alternation tries p1, then p2, ... in priority order: the first branch
// that lets the whole match succeed wins. Nested Alternations are
// flattened and structural duplicates removed first.
func Alternation[T comparable](ps ...Pattern[T]) Pattern[T] {
	flat := flattenAlternation(ps)
	if len(flat) == 0 {
		return errPattern[T](fmt.Errorf("Alternation: %w", ErrNilPattern))
	}
	for _, c := range flat {
		if c.build == nil && c.err == nil {
			return errPattern[T](fmt.Errorf("Alternation: %w", ErrNilPattern))
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	keys := make([]string, len(flat))
	for i, c := range flat {
		keys[i] = c.keyStr
	}
	return Pattern[T]{
		kind:     kindAlternation,
		children: flat,
		keyStr:   fmt.Sprintf("Alt%v", keys),
		depth:    maxChildDepth(flat),
		build: func(next *instr.Instruction[T]) *instr.Instruction[T] {
			// Build right-associated Split(c1, Split(c2, ... cn)).
			// Compile branches in reverse so each Split's alt is already
			// built when we construct the Split wrapping the branch
			// before it; priority order (leftmost first) is preserved by
			// Split's Next/Alt ordering, not by compilation order.
			compiled := make([]*instr.Instruction[T], len(flat))
			for i := len(flat) - 1; i >= 0; i-- {
				compiled[i] = flat[i].build(next)
			}
			entry := compiled[len(compiled)-1]
			for i := len(compiled) - 2; i >= 0; i-- {
				entry = instr.NewSplit(compiled[i], entry)
			}
			return entry
		},
	}
}

// Captured wraps p so the input range it consumes is recorded under key
// (which may be nil for the whole-match capture).
func Captured[T comparable](key any, p Pattern[T]) Pattern[T] {
	if p.build == nil {
		return errPattern[T](fmt.Errorf("Captured: %w", ErrNilPattern))
	}
	return Pattern[T]{
		kind:     kindCaptured,
		children: []Pattern[T]{p},
		keyStr:   fmt.Sprintf("Captured(%v,%s)", key, p.keyStr),
		depth:    p.depth + 1,
		build: func(next *instr.Instruction[T]) *instr.Instruction[T] {
			end := instr.NewSave[T](key, instr.End, next)
			body := p.build(end)
			return instr.NewSave[T](key, instr.Start, body)
		},
	}
}

// Marked wraps p so every thread executing it pushes a fresh marker on
// entry and pops it on exit. Nested Marked regions shadow the outer
// marker until they end.
func Marked[T comparable](p Pattern[T]) Pattern[T] {
	if p.build == nil {
		return errPattern[T](fmt.Errorf("Marked: %w", ErrNilPattern))
	}
	return Pattern[T]{
		kind:     kindMarked,
		children: []Pattern[T]{p},
		keyStr:   fmt.Sprintf("Marked(%s)", p.keyStr),
		depth:    p.depth + 1,
		build: func(next *instr.Instruction[T]) *instr.Instruction[T] {
			end := instr.NewMark[T](instr.End, next)
			body := p.build(end)
			return instr.NewMark[T](instr.Start, body)
		},
	}
}

// CallP wraps p so cb fires at moment relative to p: Before fires it
// ahead of compiling p's body, After (the default) fires it once p's body
// has been compiled ahead of next.
func CallP[T comparable](p Pattern[T], cb instr.Callback[T], moment Moment) Pattern[T] {
	if p.build == nil {
		return errPattern[T](fmt.Errorf("CallP: %w", ErrNilPattern))
	}
	if cb == nil {
		return errPattern[T](fmt.Errorf("CallP: %w", ErrNilCallback))
	}
	return Pattern[T]{
		kind:     kindCall,
		children: []Pattern[T]{p},
		keyStr:   fmt.Sprintf("Call(%s,%d)#%d", p.keyStr, moment, funcSeq.Add(1)),
		depth:    p.depth + 1,
		build: func(next *instr.Instruction[T]) *instr.Instruction[T] {
			if moment == Before {
				return instr.NewCall(cb, p.build(next))
			}
			return p.build(instr.NewCall(cb, next))
		},
	}
}

// ZeroOrOne matches p zero or one time; g picks whether matching is
// preferred over skipping.
func ZeroOrOne[T comparable](p Pattern[T], g Greediness) Pattern[T] {
	if p.build == nil {
		return errPattern[T](fmt.Errorf("ZeroOrOne: %w", ErrNilPattern))
	}
	return Pattern[T]{
		kind:     kindZeroOrOne,
		children: []Pattern[T]{p},
		keyStr:   fmt.Sprintf("ZeroOrOne(%s,%d)", p.keyStr, g),
		depth:    p.depth + 1,
		build: func(next *instr.Instruction[T]) *instr.Instruction[T] {
			c := p.build(next)
			if g == Greedy {
				return instr.NewSplit(c, next)
			}
			return instr.NewSplit(next, c)
		},
	}
}

// ZeroOrMore matches p zero or more times, greedily or lazily per g.
func ZeroOrMore[T comparable](p Pattern[T], g Greediness) Pattern[T] {
	if p.build == nil {
		return errPattern[T](fmt.Errorf("ZeroOrMore: %w", ErrNilPattern))
	}
	return Pattern[T]{
		kind:     kindZeroOrMore,
		children: []Pattern[T]{p},
		keyStr:   fmt.Sprintf("ZeroOrMore(%s,%d)", p.keyStr, g),
		depth:    p.depth + 1,
		build:    zeroOrMoreBuild(p, g),
	}
}

func zeroOrMoreBuild[T comparable](p Pattern[T], g Greediness) func(*instr.Instruction[T]) *instr.Instruction[T] {
	return func(next *instr.Instruction[T]) *instr.Instruction[T] {
		split := instr.NewSplit[T](nil, nil)
		body := p.build(split)
		if g == Greedy {
			split.SetNext(body)
			split.SetAlt(next)
		} else {
			split.SetNext(next)
			split.SetAlt(body)
		}
		return split
	}
}

// OneOrMore matches p one or more times, greedily or lazily per g.
func OneOrMore[T comparable](p Pattern[T], g Greediness) Pattern[T] {
	if p.build == nil {
		return errPattern[T](fmt.Errorf("OneOrMore: %w", ErrNilPattern))
	}
	return Pattern[T]{
		kind:     kindOneOrMore,
		children: []Pattern[T]{p},
		keyStr:   fmt.Sprintf("OneOrMore(%s,%d)", p.keyStr, g),
		depth:    p.depth + 1,
		build: func(next *instr.Instruction[T]) *instr.Instruction[T] {
			split := instr.NewSplit[T](nil, nil)
			body := p.build(split)
			if g == Greedy {
				split.SetNext(body)
				split.SetAlt(next)
			} else {
				split.SetNext(next)
				split.SetAlt(body)
			}
			return body
		},
	}
}

// Repetition matches p between min and max times inclusive (max = -1 means
// unbounded). Both bounds are clamped to [0, limit] (limit defaults to
// DefaultLimits().MaxRepetition); pass 0 or a negative limit to use the
// default. It is an error (surfaced at Compile time via Pattern.Err) for a
// clamped min to exceed a clamped, finite max.
func Repetition[T comparable](p Pattern[T], min, max int, g Greediness, limit ...int) Pattern[T] {
	if p.build == nil {
		return errPattern[T](fmt.Errorf("Repetition: %w", ErrNilPattern))
	}
	l := DefaultLimits().MaxRepetition
	if len(limit) > 0 && limit[0] > 0 {
		l = limit[0]
	}
	if min < 0 {
		min = 0
	}
	if min > l {
		min = l
	}
	unbounded := max < 0
	if !unbounded {
		if max > l {
			max = l
		}
		if min > max {
			bad := errPattern[T](fmt.Errorf("Repetition(min=%d,max=%d): %w", min, max, ErrInvalidBounds))
			bad.depth = p.depth + 1
			return bad
		}
	}

	keyStr := fmt.Sprintf("Repetition(%s,%d,%d,%d)", p.keyStr, min, max, g)

	return Pattern[T]{
		kind:     kindRepetition,
		children: []Pattern[T]{p},
		keyStr:   keyStr,
		depth:    p.depth + 1,
		build: func(next *instr.Instruction[T]) *instr.Instruction[T] {
			return repetitionBuild(p, min, max, unbounded, g, next)
		},
	}
}

func repetitionBuild[T comparable](p Pattern[T], min, max int, unbounded bool, g Greediness, next *instr.Instruction[T]) *instr.Instruction[T] {
	if !unbounded && max == 0 {
		return next
	}

	if unbounded {
		if min == 0 {
			return zeroOrMoreBuild(p, g)(next)
		}
		// min concatenated copies of p, then ZeroOrMore(p, g).
		cont := zeroOrMoreBuild(p, g)(next)
		for i := 0; i < min; i++ {
			cont = p.build(cont)
		}
		return cont
	}

	// Finite max: min concatenated copies, then (max-min) nested
	// ZeroOrOne(p, g), innermost wrapping next first.
	cont := next
	for i := 0; i < max-min; i++ {
		body := p.build(cont)
		if g == Greedy {
			cont = instr.NewSplit(body, cont)
		} else {
			cont = instr.NewSplit(cont, body)
		}
	}
	for i := 0; i < min; i++ {
		cont = p.build(cont)
	}
	return cont
}
