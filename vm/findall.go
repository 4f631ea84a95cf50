package vm

import "github.com/coregx/vmregex/instr"

// FindAllFrom repeatedly runs program against successive suffixes of
// values, for tokenizer-style consumers that want every match in a
// sequence rather than just the first. Each iteration advances past the
// previous match and retries from there.
//
// Because a Match need not consume its entire input (a lazy wrapper, for
// instance, may match only a short prefix), FindAllFrom only knows how far
// a match reached if the pattern was compiled with an outermost
// Captured(nil, ...) wrapping: when present, it advances past
// match.Group(nil)'s consumed length; otherwise (or for a zero-length
// capture) it advances by one position to guarantee progress.
func FindAllFrom[T comparable](program *instr.Program[T], values []T) []*Match[T] {
	var results []*Match[T]
	start := 0
	for start <= len(values) {
		p := NewParser(program)
		m, ok := p.Run(values[start:])
		if !ok {
			start++
			continue
		}
		results = append(results, m)

		advance := 1
		if whole, ok := m.Group(nil); ok && len(whole) > 0 {
			advance = len(whole)
		}
		start += advance
	}
	return results
}
