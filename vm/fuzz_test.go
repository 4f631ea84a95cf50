package vm

import (
	"testing"

	"github.com/coregx/vmregex/pattern"
)

// FuzzParser_Run fuzzes the VM with an HTML-tag-shaped pattern exercising
// Concat, a lazy ZeroOrMore, and Captured together. It has no fixed oracle
// to compare against, so it checks the invariants any run must satisfy
// instead: no panic, a successful match's capture range is always a
// valid, in-bounds subsequence of the input it was run against, and a
// second run on the same input yields the same match.
func FuzzParser_Run(f *testing.F) {
	seeds := []string{
		"",
		"a",
		"<a>",
		"<a><b>",
		"<a href=foo>text</a>",
		"aaaaaaaaaa",
		"abcabcabcabc",
		"<<<<>>>>",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	tagPattern := pattern.Captured(nil, pattern.Concat(
		pattern.Literal('<'),
		pattern.ZeroOrMore(pattern.Any[rune](), pattern.Lazy),
		pattern.Literal('>'),
	))
	prog, err := pattern.Compile(tagPattern)
	if err != nil {
		f.Fatalf("Compile: %v", err)
	}

	f.Fuzz(func(t *testing.T, s string) {
		values := []rune(s)

		m, ok := NewParser(prog).Run(values)
		if !ok {
			return
		}

		whole, present := m.Group(nil)
		if !present {
			t.Fatalf("a successful match must have a present whole-match capture, input %q", s)
		}
		if len(whole) > len(values) {
			t.Fatalf("captured range longer than the input: %d > %d, input %q", len(whole), len(values), s)
		}

		// Re-running the same program against the same input must be
		// deterministic: the VM carries no mutable state across Run calls.
		m2, ok2 := NewParser(prog).Run(values)
		if !ok2 {
			t.Fatalf("second run on the same input didn't match, input %q", s)
		}
		again, _ := m2.Group(nil)
		if string(again) != string(whole) {
			t.Fatalf("non-deterministic match on repeated runs: %q vs %q, input %q", string(whole), string(again), s)
		}
	})
}
