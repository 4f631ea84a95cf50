package vm

import "github.com/coregx/vmregex/instr"

// Match is the user-visible view of a successful run, tying the
// materialized input sequence to the winning thread's final state. It
// exposes no way to mutate starts/ends; those are VM-internal.
type Match[T any] struct {
	values []T
	state  *sharedState
}

// Group returns the subsequence input[start:end] captured under key, and
// whether that capture ever fired (both its Start and End Save executed
// on the winning thread). key may be nil, the conventional "whole match"
// capture when the compiled pattern wraps itself in Captured(nil, ...).
func (m *Match[T]) Group(key any) ([]T, bool) {
	return group(m.values, m.state, key)
}

// Result returns the winning thread's result slot, set by a Call callback
// via PartialMatch.SetResult, or nil if none was set.
func (m *Match[T]) Result() any {
	return m.state.result
}

func group[T any](values []T, s *sharedState, key any) ([]T, bool) {
	start, ok := s.starts[key]
	if !ok {
		return nil, false
	}
	end, ok := s.ends[key]
	if !ok {
		return nil, false
	}
	return values[start:end], true
}

// partialMatch is the PartialMatch a Call callback observes mid-execution.
// It wraps a writable *sharedState (already copy-on-write'd by the
// executor before the callback runs), so SetResult mutates it directly.
// Callbacks must not retain a partialMatch past the call: a later
// copy-on-write may give sibling threads a different *sharedState.
type partialMatch[T any] struct {
	values []T
	state  *sharedState
}

var _ instr.PartialMatch[any] = (*partialMatch[any])(nil)

func (pm *partialMatch[T]) Group(key any) ([]T, bool) {
	return group(pm.values, pm.state, key)
}

func (pm *partialMatch[T]) Result() any {
	return pm.state.result
}

func (pm *partialMatch[T]) SetResult(r any) {
	pm.state.result = r
}

func (pm *partialMatch[T]) CurrentMarker() instr.Marker {
	return pm.state.currentMarker()
}

// executorHandle is the Executor a Call callback observes alongside its
// PartialMatch.
type executorHandle[T any] struct {
	values []T
	pos    int
}

var _ instr.Executor[any] = (*executorHandle[any])(nil)

func (e *executorHandle[T]) Input() []T { return e.values }
func (e *executorHandle[T]) Pos() int   { return e.pos }
