package vm

import "github.com/coregx/vmregex/instr"

// sharedState is a thread's capture map, marker stack, and result slot,
// shared by reference across logical threads that have not diverged since
// their last Split, and refcounted so writers know when they must clone
// before mutating. Captures are keyed by an arbitrary (possibly nil)
// capture key rather than fixed slot indices, since the set of named
// captures is whatever the compiled pattern declares.
type sharedState struct {
	starts  map[any]int
	ends    map[any]int
	markers []instr.Marker
	result  any
	refs    int
}

func newSharedState() *sharedState {
	return &sharedState{refs: 1}
}

// retain is called exactly once per Split, representing the fork from one
// reference into two: both descendants now share this state until one of
// them needs to mutate it.
func (s *sharedState) retain() *sharedState {
	s.refs++
	return s
}

// release decrements the refcount on a path that consumes this state
// exactly once without mutating it, then dies (predicate failure,
// duplicate suppression, or being outranked by a higher-priority Accept).
func (s *sharedState) release() {
	if s == nil {
		return
	}
	s.refs--
}

// writable returns a state this caller may mutate without affecting any
// sibling thread: if s is exclusively held (refs == 1) it is returned
// as-is and not decremented; otherwise a clone is returned (refs == 1) and
// s's own refcount is decremented by one — the exclusive owner modifies in
// place, a shared owner copies before writing.
func (s *sharedState) writable() *sharedState {
	if s.refs <= 1 {
		return s
	}
	s.refs--
	clone := &sharedState{
		starts:  cloneIntMap(s.starts),
		ends:    cloneIntMap(s.ends),
		markers: append([]instr.Marker(nil), s.markers...),
		result:  s.result,
		refs:    1,
	}
	return clone
}

func cloneIntMap(m map[any]int) map[any]int {
	if m == nil {
		return nil
	}
	out := make(map[any]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *sharedState) setStart(key any, pos int) {
	if s.starts == nil {
		s.starts = make(map[any]int)
	}
	s.starts[key] = pos
}

func (s *sharedState) setEnd(key any, pos int) {
	if s.ends == nil {
		s.ends = make(map[any]int)
	}
	s.ends[key] = pos
}

func (s *sharedState) pushMarker() {
	s.markers = append(s.markers, instr.NewMarker())
}

func (s *sharedState) popMarker() {
	if len(s.markers) == 0 {
		return
	}
	s.markers = s.markers[:len(s.markers)-1]
}

func (s *sharedState) currentMarker() instr.Marker {
	if len(s.markers) == 0 {
		return nil
	}
	return s.markers[len(s.markers)-1]
}
