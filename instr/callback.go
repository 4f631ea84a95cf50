package instr

// Marker is an opaque identity token pushed by a Mark(Start) instruction.
// Two markers compare equal only if they are the same token; a fresh
// marker is never equal to any previously created one. Identity is
// process-local and has no meaning once the VM run that created it ends.
type Marker = *markerTag

type markerTag struct{ _ byte }

// NewMarker returns a fresh, globally-unique Marker token. It is called by
// the executor (package vm) on every Mark(Start); pattern and instr callers
// never need to construct one directly.
func NewMarker() Marker { return &markerTag{} }

// PartialMatch is the view a Call callback observes over the invoking
// thread's state while the VM is mid-execution. Unlike Match, it allows
// setting the thread's result slot. Implementations must not let the
// identity backing PartialMatch be observed to change under the callback
// (it may be cloned by a later copy-on-write after the callback returns,
// but not during the call).
type PartialMatch[T any] interface {
	// Group returns the subsequence delimited by the most recent
	// Start/End Save pair for key on this thread, and whether it is set.
	Group(key any) (value []T, ok bool)
	// Result returns the thread's current result slot.
	Result() any
	// SetResult overwrites the thread's result slot.
	SetResult(r any)
	// CurrentMarker returns the top of the thread's marker stack, or nil
	// if the stack is empty.
	CurrentMarker() Marker
}

// Executor is the handle a Call callback receives alongside a PartialMatch.
// It exposes read-only facts about the run in progress; it does not permit
// altering control flow (the VM's scheduling is not reentrant).
type Executor[T any] interface {
	// Input returns the full input sequence being matched.
	Input() []T
	// Pos returns the input index the calling thread has reached.
	Pos() int
}

// Callback is invoked by a Call instruction with the executor handle and a
// partial-match view of the invoking thread's state, then execution
// continues via the Call's Next. It must not retain pm (or values read
// from it) beyond the call: a later copy-on-write may change the
// underlying state's identity. A callback that panics propagates to the
// caller of Parser.Run; the VM does not recover it.
type Callback[T any] func(exec Executor[T], pm PartialMatch[T])
