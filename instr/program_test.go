package instr

import "testing"

func TestFinalize_AssignsDenseIDsBreadthFirst(t *testing.T) {
	accept := NewAccept[rune]()
	b := NewAtom[rune](func(rune) bool { return true }, accept)
	a := NewSplit[rune](b, accept)

	prog := Finalize(a, accept)

	if prog.Entry != a {
		t.Error("Finalize should record the given entry")
	}
	if prog.Accept != accept {
		t.Error("Finalize should record the given accept node")
	}
	if prog.NumInsts != 3 {
		t.Errorf("NumInsts = %d, want 3", prog.NumInsts)
	}
	if a.ID() != 0 {
		t.Errorf("entry should be assigned id 0, got %d", a.ID())
	}
	// a's successors are b (Next) and accept (Alt); breadth-first visits
	// Next before Alt, so b gets id 1 and accept gets id 2.
	if b.ID() != 1 {
		t.Errorf("b.ID() = %d, want 1", b.ID())
	}
	if accept.ID() != 2 {
		t.Errorf("accept.ID() = %d, want 2", accept.ID())
	}
}

func TestFinalize_DedupsSharedSuccessor(t *testing.T) {
	accept := NewAccept[rune]()
	// Both branches of the split converge on the same atom before accept.
	shared := NewAtom[rune](func(rune) bool { return true }, accept)
	split := NewSplit[rune](shared, shared)

	prog := Finalize(split, accept)
	if prog.NumInsts != 3 {
		t.Errorf("NumInsts = %d, want 3 (split, shared atom, accept each counted once)", prog.NumInsts)
	}
}

func TestFinalize_Cycle(t *testing.T) {
	accept := NewAccept[rune]()
	split := NewSplit[rune](nil, accept)
	atom := NewAtom[rune](func(rune) bool { return true }, split)
	split.SetNext(atom)

	prog := Finalize(split, accept)
	if prog.NumInsts != 3 {
		t.Errorf("NumInsts = %d, want 3", prog.NumInsts)
	}
}
