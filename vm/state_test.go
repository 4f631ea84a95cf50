package vm

import "testing"

func TestSharedState_RefCounting(t *testing.T) {
	tests := []struct {
		name string
		ops  func(t *testing.T)
	}{
		{
			name: "retain increments refcount and shares identity",
			ops: func(t *testing.T) {
				s := newSharedState()
				shared := s.retain()
				if s.refs != 2 {
					t.Errorf("retain() didn't increment refs: got %d, want 2", s.refs)
				}
				if shared != s {
					t.Error("retain() should return the same pointer, not a copy")
				}
			},
		},
		{
			name: "writable with refs=1 modifies in place",
			ops: func(t *testing.T) {
				s := newSharedState()
				old := s
				w := s.writable()
				if w != old {
					t.Error("writable() with refs=1 should return the same instance")
				}
				w.setStart(nil, 3)
				if w.refs != 1 {
					t.Errorf("writable() in-place changed refs: got %d, want 1", w.refs)
				}
			},
		},
		{
			name: "writable with refs>1 clones and decrements original",
			ops: func(t *testing.T) {
				s := newSharedState()
				s.setStart("x", 1)
				s.retain() // simulate a Split fork: refs=2

				w := s.writable()
				if w == s {
					t.Error("writable() with refs>1 should return a distinct clone")
				}
				if s.refs != 1 {
					t.Errorf("writable() didn't decrement original refs: got %d, want 1", s.refs)
				}
				if w.refs != 1 {
					t.Errorf("writable() clone has wrong refs: got %d, want 1", w.refs)
				}

				w.setStart("x", 99)
				if s.starts["x"] != 1 {
					t.Error("writable() mutated the shared original")
				}
				if w.starts["x"] != 99 {
					t.Errorf("writable() clone wasn't mutated: got %d, want 99", w.starts["x"])
				}
			},
		},
		{
			name: "release is a safe no-op on nil",
			ops: func(t *testing.T) {
				var s *sharedState
				s.release() // must not panic
			},
		},
		{
			name: "marker stack push/pop/current",
			ops: func(t *testing.T) {
				s := newSharedState()
				if s.currentMarker() != nil {
					t.Error("currentMarker() on empty stack should be nil")
				}
				s.pushMarker()
				m1 := s.currentMarker()
				if m1 == nil {
					t.Fatal("currentMarker() after push should be non-nil")
				}
				s.pushMarker()
				m2 := s.currentMarker()
				if m2 == m1 {
					t.Error("each pushMarker() should produce a distinct marker identity")
				}
				s.popMarker()
				if s.currentMarker() != m1 {
					t.Error("popMarker() should reveal the previous marker")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.ops(t)
		})
	}
}
