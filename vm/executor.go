// Package vm is a lock-step Pike VM scheduler: Parser advances a list of
// cooperative logical threads over an input sequence, simulating the
// compiled instr.Program in a single pass, and reports the
// highest-priority Accept reached as a Match.
//
// Each step closes every thread's epsilon transitions via addThread before
// consuming the next value, so Split/Save/Mark/Call instructions never
// themselves occupy a scheduling slot — only Atom and Accept do.
package vm

import (
	"github.com/coregx/vmregex/instr"
	"github.com/coregx/vmregex/internal/sparse"
)

// thread pairs an instruction pointer with the state it observes. Many
// threads may share one *sharedState under copy-on-write.
type thread[T any] struct {
	inst  *instr.Instruction[T]
	state *sharedState
}

// Parser is a single-use-per-Run VM instance bound to a compiled Program.
// It is not safe for concurrent use by multiple goroutines; the compiled
// Program itself is read-only and may be shared across many Parsers.
type Parser[T comparable] struct {
	program *instr.Program[T]

	current []thread[T]
	pending []thread[T]
	seen    *sparse.SparseSet
}

// NewParser creates a Parser for program, pre-sizing its thread queues and
// duplicate-suppression set from program.NumInsts so a typical Run never
// needs to grow them.
func NewParser[T comparable](program *instr.Program[T]) *Parser[T] {
	capacity := program.NumInsts
	if capacity < 16 {
		capacity = 16
	}
	return &Parser[T]{
		program: program,
		current: make([]thread[T], 0, capacity),
		pending: make([]thread[T], 0, capacity),
		seen:    sparse.NewSparseSet(uint32(capacity)),
	}
}

// Run executes the VM once over values from index 0 and returns the
// highest-priority Match reached, or (nil, false) if no thread ever
// accepted.
func (p *Parser[T]) Run(values []T) (*Match[T], bool) {
	p.current = p.current[:0]
	p.pending = p.pending[:0]

	p.seen.Clear()
	p.addThread(thread[T]{p.program.Entry, newSharedState()}, 0, &p.current, values)

	var matched *sharedState

	for i := 0; ; i++ {
		hasV := i < len(values)
		var v T
		if hasV {
			v = values[i]
		}

		p.seen.Clear()
	stepLoop:
		for j := 0; j < len(p.current); j++ {
			t := p.current[j]
			switch t.inst.Kind() {
			case instr.KindAtom:
				if hasV && t.inst.Pred()(v) {
					p.addThread(thread[T]{t.inst.Next(), t.state}, i+1, &p.pending, values)
				} else {
					t.state.release()
				}
			case instr.KindAccept:
				if matched != nil {
					matched.release()
				}
				matched = t.state
				for k := j + 1; k < len(p.current); k++ {
					p.current[k].state.release()
				}
				break stepLoop
			default:
				// Closure invariant: addThread only ever places Atom or
				// Accept instructions into current/pending.
				panic("vm: non-consuming instruction reached the step loop")
			}
		}

		p.current, p.pending = p.pending, p.current[:0]

		if !hasV {
			break
		}
		if len(p.current) == 0 {
			break
		}
	}

	if matched == nil {
		return nil, false
	}
	return &Match[T]{values: values, state: matched}, true
}

// addThread computes the epsilon-closure of t, appending every Atom/Accept
// it reaches to dst, and suppressing re-entry into any instruction already
// reached this step: the earlier-scheduled, higher-priority instance wins.
func (p *Parser[T]) addThread(t thread[T], pos int, dst *[]thread[T], values []T) {
	if p.seen.Contains(t.inst.ID()) {
		t.state.release()
		return
	}
	p.seen.Insert(t.inst.ID())

	switch t.inst.Kind() {
	case instr.KindSplit:
		shared := t.state.retain()
		p.addThread(thread[T]{t.inst.Next(), shared}, pos, dst, values)
		p.addThread(thread[T]{t.inst.Alt(), shared}, pos, dst, values)

	case instr.KindSave:
		s := t.state.writable()
		key, side := t.inst.SaveInfo()
		if side == instr.Start {
			s.setStart(key, pos)
		} else {
			s.setEnd(key, pos)
		}
		p.addThread(thread[T]{t.inst.Next(), s}, pos, dst, values)

	case instr.KindMark:
		s := t.state.writable()
		if t.inst.MarkPos() == instr.Start {
			s.pushMarker()
		} else {
			s.popMarker()
		}
		p.addThread(thread[T]{t.inst.Next(), s}, pos, dst, values)

	case instr.KindCall:
		s := t.state.writable()
		exec := &executorHandle[T]{values: values, pos: pos}
		pm := &partialMatch[T]{values: values, state: s}
		t.inst.Callback()(exec, pm)
		p.addThread(thread[T]{t.inst.Next(), s}, pos, dst, values)

	case instr.KindAtom, instr.KindAccept:
		*dst = append(*dst, t)

	default:
		panic("vm: unsupported instruction kind")
	}
}
