// Package dot renders a compiled instruction graph as Graphviz "digraph"
// text, purely for diagnostics: one line per node, with the entry node and
// Accept visually distinguished.
package dot

import (
	"fmt"
	"strings"

	"github.com/coregx/vmregex/instr"
)

// Dump walks program's graph breadth-first from its entry, numbering nodes
// by first-visit order, and returns a Graphviz-compatible "digraph"
// string: one edge per next link and, for Split nodes, one more per alt
// link. The entry node is filled and Accept is double-bordered.
func Dump[T any](program *instr.Program[T]) string {
	var b strings.Builder
	b.WriteString("digraph vmregex {\n")
	b.WriteString("  rankdir=LR;\n")

	order := make(map[*instr.Instruction[T]]int)
	var queue []*instr.Instruction[T]
	order[program.Entry] = 0
	queue = append(queue, program.Entry)

	for i := 0; i < len(queue); i++ {
		n := queue[i]
		for _, succ := range []*instr.Instruction[T]{n.Next(), n.Alt()} {
			if succ == nil {
				continue
			}
			if _, ok := order[succ]; !ok {
				order[succ] = len(queue)
				queue = append(queue, succ)
			}
		}
	}

	for _, n := range queue {
		id := order[n]
		label := nodeLabel(n)
		attrs := fmt.Sprintf(`label="%s"`, label)
		if n == program.Entry {
			attrs += `,style=filled,fillcolor=lightgrey`
		}
		if n.Kind() == instr.KindAccept {
			attrs += `,shape=box,peripheries=2`
		}
		fmt.Fprintf(&b, "  n%d [%s];\n", id, attrs)
	}

	for _, n := range queue {
		id := order[n]
		if next := n.Next(); next != nil {
			label := ""
			if n.Kind() == instr.KindSplit {
				label = ` [label="next"]`
			}
			fmt.Fprintf(&b, "  n%d -> n%d%s;\n", id, order[next], label)
		}
		if alt := n.Alt(); alt != nil {
			fmt.Fprintf(&b, "  n%d -> n%d [label=\"alt\"];\n", id, order[alt])
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func nodeLabel[T any](n *instr.Instruction[T]) string {
	switch n.Kind() {
	case instr.KindSave:
		key, pos := n.SaveInfo()
		return fmt.Sprintf("Save(%v,%s)", key, pos)
	case instr.KindMark:
		return fmt.Sprintf("Mark(%s)", n.MarkPos())
	default:
		return n.Kind().String()
	}
}
