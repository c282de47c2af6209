package asm

import (
	"github.com/ezrec/mima/cpu"
)

// flatten emits one program entry per call or data word, in address order.
func (asm *Assembler) flatten(tree *Tree) (prog *cpu.Program) {
	prog = &cpu.Program{}

	for id := range tree.Walk(tree.Root()) {
		node := tree.Node(id)
		entry := cpu.Entry{
			Address: node.Address,
			LineNo:  node.Pos.Line,
			Line:    node.Line,
		}

		switch node.Kind {
		case KIND_ROOT:
			continue
		case KIND_CALL:
			call := node.Call
			entry.Word = call.Word()
			entry.Call = &call
		case KIND_CONSTANT:
			entry.Word = cpu.CoerceToValue(node.Value)
		default:
			panic(cpu.ErrInternal)
		}

		prog.Entries = append(prog.Entries, entry)
	}

	return
}
