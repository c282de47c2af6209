package asm

import (
	"github.com/ezrec/mima/cpu"
)

// verifyConstants checks every integer against its domain. Instruction
// arguments must be addresses, data words must be values.
func (asm *Assembler) verifyConstants(tree *Tree) {
	for id := range tree.OfKind(KIND_CONSTANT) {
		node := tree.Node(id)
		if len(node.Problems) > 0 {
			continue
		}

		lo, hi := int64(cpu.VALUE_MIN), int64(cpu.VALUE_MAX)
		if tree.Parent(id) != tree.Root() {
			lo, hi = 0, cpu.ADDRESS_MAX
		}

		if node.Value < lo || node.Value > hi {
			node.Problems = append(node.Problems, &cpu.ErrRange{Value: node.Value, Min: lo, Max: hi})
		}
	}
}
