package asm

import (
	"errors"
	"log"
	"slices"

	"github.com/ezrec/mima/cpu"
)

// bindInstructions resolves mnemonics against the registry and replaces each
// instruction, with its argument, by a call node. Label declarations without
// problems are dropped.
func (asm *Assembler) bindInstructions(tree *Tree) {
	registry := asm.registry()

	for _, id := range slices.Collect(tree.OfKind(KIND_INSTRUCTION)) {
		node := tree.Node(id)

		instr, err := registry.ByName(node.Name)
		if err != nil {
			node.Problems = append(node.Problems, err)
			continue
		}

		switch {
		case instr.HasArgument && len(node.Children) == 0:
			node.Problems = append(node.Problems, ErrArgumentMissing(instr.Name))
			continue
		case !instr.HasArgument && len(node.Children) > 0:
			node.Problems = append(node.Problems, ErrArgumentExtra(instr.Name))
			continue
		}

		if tree.HasProblems(id) {
			continue
		}

		call := cpu.Call{Instruction: instr}
		if instr.HasArgument {
			arg := tree.Node(node.Children[0])
			if arg.Kind != KIND_CONSTANT {
				continue
			}
			hi := instr.Opcode.ArgumentMax()
			if arg.Value > int64(hi) {
				arg.Problems = append(arg.Problems, &cpu.ErrRange{Value: arg.Value, Min: 0, Max: int64(hi)})
				continue
			}
			call.Argument = cpu.Address(arg.Value)
		}

		if asm.Verbose {
			log.Printf("asm: %05x: %v", uint32(node.Address), call)
		}

		tree.Replace(id, Node{
			Kind:    KIND_CALL,
			Pos:     node.Pos,
			Line:    node.Line,
			Address: node.Address,
			Name:    instr.Name,
			Call:    call,
		})
	}

	for _, id := range slices.Collect(tree.OfKind(KIND_LABEL)) {
		if !tree.HasProblems(id) {
			tree.Remove(id)
		}
	}
}

// checkBound reports any node that binding should have replaced.
func (asm *Assembler) checkBound(tree *Tree) (err error) {
	for id := range tree.OfKind(KIND_LABEL, KIND_REFERENCE, KIND_INSTRUCTION, KIND_EXPRESSION) {
		node := tree.Node(id)
		err = &ErrSource{
			Pos: node.Pos,
			Err: errors.Join(cpu.ErrInternal, errors.New(f("%v node left after binding", node.Kind))),
		}
		return
	}

	return
}
