package cpu

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Transition computes the state following an instruction. It must be a pure
// function of its inputs.
type Transition func(state State, arg Address) (State, error)

// Instruction is an immutable instruction definition.
type Instruction struct {
	Opcode      Opcode
	Name        string
	HasArgument bool
	Transition  Transition
}

// String returns the mnemonic.
func (instr *Instruction) String() string {
	return instr.Name
}

// Call is an instruction bound to its argument.
type Call struct {
	Instruction *Instruction
	Argument    Address // Zero when the instruction takes no argument.
}

// Word encodes the call as a machine word.
func (call Call) Word() Value {
	return CombineInstruction(call.Instruction.Opcode, call.Argument)
}

// String returns the call in assembler syntax.
func (call Call) String() string {
	if !call.Instruction.HasArgument {
		return call.Instruction.Name
	}
	return fmt.Sprintf("%v %v", call.Instruction.Name, uint32(call.Argument))
}

// Registry maps opcodes and mnemonics to instructions. It is filled once and
// only read afterwards.
type Registry struct {
	byOpcode map[Opcode]*Instruction
	byName   map[string]*Instruction
}

// NewRegistry returns a registry holding the MiMa instruction set.
func NewRegistry() (reg *Registry) {
	reg = &Registry{}
	for _, instr := range instructionSet() {
		reg.Register(instr)
	}
	return
}

// Register adds an instruction definition. Registering a duplicate opcode or
// mnemonic, or the reserved large opcode prefix, is a programming error and
// panics.
func (reg *Registry) Register(instr Instruction) {
	if reg.byOpcode == nil {
		reg.byOpcode = make(map[Opcode]*Instruction)
		reg.byName = make(map[string]*Instruction)
	}

	if instr.Opcode == OPCODE_LARGE_PREFIX {
		panic(f("opcode 0x%x is reserved", uint8(instr.Opcode)))
	}

	name := strings.ToUpper(instr.Name)
	if prior, ok := reg.byOpcode[instr.Opcode]; ok {
		panic(f("opcode 0x%02x registered twice (%v, %v)", uint8(instr.Opcode), prior.Name, instr.Name))
	}
	if _, ok := reg.byName[name]; ok {
		panic(f("instruction %v registered twice", name))
	}

	instr.Name = name
	reg.byOpcode[instr.Opcode] = &instr
	reg.byName[name] = &instr
}

// ByOpcode returns the instruction for an opcode.
func (reg *Registry) ByOpcode(op Opcode) (instr *Instruction, err error) {
	instr, ok := reg.byOpcode[op]
	if !ok {
		err = ErrOpcodeUnknown(op)
	}
	return
}

// ByName returns the instruction for a mnemonic, ignoring case.
func (reg *Registry) ByName(name string) (instr *Instruction, err error) {
	instr, ok := reg.byName[strings.ToUpper(name)]
	if !ok {
		err = ErrNameUnknown(name)
	}
	return
}

// Instructions iterates over the registered instructions in opcode order.
func (reg *Registry) Instructions() iter.Seq[*Instruction] {
	ordered := slices.SortedFunc(maps.Values(reg.byOpcode), func(a, b *Instruction) int {
		return cmp.Compare(a.Opcode, b.Opcode)
	})
	return slices.Values(ordered)
}

// Decode splits a machine word into a call.
func (reg *Registry) Decode(word Value) (call Call, err error) {
	instr, err := reg.ByOpcode(ExtractOpcode(word))
	if err != nil {
		return
	}

	arg, err := ExtractArgument(word)
	if err != nil {
		return
	}

	call.Instruction = instr
	if instr.HasArgument {
		call.Argument = arg
	}

	return
}

// IsInstruction returns true if the word decodes to a known instruction whose
// argument-less form has no stray argument bits.
func (reg *Registry) IsInstruction(word Value) bool {
	call, err := reg.Decode(word)
	if err != nil {
		return false
	}
	return call.Word() == word
}

// Disassemble renders a memory cell. Words that are not instructions, and
// the all-zero word, render as plain data.
func (reg *Registry) Disassemble(word Value) string {
	if word == 0 || !reg.IsInstruction(word) {
		return fmt.Sprintf("%d", word)
	}

	call, _ := reg.Decode(word)
	return call.String()
}
