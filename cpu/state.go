package cpu

import (
	"fmt"
)

// Registers is the register file of the machine. It is a plain value: every
// change produces a new copy.
type Registers struct {
	Accumulator        Value   // Primary arithmetic and logic result.
	AluInputLeft       Value   // Left operand of the last ALU instruction.
	AluInputRight      Value   // Right operand of the last ALU instruction.
	Instruction        Value   // Last fetched instruction word.
	InstructionPointer Address // Address of the next word to fetch.
	ReturnAddress      Address // Caller's instruction pointer across CALL/RET.
	StackPointer       Address
	FramePointer       Address
}

// State is an immutable machine snapshot.
type State struct {
	Registers Registers
	Memory    *Memory
}

// NewState returns the reset state over the given memory image.
func NewState(mem *Memory) State {
	if mem == nil {
		mem = NewMemory()
	}
	return State{Memory: mem}
}

// Load reads a memory cell.
func (st State) Load(addr Address) (Value, error) {
	return st.Memory.Get(addr)
}

// Store returns a state with a memory cell replaced.
func (st State) Store(addr Address, value Value) State {
	st.Memory = st.Memory.Set(addr, value)
	return st
}

// WithRegisters returns a state with the register file replaced.
func (st State) WithRegisters(regs Registers) State {
	st.Registers = regs
	return st
}

// Equal returns true if the register files and memory contents match.
func (st State) Equal(other State) bool {
	return st.Registers == other.Registers && st.Memory.Equal(other.Memory)
}

// String returns the register file as text.
func (st State) String() (text string) {
	regs := st.Registers
	values := []struct {
		name  string
		value string
	}{
		{"ip", fmt.Sprintf("%05X", uint32(regs.InstructionPointer))},
		{"ir", fmt.Sprintf("%06X", raw(regs.Instruction))},
		{"acc", fmt.Sprintf("%06X (%d)", raw(regs.Accumulator), regs.Accumulator)},
		{"x", fmt.Sprintf("%06X", raw(regs.AluInputLeft))},
		{"y", fmt.Sprintf("%06X", raw(regs.AluInputRight))},
		{"ra", fmt.Sprintf("%05X", uint32(regs.ReturnAddress))},
		{"sp", fmt.Sprintf("%05X", uint32(regs.StackPointer))},
		{"fp", fmt.Sprintf("%05X", uint32(regs.FramePointer))},
	}
	for _, reg := range values {
		text += fmt.Sprintf("% 5s: %v\n", reg.name, reg.value)
	}

	return
}
