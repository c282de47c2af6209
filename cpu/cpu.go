// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"log"
)

// Cpu is the fetch-decode-execute engine. It holds the current State and
// replaces it, never modifies it, on every successful step.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registry *Registry // Instruction set used for decoding.
	State    State     // Current machine state.
}

// NewCpu creates an engine positioned at the given state.
func NewCpu(registry *Registry, state State) (cpu *Cpu) {
	cpu = &Cpu{
		Registry: registry,
		State:    state,
	}

	return
}

// Clone returns an independent engine at the same state. States are
// immutable, so this is cheap.
func (cpu *Cpu) Clone() *Cpu {
	clone := *cpu
	return &clone
}

// Fetch loads the word at the instruction pointer and decodes it.
func (cpu *Cpu) Fetch() (word Value, call Call, err error) {
	ip := cpu.State.Registers.InstructionPointer
	word, err = cpu.State.Load(ip)
	if err != nil {
		err = errors.Join(ErrFetch, err)
		return
	}

	call, err = cpu.Registry.Decode(word)
	if err != nil {
		err = errors.Join(ErrDecode, err)
		return
	}

	return
}

// Step executes a single instruction.
//
// If the next instruction is HALT, halted is set and the state is left
// untouched. On error the state is also left untouched.
func (cpu *Cpu) Step() (halted bool, err error) {
	word, call, err := cpu.Fetch()
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%05x: %06x %v", uint32(cpu.State.Registers.InstructionPointer), raw(word), call)
	}

	if call.Instruction.Opcode == OP_HALT {
		halted = true
		return
	}

	state := cpu.State
	regs := &state.Registers
	regs.Instruction = word
	regs.InstructionPointer, err = CoerceToAddress(int64(regs.InstructionPointer) + 1)
	if err != nil {
		return
	}
	regs.AluInputLeft = 0
	regs.AluInputRight = 0

	state, err = call.Instruction.Transition(state, call.Argument)
	if err != nil {
		return
	}

	cpu.State = state

	return
}

// Run steps until HALT, an error, or limit steps have executed. A limit of
// zero or less means no limit. It returns the number of steps executed.
func (cpu *Cpu) Run(limit int) (steps int, halted bool, err error) {
	for limit <= 0 || steps < limit {
		halted, err = cpu.Step()
		if halted || err != nil {
			return
		}
		steps++
	}

	return
}
