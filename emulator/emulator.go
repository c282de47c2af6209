// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"iter"
	"log"
	"slices"

	"github.com/ezrec/mima/cpu"
	"github.com/ezrec/mima/internal"
)

const (
	DEFAULT_CAPACITY = 10000 // Default number of buffered states.
)

// Emulator drives a CPU and keeps a bounded history of its states. The view
// cursor can move back and forth through the history; moving forward past
// the newest state runs the CPU.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Program listing, used for line numbers. May be nil.

	initial  cpu.State
	capacity int
	ring     []cpu.State
	head     int // Ring index of the oldest state.
	view     int // View cursor, counted from the oldest state.
}

// NewEmulator creates an emulator at the initial state. A nil registry
// selects the standard instruction set, and a capacity of zero or less
// selects DEFAULT_CAPACITY.
func NewEmulator(registry *cpu.Registry, initial cpu.State, capacity int) (emu *Emulator) {
	if registry == nil {
		registry = cpu.NewRegistry()
	}
	if capacity <= 0 {
		capacity = DEFAULT_CAPACITY
	}

	emu = &Emulator{
		initial:  initial,
		capacity: capacity,
		ring:     make([]cpu.State, 0, min(capacity, 1024)),
	}
	emu.Cpu = cpu.NewCpu(registry, initial)
	emu.push(initial)

	return
}

// at returns the nth buffered state, counted from the oldest.
func (emu *Emulator) at(n int) cpu.State {
	return emu.ring[(emu.head+n)%len(emu.ring)]
}

// push appends a state, evicting the oldest when full, and moves the view
// cursor to it.
func (emu *Emulator) push(state cpu.State) {
	if len(emu.ring) < emu.capacity {
		emu.ring = append(emu.ring, state)
	} else {
		emu.ring[emu.head] = state
		emu.head = (emu.head + 1) % len(emu.ring)
	}
	emu.view = len(emu.ring) - 1
}

// Current returns the state at the view cursor.
func (emu *Emulator) Current() cpu.State {
	return emu.at(emu.view)
}

// Len returns the number of buffered states.
func (emu *Emulator) Len() int {
	return len(emu.ring)
}

// Capacity returns the maximum number of buffered states.
func (emu *Emulator) Capacity() int {
	return emu.capacity
}

// Position returns the view cursor, counted from the oldest buffered state.
func (emu *Emulator) Position() int {
	return emu.view
}

// History iterates over the buffered states, oldest first.
func (emu *Emulator) History() iter.Seq[cpu.State] {
	if len(emu.ring) < emu.capacity {
		return slices.Values(emu.ring)
	}
	return internal.IterSeqConcat(slices.Values(emu.ring[emu.head:]), slices.Values(emu.ring[:emu.head]))
}

// LineNo returns the source line of the instruction at the view cursor.
func (emu *Emulator) LineNo() int {
	entry, _ := emu.Program.Debug(emu.Current().Registers.InstructionPointer)
	return entry.LineNo
}

// NextStep moves the view cursor forward. A buffered successor is returned
// without running the CPU. Otherwise the CPU runs one instruction and the
// result is buffered.
//
// done is set when the next instruction is HALT. On error or HALT the
// state is unchanged.
func (emu *Emulator) NextStep() (state cpu.State, done bool, err error) {
	if emu.view < len(emu.ring)-1 {
		emu.view++
		state = emu.Current()
		return
	}

	emu.Cpu.Verbose = emu.Verbose

	ip := emu.Cpu.State.Registers.InstructionPointer
	done, err = emu.Cpu.Step()
	if err != nil {
		err = &ErrRuntime{Address: ip, LineNo: emu.LineNo(), Err: err}
		state = emu.Current()
		return
	}

	if done {
		if emu.Verbose {
			log.Printf("emulator: halted at %05x", uint32(ip))
		}
		state = emu.Current()
		return
	}

	emu.push(emu.Cpu.State)
	state = emu.Current()

	return
}

// PreviousStep moves the view cursor back. At the oldest buffered state it
// does nothing.
func (emu *Emulator) PreviousStep() cpu.State {
	if emu.view > 0 {
		emu.view--
	}
	return emu.Current()
}

// Reset discards the history and restarts the CPU at the initial state.
func (emu *Emulator) Reset() cpu.State {
	emu.ring = emu.ring[:0]
	emu.head = 0
	emu.Cpu = cpu.NewCpu(emu.Cpu.Registry, emu.initial)
	emu.push(emu.initial)

	return emu.Current()
}

// IsFinished returns true if the view cursor is at the newest state and the
// next instruction is HALT. The CPU is not modified.
func (emu *Emulator) IsFinished() bool {
	if emu.view < len(emu.ring)-1 {
		return false
	}

	ahead := emu.Cpu.Clone()
	ahead.Verbose = false
	halted, err := ahead.Step()
	return err == nil && halted
}
