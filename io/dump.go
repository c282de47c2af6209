// Package io reads and writes machine states in the flat dump format.
//
// A dump is a sequence of 3-byte big-endian cells. The first five cells
// hold the instruction pointer, accumulator, return address, stack pointer
// and frame pointer. The rest are memory cells from address 0 up to the
// highest written address, with unwritten cells as 0.
package io

import (
	"bufio"
	"io"
	"iter"
	"maps"
	"slices"

	"github.com/pkg/errors"

	"github.com/ezrec/mima/cpu"
	"github.com/ezrec/mima/internal"
)

const (
	DUMP_CELL_BYTES   = 3 // Bytes per cell.
	DUMP_HEADER_CELLS = 5 // Register cells before memory.
)

var headerNames = [DUMP_HEADER_CELLS]string{"ip", "acc", "ra", "sp", "fp"}

// header returns the register cells of a dump.
func header(regs cpu.Registers) []cpu.Value {
	return []cpu.Value{
		cpu.Value(regs.InstructionPointer),
		regs.Accumulator,
		cpu.Value(regs.ReturnAddress),
		cpu.Value(regs.StackPointer),
		cpu.Value(regs.FramePointer),
	}
}

// cells iterates over memory from address 0 to its highest written address.
func cells(mem *cpu.Memory) iter.Seq[cpu.Value] {
	return func(yield func(cpu.Value) bool) {
		next := cpu.Address(0)
		for addr, value := range mem.All() {
			for ; next < addr; next++ {
				if !yield(0) {
					return
				}
			}
			if !yield(value) {
				return
			}
			next = addr + 1
		}
	}
}

// Marshal writes state as a dump.
func Marshal(w io.Writer, state cpu.State) (err error) {
	bw := bufio.NewWriter(w)

	n := 0
	for value := range internal.IterSeqConcat(slices.Values(header(state.Registers)), cells(state.Memory)) {
		bits := uint32(value) & cpu.VALUE_MASK
		_, err = bw.Write([]byte{byte(bits >> 16), byte(bits >> 8), byte(bits)})
		if err != nil {
			err = errors.Wrapf(err, "dump cell %d", n)
			return
		}
		n++
	}

	err = bw.Flush()
	if err != nil {
		err = errors.Wrapf(err, "dump of %d cells", n)
	}

	return
}

// Unmarshal reads a dump. Every memory cell in the dump is written in the
// resulting state, including zero padding.
func Unmarshal(r io.Reader) (state cpu.State, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		err = errors.Wrap(err, "dump read")
		return
	}

	if len(data)%DUMP_CELL_BYTES != 0 || len(data) < DUMP_HEADER_CELLS*DUMP_CELL_BYTES {
		err = errors.Wrapf(ErrDumpFormat, "dump of %d bytes", len(data))
		return
	}

	values := make([]cpu.Value, len(data)/DUMP_CELL_BYTES)
	for n := range values {
		cell := data[n*DUMP_CELL_BYTES:]
		values[n] = cpu.CoerceToValue(int64(cell[0])<<16 | int64(cell[1])<<8 | int64(cell[2]))
	}

	if len(values)-DUMP_HEADER_CELLS > cpu.ADDRESS_MAX+1 {
		err = errors.Wrapf(ErrDumpFormat, "dump of %d memory cells", len(values)-DUMP_HEADER_CELLS)
		return
	}

	regs := cpu.Registers{Accumulator: values[1]}
	for n, reg := range []*cpu.Address{&regs.InstructionPointer, nil, &regs.ReturnAddress, &regs.StackPointer, &regs.FramePointer} {
		if reg == nil {
			continue
		}
		*reg, err = cpu.CoerceToAddress(int64(values[n]))
		if err != nil {
			err = errors.Wrapf(err, "dump register %v", headerNames[n])
			return
		}
	}

	mem := cpu.NewMemory()
	for addr, value := range values[DUMP_HEADER_CELLS:] {
		mem = mem.Set(cpu.Address(addr), value)
	}

	state = cpu.NewState(mem).WithRegisters(regs)

	return
}

// Project splits a state into its registers and its written memory cells.
func Project(state cpu.State) (regs cpu.Registers, mem map[cpu.Address]cpu.Value) {
	regs = state.Registers
	mem = maps.Collect(state.Memory.All())
	return
}

// Inject builds a state from registers and memory cells.
func Inject(regs cpu.Registers, mem map[cpu.Address]cpu.Value) (state cpu.State, err error) {
	memory := cpu.NewMemory()
	for _, addr := range slices.Sorted(maps.Keys(mem)) {
		_, err = cpu.CoerceToAddress(int64(addr))
		if err != nil {
			err = errors.Wrapf(err, "memory cell %x", uint32(addr))
			return
		}
		memory = memory.Set(addr, mem[addr])
	}

	state = cpu.NewState(memory).WithRegisters(regs)

	return
}
