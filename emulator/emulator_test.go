package emulator

import (
	"bytes"
	"errors"
	"log"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/mima/asm"
	"github.com/ezrec/mima/cpu"
)

// newEmulator assembles program and returns an emulator at its start.
func newEmulator(t *testing.T, capacity int, program ...string) (emu *Emulator) {
	assembler := &asm.Assembler{}
	prog, err := assembler.Parse(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)

	emu = NewEmulator(assembler.Registry, cpu.NewState(prog.Memory()), capacity)
	emu.Program = prog

	return
}

// counter loops forever, adding one to the accumulator.
var counter = []string{
	"loop: ADC 1",
	"      STV 0x100",
	"      JMP loop",
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, 0, counter...)

	assert.False(emu.Verbose)
	assert.Equal(DEFAULT_CAPACITY, emu.Capacity())
	assert.Equal(1, emu.Len())
	assert.Equal(0, emu.Position())
	assert.Equal(cpu.Address(0), emu.Current().Registers.InstructionPointer)
	assert.Equal(1, emu.LineNo())
	assert.False(emu.IsFinished())
}

func TestEmulator_Replay(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, 0, counter...)

	var computed []cpu.State
	computed = append(computed, emu.Current())
	for range 20 {
		state, done, err := emu.NextStep()
		require.NoError(t, err)
		assert.False(done)
		computed = append(computed, state)
	}
	assert.Equal(21, emu.Len())
	assert.Equal(20, emu.Position())

	newest := emu.Cpu.State

	for k := 19; k >= 5; k-- {
		state := emu.PreviousStep()
		assert.Same(computed[k].Memory, state.Memory)
		assert.Equal(k, emu.Position())
	}
	assert.False(emu.IsFinished())

	for k := 6; k <= 20; k++ {
		state, done, err := emu.NextStep()
		assert.NoError(err)
		assert.False(done)
		assert.True(computed[k].Equal(state))
		assert.Same(computed[k].Memory, state.Memory, "replayed, not recomputed")
	}

	// The CPU never ran during the replay.
	assert.Equal(newest, emu.Cpu.State)
	assert.Equal(21, emu.Len())
	assert.Equal(slices.Collect(emu.History()), computed)
}

func TestEmulator_Eviction(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, 4, counter...)

	var computed []cpu.State
	for range 10 {
		state, _, err := emu.NextStep()
		require.NoError(t, err)
		computed = append(computed, state)
	}
	assert.Equal(4, emu.Len())
	assert.Equal(3, emu.Position())
	assert.Equal(computed[6:], slices.Collect(emu.History()))

	for k := 8; k >= 6; k-- {
		state := emu.PreviousStep()
		assert.True(computed[k].Equal(state))
	}

	// Stepping before the oldest buffered state does nothing.
	state := emu.PreviousStep()
	assert.True(computed[6].Equal(state))
	assert.Equal(0, emu.Position())

	for k := 7; k <= 9; k++ {
		state, _, err := emu.NextStep()
		assert.NoError(err)
		assert.True(computed[k].Equal(state))
	}

	state, _, err := emu.NextStep()
	assert.NoError(err)
	assert.Equal(4, emu.Len())
	assert.Equal(cpu.Value(4), state.Registers.Accumulator)
}

func TestEmulator_Halt(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, 0,
		"LDC 20",
		"STV 20",
		"ADD 20",
		"HALT",
	)

	for range 3 {
		assert.False(emu.IsFinished())
		_, done, err := emu.NextStep()
		assert.NoError(err)
		assert.False(done)
	}
	assert.True(emu.IsFinished())

	before := emu.Current()
	assert.Equal(cpu.Value(40), before.Registers.Accumulator)

	state, done, err := emu.NextStep()
	assert.NoError(err)
	assert.True(done)
	assert.True(before.Equal(state))
	assert.Equal(4, emu.Len())

	// Finished only when viewing the newest state.
	emu.PreviousStep()
	assert.False(emu.IsFinished())
}

func TestEmulator_Error(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, 0,
		"LDC 1",
		"; read an unwritten cell",
		"LDV 0x200",
	)

	_, _, err := emu.NextStep()
	require.NoError(t, err)
	before := emu.Current()

	state, done, err := emu.NextStep()
	assert.False(done)
	assert.True(errors.Is(err, cpu.ErrUninitializedMemory))

	var runtime *ErrRuntime
	require.True(t, errors.As(err, &runtime))
	assert.Equal(cpu.Address(1), runtime.Address)
	assert.Equal(3, runtime.LineNo)

	assert.True(before.Equal(state))
	assert.Equal(2, emu.Len())
	assert.False(emu.IsFinished())
}

func TestEmulator_Reset(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, 0, counter...)
	initial := emu.Current()

	for range 5 {
		_, _, err := emu.NextStep()
		require.NoError(t, err)
	}

	state := emu.Reset()
	assert.True(initial.Equal(state))
	assert.Equal(1, emu.Len())
	assert.Equal(0, emu.Position())
	assert.True(initial.Equal(emu.Cpu.State))

	state, _, err := emu.NextStep()
	assert.NoError(err)
	assert.Equal(cpu.Value(1), state.Registers.Accumulator)
}

func TestEmulator_Independent(t *testing.T) {
	assert := assert.New(t)

	a := newEmulator(t, 0, counter...)
	b := newEmulator(t, 0, counter...)

	for range 7 {
		_, _, err := a.NextStep()
		assert.NoError(err)
	}
	_, _, err := b.NextStep()
	assert.NoError(err)

	assert.Equal(8, a.Len())
	assert.Equal(2, b.Len())
	assert.False(a.Current().Equal(b.Current()))
}

func TestEmulator_DefaultRegistry(t *testing.T) {
	assert := assert.New(t)

	mem := cpu.NewMemory().
		Set(0, cpu.CombineInstruction(cpu.OP_LDC, 7)).
		Set(1, cpu.CombineInstruction(cpu.OP_HALT, 0))
	emu := NewEmulator(nil, cpu.NewState(mem), 0)
	assert.NotNil(emu.Registry)

	assert.False(emu.IsFinished())
	state, done, err := emu.NextStep()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(cpu.Value(7), state.Registers.Accumulator)

	assert.True(emu.IsFinished())
	_, done, err = emu.NextStep()
	assert.NoError(err)
	assert.True(done)

	emu.Reset()
	assert.NotNil(emu.Registry)
}

func TestEmulator_Verbose(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	emu := newEmulator(t, 0, "LDC 1", "HALT")
	emu.Verbose = true

	_, _, err := emu.NextStep()
	require.NoError(t, err)
	assert.Contains(buf.String(), "LDC 1")

	// Looking ahead does not trace.
	buf.Reset()
	assert.True(emu.IsFinished())
	assert.Empty(buf.String())
	assert.True(emu.Cpu.Verbose)
}
