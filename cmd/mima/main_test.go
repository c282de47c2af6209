package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/mima/cpu"
	"github.com/ezrec/mima/emulator"
)

var double = []string{
	"      LDC 20",
	"      STV value",
	"      ADD value",
	"      HALT",
	"value: 0",
}

// newDebugger assembles program into a temporary file and returns a
// debugger over it.
func newDebugger(t *testing.T, program []string) (dbg *Debugger, out *bytes.Buffer) {
	path := filepath.Join(t.TempDir(), "test.mima")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(program, "\n")), 0o644))

	registry := cpu.NewRegistry()
	prog, err := assemble(path, registry, false)
	require.NoError(t, err)

	emu := emulator.NewEmulator(registry, cpu.NewState(prog.Memory()), 0)
	emu.Program = prog

	out = &bytes.Buffer{}
	dbg = &Debugger{Emulator: emu, Output: out}

	return
}

func TestParseCommand(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Command{}, ParseCommand("   "))
	assert.Equal(Command{Name: "m", Args: []string{"0x10", "4"}}, ParseCommand(" M 0x10 4 "))

	for text, expected := range map[string]int64{"12": 12, "0x10": 16, "$ff": 255, "-3": -3} {
		value, ok := ParseNumber(text)
		assert.True(ok, text)
		assert.Equal(expected, value, text)
	}
	_, ok := ParseNumber("zz")
	assert.False(ok)
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	dbg, _ := newDebugger(t, double)
	steps, done, err := run(dbg.Emulator, 0)
	assert.NoError(err)
	assert.True(done)
	assert.Equal(3, steps)
	assert.Equal(cpu.Value(40), dbg.Emulator.Current().Registers.Accumulator)

	dbg, _ = newDebugger(t, []string{"loop: JMP loop"})
	steps, done, err = run(dbg.Emulator, 10)
	assert.NoError(err)
	assert.False(done)
	assert.Equal(10, steps)
}

func TestSaveLoad(t *testing.T) {
	assert := assert.New(t)

	dbg, _ := newDebugger(t, double)
	_, _, err := run(dbg.Emulator, 0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "state.dump")
	require.NoError(t, save(path, dbg.Emulator.Current()))

	state, err := load(path)
	require.NoError(t, err)
	assert.Equal(cpu.Value(40), state.Registers.Accumulator)
	assert.Equal(cpu.Address(3), state.Registers.InstructionPointer)
	value, err := state.Load(4)
	assert.NoError(err)
	assert.Equal(cpu.Value(20), value)

	_, err = load(filepath.Join(t.TempDir(), "missing.dump"))
	assert.Error(err)
}

func TestAssemble_Error(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "bad.mima")
	require.NoError(t, os.WriteFile(path, []byte("JMP nowhere\n"), 0o644))

	_, err := assemble(path, cpu.NewRegistry(), false)
	assert.ErrorIs(err, cpu.ErrNotFound)
	assert.Contains(err.Error(), path)
}

func TestDebugger(t *testing.T) {
	assert := assert.New(t)

	dbg, out := newDebugger(t, double)

	dbg.Run(strings.NewReader("n 2\ns\np\nm 4 1\nl 0\nc\nr\nbogus\nq\nn\n"))
	text := out.String()

	assert.Contains(text, "[1/1] >00000: 000014 LDC 20")
	assert.Contains(text, "[3/3] >00002: 300004 ADD 4")
	assert.Contains(text, "[2/3] >00001: 200004 STV 4")
	assert.Contains(text, " 00004: 000000        0 000000000000000000000000")
	assert.Contains(text, " 00000: 000014 LDC 20")
	assert.Contains(text, ">00001: 200004 STV 4")
	assert.Contains(text, "program halted normally")
	assert.Contains(text, "[4/4] >00003: f00000 HALT")
	assert.Contains(text, `unknown command "bogus"`)

	// Quit stops before the final step.
	assert.Equal(1, dbg.Emulator.Len())
}

func TestDebugger_Error(t *testing.T) {
	assert := assert.New(t)

	dbg, out := newDebugger(t, []string{"LDV 0x100"})

	assert.False(dbg.Execute("next"))
	assert.Contains(out.String(), "execution error")
	assert.Equal(1, dbg.Emulator.Len())

	assert.True(dbg.Execute("quit"))
}
