package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegistry()
	ldc, _ := reg.ByName("LDC")
	halt, _ := reg.ByName("HALT")

	prog := &Program{
		Entries: []Entry{
			{Address: 0, Word: CombineInstruction(OP_LDC, 7), Call: &Call{Instruction: ldc, Argument: 7}, LineNo: 1, Line: "LDC 7"},
			{Address: 1, Word: CombineInstruction(OP_HALT, 0), Call: &Call{Instruction: halt}, LineNo: 2, Line: "HALT"},
			{Address: 4, Word: -3, LineNo: 4, Line: "x: -3"},
		},
	}

	entry, ok := prog.Debug(1)
	assert.True(ok)
	assert.Equal(2, entry.LineNo)
	assert.False(entry.IsData())
	assert.Equal("HALT", entry.Call.String())

	entry, ok = prog.Debug(4)
	assert.True(ok)
	assert.True(entry.IsData())

	_, ok = prog.Debug(2)
	assert.False(ok)

	assert.Equal([]Value{CombineInstruction(OP_LDC, 7), CombineInstruction(OP_HALT, 0), 0, 0, -3}, prog.Binary())

	mem := prog.Memory()
	assert.Equal(3, mem.Len())
	assert.False(mem.IsSet(2))
	value, err := mem.Get(4)
	assert.NoError(err)
	assert.Equal(Value(-3), value)

	var empty *Program
	_, ok = empty.Debug(0)
	assert.False(ok)
	assert.Empty(empty.Binary())
}
