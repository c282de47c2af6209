package asm

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mima/cpu"
)

func TestTree(t *testing.T) {
	assert := assert.New(t)

	tree := NewTree()
	root := tree.Root()
	assert.Equal(NODE_NONE, tree.Parent(root))

	label := tree.Add(root, Node{Kind: KIND_LABEL, Name: "start"})
	instr := tree.Add(root, Node{Kind: KIND_INSTRUCTION, Name: "LDC"})
	arg := tree.Add(instr, Node{Kind: KIND_CONSTANT, Value: 5})
	data := tree.Add(root, Node{Kind: KIND_CONSTANT, Value: -1})

	assert.Equal(root, tree.Parent(instr))
	assert.Equal(instr, tree.Parent(arg))
	assert.Equal([]NodeId{root, label, instr, arg, data}, slices.Collect(tree.Walk(root)))
	assert.Equal([]NodeId{arg, data}, slices.Collect(tree.OfKind(KIND_CONSTANT)))

	call := tree.Replace(instr, Node{Kind: KIND_CALL})
	assert.Equal(NODE_NONE, tree.Parent(instr))
	assert.Equal(root, tree.Parent(call))
	assert.Equal([]NodeId{label, call, data}, tree.Node(root).Children)

	tree.Remove(label)
	assert.Equal(NODE_NONE, tree.Parent(label))
	assert.Equal([]NodeId{call, data}, tree.Node(root).Children)

	// Detached nodes are no longer walked.
	assert.Empty(slices.Collect(tree.OfKind(KIND_LABEL, KIND_INSTRUCTION)))

	assert.Panics(func() { tree.Replace(root, Node{}) })
}

func TestTree_Diagnostics(t *testing.T) {
	assert := assert.New(t)

	tree := NewTree()
	pos := Position{Line: 3, Col: 7, Offset: 20}
	instr := tree.Add(tree.Root(), Node{Kind: KIND_INSTRUCTION, Pos: pos})
	tree.Node(instr).Problems = append(tree.Node(instr).Problems, cpu.ErrOverflow)
	tree.Node(instr).Warnings = append(tree.Node(instr).Warnings, ErrLabelDuplicate("x"))

	assert.True(tree.HasProblems(tree.Root()))

	problems := slices.Collect(tree.Problems())
	assert.Len(problems, 1)
	var source *ErrSource
	assert.True(errors.As(problems[0], &source))
	assert.Equal(pos, source.Pos)
	assert.True(errors.Is(problems[0], cpu.ErrOverflow))

	warnings := slices.Collect(tree.Warnings())
	assert.Len(warnings, 1)
	var dup ErrLabelDuplicate
	assert.True(errors.As(warnings[0], &dup))
	assert.Equal(ErrLabelDuplicate("x"), dup)
}

func TestKind_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("instruction", KIND_INSTRUCTION.String())
	assert.Equal("call", KIND_CALL.String())
	assert.Equal("Kind(99)", Kind(99).String())
}
