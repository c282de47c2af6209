package asm

import (
	"iter"

	"github.com/ezrec/mima/cpu"
)

//go:generate go tool stringer -linecomment -type=Kind

// Kind selects the variant of a Node.
type Kind int

const (
	KIND_ROOT        = Kind(iota) // root
	KIND_LABEL                    // label
	KIND_REFERENCE                // reference
	KIND_INSTRUCTION              // instruction
	KIND_CONSTANT                 // constant
	KIND_EXPRESSION               // expression
	KIND_CALL                     // call
)

// NodeId indexes a node in its Tree.
type NodeId int

// NODE_NONE is the parent of detached nodes and of the root.
const NODE_NONE = NodeId(-1)

// Node is one element of the syntax tree. Which fields are meaningful
// depends on Kind:
//
//	KIND_LABEL        Name is the declared label.
//	KIND_REFERENCE    Name is the referenced label.
//	KIND_INSTRUCTION  Name is the mnemonic, the argument is the only child.
//	KIND_CONSTANT     Value holds the integer.
//	KIND_EXPRESSION   Expr holds the $(...) body.
//	KIND_CALL         Call holds the bound instruction.
type Node struct {
	Kind    Kind
	Pos     Position    // Start of the node in the source.
	Line    string      // Source line holding the node.
	Address cpu.Address // Address the line assembles to.

	Name  string
	Value int64
	Expr  string
	Call  cpu.Call

	Children []NodeId
	Problems []error // Fatal diagnostics.
	Warnings []error // Non-fatal diagnostics.
}

// Tree is an arena of nodes. Children are forward indices, and parents are
// kept in a separate reverse table.
type Tree struct {
	Nodes   []Node
	parents []NodeId
}

// NewTree returns a tree holding only its root, with id 0.
func NewTree() (tree *Tree) {
	tree = &Tree{}
	tree.Nodes = append(tree.Nodes, Node{Kind: KIND_ROOT})
	tree.parents = append(tree.parents, NODE_NONE)
	return
}

// Root returns the root node id.
func (tree *Tree) Root() NodeId {
	return 0
}

// Node returns the node with the given id.
func (tree *Tree) Node(id NodeId) *Node {
	return &tree.Nodes[id]
}

// Parent returns the parent of a node, or NODE_NONE.
func (tree *Tree) Parent(id NodeId) NodeId {
	return tree.parents[id]
}

// Add appends node as the last child of parent.
func (tree *Tree) Add(parent NodeId, node Node) (id NodeId) {
	id = NodeId(len(tree.Nodes))
	tree.Nodes = append(tree.Nodes, node)
	tree.parents = append(tree.parents, parent)
	tree.Nodes[parent].Children = append(tree.Nodes[parent].Children, id)
	return
}

// Replace puts node in the place of old in its parent's children. The old
// node is detached.
func (tree *Tree) Replace(old NodeId, node Node) (id NodeId) {
	parent := tree.parents[old]
	if parent == NODE_NONE {
		panic(cpu.ErrInternal)
	}

	id = NodeId(len(tree.Nodes))
	tree.Nodes = append(tree.Nodes, node)
	tree.parents = append(tree.parents, parent)

	children := tree.Nodes[parent].Children
	for n, child := range children {
		if child == old {
			children[n] = id
		}
	}
	tree.parents[old] = NODE_NONE

	return
}

// Remove detaches a node from its parent.
func (tree *Tree) Remove(id NodeId) {
	parent := tree.parents[id]
	if parent == NODE_NONE {
		return
	}

	children := tree.Nodes[parent].Children
	for n, child := range children {
		if child == id {
			tree.Nodes[parent].Children = append(children[:n:n], children[n+1:]...)
			break
		}
	}
	tree.parents[id] = NODE_NONE
}

// Walk iterates depth first, parents before children, over the subtree at id.
func (tree *Tree) Walk(id NodeId) iter.Seq[NodeId] {
	return func(yield func(NodeId) bool) {
		tree.walk(id, yield)
	}
}

func (tree *Tree) walk(id NodeId, yield func(NodeId) bool) bool {
	if !yield(id) {
		return false
	}
	for _, child := range tree.Nodes[id].Children {
		if !tree.walk(child, yield) {
			return false
		}
	}
	return true
}

// OfKind iterates over the nodes of the given kinds attached under the root.
func (tree *Tree) OfKind(kinds ...Kind) iter.Seq[NodeId] {
	return func(yield func(NodeId) bool) {
		for id := range tree.Walk(tree.Root()) {
			for _, kind := range kinds {
				if tree.Nodes[id].Kind == kind {
					if !yield(id) {
						return
					}
					break
				}
			}
		}
	}
}

// Problems iterates over the fatal diagnostics of attached nodes, each
// tagged with the position of its node.
func (tree *Tree) Problems() iter.Seq[error] {
	return tree.diagnostics(func(node *Node) []error { return node.Problems })
}

// Warnings iterates over the non-fatal diagnostics of attached nodes.
func (tree *Tree) Warnings() iter.Seq[error] {
	return tree.diagnostics(func(node *Node) []error { return node.Warnings })
}

func (tree *Tree) diagnostics(get func(node *Node) []error) iter.Seq[error] {
	return func(yield func(error) bool) {
		for id := range tree.Walk(tree.Root()) {
			node := &tree.Nodes[id]
			for _, err := range get(node) {
				if !yield(&ErrSource{Pos: node.Pos, Err: err}) {
					return
				}
			}
		}
	}
}

// HasProblems returns true if the node or any of its children has a fatal
// diagnostic.
func (tree *Tree) HasProblems(id NodeId) bool {
	for child := range tree.Walk(id) {
		if len(tree.Nodes[child].Problems) > 0 {
			return true
		}
	}
	return false
}
