package cpu

import (
	"iter"
)

// The address space is a four level trie of 32-way nodes, five address bits
// per level. Writes copy the path from the root to the touched leaf and share
// everything else.
const (
	memoryFanoutBits = 5
	memoryFanout     = 1 << memoryFanoutBits
	memoryDepth      = ADDRESS_BITS / memoryFanoutBits
)

type memoryLeaf struct {
	values [memoryFanout]Value
	set    uint32 // Bitmap of written cells.
}

type memoryBranch struct {
	branches [memoryFanout]*memoryBranch // Levels 0 .. memoryDepth-3
	leaves   [memoryFanout]*memoryLeaf   // Level memoryDepth-2
}

// Memory is a persistent word addressed store. The nil *Memory is an empty
// memory. A Memory is never modified after it is returned.
type Memory struct {
	root  *memoryBranch
	count int
	max   Address
}

// NewMemory returns an empty memory.
func NewMemory() *Memory {
	return &Memory{}
}

func memoryIndex(addr Address, level int) int {
	shift := memoryFanoutBits * (memoryDepth - 1 - level)
	return int(addr>>shift) & (memoryFanout - 1)
}

// leaf returns the leaf holding addr, or nil.
func (mem *Memory) leaf(addr Address) *memoryLeaf {
	if mem == nil || mem.root == nil || addr > ADDRESS_MAX {
		return nil
	}

	branch := mem.root
	for level := 0; level < memoryDepth-2; level++ {
		branch = branch.branches[memoryIndex(addr, level)]
		if branch == nil {
			return nil
		}
	}

	return branch.leaves[memoryIndex(addr, memoryDepth-2)]
}

// IsSet returns true if the cell at addr has been written.
func (mem *Memory) IsSet(addr Address) bool {
	leaf := mem.leaf(addr)
	if leaf == nil {
		return false
	}
	return leaf.set&(1<<memoryIndex(addr, memoryDepth-1)) != 0
}

// Get reads the cell at addr.
func (mem *Memory) Get(addr Address) (value Value, err error) {
	leaf := mem.leaf(addr)
	n := memoryIndex(addr, memoryDepth-1)
	if leaf == nil || leaf.set&(1<<n) == 0 {
		err = ErrMemoryUnset(addr)
		return
	}

	value = leaf.values[n]
	return
}

// Set returns a new memory with the cell at addr set to value.
// The receiver is unchanged.
func (mem *Memory) Set(addr Address, value Value) *Memory {
	if addr > ADDRESS_MAX {
		panic(f("memory address 0x%x out of range", uint32(addr)))
	}

	next := &Memory{}
	var root *memoryBranch
	if mem != nil {
		*next = *mem
		root = mem.root
	}

	next.root = cloneBranch(root)
	branch := next.root
	for level := 0; level < memoryDepth-2; level++ {
		n := memoryIndex(addr, level)
		branch.branches[n] = cloneBranch(branch.branches[n])
		branch = branch.branches[n]
	}

	n := memoryIndex(addr, memoryDepth-2)
	leaf := cloneLeaf(branch.leaves[n])
	branch.leaves[n] = leaf

	bit := uint32(1) << memoryIndex(addr, memoryDepth-1)
	if leaf.set&bit == 0 {
		if next.count == 0 || addr > next.max {
			next.max = addr
		}
		next.count++
	}
	leaf.set |= bit
	leaf.values[memoryIndex(addr, memoryDepth-1)] = value

	return next
}

func cloneBranch(branch *memoryBranch) *memoryBranch {
	if branch == nil {
		return &memoryBranch{}
	}
	clone := *branch
	return &clone
}

func cloneLeaf(leaf *memoryLeaf) *memoryLeaf {
	if leaf == nil {
		return &memoryLeaf{}
	}
	clone := *leaf
	return &clone
}

// Len returns the number of written cells.
func (mem *Memory) Len() int {
	if mem == nil {
		return 0
	}
	return mem.count
}

// Max returns the highest written address.
func (mem *Memory) Max() (addr Address, ok bool) {
	if mem.Len() == 0 {
		return
	}
	return mem.max, true
}

// All iterates over the written cells in ascending address order.
func (mem *Memory) All() iter.Seq2[Address, Value] {
	return func(yield func(addr Address, value Value) bool) {
		if mem == nil || mem.root == nil {
			return
		}
		walkBranch(mem.root, 0, 0, yield)
	}
}

func walkBranch(branch *memoryBranch, level int, base Address, yield func(Address, Value) bool) bool {
	shift := memoryFanoutBits * (memoryDepth - 1 - level)
	for n := range memoryFanout {
		prefix := base | Address(n)<<shift
		if level == memoryDepth-2 {
			leaf := branch.leaves[n]
			if leaf == nil {
				continue
			}
			for m := range memoryFanout {
				if leaf.set&(1<<m) == 0 {
					continue
				}
				if !yield(prefix|Address(m), leaf.values[m]) {
					return false
				}
			}
			continue
		}
		if branch.branches[n] == nil {
			continue
		}
		if !walkBranch(branch.branches[n], level+1, prefix, yield) {
			return false
		}
	}
	return true
}

// Equal returns true if both memories hold the same written cells.
func (mem *Memory) Equal(other *Memory) bool {
	if mem.Len() != other.Len() {
		return false
	}
	for addr, value := range mem.All() {
		got, err := other.Get(addr)
		if err != nil || got != value {
			return false
		}
	}
	return true
}
