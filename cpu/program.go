package cpu

import (
	"iter"
	"sort"
)

// Entry is one assembled memory cell with its source location.
type Entry struct {
	Address Address
	Word    Value
	Call    *Call  // Nil for data words.
	LineNo  int    // Source line, 1 based.
	Line    string // Source text of the line.
}

// IsData returns true if the entry is a data word rather than an instruction.
func (entry Entry) IsData() bool {
	return entry.Call == nil
}

// Program is an assembled program image, ordered by address.
type Program struct {
	Entries []Entry
}

// Debug returns the entry assembled at addr.
func (prog *Program) Debug(addr Address) (entry Entry, ok bool) {
	if prog == nil {
		return
	}

	n := sort.Search(len(prog.Entries), func(i int) bool {
		return prog.Entries[i].Address >= addr
	})
	if n < len(prog.Entries) && prog.Entries[n].Address == addr {
		entry = prog.Entries[n]
		ok = true
	}

	return
}

// Words iterates over the image as address, word pairs.
func (prog *Program) Words() iter.Seq2[Address, Value] {
	return func(yield func(addr Address, word Value) bool) {
		if prog == nil {
			return
		}
		for _, entry := range prog.Entries {
			if !yield(entry.Address, entry.Word) {
				return
			}
		}
	}
}

// Binary returns the image as a dense slice of words from address 0. Holes
// are zero.
func (prog *Program) Binary() (bins []Value) {
	for addr, word := range prog.Words() {
		for Address(len(bins)) < addr {
			bins = append(bins, 0)
		}
		bins = append(bins, word)
	}

	return
}

// Memory returns a memory holding the image.
func (prog *Program) Memory() (mem *Memory) {
	mem = NewMemory()
	for addr, word := range prog.Words() {
		mem = mem.Set(addr, word)
	}

	return
}
