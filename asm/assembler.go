// Package asm assembles MiMa source text into a program image.
//
// Source is line oriented. Each line is one of:
//
//	; comment
//	name:                 label, holding an address of its own
//	name: MNEMO [arg]     label and instruction sharing one address
//	MNEMO [arg]           instruction, arg is an integer, label or $(...)
//	value                 data word, an integer or $(...)
//
// Every line other than a comment or a blank line takes the next address.
// A label alone on its line leaves that address unwritten.
//
// Integers are decimal, 0x hexadecimal or 0b binary. A $(...) expression is
// evaluated with starlark, with every label predeclared.
package asm

import (
	"io"
	"log"
	"slices"

	"github.com/ezrec/mima/cpu"
)

// Assembler is a three pass assembler for the MiMa machine.
type Assembler struct {
	Verbose  bool          // If set, verbosely logs the assembler actions.
	Registry *cpu.Registry // Instruction set. Defaults to cpu.NewRegistry().

	Label    map[string]cpu.Address // Labels of the last parse.
	Warnings ErrorSet               // Non-fatal diagnostics of the last parse.
}

func (asm *Assembler) registry() *cpu.Registry {
	if asm.Registry == nil {
		asm.Registry = cpu.NewRegistry()
	}
	return asm.Registry
}

// Parse assembles source text. All problems found are returned together as
// an ErrorSet.
func (asm *Assembler) Parse(in io.Reader) (prog *cpu.Program, err error) {
	source, err := io.ReadAll(in)
	if err != nil {
		return
	}

	return asm.ParseString(string(source))
}

// ParseString assembles source text held in a string.
func (asm *Assembler) ParseString(source string) (prog *cpu.Program, err error) {
	asm.Label = nil
	asm.Warnings = nil

	tree, errs := asm.tokenize(source)
	if errs.Len() > 0 {
		err = errs
		return
	}

	asm.Label = asm.resolveLabels(tree)
	asm.Warnings = slices.Collect(tree.Warnings())
	asm.verifyConstants(tree)
	asm.bindInstructions(tree)

	errs = slices.Collect(tree.Problems())
	if errs.Len() > 0 {
		err = errs
		return
	}

	err = asm.checkBound(tree)
	if err != nil {
		return
	}

	prog = asm.flatten(tree)

	if asm.Verbose {
		for _, warning := range asm.Warnings {
			log.Printf("asm: warning: %v", warning)
		}
		log.Printf("asm: %v words, %v labels", len(prog.Entries), len(asm.Label))
	}

	return
}
