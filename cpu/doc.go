// Package cpu implements the machine model and execution engine of the MiMa
// simulator.
//
// A machine word is a 24-bit two's complement Value. Instruction words pack
// a 4-bit opcode with a 20-bit Address argument, or, for the large opcodes
// 0xF0 to 0xFF, an 8-bit opcode with a 16-bit argument.
//
// Machine state is immutable: a State holds a Registers value and a
// persistent Memory, and every Cpu step produces a brand new State that
// shares untouched memory with its predecessor.
//
// The instruction set lives in a Registry built by NewRegistry, which is
// shared by the assembler and the Cpu.
package cpu
