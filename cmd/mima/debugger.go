package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/mima/cpu"
	"github.com/ezrec/mima/emulator"
)

// Command is a parsed debugger command with name and arguments.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits an input line into a command name and arguments.
func ParseCommand(input string) Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return Command{}
	}
	return Command{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
	}
}

// ParseNumber parses a decimal, 0x hexadecimal or $hexadecimal number.
func ParseNumber(s string) (value int64, ok bool) {
	var err error
	switch {
	case strings.HasPrefix(s, "$"):
		value, err = strconv.ParseInt(s[1:], 16, 64)
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		value, err = strconv.ParseInt(s[2:], 16, 64)
	default:
		value, err = strconv.ParseInt(s, 10, 64)
	}
	ok = err == nil
	return
}

// Debugger steps an emulator interactively.
type Debugger struct {
	Emulator *emulator.Emulator
	Output   io.Writer
	Prompt   bool // If set, print a prompt before each command.
	Limit    int  // Step limit for continue, zero for none.
}

const debuggerHelp = `n [count]       step forward
p [count]       step back
c               continue until halt, error or the step limit
r               reset to the initial state
s               show registers
m addr [count]  show memory
l [addr]        list instructions around addr
q               quit
`

// Run reads commands until end of input or quit.
func (dbg *Debugger) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	dbg.showNext()
	for {
		if dbg.Prompt {
			fmt.Fprint(dbg.Output, "(mima) ")
		}
		if !scanner.Scan() {
			return
		}
		if dbg.Execute(scanner.Text()) {
			return
		}
	}
}

// Execute runs one command line. It returns true when the debugger should
// quit.
func (dbg *Debugger) Execute(input string) (quit bool) {
	cmd := ParseCommand(input)

	count := 1
	if len(cmd.Args) > 0 {
		if v, ok := ParseNumber(cmd.Args[0]); ok && v > 0 {
			count = int(v)
		}
	}

	switch cmd.Name {
	case "", "n", "next":
		dbg.step(count)
	case "p", "prev":
		for range count {
			dbg.Emulator.PreviousStep()
		}
		dbg.showNext()
	case "c", "continue":
		dbg.step(dbg.Limit)
	case "r", "reset":
		dbg.Emulator.Reset()
		dbg.showNext()
	case "s", "state":
		fmt.Fprint(dbg.Output, dbg.Emulator.Current())
	case "m", "memory":
		dbg.memory(cmd)
	case "l", "list":
		dbg.list(cmd)
	case "q", "quit":
		quit = true
	case "?", "h", "help":
		fmt.Fprint(dbg.Output, debuggerHelp)
	default:
		fmt.Fprintf(dbg.Output, "unknown command %q, try help\n", cmd.Name)
	}

	return
}

// step runs up to count steps, or until halt or error when count is zero.
func (dbg *Debugger) step(count int) {
	for n := 0; count <= 0 || n < count; n++ {
		_, done, err := dbg.Emulator.NextStep()
		if err != nil {
			fmt.Fprintf(dbg.Output, "execution error: %v\n", err)
			break
		}
		if done {
			fmt.Fprintf(dbg.Output, "%v normally\n", cpu.ErrProgramHalt)
			break
		}
	}
	dbg.showNext()
}

// showNext prints the position in history and the next instruction.
func (dbg *Debugger) showNext() {
	emu := dbg.Emulator
	ip := emu.Current().Registers.InstructionPointer
	fmt.Fprintf(dbg.Output, "[%d/%d] ", emu.Position()+1, emu.Len())
	dbg.showCell(emu.Current(), ip, true)
}

func (dbg *Debugger) showCell(state cpu.State, addr cpu.Address, current bool) {
	mark := " "
	if current {
		mark = ">"
	}

	word, err := state.Load(addr)
	if err != nil {
		fmt.Fprintf(dbg.Output, "%v%05x: ------\n", mark, uint32(addr))
		return
	}

	text := dbg.Emulator.Registry.Disassemble(word)
	if entry, ok := dbg.Emulator.Program.Debug(addr); ok {
		text = fmt.Sprintf("%-12v ; %d: %v", text, entry.LineNo, strings.TrimSpace(entry.Line))
	}
	fmt.Fprintf(dbg.Output, "%v%05x: %06x %v\n", mark, uint32(addr), uint32(word)&cpu.VALUE_MASK, text)
}

// address parses an address argument, defaulting to def.
func (dbg *Debugger) address(args []string, n int, def cpu.Address) (addr cpu.Address, ok bool) {
	if len(args) <= n {
		return def, true
	}

	value, ok := ParseNumber(args[n])
	if !ok {
		fmt.Fprintf(dbg.Output, "bad number %q\n", args[n])
		return
	}

	addr, err := cpu.CoerceToAddress(value)
	if err != nil {
		fmt.Fprintf(dbg.Output, "%v\n", err)
		ok = false
	}

	return
}

func (dbg *Debugger) memory(cmd Command) {
	state := dbg.Emulator.Current()

	addr, ok := dbg.address(cmd.Args, 0, state.Registers.InstructionPointer)
	if !ok {
		return
	}

	count := 8
	if len(cmd.Args) > 1 {
		if v, ok := ParseNumber(cmd.Args[1]); ok && v > 0 {
			count = int(v)
		}
	}

	for n := range count {
		cell := int64(addr) + int64(n)
		if cell > cpu.ADDRESS_MAX {
			break
		}
		word, err := state.Load(cpu.Address(cell))
		if err != nil {
			fmt.Fprintf(dbg.Output, " %05x: ------\n", cell)
			continue
		}
		fmt.Fprintf(dbg.Output, " %05x: %06x %8d %v\n", cell, uint32(word)&cpu.VALUE_MASK, word, cpu.FormatBinary(word, false))
	}
}

func (dbg *Debugger) list(cmd Command) {
	state := dbg.Emulator.Current()
	ip := state.Registers.InstructionPointer

	addr, ok := dbg.address(cmd.Args, 0, ip)
	if !ok {
		return
	}

	start := max(int64(addr)-4, 0)
	end := min(int64(addr)+4, cpu.ADDRESS_MAX)
	for cell := start; cell <= end; cell++ {
		dbg.showCell(state, cpu.Address(cell), cpu.Address(cell) == ip)
	}
}
