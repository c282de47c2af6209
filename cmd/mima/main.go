// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/ezrec/mima/asm"
	"github.com/ezrec/mima/cpu"
	"github.com/ezrec/mima/emulator"
	"github.com/ezrec/mima/io"
	"github.com/ezrec/mima/translate"
)

// assemble compiles a source file.
func assemble(path string, registry *cpu.Registry, verbose bool) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	assembler := &asm.Assembler{Verbose: verbose, Registry: registry}
	prog, err = assembler.Parse(inf)
	if err != nil {
		err = errors.Wrapf(err, "%v", path)
		return
	}

	for _, warning := range assembler.Warnings {
		log.Printf("%v: warning: %v", path, warning)
	}

	return
}

// load reads a dump file.
func load(path string) (state cpu.State, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	state, err = io.Unmarshal(inf)
	if err != nil {
		err = errors.Wrapf(err, "%v", path)
	}

	return
}

// save writes a dump file.
func save(path string, state cpu.State) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	err = io.Marshal(ouf, state)
	if err != nil {
		ouf.Close()
		err = errors.Wrapf(err, "%v", path)
		return
	}

	err = ouf.Close()

	return
}

// run steps the emulator until HALT, an error or the step limit.
func run(emu *emulator.Emulator, limit int) (steps int, done bool, err error) {
	for limit <= 0 || steps < limit {
		_, done, err = emu.NextStep()
		if done || err != nil {
			return
		}
		steps++
	}

	return
}

func main() {
	var compile string
	var loadDump string
	var saveDump string
	var limit int
	var history int
	var debug bool
	var verbose bool
	var lang string

	flag.StringVar(&compile, "c", "", ".mima source file to assemble")
	flag.StringVar(&loadDump, "l", "", "dump file to load")
	flag.StringVar(&saveDump, "s", "", "dump file to save the final state to")
	flag.IntVar(&limit, "n", 1000000, "step limit, 0 for none")
	flag.IntVar(&history, "b", emulator.DEFAULT_CAPACITY, "history buffer size")
	flag.BoolVar(&debug, "d", false, "interactive debugger")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&lang, "lang", "", "message language (BCP 47), default from the environment")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if (len(compile) == 0) == (len(loadDump) == 0) {
		log.Fatalf("%v: exactly one of -c or -l is required", os.Args[0])
	}

	if len(lang) != 0 {
		translate.SetLanguage(lang)
	}

	registry := cpu.NewRegistry()

	var prog *cpu.Program
	var initial cpu.State
	if len(compile) != 0 {
		var err error
		prog, err = assemble(compile, registry, verbose)
		if err != nil {
			log.Fatal(err)
		}
		initial = cpu.NewState(prog.Memory())
	} else {
		var err error
		initial, err = load(loadDump)
		if err != nil {
			log.Fatal(err)
		}
	}

	emu := emulator.NewEmulator(registry, initial, history)
	emu.Program = prog
	emu.Verbose = verbose

	failed := false
	if debug {
		dbg := &Debugger{
			Emulator: emu,
			Output:   os.Stdout,
			Prompt:   term.IsTerminal(int(os.Stdin.Fd())),
			Limit:    limit,
		}
		dbg.Run(os.Stdin)
	} else {
		steps, done, err := run(emu, limit)
		switch {
		case err != nil:
			log.Printf("%v: execution error after %d steps: %v", os.Args[0], steps, err)
		case done:
			log.Printf("%v: %v normally after %d steps", os.Args[0], cpu.ErrProgramHalt, steps)
		default:
			log.Printf("%v: step limit %d reached", os.Args[0], limit)
		}
		fmt.Print(emu.Current())
		failed = err != nil
	}

	if len(saveDump) != 0 {
		err := save(saveDump, emu.Current())
		if err != nil {
			log.Fatal(err)
		}
	}

	if failed {
		os.Exit(1)
	}
}
