// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
	chio "github.com/ezrec/intcode/io"
	"github.com/ezrec/intcode/translate"
)

// patch is a single addr=value memory override.
type patch struct {
	addr  int64
	value int64
}

func parsePatch(text string) (p patch, err error) {
	addr, value, ok := strings.Cut(text, "=")
	if !ok {
		err = errors.New(translate.From("%v: expected addr=value", text))
		return
	}

	p.addr, err = strconv.ParseInt(strings.TrimSpace(addr), 0, 64)
	if err != nil {
		return
	}
	p.value, err = strconv.ParseInt(strings.TrimSpace(value), 0, 64)
	return
}

func main() {
	var compile string
	var disassemble bool
	var ascii bool
	var input string
	var verbose bool
	var patches []patch

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.BoolVar(&disassemble, "d", false, "Disassemble the program, do not execute")
	flag.BoolVar(&ascii, "a", false, "ASCII tape I/O")
	flag.StringVar(&input, "i", "", "Comma separated initial input")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Func("p", "Patch memory before running, as addr=value", func(text string) (err error) {
		p, err := parsePatch(text)
		if err == nil {
			patches = append(patches, p)
		}
		return
	})

	flag.Parse()

	var prog *cpu.Program
	var asm *cpu.Assembler

	switch {
	case len(compile) != 0:
		if flag.NArg() != 0 {
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
		}

		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm = &cpu.Assembler{Verbose: verbose}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case flag.NArg() == 1:
		path := flag.Arg(0)
		inf, err := os.Open(path)
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
		defer inf.Close()

		prog, err = cpu.ReadProgram(inf)
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
	default:
		log.Fatalf("usage: %v [-c file.s | program.txt]", os.Args[0])
	}

	if disassemble {
		for listing := range prog.Disassemble() {
			fmt.Printf("%04d: %v\n", listing.Ip, listing.Text)
		}
		return
	}

	var channel chio.Channel
	if ascii {
		channel = &chio.Tape{Input: os.Stdin, Output: os.Stdout}
	} else {
		channel = &chio.Decimal{Input: os.Stdin, Output: os.Stdout}
	}

	emu := emulator.NewEmulator(prog, channel)
	emu.Assembler = asm
	emu.Verbose = verbose

	for _, p := range patches {
		err := emu.Memory.Store(p.addr, p.value)
		if err != nil {
			log.Fatalf("-p %d=%d: %v", p.addr, p.value, err)
		}
	}

	if len(input) != 0 {
		values, err := chio.ParseValues(input)
		if err != nil {
			log.Fatalf("-i %v: %v", input, err)
		}
		emu.Input.Push(values...)
	}

	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			log.Fatal(err)
		}
	}

	if verbose {
		log.Printf("%v", emu.Cpu)
	}
}
