// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"io"
	"log"

	"github.com/ezrec/intcode/cpu"
	chio "github.com/ezrec/intcode/io"
)

// Emulator state. A single machine attached to an I/O channel.
type Emulator struct {
	Verbose   bool           // If set, enables verbose logging.
	*cpu.Cpu                 // Reference to the machine.
	Program   *cpu.Program   // Program loaded on Reset.
	Assembler *cpu.Assembler // If set, maps addresses to source lines.

	Channel chio.Channel // Source of input, sink for output.
	Input   cpu.Queue    // Pending input for the machine.
}

// NewEmulator creates a new emulator for a program.
func NewEmulator(prog *cpu.Program, channel chio.Channel) (emu *Emulator) {
	emu = &Emulator{
		Program: prog,
		Channel: channel,
	}

	emu.Reset()

	return
}

// Reset reloads the program, and discards pending input.
func (emu *Emulator) Reset() {
	if emu.Program == nil {
		emu.Program = &cpu.Program{}
	}

	emu.Cpu = cpu.NewCpuFromProgram(emu.Program)
	emu.Cpu.Verbose = emu.Verbose
	emu.Input.Reset()
}

// LineNo returns the source line for the current instruction, or 0 if the
// program was not assembled.
func (emu *Emulator) LineNo() int {
	if emu.Assembler == nil {
		return 0
	}

	return emu.Assembler.LineNo(emu.Cpu.Ip)
}

// Tick runs the machine until it exits or stalls on input. Output is
// flushed to the channel, and a stall is satisfied by feeding the next
// line from the channel.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: emu.LineNo(), Err: err}
		}
	}()

	state, err := emu.Cpu.Run(&emu.Input)
	if err != nil {
		return
	}

	if emu.Channel != nil {
		err = emu.Channel.Flush(emu.Cpu.TakeOutput())
		if err != nil {
			return
		}
	}

	switch state {
	case cpu.STATE_EXITED:
		done = true
	case cpu.STATE_NEED_INPUT:
		if emu.Channel == nil {
			err = ErrInputEnd
			return
		}
		var n int
		n, err = emu.Channel.Feed(&emu.Input)
		if errors.Is(err, io.EOF) {
			err = ErrInputEnd
		}
		if emu.Verbose && err == nil {
			log.Printf("emulator: fed %d values", n)
		}
	}

	return
}
