package cpu

import (
	"errors"
	"fmt"
	"log"

	"github.com/ezrec/intcode/translate"
)

// Cpu is the simulation context for a single Intcode machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory       Memory  // Program and data store.
	Ip           int64   // Current instruction pointer.
	RelativeBase int64   // Base for MODE_RELATIVE parameters.
	Output       []int64 // Values emitted by OP_OUT, cleared by the caller.

	Ticks int // Instructions executed.
}

// NewCpu creates a machine loaded with the comma separated program text.
func NewCpu(text string) (cpu *Cpu, err error) {
	prog, err := ParseProgram(text)
	if err != nil {
		return
	}

	cpu = NewCpuFromProgram(prog)
	return
}

// NewCpuFromProgram creates a machine loaded with a copy of the program.
func NewCpuFromProgram(prog *Program) (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Memory.Data = make([]int64, len(prog.Words))
	copy(cpu.Memory.Data, prog.Words)
	return
}

// Clone returns an independent copy of the machine state.
func (cpu *Cpu) Clone() *Cpu {
	clone := *cpu
	clone.Memory = cpu.Memory.Clone()
	clone.Output = append([]int64(nil), cpu.Output...)
	return &clone
}

// TakeOutput returns the output so far, and clears it.
func (cpu *Cpu) TakeOutput() (output []int64) {
	output = cpu.Output
	cpu.Output = nil
	return
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"ip", "rb", "mem", "out", "ticks"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "ip":
			strval = fmt.Sprintf("%d", cpu.Ip)
			word, err := cpu.Memory.Load(cpu.Ip)
			if err == nil {
				strval += fmt.Sprintf(" (%d)", word)
			}
		case "rb":
			strval = fmt.Sprintf("%d", cpu.RelativeBase)
		case "mem":
			strval = translate.Number(int64(cpu.Memory.Len())) + " cells"
		case "out":
			strval = fmt.Sprintf("%v", cpu.Output)
		case "ticks":
			strval = translate.Number(int64(cpu.Ticks))
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Run executes instructions until the machine exits, needs input, or faults.
// Input values are consumed from the head of the queue.
func (cpu *Cpu) Run(input *Queue) (state State, err error) {
	for {
		state, err = cpu.Step(input)
		if err != nil || state != STATE_RUNNING {
			return
		}
	}
}

// Step fetches, decodes and executes a single instruction.
func (cpu *Cpu) Step(input *Queue) (state State, err error) {
	word, err := cpu.Memory.Load(cpu.Ip)
	if err != nil {
		err = &ErrFault{Ip: cpu.Ip, Err: err}
		return
	}

	inst, err := Decode(word)
	if err != nil {
		err = &ErrFault{Ip: cpu.Ip, Word: word, Err: err}
		return
	}

	return cpu.Execute(inst, input)
}

// Execute executes a single decoded instruction located at the current IP.
func (cpu *Cpu) Execute(inst Instruction, input *Queue) (state State, err error) {
	defer func() {
		if err != nil {
			err = &ErrFault{Ip: cpu.Ip, Word: inst.Word, Err: errors.Join(ErrOpcode(inst.Op), err)}
		}
	}()

	if cpu.Verbose {
		log.Printf("%04d: %v", cpu.Ip, inst)
	}

	state = STATE_RUNNING
	next_ip := cpu.Ip + inst.Width()

	var a, b, dst int64

	switch inst.Op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		a, err = cpu.read(1, inst.Mode[0])
		if err != nil {
			return
		}
		b, err = cpu.read(2, inst.Mode[1])
		if err != nil {
			return
		}
		dst, err = cpu.address(3, inst.Mode[2])
		if err != nil {
			return
		}
		err = cpu.Memory.Store(dst, cpu.doAlu(inst.Op, a, b))
	case OP_IN:
		dst, err = cpu.address(1, inst.Mode[0])
		if err != nil {
			return
		}
		value, ok := input.Pop()
		if !ok {
			// Stall on this instruction.
			state = STATE_NEED_INPUT
			return
		}
		err = cpu.Memory.Store(dst, value)
	case OP_OUT:
		a, err = cpu.read(1, inst.Mode[0])
		if err != nil {
			return
		}
		cpu.Output = append(cpu.Output, a)
	case OP_JNZ, OP_JZ:
		a, err = cpu.read(1, inst.Mode[0])
		if err != nil {
			return
		}
		b, err = cpu.read(2, inst.Mode[1])
		if err != nil {
			return
		}
		if (a != 0) == (inst.Op == OP_JNZ) {
			if b < 0 {
				err = ErrAddressNegative
				return
			}
			next_ip = b
		}
	case OP_ARB:
		a, err = cpu.read(1, inst.Mode[0])
		if err != nil {
			return
		}
		cpu.RelativeBase += a
	case OP_HALT:
		state = STATE_EXITED
		return
	default:
		err = ErrOpcodeInvalid
		return
	}

	if err != nil {
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks++

	return
}

// slot returns the raw value of the n'th parameter of the current instruction.
func (cpu *Cpu) slot(n int) (int64, error) {
	return cpu.Memory.Load(cpu.Ip + int64(n))
}

// read gets the value of the n'th parameter, resolved by its mode.
func (cpu *Cpu) read(n int, mode Mode) (value int64, err error) {
	value, err = cpu.slot(n)
	if err != nil || mode == MODE_IMMEDIATE {
		return
	}

	addr, err := cpu.resolve(value, mode)
	if err != nil {
		return
	}

	return cpu.Memory.Load(addr)
}

// address gets the destination address of the n'th parameter.
func (cpu *Cpu) address(n int, mode Mode) (addr int64, err error) {
	if mode == MODE_IMMEDIATE {
		err = ErrWriteImmediate
		return
	}

	value, err := cpu.slot(n)
	if err != nil {
		return
	}

	return cpu.resolve(value, mode)
}

// resolve converts a raw parameter to a memory address.
func (cpu *Cpu) resolve(value int64, mode Mode) (addr int64, err error) {
	switch mode {
	case MODE_POSITION:
		addr = value
	case MODE_RELATIVE:
		addr = cpu.RelativeBase + value
	default:
		err = ErrModeInvalid
		return
	}

	if addr < 0 {
		err = ErrAddressNegative
	}

	return
}

// doAlu performs the requested arithmetic or comparison.
func (cpu *Cpu) doAlu(op Opcode, a, b int64) (output int64) {
	switch op {
	case OP_ADD:
		output = a + b
	case OP_MUL:
		output = a * b
	case OP_LT:
		if a < b {
			output = 1
		}
	case OP_EQ:
		if a == b {
			output = 1
		}
	}

	return
}
