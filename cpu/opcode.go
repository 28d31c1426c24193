package cpu

import (
	"fmt"
	"strings"
)

// Opcode is the operation selector, the low two decimal digits of a word.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_ADD  = Opcode(1)  // add
	OP_MUL  = Opcode(2)  // mul
	OP_IN   = Opcode(3)  // in
	OP_OUT  = Opcode(4)  // out
	OP_JNZ  = Opcode(5)  // jnz
	OP_JZ   = Opcode(6)  // jz
	OP_LT   = Opcode(7)  // lt
	OP_EQ   = Opcode(8)  // eq
	OP_ARB  = Opcode(9)  // arb
	OP_HALT = Opcode(99) // halt
)

// opcodeInfo describes the shape of an opcode.
type opcodeInfo struct {
	params int
	write  int // Index of the destination parameter, or -1.
}

var opcodeTable = map[Opcode]opcodeInfo{
	OP_ADD:  {3, 2},
	OP_MUL:  {3, 2},
	OP_IN:   {1, 0},
	OP_OUT:  {1, -1},
	OP_JNZ:  {2, -1},
	OP_JZ:   {2, -1},
	OP_LT:   {3, 2},
	OP_EQ:   {3, 2},
	OP_ARB:  {1, -1},
	OP_HALT: {0, -1},
}

// opcodeByName maps mnemonics back to opcodes.
var opcodeByName = func() map[string]Opcode {
	names := make(map[string]Opcode, len(opcodeTable))
	for op := range opcodeTable {
		names[op.String()] = op
	}
	return names
}()

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := opcodeTable[op]
	return ok
}

// Params returns the number of parameters the opcode takes.
func (op Opcode) Params() int {
	return opcodeTable[op].params
}

// Mode is a parameter addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_POSITION  = Mode(0) // position
	MODE_IMMEDIATE = Mode(1) // immediate
	MODE_RELATIVE  = Mode(2) // relative
)

func (mode Mode) Valid() bool {
	return mode >= MODE_POSITION && mode <= MODE_RELATIVE
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Word int64
	Op   Opcode
	Mode [3]Mode
}

// Decode splits an instruction word into its opcode and parameter modes.
func Decode(word int64) (inst Instruction, err error) {
	inst = Instruction{
		Word: word,
		Op:   Opcode(word % 100),
		Mode: [3]Mode{
			Mode((word / 100) % 10),
			Mode((word / 1000) % 10),
			Mode((word / 10000) % 10),
		},
	}

	if !inst.Op.Valid() {
		err = &ErrDecode{Word: word, Err: ErrOpcodeInvalid}
		return
	}

	for _, mode := range inst.Mode {
		if !mode.Valid() {
			err = &ErrDecode{Word: word, Err: ErrModeInvalid}
			return
		}
	}

	return
}

// Encode builds an instruction word from an opcode and parameter modes.
// Missing modes are MODE_POSITION.
func Encode(op Opcode, modes ...Mode) (word int64) {
	word = int64(op)
	scale := int64(100)
	for _, mode := range modes {
		word += int64(mode) * scale
		scale *= 10
	}
	return
}

// Params returns the number of parameters following the instruction word.
func (inst Instruction) Params() int {
	return inst.Op.Params()
}

// Width returns the number of words used by the instruction.
func (inst Instruction) Width() int64 {
	return int64(1 + inst.Params())
}

// Writes returns the parameter index of the destination, if any.
func (inst Instruction) Writes() (index int, ok bool) {
	index = opcodeTable[inst.Op].write
	ok = index >= 0
	return
}

// Operand formats a raw parameter in the given mode as assembler text.
func Operand(mode Mode, value int64) string {
	switch mode {
	case MODE_IMMEDIATE:
		return fmt.Sprintf("%d", value)
	case MODE_RELATIVE:
		return fmt.Sprintf("[rb%+d]", value)
	default:
		return fmt.Sprintf("[%d]", value)
	}
}

// Format returns the assembler text for the instruction and its raw parameters.
func (inst Instruction) Format(params ...int64) string {
	words := []string{inst.Op.String()}
	for n, value := range params {
		if n >= len(inst.Mode) {
			break
		}
		words = append(words, Operand(inst.Mode[n], value))
	}
	return strings.Join(words, " ")
}

// String returns the mnemonic and parameter modes of the instruction.
func (inst Instruction) String() string {
	out := fmt.Sprintf("%v(%d)", inst.Op, inst.Word)
	for n := range inst.Params() {
		out += "." + inst.Mode[n].String()
	}
	return out
}
