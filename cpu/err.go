package cpu

import (
	"errors"
	"strconv"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrAddressNegative = errors.New(f("negative address"))
	ErrAddressLimit    = errors.New(f("address beyond memory limit"))
	ErrWriteImmediate  = errors.New(f("write to immediate"))

	// Instruction decode errors
	ErrOpcodeInvalid = errors.New(f("opcode invalid"))
	ErrModeInvalid   = errors.New(f("mode invalid"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOperandCount    = errors.New(f("wrong operand count"))
	ErrOperandSyntax   = errors.New(f("operand syntax"))
	ErrTargetInvalid   = errors.New(f("target invalid"))
	ErrStringSyntax    = errors.New(f(".ascii syntax"))
)

// ErrDecode reports an instruction word that does not decode.
type ErrDecode struct {
	Word int64
	Err  error
}

func (err *ErrDecode) Error() string {
	return f("decode %v: %v", strconv.FormatInt(err.Word, 10), err.Err)
}

func (err *ErrDecode) Unwrap() error {
	return err.Err
}

// ErrFault is a fatal machine fault at a specific instruction.
type ErrFault struct {
	Ip   int64
	Word int64
	Err  error
}

func (err *ErrFault) Error() string {
	return f("fault at ip %v word %v: %v", strconv.FormatInt(err.Ip, 10), strconv.FormatInt(err.Word, 10), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// ErrProgram reports a malformed token in program text.
type ErrProgram struct {
	Index int
	Err   error
}

func (err *ErrProgram) Error() string {
	return f("program word %d: %v", err.Index, err.Err)
}

func (err *ErrProgram) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrOpcode tags a fault with the opcode that raised it.
type ErrOpcode Opcode

func (eo ErrOpcode) Error() string {
	return f("opcode %v", Opcode(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
