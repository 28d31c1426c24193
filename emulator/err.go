package emulator

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrInputEnd  = errors.New(f("input exhausted"))
	ErrDeadlock  = errors.New(f("machines deadlocked"))
	ErrNoOutput  = errors.New(f("no output"))
	ErrNoPhases  = errors.New(f("no phases"))
	ErrNoProgram = errors.New(f("no program"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrNode indicates which machine of a group failed.
type ErrNode struct {
	Node int
	Err  error
}

func (err *ErrNode) Error() string {
	return f("node %d %v", err.Node, err.Err)
}

func (err *ErrNode) Unwrap() error {
	return err.Err
}
