// Package cpu implements the Intcode machine and its assembler.
//
// The machine has an instruction pointer (IP), a relative base (RB), and a
// linear memory of signed 64-bit cells that grows on demand. Instructions
// carry a two digit opcode and one addressing mode digit per parameter:
// position, immediate, or relative to RB.
//
// Input is taken from a caller owned Queue. When the queue runs dry the
// machine stops with STATE_NEED_INPUT, leaving the input instruction
// unexecuted so that a later Run with more input resumes exactly there.
//
// The assembler provides a small symbolic language for Intcode, supporting
// labels, equates, data directives, and compile-time expression evaluation.
package cpu
