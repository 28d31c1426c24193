// Package io connects Intcode machines to byte streams.
// It includes an ASCII tape (Tape), for programs which talk in text, and
// a decimal channel (Decimal), for programs which talk in numbers.
package io

import (
	"github.com/ezrec/intcode/cpu"
)

// Channel defines the interface for all I/O channels.
// Channels move whole values between a stream and a machine.
type Channel interface {
	// Feed reads the next line of input and pushes its values onto queue.
	// Returns io.EOF when no input remains.
	Feed(queue *cpu.Queue) (n int, err error)
	// Flush writes machine output values to the stream.
	Flush(values []int64) error
}
