package io

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/intcode/cpu"
)

// ASCII_MAX is the largest value written to a tape as a character.
const ASCII_MAX = 127

// Tape provides line oriented ASCII I/O for a machine.
// Input bytes are fed one value per byte, newline included. Output values
// in the ASCII range are written as characters, anything else as a
// decimal number on its own line.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
}

var _ Channel = (*Tape)(nil)

// Feed reads one line from the input and pushes it onto the queue.
func (tc *Tape) Feed(queue *cpu.Queue) (n int, err error) {
	if tc.Input == nil {
		err = ErrChannelClosed
		return
	}

	if tc.reader == nil {
		tc.reader = bufio.NewReader(tc.Input)
	}

	line, err := tc.reader.ReadString('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	if err != nil {
		return
	}

	values := Encode(line)
	queue.Push(values...)
	n = len(values)

	return
}

// Flush writes values to the output.
func (tc *Tape) Flush(values []int64) (err error) {
	if len(values) == 0 {
		return
	}

	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	_, err = io.WriteString(tc.Output, Decode(values))

	return
}

// Encode converts text to machine input values.
func Encode(text string) (values []int64) {
	values = make([]int64, len(text))
	for n, c := range []byte(text) {
		values[n] = int64(c)
	}
	return
}

// Decode converts machine output values to text.
func Decode(values []int64) string {
	var sb strings.Builder
	for _, value := range values {
		if value >= 0 && value <= ASCII_MAX {
			sb.WriteByte(byte(value))
		} else {
			fmt.Fprintf(&sb, "%d\n", value)
		}
	}
	return sb.String()
}
