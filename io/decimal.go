package io

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/intcode/cpu"
)

// Decimal provides numeric I/O for a machine.
// Input lines hold integers separated by commas or whitespace; output is
// written as one comma separated line per flush.
type Decimal struct {
	Input  io.Reader
	Output io.Writer

	scanner *bufio.Scanner
}

var _ Channel = (*Decimal)(nil)

// Feed reads the next non-blank input line and pushes its values.
func (dc *Decimal) Feed(queue *cpu.Queue) (n int, err error) {
	if dc.Input == nil {
		err = ErrChannelClosed
		return
	}

	if dc.scanner == nil {
		dc.scanner = bufio.NewScanner(dc.Input)
	}

	for dc.scanner.Scan() {
		var values []int64
		values, err = ParseValues(dc.scanner.Text())
		if err != nil {
			return
		}
		if len(values) == 0 {
			continue
		}
		queue.Push(values...)
		n = len(values)
		return
	}

	err = dc.scanner.Err()
	if err == nil {
		err = io.EOF
	}

	return
}

// Flush writes values as a comma separated line.
func (dc *Decimal) Flush(values []int64) (err error) {
	if len(values) == 0 {
		return
	}

	if dc.Output == nil {
		err = ErrChannelClosed
		return
	}

	texts := make([]string, len(values))
	for n, value := range values {
		texts[n] = strconv.FormatInt(value, 10)
	}

	_, err = io.WriteString(dc.Output, strings.Join(texts, ",")+"\n")

	return
}

// ParseValues parses integers separated by commas or whitespace.
func ParseValues(text string) (values []int64, err error) {
	fields := strings.FieldsFunc(text, func(c rune) bool {
		return c == ',' || c == ' ' || c == '\t' || c == '\r' || c == '\n'
	})

	for _, field := range fields {
		var value int64
		value, err = strconv.ParseInt(field, 10, 64)
		if err != nil {
			values = nil
			err = ErrParseValue(field)
			return
		}
		values = append(values, value)
	}

	return
}
