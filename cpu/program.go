package cpu

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Program is an Intcode program image.
type Program struct {
	Words []int64
}

// Listing is one disassembled statement of a program.
type Listing struct {
	Ip    int64
	Words []int64
	Text  string
}

// ParseProgram parses comma separated integers into a program.
func ParseProgram(text string) (prog *Program, err error) {
	text = strings.TrimSpace(text)

	prog = &Program{}
	if len(text) == 0 {
		return
	}

	for n, token := range strings.Split(text, ",") {
		token = strings.TrimSpace(token)
		var value int64
		value, err = strconv.ParseInt(token, 10, 64)
		if err != nil {
			prog = nil
			err = &ErrProgram{Index: n, Err: ErrParseNumber(token)}
			return
		}
		prog.Words = append(prog.Words, value)
	}

	return
}

// ReadProgram reads and parses a whole program from r.
func ReadProgram(r io.Reader) (prog *Program, err error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return
	}

	return ParseProgram(string(text))
}

// String returns the program as comma separated text.
func (prog *Program) String() string {
	texts := make([]string, len(prog.Words))
	for n, word := range prog.Words {
		texts[n] = strconv.FormatInt(word, 10)
	}
	return strings.Join(texts, ",")
}

// Disassemble walks the program linearly, yielding one listing per
// instruction. Words which are not a well formed instruction are
// listed as .data.
func (prog *Program) Disassemble() iter.Seq[Listing] {
	return func(yield func(Listing) bool) {
		var ip int64
		size := int64(len(prog.Words))
		for ip < size {
			word := prog.Words[ip]
			listing := Listing{
				Ip:    ip,
				Words: prog.Words[ip : ip+1],
				Text:  fmt.Sprintf(".data %d", word),
			}

			inst, err := Decode(word)
			if err == nil && ip+inst.Width() <= size && canonical(inst) {
				listing.Words = prog.Words[ip : ip+inst.Width()]
				listing.Text = inst.Format(listing.Words[1:]...)
			}

			if !yield(listing) {
				return
			}

			ip += int64(len(listing.Words))
		}
	}
}

// canonical returns true if the instruction word is exactly what the
// assembler would emit for it.
func canonical(inst Instruction) bool {
	index, ok := inst.Writes()
	if ok && inst.Mode[index] == MODE_IMMEDIATE {
		return false
	}

	return Encode(inst.Op, inst.Mode[:inst.Params()]...) == inst.Word
}
