package cpu

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramParse(t *testing.T) {
	assert := assert.New(t)

	prog, err := ParseProgram("1,9,10,3,2,3,11,0,99,30,40,50\n")
	assert.NoError(err)
	assert.Equal([]int64{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}, prog.Words)
	assert.Equal("1,9,10,3,2,3,11,0,99,30,40,50", prog.String())

	prog, err = ParseProgram("")
	assert.NoError(err)
	assert.Empty(prog.Words)

	_, err = ParseProgram("1,,2")
	assert.ErrorIs(err, ErrParseNumber(""))

	_, err = ParseProgram("1,2.5")
	assert.ErrorIs(err, ErrParseNumber("2.5"))

	prog, err = ReadProgram(strings.NewReader("104,-3,99\n"))
	assert.NoError(err)
	assert.Equal([]int64{104, -3, 99}, prog.Words)
}

func TestProgramDisassemble(t *testing.T) {
	assert := assert.New(t)

	prog, err := ParseProgram("1002,4,3,4,33")
	assert.NoError(err)

	listings := slices.Collect(prog.Disassemble())
	assert.Equal([]Listing{
		{Ip: 0, Words: []int64{1002, 4, 3, 4}, Text: "mul [4] 3 [4]"},
		{Ip: 4, Words: []int64{33}, Text: ".data 33"},
	}, listings)

	// Truncated, write-to-immediate, and non-canonical words are data.
	prog, err = ParseProgram("11101,1,1,1,1099,1")
	assert.NoError(err)
	var texts []string
	for listing := range prog.Disassemble() {
		texts = append(texts, listing.Text)
	}
	assert.Equal([]string{".data 11101", "add [1] [1] [1099]", ".data 1"}, texts)
}

func TestProgramRoundTrip(t *testing.T) {
	assert := assert.New(t)

	programs := []string{
		"109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99",
		"3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31,1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104,999,1105,1,46,1101,1000,1,20,4,20,1105,1,46,98,99",
		"1102,34915192,34915192,7,4,7,99,0",
		"109,10,203,10,99",
		"30001,0,0,0,99,-5",
		"204,-9223372036854775808,109,9223372036854775807,204,-1,99",
		"1101,-9223372036854775808,0,100,99",
	}

	for _, text := range programs {
		prog, err := ParseProgram(text)
		assert.NoError(err)

		var lines []string
		for listing := range prog.Disassemble() {
			lines = append(lines, listing.Text)
		}

		asm := &Assembler{}
		again, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
		assert.NoError(err, text)
		if err != nil {
			continue
		}
		assert.Equal(prog.Words, again.Words, text)
	}
}
