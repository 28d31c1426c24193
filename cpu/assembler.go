// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Statement is one assembled source line.
type Statement struct {
	LineNo int     // Source line number.
	Line   string  // Source text, without comment.
	Ip     int64   // Address of the first emitted word.
	Words  []int64 // Emitted words.

	directive string
	operands  []string
}

// Assembler is a two pass assembler for Intcode.
//
// Since every opcode has a fixed width, the first pass can assign an
// address to every label before any operand is evaluated.
type Assembler struct {
	Verbose    bool        // If set, verbosely logs the assembler actions.
	Statements []Statement // Statements of the last parsed program.

	predefine map[string]int64 // Predefines
	Label     map[string]int64 // Map of labels to addresses.
	Equate    map[string]int64 // Map of equates.

	lineno int
	ip     int64
}

// Predefine defines an equate available to every parsed program.
func (asm *Assembler) Predefine(equ string, value int64) {
	if asm.predefine == nil {
		asm.predefine = map[string]int64{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: asm.lineno, Line: line, Err: err}
		}
	}()

	asm.Statements = asm.Statements[:0]
	asm.Label = make(map[string]int64, 16)
	asm.Equate = maps.Clone(asm.predefine)
	if asm.Equate == nil {
		asm.Equate = make(map[string]int64)
	}
	asm.lineno = 0
	asm.ip = 0

	// Pass 1: assign addresses.
	for scanner.Scan() {
		asm.lineno++
		line = strings.TrimSpace(stripComment(scanner.Text()))

		if asm.Verbose {
			log.Printf("%v: %v\n", asm.lineno, line)
		}

		err = asm.parseLine(line)
		if err != nil {
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Pass 2: emit words.
	prog = &Program{}
	for n := range asm.Statements {
		stmt := &asm.Statements[n]
		asm.lineno = stmt.LineNo
		asm.ip = stmt.Ip
		line = stmt.Line
		stmt.Words, err = asm.emit(stmt)
		if err != nil {
			return
		}
		prog.Words = append(prog.Words, stmt.Words...)
	}

	return
}

// LineNo returns the source line number that emitted the word at ip.
func (asm *Assembler) LineNo(ip int64) int {
	for _, stmt := range asm.Statements {
		if ip >= stmt.Ip && ip < stmt.Ip+int64(len(stmt.Words)) {
			return stmt.LineNo
		}
	}

	return 0
}

// stripComment removes a trailing ';' comment, ignoring quoted text.
func stripComment(text string) string {
	var quote rune
	escaped := false
	for n, c := range text {
		switch {
		case escaped:
			escaped = false
		case quote != 0 && c == '\\':
			escaped = true
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ';':
			return text[:n]
		}
	}

	return text
}

// splitOperands splits on whitespace and commas outside of brackets,
// parentheses and quotes.
func splitOperands(text string) (words []string, err error) {
	var depth int
	var quote rune
	escaped := false
	start := -1

	flush := func(end int) {
		if start >= 0 {
			words = append(words, text[start:end])
			start = -1
		}
	}

	for n, c := range text {
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				err = ErrOperandSyntax
				return
			}
		case ' ', '\t', ',':
			if depth == 0 {
				flush(n)
				continue
			}
		}
		if start < 0 {
			start = n
		}
	}

	if depth != 0 || quote != 0 {
		err = ErrOperandSyntax
		return
	}
	flush(len(text))

	return
}

// parseLine records labels and the statement on a line, and advances
// the current address by the statement's size.
func (asm *Assembler) parseLine(line string) (err error) {
	words, err := splitOperands(line)
	if err != nil {
		return
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !identRe.MatchString(label) {
			err = ErrOperandSyntax
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.ip
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	stmt := Statement{
		LineNo:    asm.lineno,
		Line:      line,
		Ip:        asm.ip,
		directive: strings.ToLower(words[0]),
		operands:  words[1:],
	}

	var size int64
	switch stmt.directive {
	case ".equ":
		// .equ NAME VALUE
		if len(stmt.operands) != 2 || !identRe.MatchString(stmt.operands[0]) {
			err = ErrEquateSyntax
			return
		}
		name := stmt.operands[0]
		_, ok := asm.Equate[name]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		var value int64
		value, err = asm.valueOf(stmt.operands[1])
		if err != nil {
			return
		}
		asm.Equate[name] = value
		return
	case ".data":
		size = int64(len(stmt.operands))
	case ".ascii":
		var text string
		text, err = unquote(stmt.operands)
		if err != nil {
			return
		}
		size = int64(len(text))
	default:
		op, ok := opcodeByName[stmt.directive]
		if !ok {
			err = ErrOpcodeInvalid
			return
		}
		size = int64(1 + op.Params())
	}

	asm.Statements = append(asm.Statements, stmt)
	asm.ip += size

	return
}

// unquote decodes the single string operand of .ascii
func unquote(operands []string) (text string, err error) {
	if len(operands) != 1 {
		err = ErrStringSyntax
		return
	}

	text, err = strconv.Unquote(operands[0])
	if err != nil {
		err = ErrStringSyntax
	}

	return
}

// emit generates the words for a statement.
func (asm *Assembler) emit(stmt *Statement) (words []int64, err error) {
	switch stmt.directive {
	case ".data":
		for _, operand := range stmt.operands {
			var value int64
			value, err = asm.valueOf(operand)
			if err != nil {
				return
			}
			words = append(words, value)
		}
		return
	case ".ascii":
		var text string
		text, err = unquote(stmt.operands)
		if err != nil {
			return
		}
		for _, c := range []byte(text) {
			words = append(words, int64(c))
		}
		return
	}

	op := opcodeByName[stmt.directive]
	if len(stmt.operands) != op.Params() {
		err = ErrOperandCount
		return
	}

	modes := make([]Mode, len(stmt.operands))
	params := make([]int64, len(stmt.operands))
	for n, operand := range stmt.operands {
		modes[n], params[n], err = asm.operand(operand)
		if err != nil {
			return
		}
	}

	inst := Instruction{Op: op}
	copy(inst.Mode[:], modes)
	index, ok := inst.Writes()
	if ok && inst.Mode[index] == MODE_IMMEDIATE {
		err = ErrTargetInvalid
		return
	}

	words = append([]int64{Encode(op, modes...)}, params...)

	return
}

// operand decodes the addressing mode and raw value of an operand.
//
//	expr       immediate
//	[expr]     position
//	[rb+expr]  relative
func (asm *Assembler) operand(word string) (mode Mode, value int64, err error) {
	if !strings.HasPrefix(word, "[") {
		mode = MODE_IMMEDIATE
		value, err = asm.valueOf(word)
		return
	}

	if !strings.HasSuffix(word, "]") {
		err = ErrOperandSyntax
		return
	}

	inner := strings.Join(strings.Fields(word[1:len(word)-1]), "")
	mode = MODE_POSITION

	if inner == "rb" {
		mode = MODE_RELATIVE
		return
	}

	if strings.HasPrefix(inner, "rb+") {
		mode = MODE_RELATIVE
		value, err = asm.valueOf(inner[3:])
		return
	}

	if strings.HasPrefix(inner, "rb-") {
		mode = MODE_RELATIVE
		// Signed literals are parsed whole, so that MinInt64 fits.
		value, err = strconv.ParseInt(inner[2:], 0, 64)
		if err == nil {
			return
		}
		value, err = asm.valueOf(inner[3:])
		value = -value
		return
	}

	value, err = asm.valueOf(inner)
	return
}

// valueOf returns the value of an expression word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}

	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		return asm.parenEval(word[2 : len(word)-1])
	}

	if word[0] == '\'' {
		var c rune
		var tail string
		c, _, tail, err = strconv.UnquoteChar(word[1:], '\'')
		if err != nil || tail != "'" {
			err = ErrParseNumber(word)
			return
		}
		value = int64(c)
		return
	}

	if identRe.MatchString(word) {
		var ok bool
		value, ok = asm.lookup(word)
		if !ok {
			err = ErrLabelMissing(word)
		}
		return
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
	}

	return
}

// lookup finds a symbol in the equates, labels, or the builtins.
func (asm *Assembler) lookup(name string) (value int64, ok bool) {
	switch name {
	case "IP":
		return asm.ip, true
	case "LINENO":
		return int64(asm.lineno), true
	}

	value, ok = asm.Equate[name]
	if ok {
		return
	}

	value, ok = asm.Label[name]
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: fmt.Sprintf("line %d", asm.lineno)}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"IP":     starlark.MakeInt64(asm.ip),
		"LINENO": starlark.MakeInt(asm.lineno),
	}
	for key, val := range asm.Label {
		pred[key] = starlark.MakeInt64(val)
	}
	for key, val := range asm.Equate {
		pred[key] = starlark.MakeInt64(val)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}
