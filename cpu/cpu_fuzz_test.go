package cpu

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzDecode(f *testing.F) {
	for _, word := range []int64{0, 1, 99, 1002, 21107, 30001, -1, 1 << 40} {
		f.Add(word)
	}

	f.Fuzz(func(t *testing.T, word int64) {
		assert := assert.New(t)

		inst, err := Decode(word)
		if err != nil {
			var derr *ErrDecode
			assert.ErrorAs(err, &derr)
			return
		}

		assert.True(inst.Op.Valid())
		assert.GreaterOrEqual(inst.Width(), int64(1))
		assert.LessOrEqual(inst.Width(), int64(4))
		for _, mode := range inst.Mode {
			assert.True(mode.Valid())
		}
	})
}

// clamp keeps fuzzed parameters near the program, so that memory growth
// stays small.
func clamp(value int64) int64 {
	return value%32 + 16
}

func FuzzCpu(f *testing.F) {
	for _, word := range []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 99, 1101, 203, 1105, 21108} {
		f.Add(word, int64(1), int64(2), int64(3), int64(5), false)
		f.Add(word, int64(-7), int64(0), int64(9), int64(-2), true)
	}

	f.Fuzz(func(t *testing.T, word int64, p1, p2, p3 int64, rb int64, hasInput bool) {
		assert := assert.New(t)

		cpu := &Cpu{}
		cpu.Memory.Data = []int64{word, clamp(p1), clamp(p2), clamp(p3), 99}
		cpu.RelativeBase = clamp(rb)

		input := NewQueue()
		if hasInput {
			input.Push(0x5a5a)
		}

		pre_memory := slices.Clone(cpu.Memory.Data)
		pre_rb := cpu.RelativeBase

		state, err := cpu.Step(input)

		code_str := fmt.Sprintf("word:%d params:%v rb:%d input:%v\ncpu:%v",
			word, pre_memory[1:4], pre_rb, hasInput, cpu.String())

		if err != nil {
			var fault *ErrFault
			assert.True(errors.As(err, &fault), code_str)
			assert.Equal(int64(0), fault.Ip, code_str)
			assert.Equal(word, fault.Word, code_str)
			assert.Equal(int64(0), cpu.Ip, code_str)
			assert.Equal(0, cpu.Ticks, code_str)
			return
		}

		inst, err := Decode(word)
		assert.NoError(err, code_str)

		switch state {
		case STATE_NEED_INPUT:
			assert.Equal(OP_IN, inst.Op, code_str)
			assert.False(hasInput, code_str)
			assert.Equal(pre_memory, cpu.Memory.Data, code_str)
			assert.Equal(int64(0), cpu.Ip, code_str)
		case STATE_EXITED:
			assert.Equal(OP_HALT, inst.Op, code_str)
			assert.Equal(pre_memory, cpu.Memory.Data, code_str)
			assert.Equal(int64(0), cpu.Ip, code_str)
		case STATE_RUNNING:
			assert.Equal(1, cpu.Ticks, code_str)
			if inst.Op != OP_JNZ && inst.Op != OP_JZ {
				assert.Equal(inst.Width(), cpu.Ip, code_str)
			}
			if inst.Op != OP_ARB {
				assert.Equal(pre_rb, cpu.RelativeBase, code_str)
			}
			if inst.Op == OP_IN {
				assert.True(input.Empty(), code_str)
			}
			if inst.Op == OP_OUT {
				assert.Len(cpu.Output, 1, code_str)
			} else {
				assert.Empty(cpu.Output, code_str)
			}
		default:
			t.Fatalf("unexpected state %v", state)
		}
	})
}
