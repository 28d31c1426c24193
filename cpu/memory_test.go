package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	var mem Memory
	assert.Equal(0, mem.Len())

	value, err := mem.Load(12345)
	assert.NoError(err)
	assert.Equal(int64(0), value)
	assert.Equal(0, mem.Len())

	assert.NoError(mem.Store(0, 7))
	assert.Equal(1, mem.Len())

	assert.NoError(mem.Store(5, 9))
	assert.Equal(8, mem.Len())
	assert.Equal([]int64{7, 0, 0, 0, 0, 9, 0, 0}, mem.Data)

	assert.NoError(mem.Store(3, 1))
	assert.Equal(8, mem.Len())

	_, err = mem.Load(-1)
	assert.ErrorIs(err, ErrAddressNegative)
	assert.ErrorIs(mem.Store(-1, 0), ErrAddressNegative)
	assert.Equal(8, mem.Len())
}

func TestMemoryClone(t *testing.T) {
	assert := assert.New(t)

	mem := Memory{Data: []int64{1, 2, 3}}
	clone := mem.Clone()
	assert.NoError(clone.Store(0, 10))
	assert.NoError(clone.Store(10, 11))

	assert.Equal([]int64{1, 2, 3}, mem.Data)
	assert.Equal(int64(10), clone.Data[0])
	assert.Equal(12, clone.Len())
}

func TestMemoryLimit(t *testing.T) {
	assert := assert.New(t)

	mem := Memory{Data: []int64{1, 2, 3}}
	assert.ErrorIs(mem.Store(MEMORY_LIMIT, 1), ErrAddressLimit)
	assert.Equal(3, mem.Len())

	value, err := mem.Load(MEMORY_LIMIT * 4)
	assert.NoError(err)
	assert.Equal(int64(0), value)
}
