package cpu

const (
	MEMORY_LIMIT = 1 << 26 // Maximum number of cells a store may grow to.
)

// Memory is the linear Intcode store.
//
// Cells past the end of Data read as zero. Writes past the end grow Data by
// doubling until the address fits. Data never shrinks.
//
// Growth stops at MEMORY_LIMIT cells: a store at or beyond it faults with
// ErrAddressLimit instead of extending the memory.
type Memory struct {
	Data []int64
}

// Len returns the number of allocated cells.
func (mem *Memory) Len() int {
	return len(mem.Data)
}

// Load returns the value at addr.
func (mem *Memory) Load(addr int64) (value int64, err error) {
	if addr < 0 {
		err = ErrAddressNegative
		return
	}

	if addr < int64(len(mem.Data)) {
		value = mem.Data[addr]
	}

	return
}

// Store writes value to addr, growing the memory if needed.
func (mem *Memory) Store(addr int64, value int64) (err error) {
	if addr < 0 {
		err = ErrAddressNegative
		return
	}

	if addr >= MEMORY_LIMIT {
		err = ErrAddressLimit
		return
	}

	if addr >= int64(len(mem.Data)) {
		mem.grow(addr)
	}

	mem.Data[addr] = value

	return
}

// grow extends Data, zero filled, so that addr is in range.
func (mem *Memory) grow(addr int64) {
	size := int64(max(len(mem.Data), 1))
	for size <= addr {
		size *= 2
	}
	size = min(size, MEMORY_LIMIT)

	mem.Data = append(mem.Data, make([]int64, size-int64(len(mem.Data)))...)
}

// Clone returns an independent copy of the memory.
func (mem *Memory) Clone() Memory {
	data := make([]int64, len(mem.Data))
	copy(data, mem.Data)
	return Memory{Data: data}
}
