package cpu

// Queue is a FIFO of pending input values, owned by the caller.
type Queue struct {
	Data []int64
}

// NewQueue returns a queue holding values.
func NewQueue(values ...int64) *Queue {
	return &Queue{Data: values}
}

// Push appends values to the tail of the queue.
func (q *Queue) Push(values ...int64) {
	q.Data = append(q.Data, values...)
}

// Pop removes and returns the head of the queue.
func (q *Queue) Pop() (value int64, ok bool) {
	value, ok = q.Peek()
	if ok {
		q.Data = q.Data[1:]
	}
	return
}

// Peek returns the head of the queue without removing it.
func (q *Queue) Peek() (value int64, ok bool) {
	if q.Empty() {
		return
	}

	return q.Data[0], true
}

func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Data)
}

func (q *Queue) Empty() bool {
	return q.Len() == 0
}

func (q *Queue) Reset() {
	if len(q.Data) > 0 {
		q.Data = q.Data[:0]
	}
}
