package engine

// itemQueue is a FIFO queue of worry levels.
//
// It is not safe for concurrent use; the engine's single control loop is
// the only reader and writer.
type itemQueue struct {
	items []int64
	head  int
}

func newItemQueue(seed []int64) *itemQueue {
	q := &itemQueue{items: make([]int64, 0, len(seed)+8)}
	q.items = append(q.items, seed...)
	return q
}

// push appends v at the tail.
func (q *itemQueue) push(v int64) {
	// Reclaim the consumed prefix once it dominates the buffer so the
	// backing array does not grow without bound over many rounds.
	if q.head > 0 && q.head >= len(q.items)/2 {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	q.items = append(q.items, v)
}

// pop removes and returns the head. Returns false if the queue is empty.
func (q *itemQueue) pop() (int64, bool) {
	if q.head >= len(q.items) {
		return 0, false
	}
	v := q.items[q.head]
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return v, true
}

func (q *itemQueue) len() int {
	return len(q.items) - q.head
}

// snapshot returns a copy of the queued items in order.
func (q *itemQueue) snapshot() []int64 {
	out := make([]int64, q.len())
	copy(out, q.items[q.head:])
	return out
}
