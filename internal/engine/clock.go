package engine

// Clock is a monotonic logical clock for throw events.
//
// Every throw is stamped with a strictly increasing seq. Replaying the same
// run produces the same seq values, which is what golden traces compare.
//
// Clock is owned by the engine's control loop and is not safe for
// concurrent use.
type Clock struct {
	seq int64
}

// NewClock creates a clock whose first Next() returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that resumes after start.
func NewClockAt(start int64) *Clock {
	return &Clock{seq: start}
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	c.seq++
	return c.seq
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq
}
