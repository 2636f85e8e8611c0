package clock

import "time"

// Clock abstracts wall-clock reads so that time-sensitive policy, like the
// deposit refund cutoff, is deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// New returns a Clock backed by the system clock.
func New() Clock {
	return realClock{}
}

// Fixed is a Clock pinned to a single instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
