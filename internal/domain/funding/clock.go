package funding

import "time"

// Clock is the ledger time oracle. Deadlines are compared against this, never
// against wall-clock reads inside an operation.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
