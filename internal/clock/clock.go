// Package clock abstracts the wall clock so the task engine and the
// workflow converter can be driven with fixed times in tests.
package clock

import "time"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns time.Now.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Fixed always returns T. Step durations measured with it are zero.
type Fixed struct {
	T time.Time
}

// Now returns T.
func (f Fixed) Now() time.Time {
	return f.T
}

var (
	_ Clock = RealClock{}
	_ Clock = Fixed{}
)
