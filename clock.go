package digo

import "time"

// Clock is the external time-keeping capability consumed by the observer
// pipeline to stamp Resolved event durations (spec §1: "An external
// clock... assumed available through small capability interfaces but... not
// itself specified").
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock, backed by the real wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
