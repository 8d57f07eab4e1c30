package sim

import "time"

// Clock provides a testable time source.
//
// The engine never calls time.Now directly; all timer arithmetic goes
// through the injected Clock so tests can time-travel deterministically.
type Clock interface {
	Now() time.Time
}

// RealClock is a production Clock implementation backed by time.Now.
type RealClock struct{}

// Now implements Clock.
func (RealClock) Now() time.Time { return time.Now() }
