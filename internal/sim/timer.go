package sim

import "time"

// timer is a one-shot deadline queried against an injected clock.
//
// Sprites carry a handful of these (work lock, idle pause, wander interval,
// facing lock, goodbye). Keeping them as explicit armed/expired state
// instead of raw "until" timestamps makes time-travel tests trivial.
type timer struct {
	deadline time.Time
	armed    bool
}

// Arm sets the timer to fire d after now.
func (t *timer) Arm(now time.Time, d time.Duration) {
	t.deadline = now.Add(d)
	t.armed = true
}

// Armed reports whether the timer is set, expired or not.
func (t *timer) Armed() bool { return t.armed }

// Active reports whether the timer is armed and has not yet fired.
func (t *timer) Active(now time.Time) bool {
	return t.armed && now.Before(t.deadline)
}

// Expired reports whether the timer is armed and has fired.
func (t *timer) Expired(now time.Time) bool {
	return t.armed && !now.Before(t.deadline)
}

// Clear disarms the timer.
func (t *timer) Clear() { t.armed = false }
