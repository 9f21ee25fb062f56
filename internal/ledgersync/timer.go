package ledgersync

import "time"

// Timer is a repeating interval with an elapsed-time accumulator. It is
// advanced by the simulation loop's delta and fires once per full period.
// Not safe for concurrent use; it lives on the loop goroutine.
type Timer struct {
	period  time.Duration
	elapsed time.Duration
}

// NewTimer builds a timer with the given period. A non-positive period never
// fires.
func NewTimer(period time.Duration) *Timer {
	return &Timer{period: period}
}

// Tick accumulates dt and reports whether the period elapsed. On fire the
// accumulator resets to zero.
func (t *Timer) Tick(dt time.Duration) bool {
	if t == nil || t.period <= 0 {
		return false
	}
	t.elapsed += dt
	if t.elapsed < t.period {
		return false
	}
	t.elapsed = 0
	return true
}

// Period reports the configured interval.
func (t *Timer) Period() time.Duration {
	if t == nil {
		return 0
	}
	return t.period
}
