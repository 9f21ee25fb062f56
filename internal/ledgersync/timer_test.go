package ledgersync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerFiresOncePerPeriod(t *testing.T) {
	timer := NewTimer(time.Second)

	assert.False(t, timer.Tick(400*time.Millisecond))
	assert.False(t, timer.Tick(400*time.Millisecond))
	assert.True(t, timer.Tick(400*time.Millisecond))
	// The accumulator resets to zero on fire; the overshoot is not carried.
	assert.False(t, timer.Tick(900*time.Millisecond))
	assert.True(t, timer.Tick(100*time.Millisecond))
}

func TestTimerFiresOnExactBoundary(t *testing.T) {
	timer := NewTimer(time.Second)
	assert.True(t, timer.Tick(time.Second))
	assert.True(t, timer.Tick(time.Second))
}

func TestTimerZeroPeriodNeverFires(t *testing.T) {
	timer := NewTimer(0)
	assert.False(t, timer.Tick(time.Hour))
}
