package timing

import (
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Precision is the number of decimal places hold durations are rounded to.
const Precision = 2

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) clockwork.Timer
}

// RealClock returns the wall clock.
func RealClock() Clock {
	return clockwork.NewRealClock()
}

// ElapsedSeconds returns the span between start and end in seconds, measured
// in whole milliseconds and rounded to Precision decimal places.
// A release observed before its start instant counts as zero.
func ElapsedSeconds(start, end time.Time) float64 {
	ms := end.Sub(start).Milliseconds()
	if ms <= 0 {
		return 0
	}
	step := math.Pow10(3 - Precision)
	return math.Round(float64(ms)/step) / math.Pow10(Precision)
}

// serialClock runs every timer callback while holding mu.
type serialClock struct {
	Clock
	mu *sync.Mutex
}

// Serialize wraps clock so that AfterFunc callbacks run under mu, the same lock
// that guards every other entry point of the owner. Callbacks that were already
// waiting on the lock when their timer was stopped still run, so they must check
// a generation or phase before mutating anything.
func Serialize(clock Clock, mu *sync.Mutex) Clock {
	return serialClock{Clock: clock, mu: mu}
}

func (c serialClock) AfterFunc(d time.Duration, f func()) clockwork.Timer {
	return c.Clock.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		f()
	})
}
