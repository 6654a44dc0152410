package countdown

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/holdtight/go/internal/timing"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultSeconds is the number of ticks before a round starts.
	DefaultSeconds = 3
	// DefaultTick is the interval between ticks.
	DefaultTick = time.Second
)

// State defines the countdown lifecycle.
type State string

const (
	StateIdle    State = "IDLE"
	StateRunning State = "RUNNING"
	StateExpired State = "EXPIRED"
)

// Listener receives countdown transitions.
type Listener interface {
	CountdownStarted(seconds int)
	CountdownTick(remaining int)
	CountdownExpired()
	CountdownAborted(remaining int)
}

// Controller runs one countdown at a time. It is not safe for concurrent use;
// pass a clock from timing.Serialize so tick callbacks share the owner's lock.
type Controller struct {
	clock    timing.Clock
	listener Listener
	seconds  int
	tick     time.Duration

	state      State
	remaining  int
	generation uint64
	timer      clockwork.Timer
}

// NewController creates an idle countdown of seconds ticks, one every tick.
func NewController(clock timing.Clock, listener Listener, seconds int, tick time.Duration) *Controller {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Controller{
		clock:    clock,
		listener: listener,
		seconds:  seconds,
		tick:     tick,
		state:    StateIdle,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Remaining returns the seconds left while running.
func (c *Controller) Remaining() int {
	return c.remaining
}

// Start begins the countdown. It is a no-op unless the controller is idle.
func (c *Controller) Start() bool {
	if c.state != StateIdle {
		return false
	}
	c.generation++
	c.state = StateRunning
	c.remaining = c.seconds

	log.Debug().Int("seconds", c.seconds).Uint64("generation", c.generation).Msg("countdown started")
	c.listener.CountdownStarted(c.remaining)

	if c.remaining <= 0 {
		c.expire()
		return true
	}
	c.schedule(c.generation)
	return true
}

// Abort cancels a running countdown and returns to idle.
func (c *Controller) Abort() bool {
	if c.state != StateRunning {
		return false
	}
	c.stopTimer()
	c.generation++
	c.state = StateIdle

	log.Debug().Int("remaining", c.remaining).Msg("countdown aborted")
	c.listener.CountdownAborted(c.remaining)
	return true
}

// Reset stops any pending tick and returns to idle without notifying the listener.
func (c *Controller) Reset() {
	c.stopTimer()
	c.generation++
	c.state = StateIdle
	c.remaining = 0
}

func (c *Controller) schedule(generation uint64) {
	c.timer = c.clock.AfterFunc(c.tick, func() {
		c.onTick(generation)
	})
}

func (c *Controller) onTick(generation uint64) {
	// A tick armed before an abort or reset may still be delivered.
	if generation != c.generation || c.state != StateRunning {
		log.Debug().Uint64("generation", generation).Msg("stale countdown tick dropped")
		return
	}
	c.timer = nil
	c.remaining--
	if c.remaining <= 0 {
		c.expire()
		return
	}
	// Arm the next tick before notifying so it is pending once listeners see this one.
	c.schedule(generation)
	c.listener.CountdownTick(c.remaining)
}

func (c *Controller) expire() {
	c.timer = nil
	c.remaining = 0
	c.state = StateExpired
	log.Debug().Msg("countdown expired")
	c.listener.CountdownExpired()
}

func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
