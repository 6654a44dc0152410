package countdown

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/holdtight/go/internal/timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	kind string
	n    int
}

type recorder struct {
	ch chan event
}

func newRecorder() *recorder { return &recorder{ch: make(chan event, 32)} }

func (r *recorder) CountdownStarted(seconds int) { r.ch <- event{"started", seconds} }
func (r *recorder) CountdownTick(remaining int)  { r.ch <- event{"tick", remaining} }
func (r *recorder) CountdownExpired()            { r.ch <- event{"expired", 0} }
func (r *recorder) CountdownAborted(remaining int) {
	r.ch <- event{"aborted", remaining}
}

func (r *recorder) next(t *testing.T) event {
	t.Helper()
	select {
	case e := <-r.ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for countdown event")
		return event{}
	}
}

func (r *recorder) none(t *testing.T) {
	t.Helper()
	select {
	case e := <-r.ch:
		t.Fatalf("unexpected countdown event %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

type fixture struct {
	mu  sync.Mutex
	fc  *clockwork.FakeClock
	rec *recorder
	c   *Controller
}

func newFixture(seconds int) *fixture {
	f := &fixture{fc: clockwork.NewFakeClock(), rec: newRecorder()}
	f.c = NewController(timing.Serialize(f.fc, &f.mu), f.rec, seconds, time.Second)
	return f
}

func (f *fixture) locked(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn()
}

func TestCountdownRunsToExpiry(t *testing.T) {
	f := newFixture(DefaultSeconds)

	f.locked(func() { require.True(t, f.c.Start()) })
	assert.Equal(t, event{"started", 3}, f.rec.next(t))

	f.fc.Advance(time.Second)
	assert.Equal(t, event{"tick", 2}, f.rec.next(t))
	f.fc.Advance(time.Second)
	assert.Equal(t, event{"tick", 1}, f.rec.next(t))
	f.fc.Advance(time.Second)
	assert.Equal(t, event{"expired", 0}, f.rec.next(t))

	f.locked(func() {
		assert.Equal(t, StateExpired, f.c.State())
		assert.False(t, f.c.Start(), "expired countdown does not restart until reset")
	})
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	f := newFixture(3)
	f.locked(func() {
		require.True(t, f.c.Start())
		assert.False(t, f.c.Start())
	})
	assert.Equal(t, event{"started", 3}, f.rec.next(t))
	f.rec.none(t)
}

func TestAbortStopsTicksAndAllowsRestart(t *testing.T) {
	f := newFixture(3)
	f.locked(func() { f.c.Start() })
	f.rec.next(t)

	f.fc.Advance(time.Second)
	assert.Equal(t, event{"tick", 2}, f.rec.next(t))

	f.locked(func() {
		require.True(t, f.c.Abort())
		assert.False(t, f.c.Abort())
		assert.Equal(t, StateIdle, f.c.State())
	})
	assert.Equal(t, event{"aborted", 2}, f.rec.next(t))

	f.fc.Advance(5 * time.Second)
	f.rec.none(t)

	f.locked(func() { require.True(t, f.c.Start()) })
	assert.Equal(t, event{"started", 3}, f.rec.next(t))
}

func TestLateTickAfterAbortIsDropped(t *testing.T) {
	f := newFixture(3)
	f.mu.Lock()
	f.c.Start()
	// The tick fires while we still hold the lock, then we abort before it can run.
	f.fc.Advance(time.Second)
	f.c.Abort()
	f.mu.Unlock()

	assert.Equal(t, event{"started", 3}, f.rec.next(t))
	assert.Equal(t, event{"aborted", 3}, f.rec.next(t))
	f.rec.none(t)
	f.locked(func() { assert.Equal(t, StateIdle, f.c.State()) })
}

func TestResetIsSilent(t *testing.T) {
	f := newFixture(3)
	f.locked(func() { f.c.Start() })
	f.rec.next(t)
	f.locked(func() { f.c.Reset() })
	f.fc.Advance(3 * time.Second)
	f.rec.none(t)
	f.locked(func() { assert.Equal(t, StateIdle, f.c.State()) })
}

func TestZeroLengthExpiresImmediately(t *testing.T) {
	f := newFixture(0)
	f.locked(func() { f.c.Start() })
	assert.Equal(t, event{"started", 0}, f.rec.next(t))
	assert.Equal(t, event{"expired", 0}, f.rec.next(t))
}
