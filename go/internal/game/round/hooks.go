package round

import "github.com/mcdev12/holdtight/go/internal/models"

// hooks adapts the engine to the coordinator and countdown listener interfaces
// without exporting those callbacks on Engine itself.
type hooks struct {
	e *Engine
}

func (h hooks) AllHolding() {
	if h.e.phase != models.PhaseAwaitingHolds {
		return
	}
	// Set the phase first: a zero-length countdown expires inside Start.
	h.e.phase = models.PhaseCountdownActive
	if !h.e.countdown.Start() {
		h.e.phase = models.PhaseAwaitingHolds
	}
}

func (h hooks) HoldReleased(playerID int) {
	switch h.e.phase {
	case models.PhaseCountdownActive:
		h.e.countdown.Abort()
	case models.PhaseRoundRunning:
		h.e.recordRelease(playerID)
	}
}

func (h hooks) HoldChanged(playerID int, holding bool) {
	h.e.listener.HoldChanged(playerID, holding)
}

func (h hooks) CountdownStarted(seconds int) {
	h.e.listener.CountdownStarted(seconds)
}

func (h hooks) CountdownTick(remaining int) {
	h.e.listener.CountdownTick(remaining)
}

func (h hooks) CountdownExpired() {
	if h.e.phase != models.PhaseCountdownActive {
		return
	}
	h.e.startRound()
}

func (h hooks) CountdownAborted(remaining int) {
	if h.e.phase == models.PhaseCountdownActive {
		h.e.phase = models.PhaseAwaitingHolds
	}
	h.e.listener.CountdownAborted(remaining)
}
