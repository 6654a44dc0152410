package game

import (
	"time"

	"github.com/mcdev12/holdtight/go/internal/events"
	"github.com/mcdev12/holdtight/go/internal/models"
)

// tableHooks turns round engine callbacks into published events. The engine
// only calls it with the table lock held.
type tableHooks struct {
	t *Table
}

func (h tableHooks) RoundAwaitingHolds(round int, question models.Question) {
	h.t.emit(events.TypeRoundReady, events.RoundReadyPayload{
		Round:       round,
		TotalRounds: h.t.session.TotalRounds(),
		Question:    question.Text,
		Tutorial:    question.Tutorial,
	})
}

func (h tableHooks) HoldChanged(playerID int, holding bool) {
	h.t.emit(events.TypeHoldChanged, events.HoldChangedPayload{
		Round:    h.t.engine.Round(),
		PlayerID: playerID,
		Holding:  holding,
	})
}

func (h tableHooks) CountdownStarted(seconds int) {
	h.t.emit(events.TypeCountdownStarted, events.CountdownStartedPayload{
		Round:   h.t.engine.Round(),
		Seconds: seconds,
	})
}

func (h tableHooks) CountdownTick(remaining int) {
	h.t.emit(events.TypeCountdownTick, events.CountdownTickPayload{
		Round:     h.t.engine.Round(),
		Remaining: remaining,
	})
}

func (h tableHooks) CountdownAborted(remaining int) {
	h.t.emit(events.TypeCountdownAborted, events.CountdownAbortedPayload{
		Round:     h.t.engine.Round(),
		Remaining: remaining,
	})
}

func (h tableHooks) RoundStarted(round int, startedAt, deadline time.Time) {
	h.t.emit(events.TypeRoundStarted, events.RoundStartedPayload{
		Round:     round,
		StartedAt: startedAt.UTC(),
		TimeoutAt: deadline.UTC(),
	})
}

func (h tableHooks) PlayerAnswered(playerID int, seconds float64) {
	h.t.emit(events.TypePlayerAnswered, events.PlayerAnsweredPayload{
		Round:    h.t.engine.Round(),
		PlayerID: playerID,
		Seconds:  seconds,
	})
}

func (h tableHooks) RoundFinished(result models.RoundResult) {
	h.t.session.RecordRound(result)
	h.t.emit(events.TypeRoundEnded, events.RoundEndedPayload{
		Result:     result,
		Message:    result.Message(),
		NextAction: h.t.nextAction(),
	})
}
