package round

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/holdtight/go/internal/game/countdown"
	"github.com/mcdev12/holdtight/go/internal/game/input"
	"github.com/mcdev12/holdtight/go/internal/game/scoring"
	"github.com/mcdev12/holdtight/go/internal/models"
	"github.com/mcdev12/holdtight/go/internal/timing"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds how long a round waits for releases.
const DefaultTimeout = 35 * time.Second

// ErrRoundInProgress is returned when a round is set up before the previous one finished.
var ErrRoundInProgress = errors.New("round in progress")

// Listener receives round lifecycle transitions.
type Listener interface {
	RoundAwaitingHolds(round int, question models.Question)
	HoldChanged(playerID int, holding bool)
	CountdownStarted(seconds int)
	CountdownTick(remaining int)
	CountdownAborted(remaining int)
	RoundStarted(round int, startedAt time.Time, deadline time.Time)
	PlayerAnswered(playerID int, seconds float64)
	RoundFinished(result models.RoundResult)
}

// Config holds the round timings.
type Config struct {
	CountdownSeconds int
	CountdownTick    time.Duration
	Timeout          time.Duration
}

// DefaultConfig returns the standard 3 second countdown and 35 second safety timeout.
func DefaultConfig() Config {
	return Config{
		CountdownSeconds: countdown.DefaultSeconds,
		CountdownTick:    countdown.DefaultTick,
		Timeout:          DefaultTimeout,
	}
}

// Engine runs one round at a time: hold gate, countdown, timed release, scoring.
// It is not safe for concurrent use. The owner must serialize calls and pass a
// clock from timing.Serialize guarded by the same lock.
type Engine struct {
	clock    timing.Clock
	listener Listener
	cfg      Config

	coordinator *input.Coordinator
	countdown   *countdown.Controller

	phase      models.Phase
	round      int
	question   models.Question
	roster     []*models.Player
	startedAt  time.Time
	active     bool // a round is timing releases
	generation uint64
	safety     clockwork.Timer
	result     *models.RoundResult
}

// WithDefaults fills every unset field from DefaultConfig.
func (c Config) WithDefaults() Config {
	if c.CountdownSeconds <= 0 {
		c.CountdownSeconds = countdown.DefaultSeconds
	}
	if c.CountdownTick <= 0 {
		c.CountdownTick = countdown.DefaultTick
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// NewEngine creates an idle engine. Unset timings take their defaults.
func NewEngine(clock timing.Clock, listener Listener, cfg Config) *Engine {
	cfg = cfg.WithDefaults()
	e := &Engine{
		clock:    clock,
		listener: listener,
		cfg:      cfg,
		phase:    models.PhaseIdle,
	}
	e.coordinator = input.NewCoordinator(hooks{e})
	e.countdown = countdown.NewController(clock, hooks{e}, cfg.CountdownSeconds, cfg.CountdownTick)
	return e
}

// Phase returns the current phase.
func (e *Engine) Phase() models.Phase {
	return e.phase
}

// Round returns the number of the round being played or last played.
func (e *Engine) Round() int {
	return e.round
}

// Question returns the question of the current round.
func (e *Engine) Question() models.Question {
	return e.question
}

// Result returns the last scored result, if any.
func (e *Engine) Result() (models.RoundResult, bool) {
	if e.result == nil {
		return models.RoundResult{}, false
	}
	return *e.result, true
}

// Remaining returns the countdown seconds left while the countdown runs.
func (e *Engine) Remaining() int {
	if e.phase != models.PhaseCountdownActive {
		return 0
	}
	return e.countdown.Remaining()
}

// Deadline returns when the safety timeout fires for the running round.
func (e *Engine) Deadline() (time.Time, bool) {
	if !e.active {
		return time.Time{}, false
	}
	return e.startedAt.Add(e.cfg.Timeout), true
}

// StartedAt returns the instant the current or last round started timing.
func (e *Engine) StartedAt() time.Time {
	return e.startedAt
}

// Position returns the last reported pointer position for playerID.
func (e *Engine) Position(playerID int) (input.Position, bool) {
	return e.coordinator.Position(playerID)
}

// Begin sets up round number round for question and waits for every player to hold.
func (e *Engine) Begin(round int, question models.Question, roster []*models.Player) error {
	switch e.phase {
	case models.PhaseIdle, models.PhaseDisplaying:
	default:
		return fmt.Errorf("%w: phase %s", ErrRoundInProgress, e.phase)
	}

	e.round = round
	e.question = question
	e.roster = roster
	e.result = nil
	for _, p := range roster {
		p.ResetRound()
	}
	e.countdown.Reset()
	e.coordinator.Reset(roster)
	e.phase = models.PhaseAwaitingHolds

	log.Info().
		Int("round", round).
		Int("players", len(roster)).
		Bool("tutorial", question.Tutorial).
		Msg("round awaiting holds")
	e.listener.RoundAwaitingHolds(round, question)
	return nil
}

// PressStart forwards a press to the input coordinator.
func (e *Engine) PressStart(playerID int, contactID string) bool {
	return e.coordinator.PressStart(playerID, contactID)
}

// PressMove forwards a pointer move to the input coordinator.
func (e *Engine) PressMove(playerID int, contactID string, pos input.Position) bool {
	return e.coordinator.PressMove(playerID, contactID, pos)
}

// PressEnd forwards a release to the input coordinator.
func (e *Engine) PressEnd(playerID int, contactID string) bool {
	return e.coordinator.PressEnd(playerID, contactID)
}

// Abandon stops every timer and input without scoring and returns to idle.
func (e *Engine) Abandon() {
	e.countdown.Reset()
	e.stopSafety()
	e.coordinator.Disable()
	e.active = false
	e.phase = models.PhaseIdle
}

// MaybeFinishRound scores the round if every player answered or force is set.
// It reports whether scoring happened on this call.
func (e *Engine) MaybeFinishRound(force bool) bool {
	if e.phase != models.PhaseRoundRunning || !e.active {
		return false
	}
	if !force && !e.allAnswered() {
		return false
	}

	// Detach everything before scoring so no late release or timeout re-enters.
	e.active = false
	e.stopSafety()
	e.coordinator.Disable()
	e.phase = models.PhaseScoring

	result := scoring.Evaluate(e.round, e.question, e.roster, force && !e.allAnswered())
	e.result = &result
	e.phase = models.PhaseDisplaying

	log.Info().
		Int("round", e.round).
		Int("answered", result.Answered).
		Int("winners", len(result.Winners())).
		Bool("forced", result.Forced).
		Msg("round finished")
	e.listener.RoundFinished(result)
	return true
}

func (e *Engine) startRound() {
	if e.active {
		return
	}
	e.coordinator.CloseGate()
	e.active = true
	e.phase = models.PhaseRoundRunning
	e.startedAt = e.clock.Now()
	for _, p := range e.roster {
		start := e.startedAt
		p.StartTime = &start
		p.AnswerSeconds = nil
	}

	e.generation++
	generation := e.generation
	e.safety = e.clock.AfterFunc(e.cfg.Timeout, func() {
		e.onSafetyTimeout(generation)
	})

	deadline := e.startedAt.Add(e.cfg.Timeout)
	log.Info().Int("round", e.round).Time("deadline", deadline).Msg("round started")
	e.listener.RoundStarted(e.round, e.startedAt, deadline)
}

func (e *Engine) onSafetyTimeout(generation uint64) {
	if generation != e.generation || !e.active {
		log.Debug().Uint64("generation", generation).Msg("stale safety timeout dropped")
		return
	}
	e.safety = nil
	log.Warn().Int("round", e.round).Msg("safety timeout reached, forcing round end")
	e.MaybeFinishRound(true)
}

func (e *Engine) recordRelease(playerID int) {
	var player *models.Player
	for _, p := range e.roster {
		if p.ID == playerID {
			player = p
			break
		}
	}
	// One-shot per round: the first release sticks.
	if player == nil || player.StartTime == nil || player.AnswerSeconds != nil {
		return
	}
	seconds := timing.ElapsedSeconds(*player.StartTime, e.clock.Now())
	player.AnswerSeconds = &seconds

	log.Debug().Int("round", e.round).Int("player_id", playerID).Float64("seconds", seconds).Msg("player answered")
	e.listener.PlayerAnswered(playerID, seconds)
	e.MaybeFinishRound(false)
}

func (e *Engine) allAnswered() bool {
	for _, p := range e.roster {
		if !p.Answered() {
			return false
		}
	}
	return true
}

func (e *Engine) stopSafety() {
	e.generation++
	if e.safety != nil {
		e.safety.Stop()
		e.safety = nil
	}
}
