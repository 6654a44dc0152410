// Package game wires a session, the round engine and an event publisher into
// a single table that external input and renderers talk to.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/mcdev12/holdtight/go/internal/events"
	"github.com/mcdev12/holdtight/go/internal/game/input"
	"github.com/mcdev12/holdtight/go/internal/game/round"
	"github.com/mcdev12/holdtight/go/internal/game/session"
	"github.com/mcdev12/holdtight/go/internal/models"
	"github.com/mcdev12/holdtight/go/internal/publish"
	"github.com/mcdev12/holdtight/go/internal/timing"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNotDisplaying is returned by Next and End outside the result screen.
	ErrNotDisplaying = errors.New("round result not displayed")
	ErrNotStarted    = session.ErrNotStarted
	ErrGameOver      = session.ErrGameOver
	ErrStarted       = errors.New("table already started")
	ErrStopped       = errors.New("table stopped")
)

// Config configures a table.
type Config struct {
	Session session.Config
	Round   round.Config
}

// Option customises a table at construction.
type Option func(*Table)

// WithClock sets the clock timers run on.
func WithClock(clock timing.Clock) Option {
	return func(t *Table) { t.base = clock }
}

// WithRand sets the source used to shuffle questions.
func WithRand(rng *rand.Rand) Option {
	return func(t *Table) { t.rng = rng }
}

// WithPublisher sets where events go. A nil publisher discards them.
func WithPublisher(p publish.EventPublisher) Option {
	return func(t *Table) { t.publisher = p }
}

// Table runs matches for one set of players. All methods are safe for
// concurrent use; every entry point and timer callback runs under one lock.
type Table struct {
	mu sync.Mutex

	cfg       Config
	pool      []models.Question
	base      timing.Clock
	clock     timing.Clock
	rng       *rand.Rand
	publisher publish.EventPublisher

	ctx     context.Context
	session *session.Session
	engine  *round.Engine
	started bool
	stopped bool
	match   *models.MatchResult
}

// NewTable validates cfg and pool and seats the players.
func NewTable(cfg Config, pool []models.Question, opts ...Option) (*Table, error) {
	cfg.Round = cfg.Round.WithDefaults()
	t := &Table{
		cfg:  cfg,
		pool: append([]models.Question(nil), pool...),
		ctx:  context.Background(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.base == nil {
		t.base = timing.RealClock()
	}
	if t.publisher == nil {
		t.publisher = publish.Discard
	}
	t.clock = timing.Serialize(t.base, &t.mu)
	t.engine = round.NewEngine(t.clock, tableHooks{t}, cfg.Round)

	s, err := session.New(cfg.Session, t.pool, t.rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	t.session = s
	return t, nil
}

// Start opens the match with the tutorial round.
func (t *Table) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return ErrStarted
	}
	t.ctx = context.WithoutCancel(ctx)
	return t.startLocked()
}

func (t *Table) startLocked() error {
	draw, err := t.session.Start()
	if err != nil {
		return err
	}
	t.started = true
	t.stopped = false
	t.match = nil

	seats := make([]events.Seat, 0, len(t.session.Players()))
	for _, p := range t.session.Players() {
		seats = append(seats, seat(p))
	}
	log.Info().
		Str("session_id", t.session.ID().String()).
		Int("players", len(seats)).
		Int("total_rounds", t.session.TotalRounds()).
		Msg("match started")
	t.emit(events.TypeMatchStarted, events.MatchStartedPayload{
		Players:     seats,
		TotalRounds: t.session.TotalRounds(),
		StartedAt:   t.clock.Now().UTC(),
	})

	return t.engine.Begin(draw.Round, draw.Question, t.session.Players())
}

// PressStart reports a finger or pointer going down on a player's button.
func (t *Table) PressStart(playerID int, contactID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.PressStart(playerID, contactID)
}

// PressMove reports a contact moving while it holds a button.
func (t *Table) PressMove(playerID int, contactID string, x, y float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.PressMove(playerID, contactID, input.Position{X: x, Y: y})
}

// PressEnd reports a contact lifting off a player's button.
func (t *Table) PressEnd(playerID int, contactID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.PressEnd(playerID, contactID)
}

// Next moves on from a displayed result: to the next round, or to the final
// standings after the last round.
func (t *Table) Next() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready(); err != nil {
		return err
	}
	if t.engine.Phase() != models.PhaseDisplaying {
		return fmt.Errorf("%w: phase %s", ErrNotDisplaying, t.engine.Phase())
	}

	draw, err := t.session.Advance()
	skipRound := draw.Round
	if err != nil {
		skipRound = t.session.Round() + 1
	}
	for _, skip := range draw.Skipped {
		t.emit(events.TypeQuestionSkipped, events.QuestionSkippedPayload{
			Round:    skipRound,
			Question: skip.Question.Text,
			Answer:   skip.Question.Answer,
			Reason:   skip.Err.Error(),
		})
	}
	if err != nil {
		return err
	}
	if draw.Done {
		t.finishLocked()
		return nil
	}
	return t.engine.Begin(draw.Round, draw.Question, t.session.Players())
}

// End finishes the match from the result screen, before the round bound is
// reached. Unbounded matches end this way.
func (t *Table) End() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready(); err != nil {
		return err
	}
	if t.engine.Phase() != models.PhaseDisplaying {
		return fmt.Errorf("%w: phase %s", ErrNotDisplaying, t.engine.Phase())
	}
	t.session.Finish()
	t.finishLocked()
	return nil
}

// Restart drops the current match and starts a new one with the same players
// and settings.
func (t *Table) Restart() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := session.New(t.cfg.Session, t.pool, t.rng)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	t.engine.Abandon()
	log.Info().
		Str("previous_session_id", t.session.ID().String()).
		Str("session_id", s.ID().String()).
		Msg("restarting match")
	t.session = s
	return t.startLocked()
}

// Stop cancels every pending timer and ignores input until Restart.
func (t *Table) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.engine.Abandon()
	t.stopped = true
	log.Info().Str("session_id", t.session.ID().String()).Msg("table stopped")
}

func (t *Table) ready() error {
	switch {
	case !t.started:
		return ErrNotStarted
	case t.match != nil:
		return ErrGameOver
	case t.stopped:
		return ErrStopped
	}
	return nil
}

func (t *Table) finishLocked() {
	t.engine.Abandon()
	result := t.session.Result()
	t.match = &result

	log.Info().
		Str("session_id", t.session.ID().String()).
		Int("rounds", result.Rounds).
		Int("winners", len(result.Winners)).
		Bool("tie", result.Tie).
		Msg("match ended")
	t.emit(events.TypeGameEnded, events.GameEndedPayload{Result: result, Message: result.Message()})
}

// emit publishes synchronously under the table lock. Failures are logged and
// never fail the transition.
func (t *Table) emit(typ events.Type, payload any) {
	event, err := events.New(t.session.ID(), typ, t.clock.Now(), payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(typ)).Msg("failed to build event")
		return
	}
	if err := t.publisher.Publish(t.ctx, event); err != nil {
		log.Warn().
			Err(err).
			Str("event_id", event.ID).
			Str("event_type", string(typ)).
			Msg("failed to publish event")
	}
}

func seat(p *models.Player) events.Seat {
	return events.Seat{
		PlayerID:  p.ID,
		Name:      p.Name,
		Color:     p.Color,
		TextColor: models.TextColor(p.Color),
	}
}
