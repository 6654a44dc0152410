package game

import (
	"time"

	"github.com/mcdev12/holdtight/go/internal/game/input"
	"github.com/mcdev12/holdtight/go/internal/models"
)

// Labels for the action that leaves the result screen.
const (
	ActionNextQuestion = "Next Question"
	ActionSeeResults   = "See Results"
)

// PlayerView is a player as a renderer draws it.
type PlayerView struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	TextColor string   `json:"text_color"`
	Score     float64  `json:"score"`
	Holding   bool     `json:"holding"`
	Answered  bool     `json:"answered"`
	Seconds   *float64 `json:"seconds,omitempty"`

	Position *input.Position `json:"position,omitempty"`
}

// Snapshot is the full table state at one instant.
type Snapshot struct {
	SessionID   string              `json:"session_id"`
	Phase       models.Phase        `json:"phase"`
	Round       int                 `json:"round"`
	TotalRounds int                 `json:"total_rounds"` // 0 when unbounded
	Question    string              `json:"question,omitempty"`
	Tutorial    bool                `json:"tutorial"`
	Countdown   int                 `json:"countdown,omitempty"`
	StartedAt   *time.Time          `json:"started_at,omitempty"`
	TimeoutAt   *time.Time          `json:"timeout_at,omitempty"`
	Players     []PlayerView        `json:"players"`
	Result      *models.RoundResult `json:"result,omitempty"`
	Message     string              `json:"message,omitempty"`
	NextAction  string              `json:"next_action,omitempty"`
	Match       *models.MatchResult `json:"match,omitempty"`
}

// Snapshot returns a copy of the current state.
func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		SessionID:   t.session.ID().String(),
		Phase:       t.phase(),
		Round:       t.session.Round(),
		TotalRounds: t.session.TotalRounds(),
		Countdown:   t.engine.Remaining(),
	}
	if t.started && t.match == nil {
		q := t.engine.Question()
		s.Question = q.Text
		s.Tutorial = q.Tutorial
	}
	if deadline, ok := t.engine.Deadline(); ok {
		started := t.engine.StartedAt().UTC()
		deadline = deadline.UTC()
		s.StartedAt = &started
		s.TimeoutAt = &deadline
	}

	for _, p := range t.session.Players() {
		view := PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Color:     p.Color,
			TextColor: models.TextColor(p.Color),
			Score:     p.Score,
			Holding:   p.IsHolding,
			Answered:  p.Answered(),
		}
		if p.AnswerSeconds != nil {
			seconds := *p.AnswerSeconds
			view.Seconds = &seconds
		}
		if pos, ok := t.engine.Position(p.ID); ok {
			view.Position = &pos
		}
		s.Players = append(s.Players, view)
	}

	switch {
	case t.match != nil:
		match := *t.match
		s.Match = &match
		s.Message = match.Message()
	case s.Phase == models.PhaseDisplaying:
		if result, ok := t.engine.Result(); ok {
			s.Result = &result
			s.Message = result.Message()
		}
		s.NextAction = t.nextAction()
	}
	return s
}

func (t *Table) phase() models.Phase {
	switch {
	case t.match != nil:
		return models.PhaseGameOver
	case !t.started || t.stopped:
		return models.PhaseIdle
	default:
		return t.engine.Phase()
	}
}

func (t *Table) nextAction() string {
	if t.session.LastRound() {
		return ActionSeeResults
	}
	return ActionNextQuestion
}
