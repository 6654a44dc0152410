package models

import (
	"fmt"
	"strings"
)

// Phase defines where a round is in its lifecycle.
type Phase string

const (
	PhaseIdle            Phase = "IDLE"
	PhaseAwaitingHolds   Phase = "AWAITING_HOLDS"
	PhaseCountdownActive Phase = "COUNTDOWN_ACTIVE"
	PhaseRoundRunning    Phase = "ROUND_RUNNING"
	PhaseScoring         Phase = "SCORING"
	PhaseDisplaying      Phase = "DISPLAYING"
	PhaseGameOver        Phase = "GAME_OVER"
)

// Outcome is the win/lose marking of a player for one round.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// PlayerResult is one player's line in a scored round.
type PlayerResult struct {
	PlayerID  int      `json:"player_id"`
	Name      string   `json:"name"`
	Answered  bool     `json:"answered"`
	Seconds   *float64 `json:"seconds,omitempty"`
	Diff      *float64 `json:"diff,omitempty"`
	RankGroup int      `json:"rank_group"` // 1-based; 0 for players who did not answer
	Points    int      `json:"points"`
	Total     float64  `json:"total"`
	Outcome   Outcome  `json:"outcome"`
}

// RoundResult is the scored outcome of one round.
type RoundResult struct {
	Round    int            `json:"round"`
	Question Question       `json:"question"`
	Answered int            `json:"answered"`
	Groups   [][]int        `json:"groups"`  // player ids per tie group, best first
	Players  []PlayerResult `json:"players"` // answered players by rank, then the rest
	Forced   bool           `json:"forced"`  // finished by the safety timeout
}

// Target returns the number of seconds players were aiming for.
func (r RoundResult) Target() int {
	return r.Question.Answer
}

// NoValidAnswers reports a round in which nobody released in time.
func (r RoundResult) NoValidAnswers() bool {
	return r.Answered == 0
}

// Winners returns the players in the first tie group.
func (r RoundResult) Winners() []PlayerResult {
	return r.group(1)
}

// Player looks up a player's line by id.
func (r RoundResult) Player(id int) (PlayerResult, bool) {
	for _, p := range r.Players {
		if p.PlayerID == id {
			return p, true
		}
	}
	return PlayerResult{}, false
}

func (r RoundResult) group(rank int) []PlayerResult {
	var out []PlayerResult
	for _, p := range r.Players {
		if p.RankGroup == rank {
			out = append(out, p)
		}
	}
	return out
}

// Message renders the round summary shown between rounds.
func (r RoundResult) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Correct answer: %d\n", r.Target())

	first := r.Winners()
	second := r.group(2)
	switch {
	case len(first) == 0:
		b.WriteString("No valid answers.")
	default:
		fmt.Fprintf(&b, "%s %s this round! (%d pts)", joinNames(first), winVerb(len(first)), first[0].Points)
		if len(second) > 0 {
			fmt.Fprintf(&b, "\nSecond: %s (%d pts)", joinNames(second), second[0].Points)
		}
	}

	b.WriteString("\n\nRound points and totals:")
	for _, p := range r.Players {
		fmt.Fprintf(&b, "\n%s: +%d (Total %s)", p.Name, p.Points, FormatScore(p.Total))
	}
	return b.String()
}

func joinNames(players []PlayerResult) string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func winVerb(n int) string {
	if n > 1 {
		return "win"
	}
	return "wins"
}
