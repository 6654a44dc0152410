package events

import (
	"time"

	"github.com/mcdev12/holdtight/go/internal/models"
)

// Seat describes one player for renderers.
type Seat struct {
	PlayerID  int    `json:"player_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	TextColor string `json:"text_color"`
}

// MatchStartedPayload is the payload for a MatchStarted event
type MatchStartedPayload struct {
	Players     []Seat    `json:"players"`
	TotalRounds int       `json:"total_rounds"` // 0 when unbounded
	StartedAt   time.Time `json:"started_at"`
}

// RoundReadyPayload is the payload for a RoundReady event
type RoundReadyPayload struct {
	Round       int    `json:"round"`
	TotalRounds int    `json:"total_rounds"`
	Question    string `json:"question"`
	Tutorial    bool   `json:"tutorial"`
}

// HoldChangedPayload is the payload for a HoldChanged event
type HoldChangedPayload struct {
	Round    int  `json:"round"`
	PlayerID int  `json:"player_id"`
	Holding  bool `json:"holding"`
}

// CountdownStartedPayload is the payload for a CountdownStarted event
type CountdownStartedPayload struct {
	Round   int `json:"round"`
	Seconds int `json:"seconds"`
}

// CountdownTickPayload is the payload for a CountdownTick event
type CountdownTickPayload struct {
	Round     int `json:"round"`
	Remaining int `json:"remaining"`
}

// CountdownAbortedPayload is the payload for a CountdownAborted event
type CountdownAbortedPayload struct {
	Round     int `json:"round"`
	Remaining int `json:"remaining"`
}

// RoundStartedPayload is the payload for a RoundStarted event
type RoundStartedPayload struct {
	Round     int       `json:"round"`
	StartedAt time.Time `json:"started_at"`
	TimeoutAt time.Time `json:"timeout_at"`
}

// PlayerAnsweredPayload is the payload for a PlayerAnswered event
type PlayerAnsweredPayload struct {
	Round    int     `json:"round"`
	PlayerID int     `json:"player_id"`
	Seconds  float64 `json:"seconds"`
}

// RoundEndedPayload is the payload for a RoundEnded event
type RoundEndedPayload struct {
	Result     models.RoundResult `json:"result"`
	Message    string             `json:"message"`
	NextAction string             `json:"next_action"`
}

// QuestionSkippedPayload is the payload for a QuestionSkipped event
type QuestionSkippedPayload struct {
	Round    int    `json:"round"`
	Question string `json:"question"`
	Answer   int    `json:"answer"`
	Reason   string `json:"reason"`
}

// GameEndedPayload is the payload for a GameEnded event
type GameEndedPayload struct {
	Result  models.MatchResult `json:"result"`
	Message string             `json:"message"`
}
