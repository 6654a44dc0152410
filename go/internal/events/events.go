// Package events defines the lifecycle events a table emits and their payloads.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for every table event.
type Event struct {
	ID        string          `json:"id"`         // Event UUID
	SessionID string          `json:"session_id"` // Session UUID
	Type      Type            `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Type names an event.
type Type string

const (
	TypeMatchStarted     Type = "MatchStarted"
	TypeRoundReady       Type = "RoundReady"
	TypeHoldChanged      Type = "HoldChanged"
	TypeCountdownStarted Type = "CountdownStarted"
	TypeCountdownTick    Type = "CountdownTick"
	TypeCountdownAborted Type = "CountdownAborted"
	TypeRoundStarted     Type = "RoundStarted"
	TypePlayerAnswered   Type = "PlayerAnswered"
	TypeRoundEnded       Type = "RoundEnded"
	TypeQuestionSkipped  Type = "QuestionSkipped"
	TypeGameEnded        Type = "GameEnded"
)

// Types lists every event type in lifecycle order.
var Types = []Type{
	TypeMatchStarted,
	TypeRoundReady,
	TypeHoldChanged,
	TypeCountdownStarted,
	TypeCountdownTick,
	TypeCountdownAborted,
	TypeRoundStarted,
	TypePlayerAnswered,
	TypeRoundEnded,
	TypeQuestionSkipped,
	TypeGameEnded,
}

// New wraps payload in an envelope with a fresh id.
func New(sessionID uuid.UUID, typ Type, at time.Time, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", typ, err)
	}
	return &Event{
		ID:        uuid.NewString(),
		SessionID: sessionID.String(),
		Type:      typ,
		Timestamp: at.UTC(),
		Data:      data,
	}, nil
}
