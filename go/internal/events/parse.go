package events

import (
	"encoding/json"
	"fmt"
)

// ParsePayload decodes the event data into the payload struct for its type.
func ParsePayload(event *Event) (any, error) {
	switch event.Type {
	case TypeMatchStarted:
		return decode[MatchStartedPayload](event)
	case TypeRoundReady:
		return decode[RoundReadyPayload](event)
	case TypeHoldChanged:
		return decode[HoldChangedPayload](event)
	case TypeCountdownStarted:
		return decode[CountdownStartedPayload](event)
	case TypeCountdownTick:
		return decode[CountdownTickPayload](event)
	case TypeCountdownAborted:
		return decode[CountdownAbortedPayload](event)
	case TypeRoundStarted:
		return decode[RoundStartedPayload](event)
	case TypePlayerAnswered:
		return decode[PlayerAnsweredPayload](event)
	case TypeRoundEnded:
		return decode[RoundEndedPayload](event)
	case TypeQuestionSkipped:
		return decode[QuestionSkippedPayload](event)
	case TypeGameEnded:
		return decode[GameEndedPayload](event)
	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
}

func decode[T any](event *Event) (T, error) {
	var payload T
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return payload, fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
	}
	return payload, nil
}
