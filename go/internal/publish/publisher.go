// Package publish delivers table events to logs, NATS and in-process subscribers.
package publish

import (
	"context"
	"errors"

	"github.com/mcdev12/holdtight/go/internal/events"
	"github.com/rs/zerolog/log"
)

// EventPublisher delivers one event.
type EventPublisher interface {
	Publish(ctx context.Context, event *events.Event) error
}

// Func adapts a function to EventPublisher.
type Func func(ctx context.Context, event *events.Event) error

func (f Func) Publish(ctx context.Context, event *events.Event) error {
	return f(ctx, event)
}

type discard struct{}

func (discard) Publish(context.Context, *events.Event) error { return nil }

// Discard drops every event.
var Discard EventPublisher = discard{}

// LogPublisher writes every event to the global logger at debug level.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, event *events.Event) error {
	log.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("session_id", event.SessionID).
		RawJSON("data", event.Data).
		Msg("publishing event")
	return nil
}

// Fanout publishes to every publisher and joins their errors.
type Fanout []EventPublisher

func (f Fanout) Publish(ctx context.Context, event *events.Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
