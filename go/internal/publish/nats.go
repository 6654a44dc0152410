package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/holdtight/go/internal/events"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultSubjectPrefix is prepended to the event type to build the subject.
	DefaultSubjectPrefix = "holdtight.events"

	natsMaxReconnects = -1
	natsReconnectWait = 2 * time.Second
)

// MsgPublisher is the part of *nats.Conn the publisher needs.
type MsgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSPublisher publishes events to core NATS subjects "<prefix>.<Type>".
type NATSPublisher struct {
	conn   MsgPublisher
	prefix string
}

// NewNATSPublisher wraps an open connection.
func NewNATSPublisher(conn MsgPublisher, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(typ events.Type) string {
	return fmt.Sprintf("%s.%s", p.prefix, typ)
}

func (p *NATSPublisher) Publish(ctx context.Context, event *events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := nats.NewMsg(p.Subject(event.Type))
	msg.Header.Set(nats.MsgIdHdr, event.ID)
	msg.Header.Set("Session-Id", event.SessionID)
	msg.Data = body

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	log.Debug().Str("subject", msg.Subject).Int("size", len(body)).Msg("published to NATS")
	return nil
}

// Connect opens a NATS connection that reconnects forever.
func Connect(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("holdtight"),
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}
