package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/mcdev12/holdtight/go/internal/game"
	"github.com/rs/zerolog/log"
)

// Table is the part of *game.Table the gateway drives.
type Table interface {
	PressStart(playerID int, contactID string) bool
	PressMove(playerID int, contactID string, x, y float64) bool
	PressEnd(playerID int, contactID string) bool
	Next() error
	End() error
	Restart() error
	Snapshot() game.Snapshot
}

// Client message types.
const (
	MsgPressStart = "press_start"
	MsgPressMove  = "press_move"
	MsgPressEnd   = "press_end"
	MsgNext       = "next"
	MsgEnd        = "end"
	MsgRestart    = "restart"
)

// Server-only message types; every other server message is an events.Event.
const (
	TypeSnapshot = "Snapshot"
	TypeError    = "Error"
)

// ClientMessage is a command or raw input from a client.
type ClientMessage struct {
	Type      string  `json:"type"`
	PlayerID  int     `json:"player_id,omitempty"`
	ContactID string  `json:"contact_id,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
}

// ServerMessage carries a snapshot or an error to one client.
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ErrorData is the payload of an Error message.
type ErrorData struct {
	Request string `json:"request"`
	Message string `json:"message"`
}

func encode(typ string, data any) ([]byte, error) {
	b, err := json.Marshal(ServerMessage{Type: typ, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %w", typ, err)
	}
	return b, nil
}

// handleClientMessage applies one client message to the table.
func (c *Connection) handleClientMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.replyError("", fmt.Errorf("invalid message: %w", err))
		return
	}

	log.Debug().
		Str("connection_id", c.ID).
		Str("type", msg.Type).
		Int("player_id", msg.PlayerID).
		Msg("received client message")

	table := c.Manager.table
	contact := c.contact(msg.ContactID)
	switch msg.Type {
	case MsgPressStart:
		c.holdsMu.Lock()
		defer c.holdsMu.Unlock()
		if c.holds == nil {
			return
		}
		if table.PressStart(msg.PlayerID, contact) {
			c.holds[msg.PlayerID] = contact
		}
	case MsgPressMove:
		table.PressMove(msg.PlayerID, contact, msg.X, msg.Y)
	case MsgPressEnd:
		c.holdsMu.Lock()
		defer c.holdsMu.Unlock()
		if table.PressEnd(msg.PlayerID, contact) && c.holds != nil {
			delete(c.holds, msg.PlayerID)
		}
	case MsgNext:
		c.replyError(msg.Type, table.Next())
	case MsgEnd:
		c.replyError(msg.Type, table.End())
	case MsgRestart:
		c.replyError(msg.Type, table.Restart())
	default:
		c.replyError(msg.Type, fmt.Errorf("unknown message type %q", msg.Type))
	}
}

// contact namespaces a client contact id so two devices never share one.
func (c *Connection) contact(contactID string) string {
	return c.ID + "/" + contactID
}

func (c *Connection) replyError(request string, err error) {
	if err == nil {
		return
	}
	data, encErr := encode(TypeError, ErrorData{Request: request, Message: err.Error()})
	if encErr != nil {
		log.Error().Err(encErr).Msg("failed to encode error reply")
		return
	}
	if !c.enqueue(data) {
		log.Warn().Str("connection_id", c.ID).Msg("dropping error reply, send buffer full")
	}
}
