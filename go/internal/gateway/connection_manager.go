// Package gateway connects browsers and touch screens to a table over
// WebSockets: raw input in, events and snapshots out.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/holdtight/go/internal/events"
	"github.com/rs/zerolog/log"
)

// ConnectionManager tracks WebSocket connections to one table and fans
// events out to them.
type ConnectionManager struct {
	table Table

	connections map[*Connection]bool
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan broadcast
	registerCh  chan *Connection
	done        chan struct{}

	// published numbers events in the order the table emitted them.
	published atomic.Uint64
}

// broadcast is one encoded event and its publish sequence number.
type broadcast struct {
	seq  uint64
	data []byte
}

// ErrManagerStopped is returned when a connection arrives after Start returned.
var ErrManagerStopped = errors.New("connection manager stopped")

// Connection is one connected client.
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ConnectedAt time.Time

	// Events up to this sequence number are already in the connection's snapshot.
	// Only the broadcast loop reads or writes it.
	after uint64

	// Holds started from this connection, by player, with their namespaced contact.
	holdsMu sync.Mutex
	holds   map[int]string
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBuffer:      256,
		CheckOrigin: func(r *http.Request) bool {
			// Players join from devices on the same LAN.
			return true
		},
	}
}

// NewConnectionManager creates a manager for table.
func NewConnectionManager(table Table, config ConnectionConfig) *ConnectionManager {
	if config.SendBuffer <= 0 {
		config.SendBuffer = 256
	}
	return &ConnectionManager{
		table:       table,
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan broadcast, 1000),
		registerCh:  make(chan *Connection),
		done:        make(chan struct{}),
	}
}

// Start admits connections and processes broadcasts until ctx is done.
// Connections can only be upgraded while Start is running.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")
	defer close(cm.done)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			cm.closeAll()
			return
		case conn := <-cm.registerCh:
			cm.admit(conn)
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// Publish queues event for every connection. It never blocks: the table
// calls it with its lock held.
func (cm *ConnectionManager) Publish(_ context.Context, event *events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for broadcast: %w", err)
	}
	select {
	case cm.broadcastCh <- broadcast{seq: cm.published.Add(1), data: data}:
		return nil
	default:
		log.Warn().Str("event_type", string(event.Type)).Msg("broadcast channel full, dropping message")
		return fmt.Errorf("broadcast channel full, dropped %s", event.Type)
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and hands it to
// the broadcast loop, which sends the current snapshot before any event.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBuffer),
		Manager:     cm,
		ConnectedAt: time.Now(),
		holds:       make(map[int]string),
	}

	select {
	case cm.registerCh <- connection:
	case <-cm.done:
		conn.Close()
		return ErrManagerStopped
	}

	log.Info().
		Str("connection_id", connection.ID).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket connection established")
	return nil
}

// Count returns the number of open connections.
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

// admit sends conn a snapshot and registers it. Events the snapshot already
// reflects are skipped for conn; every later event follows the snapshot.
func (cm *ConnectionManager) admit(conn *Connection) {
	var (
		snapshot []byte
		err      error
	)
	// The table publishes while holding the lock Snapshot takes, so an
	// unchanged counter around Snapshot pins exactly which events it covers.
	for attempt := 0; attempt < 3; attempt++ {
		conn.after = cm.published.Load()
		snapshot, err = encode(TypeSnapshot, cm.table.Snapshot())
		if err != nil || cm.published.Load() == conn.after {
			break
		}
	}
	if err != nil {
		log.Error().Err(err).Str("connection_id", conn.ID).Msg("failed to encode snapshot")
		conn.Conn.Close()
		return
	}

	conn.Send <- snapshot
	cm.registerConnection(conn)

	go conn.writePump()
	go conn.readPump()
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Int("total_connections", len(cm.connections)).
		Msg("connection registered")
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	_, exists := cm.connections[conn]
	if exists {
		delete(cm.connections, conn)
		close(conn.Send)
	}
	cm.mu.Unlock()

	if exists {
		conn.releaseHolds()
		log.Info().Str("connection_id", conn.ID).Msg("connection unregistered")
	}
}

func (cm *ConnectionManager) closeAll() {
	cm.mu.RLock()
	conns := make([]*Connection, 0, len(cm.connections))
	for conn := range cm.connections {
		conns = append(conns, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range conns {
		cm.unregisterConnection(conn)
		conn.Conn.Close()
	}
}

func (cm *ConnectionManager) handleBroadcast(message broadcast) {
	cm.mu.RLock()
	targets := make([]*Connection, 0, len(cm.connections))
	for conn := range cm.connections {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range targets {
		if message.seq <= conn.after {
			continue
		}
		if !conn.enqueue(message.data) {
			log.Warn().Str("connection_id", conn.ID).Msg("connection send buffer full, closing connection")
			cm.unregisterConnection(conn)
			conn.Conn.Close()
		}
	}

	log.Debug().Int("connections", len(targets)).Msg("event broadcasted")
}

// enqueue reports false when the send buffer is full or already closed.
func (c *Connection) enqueue(message []byte) (ok bool) {
	c.Manager.mu.RLock()
	defer c.Manager.mu.RUnlock()
	if !c.Manager.connections[c] {
		return true
	}
	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("unexpected WebSocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// releaseHolds lifts every hold this connection still owns. Later presses
// from the connection are ignored.
func (c *Connection) releaseHolds() {
	c.holdsMu.Lock()
	holds := c.holds
	c.holds = nil
	c.holdsMu.Unlock()

	for playerID, contactID := range holds {
		c.Manager.table.PressEnd(playerID, contactID)
	}
}
