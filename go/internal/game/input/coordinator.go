package input

import (
	"github.com/mcdev12/holdtight/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Listener receives the aggregate hold transitions.
type Listener interface {
	// AllHolding fires once per transition into "every player is holding".
	AllHolding()
	// HoldReleased fires when a player's owning contact lets go.
	HoldReleased(playerID int)
	// HoldChanged fires on every accepted press or release.
	HoldChanged(playerID int, holding bool)
}

// Position is an optional pointer position reported by press-move events,
// normalized to the input surface.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Coordinator tracks which contact owns each player's hold and detects the
// all-holding edge. It is not safe for concurrent use; its owner serializes calls.
type Coordinator struct {
	listener Listener

	roster    []*models.Player
	byID      map[int]*models.Player
	owners    map[int]string
	positions map[int]Position

	enabled   bool // false after scoring, every event is ignored
	accepting bool // false once the countdown expired, no new holds
	latched   bool // all-holding edge already reported
}

// NewCoordinator creates a disabled coordinator; Reset arms it for a round.
func NewCoordinator(listener Listener) *Coordinator {
	return &Coordinator{
		listener:  listener,
		byID:      make(map[int]*models.Player),
		owners:    make(map[int]string),
		positions: make(map[int]Position),
	}
}

// Reset starts a new hold-to-start gate for roster.
func (c *Coordinator) Reset(roster []*models.Player) {
	c.roster = roster
	c.byID = make(map[int]*models.Player, len(roster))
	for _, p := range roster {
		p.IsHolding = false
		c.byID[p.ID] = p
	}
	c.owners = make(map[int]string, len(roster))
	c.positions = make(map[int]Position, len(roster))
	c.enabled = true
	c.accepting = true
	c.latched = false
}

// CloseGate stops accepting new holds. Current owners may still release.
func (c *Coordinator) CloseGate() {
	c.accepting = false
}

// Disable drops every hold and ignores all input until the next Reset.
func (c *Coordinator) Disable() {
	c.enabled = false
	c.accepting = false
	c.latched = false
	for _, p := range c.roster {
		p.IsHolding = false
	}
	c.owners = make(map[int]string, len(c.roster))
}

// PressStart begins a hold for playerID driven by contactID.
func (c *Coordinator) PressStart(playerID int, contactID string) bool {
	if !c.enabled || !c.accepting {
		return false
	}
	p, ok := c.byID[playerID]
	if !ok {
		log.Debug().Int("player_id", playerID).Msg("press for unknown player ignored")
		return false
	}
	if _, owned := c.owners[playerID]; owned {
		return false
	}

	c.owners[playerID] = contactID
	p.IsHolding = true
	c.listener.HoldChanged(playerID, true)

	if !c.latched && c.AllHolding() {
		c.latched = true
		log.Debug().Int("players", len(c.roster)).Msg("all players holding")
		c.listener.AllHolding()
	}
	return true
}

// PressMove records a new position for an owned hold. It never changes hold state.
func (c *Coordinator) PressMove(playerID int, contactID string, pos Position) bool {
	if !c.owns(playerID, contactID) {
		return false
	}
	c.positions[playerID] = pos
	return true
}

// PressEnd ends the hold of playerID if contactID owns it.
func (c *Coordinator) PressEnd(playerID int, contactID string) bool {
	if !c.owns(playerID, contactID) {
		return false
	}
	delete(c.owners, playerID)
	c.byID[playerID].IsHolding = false
	c.latched = false
	c.listener.HoldChanged(playerID, false)
	c.listener.HoldReleased(playerID)
	return true
}

// AllHolding reports whether every player currently holds. An empty roster never does.
func (c *Coordinator) AllHolding() bool {
	if len(c.roster) == 0 {
		return false
	}
	for _, p := range c.roster {
		if !p.IsHolding {
			return false
		}
	}
	return true
}

// Position returns the last reported position for playerID.
func (c *Coordinator) Position(playerID int) (Position, bool) {
	pos, ok := c.positions[playerID]
	return pos, ok
}

func (c *Coordinator) owns(playerID int, contactID string) bool {
	if !c.enabled {
		return false
	}
	owner, ok := c.owners[playerID]
	return ok && owner == contactID
}
