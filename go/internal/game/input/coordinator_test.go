package input

import (
	"testing"

	"github.com/mcdev12/holdtight/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	allHolding int
	released   []int
	changes    int
}

func (r *recorder) AllHolding()               { r.allHolding++ }
func (r *recorder) HoldReleased(playerID int) { r.released = append(r.released, playerID) }
func (r *recorder) HoldChanged(_ int, _ bool) { r.changes++ }

func roster(n int) []*models.Player {
	players := make([]*models.Player, n)
	for i := range players {
		players[i] = models.NewPlayer(i+1, "")
	}
	return players
}

func TestAllHoldingFiresOnlyOnLastPress(t *testing.T) {
	rec := &recorder{}
	c := NewCoordinator(rec)
	c.Reset(roster(3))

	require.True(t, c.PressStart(1, "a"))
	assert.Equal(t, 0, rec.allHolding)
	require.True(t, c.PressStart(2, "b"))
	assert.Equal(t, 0, rec.allHolding)
	require.True(t, c.PressStart(3, "c"))
	assert.Equal(t, 1, rec.allHolding)
	assert.True(t, c.AllHolding())
}

func TestAllHoldingIsEdgeTriggered(t *testing.T) {
	rec := &recorder{}
	c := NewCoordinator(rec)
	c.Reset(roster(2))

	c.PressStart(1, "a")
	c.PressStart(2, "b")
	require.Equal(t, 1, rec.allHolding)

	// Re-entrant presses do not re-fire while still latched.
	assert.False(t, c.PressStart(1, "z"))
	assert.Equal(t, 1, rec.allHolding)

	// Releasing and re-pressing is a new transition.
	require.True(t, c.PressEnd(2, "b"))
	assert.Equal(t, []int{2}, rec.released)
	require.True(t, c.PressStart(2, "b2"))
	assert.Equal(t, 2, rec.allHolding)
}

func TestOnlyOwningContactDrivesHold(t *testing.T) {
	rec := &recorder{}
	c := NewCoordinator(rec)
	players := roster(2)
	c.Reset(players)

	require.True(t, c.PressStart(1, "touch-1"))
	assert.False(t, c.PressStart(1, "touch-2"), "second contact must not take over")
	assert.False(t, c.PressEnd(1, "touch-2"))
	assert.True(t, players[0].IsHolding)

	assert.False(t, c.PressMove(1, "touch-2", Position{X: 1}))
	assert.True(t, c.PressMove(1, "touch-1", Position{X: 0.5, Y: 0.25}))
	pos, ok := c.Position(1)
	require.True(t, ok)
	assert.Equal(t, Position{X: 0.5, Y: 0.25}, pos)
	assert.True(t, players[0].IsHolding, "moves never change hold state")

	require.True(t, c.PressEnd(1, "touch-1"))
	assert.False(t, players[0].IsHolding)
	assert.False(t, c.PressMove(1, "touch-1", Position{X: 0.9}), "released contact no longer owns the hold")
	assert.False(t, c.PressEnd(1, "touch-1"))
}

func TestUnknownPlayerIgnored(t *testing.T) {
	rec := &recorder{}
	c := NewCoordinator(rec)
	c.Reset(roster(2))
	assert.False(t, c.PressStart(9, "a"))
	assert.False(t, c.PressEnd(9, "a"))
	assert.Equal(t, 0, rec.changes)
}

func TestEmptyRosterNeverAllHolding(t *testing.T) {
	c := NewCoordinator(&recorder{})
	c.Reset(nil)
	assert.False(t, c.AllHolding())
}

func TestCloseGateKeepsOwnersButRefusesNewHolds(t *testing.T) {
	rec := &recorder{}
	c := NewCoordinator(rec)
	c.Reset(roster(2))
	c.PressStart(1, "a")
	c.PressStart(2, "b")
	c.CloseGate()

	require.True(t, c.PressEnd(1, "a"))
	assert.False(t, c.PressStart(1, "a"), "no new holds once the gate closed")
	assert.Equal(t, []int{1}, rec.released)
}

func TestDisableIgnoresEverything(t *testing.T) {
	rec := &recorder{}
	c := NewCoordinator(rec)
	players := roster(2)
	c.Reset(players)
	c.PressStart(1, "a")
	c.Disable()

	assert.False(t, players[0].IsHolding)
	assert.False(t, c.PressEnd(1, "a"))
	assert.False(t, c.PressStart(2, "b"))
	assert.Empty(t, rec.released)

	c.Reset(players)
	assert.True(t, c.PressStart(2, "b"))
}

func TestNewCoordinatorStartsDisabled(t *testing.T) {
	c := NewCoordinator(&recorder{})
	assert.False(t, c.PressStart(1, "a"))
}
