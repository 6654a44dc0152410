package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinPlayers    = 2
	MaxPlayers    = 8
	MaxNameLength = 25
)

// Player represents one seat at the table.
type Player struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Score float64 `json:"score"`

	// Round runtime state, cleared every time a round is set up.
	IsHolding     bool       `json:"is_holding"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	AnswerSeconds *float64   `json:"answer_seconds,omitempty"`
}

// NewPlayer builds a player with a display name and color for its seat.
func NewPlayer(id int, name string) *Player {
	return &Player{
		ID:    id,
		Name:  PlayerName(id, name),
		Color: PlayerColor(id),
	}
}

// ResetRound clears the per-round runtime fields.
func (p *Player) ResetRound() {
	p.IsHolding = false
	p.StartTime = nil
	p.AnswerSeconds = nil
}

// Answered reports whether the player released during the current round.
func (p *Player) Answered() bool {
	return p.AnswerSeconds != nil
}

// PlayerName trims name and falls back to "Player {id}" when it is empty.
// Names longer than MaxNameLength runes are cut.
func PlayerName(id int, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Sprintf("Player %d", id)
	}
	if r := []rune(name); len(r) > MaxNameLength {
		return string(r[:MaxNameLength])
	}
	return name
}

// Bright distinct colors for up to 8 players
var playerColors = []string{
	"#e53935", // red
	"#1e88e5", // blue
	"#43a047", // green
	"#fdd835", // yellow
	"#8e24aa", // purple
	"#fb8c00", // orange
	"#00acc1", // cyan
	"#7cb342", // lime
}

// PlayerColor returns the button color for a 1-based seat id.
func PlayerColor(id int) string {
	if id < 1 {
		return playerColors[0]
	}
	return playerColors[(id-1)%len(playerColors)]
}

// TextColor picks dark or light text for a "#rrggbb" background using YIQ contrast.
func TextColor(bg string) string {
	hex := strings.TrimPrefix(bg, "#")
	if len(hex) != 6 {
		return "#ffffff"
	}
	r, errR := strconv.ParseUint(hex[0:2], 16, 8)
	g, errG := strconv.ParseUint(hex[2:4], 16, 8)
	b, errB := strconv.ParseUint(hex[4:6], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return "#ffffff"
	}
	yiq := (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000
	if yiq >= 160 {
		return "#202124"
	}
	return "#ffffff"
}

// FormatScore renders whole scores without decimals and fractional ones with one.
func FormatScore(score float64) string {
	if score == float64(int64(score)) {
		return strconv.FormatInt(int64(score), 10)
	}
	return strconv.FormatFloat(score, 'f', 1, 64)
}
