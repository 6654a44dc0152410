package models

import (
	"fmt"
	"strings"
)

// Standing is a player's place in the final table.
type Standing struct {
	Rank     int     `json:"rank"`
	PlayerID int     `json:"player_id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
}

// MatchResult is reported once the last round of a match has been played.
type MatchResult struct {
	Rounds    int        `json:"rounds"`
	TopScore  float64    `json:"top_score"`
	Winners   []Standing `json:"winners"`
	Standings []Standing `json:"standings"` // best score first
	Tie       bool       `json:"tie"`
}

// Message renders the game-over summary.
func (m MatchResult) Message() string {
	var b strings.Builder
	b.WriteString("Game Over!\n\n")
	switch {
	case len(m.Winners) == 1:
		fmt.Fprintf(&b, "%s wins with %s points!", m.Winners[0].Name, FormatScore(m.Winners[0].Score))
	case len(m.Winners) > 1:
		names := make([]string, len(m.Winners))
		for i, w := range m.Winners {
			names[i] = w.Name
		}
		fmt.Fprintf(&b, "Tie between %s with %s points!", strings.Join(names, ", "), FormatScore(m.TopScore))
	default:
		b.WriteString("No players.")
	}

	b.WriteString("\n\nFinal Scores:")
	for _, s := range m.Standings {
		fmt.Fprintf(&b, "\n%s: %s", s.Name, FormatScore(s.Score))
	}
	return b.String()
}
