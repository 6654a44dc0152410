package scoring

import (
	"math"
	"sort"

	"github.com/mcdev12/holdtight/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Epsilon is the largest diff change still treated as a tie.
const Epsilon = 1e-6

// Entry is one player's measured answer; Seconds is nil when the player never released.
type Entry struct {
	PlayerID int
	Seconds  *float64
}

// Ranked is an answered entry with its place in the ranking.
type Ranked struct {
	PlayerID int
	Seconds  float64
	Diff     float64
	Group    int // 1-based tie group
	Points   int
}

// Ranking is the pure outcome of ranking a round.
type Ranking struct {
	Target   int
	Answered int      // N, players with a measured answer
	Ranked   []Ranked // best first
	Groups   [][]int  // player ids per tie group
}

// Rank orders answered entries by distance from target, splits them into tie
// groups and assigns points. A new group starts whenever a diff differs from
// the diff immediately before it by Epsilon or more, so a slowly increasing run
// of diffs can chain into one group.
func Rank(target int, entries []Entry) Ranking {
	ranking := Ranking{Target: target}

	for _, e := range entries {
		if e.Seconds == nil {
			continue
		}
		ranking.Ranked = append(ranking.Ranked, Ranked{
			PlayerID: e.PlayerID,
			Seconds:  *e.Seconds,
			Diff:     math.Abs(*e.Seconds - float64(target)),
		})
	}
	ranking.Answered = len(ranking.Ranked)
	if ranking.Answered == 0 {
		return ranking
	}

	sort.SliceStable(ranking.Ranked, func(i, j int) bool {
		return ranking.Ranked[i].Diff < ranking.Ranked[j].Diff
	})

	group := 1
	ranking.Groups = [][]int{{ranking.Ranked[0].PlayerID}}
	ranking.Ranked[0].Group = group
	for i := 1; i < len(ranking.Ranked); i++ {
		if math.Abs(ranking.Ranked[i].Diff-ranking.Ranked[i-1].Diff) >= Epsilon {
			group++
			ranking.Groups = append(ranking.Groups, nil)
		}
		ranking.Ranked[i].Group = group
		ranking.Groups[group-1] = append(ranking.Groups[group-1], ranking.Ranked[i].PlayerID)
	}

	// Each group is worth N minus the number of players ranked strictly ahead of it.
	rankIndex := 0
	i := 0
	for _, ids := range ranking.Groups {
		points := max(0, ranking.Answered-rankIndex)
		for range ids {
			ranking.Ranked[i].Points = points
			i++
		}
		rankIndex += len(ids)
	}
	return ranking
}

// Evaluate scores the round for roster, adds the round points to each player's
// cumulative Score and returns the result in display order.
func Evaluate(round int, question models.Question, roster []*models.Player, forced bool) models.RoundResult {
	entries := make([]Entry, len(roster))
	for i, p := range roster {
		entries[i] = Entry{PlayerID: p.ID, Seconds: p.AnswerSeconds}
	}
	ranking := Rank(question.Answer, entries)

	byID := make(map[int]*models.Player, len(roster))
	for _, p := range roster {
		byID[p.ID] = p
	}

	result := models.RoundResult{
		Round:    round,
		Question: question,
		Answered: ranking.Answered,
		Groups:   ranking.Groups,
		Forced:   forced,
		Players:  make([]models.PlayerResult, 0, len(roster)),
	}

	for _, r := range ranking.Ranked {
		p := byID[r.PlayerID]
		p.Score += float64(r.Points)

		seconds, diff := r.Seconds, r.Diff
		outcome := models.OutcomeIncorrect
		if r.Group == 1 {
			outcome = models.OutcomeCorrect
		}
		result.Players = append(result.Players, models.PlayerResult{
			PlayerID:  p.ID,
			Name:      p.Name,
			Answered:  true,
			Seconds:   &seconds,
			Diff:      &diff,
			RankGroup: r.Group,
			Points:    r.Points,
			Total:     p.Score,
			Outcome:   outcome,
		})
	}

	for _, p := range roster {
		if p.Answered() {
			continue
		}
		outcome := models.OutcomeNone
		if ranking.Answered > 0 {
			outcome = models.OutcomeIncorrect
		}
		result.Players = append(result.Players, models.PlayerResult{
			PlayerID: p.ID,
			Name:     p.Name,
			Total:    p.Score,
			Outcome:  outcome,
		})
	}

	log.Debug().
		Int("round", round).
		Int("target", question.Answer).
		Int("answered", ranking.Answered).
		Int("groups", len(ranking.Groups)).
		Bool("forced", forced).
		Msg("round scored")

	return result
}
