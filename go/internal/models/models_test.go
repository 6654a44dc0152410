package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerName(t *testing.T) {
	assert.Equal(t, "Player 3", PlayerName(3, ""))
	assert.Equal(t, "Player 3", PlayerName(3, "   "))
	assert.Equal(t, "Ada", PlayerName(1, "  Ada "))
	long := strings.Repeat("é", 30)
	assert.Equal(t, strings.Repeat("é", MaxNameLength), PlayerName(1, long))
}

func TestPlayerColor(t *testing.T) {
	assert.Equal(t, "#e53935", PlayerColor(1))
	assert.Equal(t, "#7cb342", PlayerColor(8))
	assert.Equal(t, "#e53935", PlayerColor(9))
	assert.Equal(t, "#202124", TextColor("#fdd835"))
	assert.Equal(t, "#ffffff", TextColor("#1e88e5"))
	assert.Equal(t, "#ffffff", TextColor("nope"))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "12", FormatScore(12))
	assert.Equal(t, "12.5", FormatScore(12.5))
	assert.Equal(t, "0", FormatScore(0))
}

func TestQuestionValidate(t *testing.T) {
	require.NoError(t, Question{Text: "Sides of a triangle?", Answer: 3}.Validate())
	require.NoError(t, Question{Text: "x", Answer: MaxAnswer}.Validate())

	for _, q := range []Question{
		{Text: "", Answer: 3},
		{Text: "zero", Answer: 0},
		{Text: "too long", Answer: 31},
		{Text: "negative", Answer: -2},
	} {
		assert.ErrorIs(t, q.Validate(), ErrMalformedQuestion, q.Text)
	}
}

func TestPlayerResetRound(t *testing.T) {
	p := NewPlayer(2, "")
	secs := 1.5
	p.IsHolding = true
	p.AnswerSeconds = &secs
	p.Score = 4
	p.ResetRound()
	assert.False(t, p.IsHolding)
	assert.False(t, p.Answered())
	assert.Nil(t, p.StartTime)
	assert.Equal(t, 4.0, p.Score)
	assert.Equal(t, "Player 2", p.Name)
}

func f(v float64) *float64 { return &v }

func TestRoundResultMessage(t *testing.T) {
	r := RoundResult{
		Question: Question{Text: "q", Answer: 5},
		Answered: 3,
		Players: []PlayerResult{
			{PlayerID: 1, Name: "Ada", Answered: true, Seconds: f(5), Diff: f(0), RankGroup: 1, Points: 3, Total: 3},
			{PlayerID: 2, Name: "Bo", Answered: true, Seconds: f(5.5), Diff: f(0.5), RankGroup: 2, Points: 2, Total: 7.5},
			{PlayerID: 3, Name: "Cy", Answered: true, Seconds: f(4), Diff: f(1), RankGroup: 3, Points: 1, Total: 1},
			{PlayerID: 4, Name: "Di", Total: 0},
		},
	}
	want := "Correct answer: 5\n" +
		"Ada wins this round! (3 pts)\n" +
		"Second: Bo (2 pts)\n\n" +
		"Round points and totals:\n" +
		"Ada: +3 (Total 3)\n" +
		"Bo: +2 (Total 7.5)\n" +
		"Cy: +1 (Total 1)\n" +
		"Di: +0 (Total 0)"
	assert.Equal(t, want, r.Message())
	assert.Len(t, r.Winners(), 1)
	assert.False(t, r.NoValidAnswers())
}

func TestRoundResultMessageNoAnswers(t *testing.T) {
	r := RoundResult{
		Question: Question{Text: "q", Answer: 9},
		Players:  []PlayerResult{{PlayerID: 1, Name: "Ada"}, {PlayerID: 2, Name: "Bo"}},
	}
	assert.True(t, r.NoValidAnswers())
	assert.Empty(t, r.Winners())
	assert.True(t, strings.HasPrefix(r.Message(), "Correct answer: 9\nNo valid answers."))
}

func TestRoundResultMessageSharedWin(t *testing.T) {
	r := RoundResult{
		Question: Question{Text: "q", Answer: 2},
		Answered: 2,
		Players: []PlayerResult{
			{PlayerID: 1, Name: "Ada", Answered: true, RankGroup: 1, Points: 2, Total: 2},
			{PlayerID: 2, Name: "Bo", Answered: true, RankGroup: 1, Points: 2, Total: 2},
		},
	}
	assert.True(t, strings.HasPrefix(r.Message(), "Correct answer: 2\nAda, Bo win this round! (2 pts)\n\n"))
}

func TestMatchResultMessage(t *testing.T) {
	single := MatchResult{
		TopScore:  9,
		Winners:   []Standing{{Rank: 1, PlayerID: 2, Name: "Bo", Score: 9}},
		Standings: []Standing{{Rank: 1, PlayerID: 2, Name: "Bo", Score: 9}, {Rank: 2, PlayerID: 1, Name: "Ada", Score: 4}},
	}
	assert.Equal(t, "Game Over!\n\nBo wins with 9 points!\n\nFinal Scores:\nBo: 9\nAda: 4", single.Message())

	tie := MatchResult{
		TopScore: 12,
		Tie:      true,
		Winners:  []Standing{{PlayerID: 1, Name: "Ada", Score: 12}, {PlayerID: 2, Name: "Bo", Score: 12}},
	}
	assert.Contains(t, tie.Message(), "Tie between Ada, Bo with 12 points!")
}
