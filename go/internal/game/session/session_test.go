package session

import (
	"math/rand/v2"
	"testing"

	"github.com/mcdev12/holdtight/go/internal/models"
	"github.com/mcdev12/holdtight/go/internal/questions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoQuestions = []models.Question{
	{Text: "Minutes in a quarter hour, divided by five?", Answer: 3},
	{Text: "Days in a fortnight?", Answer: 14},
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestNewValidatesPlayerCount(t *testing.T) {
	for _, n := range []int{0, 1, 9} {
		_, err := New(Config{PlayerCount: n}, twoQuestions, seeded())
		assert.ErrorIs(t, err, ErrInvalidPlayerCount, "players=%d", n)
	}
	_, err := New(Config{PlayerCount: 2}, nil, seeded())
	assert.ErrorIs(t, err, questions.ErrNoValidQuestions)
}

func TestNewSeatsPlayers(t *testing.T) {
	s, err := New(Config{PlayerCount: 3, Names: []string{"  Ada ", ""}}, twoQuestions, seeded())
	require.NoError(t, err)
	require.Len(t, s.Players(), 3)
	assert.Equal(t, "Ada", s.Players()[0].Name)
	assert.Equal(t, "Player 2", s.Players()[1].Name)
	assert.Equal(t, "Player 3", s.Players()[2].Name)
	assert.Equal(t, 3, s.Players()[2].ID)
	assert.NotEqual(t, s.Players()[0].Color, s.Players()[1].Color)
}

func TestReservoirExhaustionReplaysPool(t *testing.T) {
	s, err := New(Config{PlayerCount: 2, TotalRounds: 11}, twoQuestions, seeded())
	require.NoError(t, err)

	draw, err := s.Start()
	require.NoError(t, err)
	assert.Equal(t, 1, draw.Round)
	assert.True(t, draw.Question.Tutorial)
	assert.Equal(t, 3, draw.Question.Answer)

	counts := map[string]int{}
	for round := 2; round <= 11; round++ {
		s.RecordRound(models.RoundResult{Round: round - 1})
		draw, err := s.Advance()
		require.NoError(t, err)
		require.False(t, draw.Done)
		assert.Equal(t, round, draw.Round)
		assert.False(t, draw.Question.Tutorial, "tutorial replayed in round %d", round)
		assert.Empty(t, draw.Skipped)
		counts[draw.Question.Text]++
	}
	assert.Equal(t, 5, counts[twoQuestions[0].Text])
	assert.Equal(t, 5, counts[twoQuestions[1].Text])
	assert.True(t, s.LastRound())

	s.RecordRound(models.RoundResult{Round: 11})
	draw, err = s.Advance()
	require.NoError(t, err)
	assert.True(t, draw.Done)
	assert.True(t, s.Over())
	assert.Equal(t, 11, s.Played())

	_, err = s.Advance()
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestUnboundedSession(t *testing.T) {
	s, err := New(Config{PlayerCount: 2}, twoQuestions, seeded())
	require.NoError(t, err)
	assert.Zero(t, s.TotalRounds())

	_, err = s.Start()
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		s.RecordRound(models.RoundResult{})
		draw, err := s.Advance()
		require.NoError(t, err)
		require.False(t, draw.Done)
	}
	assert.False(t, s.LastRound())

	s.Finish()
	_, err = s.Advance()
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestAdvanceSkipsMalformedQuestions(t *testing.T) {
	pool := []models.Question{
		{Text: "Too long", Answer: 45},
		{Text: "", Answer: 4},
		{Text: "Legs on a stool?", Answer: 3},
	}
	s, err := New(Config{PlayerCount: 2, TotalRounds: 10}, pool, seeded())
	require.NoError(t, err)
	_, err = s.Start()
	require.NoError(t, err)

	skipped := 0
	for i := 0; i < 6; i++ {
		draw, err := s.Advance()
		require.NoError(t, err)
		assert.Equal(t, "Legs on a stool?", draw.Question.Text)
		for _, skip := range draw.Skipped {
			assert.ErrorIs(t, skip.Err, models.ErrMalformedQuestion)
		}
		skipped += len(draw.Skipped)
	}
	// Five full passes plus the part of the sixth drawn before its valid question.
	assert.GreaterOrEqual(t, skipped, 10)
	assert.LessOrEqual(t, skipped, 12)
}

func TestAdvanceBeforeStart(t *testing.T) {
	s, err := New(Config{PlayerCount: 2}, twoQuestions, seeded())
	require.NoError(t, err)
	_, err = s.Advance()
	assert.ErrorIs(t, err, ErrNotStarted)

	_, err = s.Start()
	require.NoError(t, err)
	_, err = s.Start()
	assert.Error(t, err)
}

func TestResultTie(t *testing.T) {
	s, err := New(Config{PlayerCount: 3, Names: []string{"Ada", "Grace", "Linus"}}, twoQuestions, seeded())
	require.NoError(t, err)
	s.Players()[0].Score = 12.0
	s.Players()[1].Score = 5.5
	s.Players()[2].Score = 12.0

	res := s.Result()
	assert.True(t, res.Tie)
	require.Len(t, res.Winners, 2)
	assert.Equal(t, "Ada", res.Winners[0].Name)
	assert.Equal(t, "Linus", res.Winners[1].Name)
	assert.Equal(t, 12.0, res.TopScore)
	assert.Equal(t, []int{1, 1, 3}, []int{res.Standings[0].Rank, res.Standings[1].Rank, res.Standings[2].Rank})
	assert.Contains(t, res.Message(), "Tie between Ada, Linus with 12 points!")
}

func TestResultSingleWinner(t *testing.T) {
	s, err := New(Config{PlayerCount: 2}, twoQuestions, seeded())
	require.NoError(t, err)
	s.Players()[0].Score = 3
	s.Players()[1].Score = 7.5

	res := s.Result()
	assert.False(t, res.Tie)
	require.Len(t, res.Winners, 1)
	assert.Equal(t, 2, res.Winners[0].PlayerID)
	assert.Equal(t, "Player 2", res.Standings[0].Name)
	assert.Contains(t, res.Message(), "Player 2 wins with 7.5 points!")
}
