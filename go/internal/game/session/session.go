// Package session tracks one match: the roster, the question stream, the
// round counter and the final standings.
package session

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"
	"github.com/mcdev12/holdtight/go/internal/game/scoring"
	"github.com/mcdev12/holdtight/go/internal/models"
	"github.com/mcdev12/holdtight/go/internal/questions"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidPlayerCount = errors.New("invalid player count")
	ErrNotStarted         = errors.New("session not started")
	ErrGameOver           = errors.New("game over")
)

// Config is the player setup consumed once when a session is created.
type Config struct {
	PlayerCount int
	Names       []string
	// TotalRounds bounds the match, tutorial included. Zero or less means unbounded.
	TotalRounds int
}

// Skip records a drawn question that could not be played.
type Skip struct {
	Question models.Question
	Err      error
}

// Draw is the question for the next round.
type Draw struct {
	Round    int
	Question models.Question
	Skipped  []Skip
	Done     bool
}

// Session is owned by a single table and is not safe for concurrent use.
type Session struct {
	id          uuid.UUID
	players     []*models.Player
	reservoir   *questions.Reservoir
	totalRounds int

	started  bool
	round    int // number of the round being played
	played   int // rounds scored
	question models.Question
	over     bool
}

// New seats cfg.PlayerCount players and shuffles pool.
func New(cfg Config, pool []models.Question, rng *rand.Rand) (*Session, error) {
	if cfg.PlayerCount < models.MinPlayers || cfg.PlayerCount > models.MaxPlayers {
		return nil, fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidPlayerCount, cfg.PlayerCount, models.MinPlayers, models.MaxPlayers)
	}
	reservoir, err := questions.NewReservoir(pool, rng)
	if err != nil {
		return nil, err
	}

	total := cfg.TotalRounds
	if total <= 0 {
		total = math.MaxInt
	}

	players := make([]*models.Player, cfg.PlayerCount)
	for i := range players {
		name := ""
		if i < len(cfg.Names) {
			name = cfg.Names[i]
		}
		players[i] = models.NewPlayer(i+1, name)
	}

	return &Session{
		id:          uuid.New(),
		players:     players,
		reservoir:   reservoir,
		totalRounds: total,
	}, nil
}

func (s *Session) ID() uuid.UUID             { return s.id }
func (s *Session) Players() []*models.Player { return s.players }
func (s *Session) Round() int                { return s.round }
func (s *Session) Played() int               { return s.played }
func (s *Session) Question() models.Question { return s.question }
func (s *Session) Over() bool                { return s.over }

// TotalRounds returns the bound, or 0 when the match is unbounded.
func (s *Session) TotalRounds() int {
	if s.totalRounds == math.MaxInt {
		return 0
	}
	return s.totalRounds
}

// LastRound reports whether the current round is the final one.
func (s *Session) LastRound() bool {
	return s.round >= s.totalRounds
}

// Start opens the match with the tutorial round.
func (s *Session) Start() (Draw, error) {
	if s.started {
		return Draw{}, fmt.Errorf("session %s already started", s.id)
	}
	s.started = true
	s.round = 1
	s.question = s.reservoir.Next()
	return Draw{Round: s.round, Question: s.question}, nil
}

// RecordRound counts a scored round.
func (s *Session) RecordRound(result models.RoundResult) {
	s.played++
	log.Debug().
		Str("session_id", s.id.String()).
		Int("round", result.Round).
		Int("played", s.played).
		Msg("round recorded")
}

// Advance draws the question for the next round, skipping malformed ones.
// Done is set once the round bound has been reached.
func (s *Session) Advance() (Draw, error) {
	if !s.started {
		return Draw{}, ErrNotStarted
	}
	if s.over {
		return Draw{}, ErrGameOver
	}
	if s.round >= s.totalRounds {
		s.over = true
		return Draw{Round: s.round, Done: true}, nil
	}

	var skipped []Skip
	// A run of invalid draws can span the end of one pass and the start of
	// the next, never more.
	for attempts := 0; attempts <= 2*s.reservoir.Len(); attempts++ {
		q := s.reservoir.Next()
		if err := q.Validate(); err != nil {
			log.Warn().Err(err).Str("session_id", s.id.String()).Msg("skipping malformed question")
			skipped = append(skipped, Skip{Question: q, Err: err})
			continue
		}
		s.round++
		s.question = q
		return Draw{Round: s.round, Question: q, Skipped: skipped}, nil
	}
	return Draw{Skipped: skipped}, questions.ErrNoValidQuestions
}

// Finish ends the match early, e.g. when an unbounded game is stopped.
func (s *Session) Finish() {
	s.over = true
}

// Result builds the final standings.
func (s *Session) Result() models.MatchResult {
	standings := make([]models.Standing, len(s.players))
	for i, p := range s.players {
		standings[i] = models.Standing{PlayerID: p.ID, Name: p.Name, Score: p.Score}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	result := models.MatchResult{Rounds: s.played, Standings: standings}
	if len(standings) == 0 {
		return result
	}
	result.TopScore = standings[0].Score
	for i := range standings {
		if i > 0 && math.Abs(standings[i].Score-standings[i-1].Score) < scoring.Epsilon {
			standings[i].Rank = standings[i-1].Rank
		} else {
			standings[i].Rank = i + 1
		}
		if math.Abs(standings[i].Score-result.TopScore) < scoring.Epsilon {
			result.Winners = append(result.Winners, standings[i])
		}
	}
	result.Tie = len(result.Winners) > 1
	return result
}
