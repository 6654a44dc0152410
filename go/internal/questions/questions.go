// Package questions supplies the question pool a match draws from.
package questions

import (
	"context"
	"errors"

	"github.com/mcdev12/holdtight/go/internal/models"
)

// TutorialAnswer is the target of the opening practice round.
const TutorialAnswer = 3

// ErrNoValidQuestions is returned when a pool holds no playable question.
var ErrNoValidQuestions = errors.New("no valid questions")

// Source loads a question pool.
type Source interface {
	Questions(ctx context.Context) ([]models.Question, error)
}

// Tutorial returns the fixed practice question that opens every match.
func Tutorial() models.Question {
	return models.Question{
		Text:     "Practice round: hold your button, wait for the countdown, then let go after 3 seconds.",
		Answer:   TutorialAnswer,
		Tutorial: true,
	}
}

// Static is an in-memory Source.
type Static []models.Question

// Questions returns a copy of the pool.
func (s Static) Questions(context.Context) ([]models.Question, error) {
	out := make([]models.Question, len(s))
	copy(out, s)
	return out, nil
}

// CountValid returns how many questions in pool pass validation.
func CountValid(pool []models.Question) int {
	n := 0
	for _, q := range pool {
		if q.Validate() == nil {
			n++
		}
	}
	return n
}
