package models

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinAnswer = 1
	MaxAnswer = 30
)

// ErrMalformedQuestion is returned for questions that cannot be scored.
var ErrMalformedQuestion = errors.New("malformed question")

// Question is one prompt and its answer in whole seconds.
type Question struct {
	Text     string `json:"question" yaml:"question"`
	Answer   int    `json:"answer" yaml:"answer"`
	Tutorial bool   `json:"tutorial,omitempty" yaml:"-"`
}

// Validate checks that the question has text and an answer in [MinAnswer, MaxAnswer].
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: empty question text", ErrMalformedQuestion)
	}
	if q.Answer < MinAnswer || q.Answer > MaxAnswer {
		return fmt.Errorf("%w: answer %d outside [%d,%d] for %q", ErrMalformedQuestion, q.Answer, MinAnswer, MaxAnswer, q.Text)
	}
	return nil
}
