package questions

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mcdev12/holdtight/go/internal/models"
)

// Querier is the part of *pgxpool.Pool the Postgres source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource loads one question set from the questions table.
type PostgresSource struct {
	db  Querier
	set string
}

// NewPostgresSource creates a source reading question set set.
func NewPostgresSource(db Querier, set string) *PostgresSource {
	return &PostgresSource{db: db, set: set}
}

const listQuestions = `
SELECT question, answer
FROM questions
WHERE question_set = $1
ORDER BY position
`

// Questions returns the set in stored order.
func (s *PostgresSource) Questions(ctx context.Context) ([]models.Question, error) {
	rows, err := s.db.Query(ctx, listQuestions, s.set)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	pool, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Question, error) {
		var q models.Question
		err := row.Scan(&q.Text, &q.Answer)
		return q, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan questions: %w", err)
	}
	return pool, nil
}
