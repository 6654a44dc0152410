package questions

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/mcdev12/holdtight/go/internal/models"
	"gopkg.in/yaml.v3"
)

// FileSource reads a question list from a YAML or JSON file shaped
// [{"question": "...", "answer": 7}, ...].
type FileSource struct {
	Path string
}

type rawQuestion struct {
	Question string `yaml:"question"`
	Answer   any    `yaml:"answer"`
}

// Questions reads and decodes the file.
func (s FileSource) Questions(_ context.Context) ([]models.Question, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question file: %w", err)
	}
	pool, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path, err)
	}
	return pool, nil
}

// Parse decodes a YAML or JSON question list. Answers that are not whole
// numbers decode as 0 and fail validation when drawn.
func Parse(data []byte) ([]models.Question, error) {
	var raw []rawQuestion
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	pool := make([]models.Question, 0, len(raw))
	for _, r := range raw {
		pool = append(pool, models.Question{Text: r.Question, Answer: answerValue(r.Answer)})
	}
	return pool, nil
}

func answerValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		if n > math.MaxInt32 {
			return 0
		}
		return int(n)
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}
