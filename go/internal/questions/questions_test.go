package questions

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/mcdev12/holdtight/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestReservoirTutorialOnlyFirst(t *testing.T) {
	pool := []models.Question{
		{Text: "Sides on a hexagon?", Answer: 6},
		{Text: "Planets in the solar system?", Answer: 8},
	}
	r, err := NewReservoir(pool, seeded())
	require.NoError(t, err)

	first := r.Next()
	assert.True(t, first.Tutorial)
	assert.Equal(t, TutorialAnswer, first.Answer)

	// Ten rounds after the tutorial replay permutations of the same two questions.
	for pass := 0; pass < 5; pass++ {
		seen := map[string]bool{}
		for i := 0; i < 2; i++ {
			q := r.Next()
			assert.False(t, q.Tutorial)
			seen[q.Text] = true
		}
		assert.Len(t, seen, 2, "pass %d", pass)
	}
}

func TestReservoirDoesNotAliasPool(t *testing.T) {
	pool := []models.Question{{Text: "a", Answer: 1}, {Text: "b", Answer: 2}, {Text: "c", Answer: 3}}
	_, err := NewReservoir(pool, seeded())
	require.NoError(t, err)
	assert.Equal(t, "a", pool[0].Text)
	assert.Equal(t, "c", pool[2].Text)
}

func TestReservoirRequiresValidQuestion(t *testing.T) {
	_, err := NewReservoir(nil, seeded())
	assert.ErrorIs(t, err, ErrNoValidQuestions)

	_, err = NewReservoir([]models.Question{{Text: "bad", Answer: 0}, {Text: "", Answer: 4}}, seeded())
	assert.ErrorIs(t, err, ErrNoValidQuestions)
}

func TestReservoirKeepsMalformedForCaller(t *testing.T) {
	r, err := NewReservoir([]models.Question{{Text: "bad", Answer: 99}, {Text: "ok", Answer: 5}}, seeded())
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	r.Next()
	texts := []string{r.Next().Text, r.Next().Text}
	assert.ElementsMatch(t, []string{"bad", "ok"}, texts)
}

func TestParseJSONAndYAML(t *testing.T) {
	jsonPool, err := Parse([]byte(`[{"question":"Legs on a spider?","answer":8},{"question":"Half a dozen?","answer":"six"},{"question":"Pi?","answer":3.14}]`))
	require.NoError(t, err)
	require.Len(t, jsonPool, 3)
	assert.Equal(t, models.Question{Text: "Legs on a spider?", Answer: 8}, jsonPool[0])
	assert.Zero(t, jsonPool[1].Answer)
	assert.Zero(t, jsonPool[2].Answer)
	assert.Equal(t, 1, CountValid(jsonPool))

	yamlPool, err := Parse([]byte("- question: Wheels on a tricycle?\n  answer: 3\n- question: Whole float?\n  answer: 12.0\n"))
	require.NoError(t, err)
	require.Len(t, yamlPool, 2)
	assert.Equal(t, 3, yamlPool[0].Answer)
	assert.Equal(t, 12, yamlPool[1].Answer)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"question":"Strings on a violin?","answer":4}]`), 0o600))

	pool, err := FileSource{Path: path}.Questions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Question{{Text: "Strings on a violin?", Answer: 4}}, pool)

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.Questions(context.Background())
	assert.Error(t, err)
}

func TestStaticReturnsCopy(t *testing.T) {
	s := Static{{Text: "a", Answer: 1}}
	pool, err := s.Questions(context.Background())
	require.NoError(t, err)
	pool[0].Text = "changed"
	assert.Equal(t, "a", s[0].Text)
}
