package questions

import (
	"math/rand/v2"

	"github.com/mcdev12/holdtight/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Reservoir hands out the tutorial once and then the pool in shuffled order,
// reshuffling the full pool every time it runs out. It never runs dry.
type Reservoir struct {
	pool     []models.Question
	rng      *rand.Rand
	index    int
	tutorial bool // tutorial already handed out
	passes   int
}

// NewReservoir shuffles a copy of pool. Malformed entries are kept so the
// caller can report them when drawn; at least one entry must be valid.
func NewReservoir(pool []models.Question, rng *rand.Rand) (*Reservoir, error) {
	if CountValid(pool) == 0 {
		return nil, ErrNoValidQuestions
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	r := &Reservoir{
		pool: append([]models.Question(nil), pool...),
		rng:  rng,
	}
	r.shuffle()
	return r, nil
}

// Next returns the next question. The first call returns the tutorial.
func (r *Reservoir) Next() models.Question {
	if !r.tutorial {
		r.tutorial = true
		return Tutorial()
	}
	if r.index >= len(r.pool) {
		r.shuffle()
		log.Debug().Int("pass", r.passes).Int("size", len(r.pool)).Msg("question pool reshuffled")
	}
	q := r.pool[r.index]
	r.index++
	return q
}

// Len returns the pool size, tutorial excluded.
func (r *Reservoir) Len() int {
	return len(r.pool)
}

func (r *Reservoir) shuffle() {
	r.rng.Shuffle(len(r.pool), func(i, j int) {
		r.pool[i], r.pool[j] = r.pool[j], r.pool[i]
	})
	r.index = 0
	r.passes++
}
