package publish

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/mcdev12/holdtight/go/internal/events"
)

// TypeStats counts deliveries of one event type.
type TypeStats struct {
	Published int       `json:"published"`
	Failed    int       `json:"failed"`
	Last      time.Time `json:"last"`
}

// Stats is a snapshot of a StatsPublisher.
type Stats struct {
	Total  int                       `json:"total"`
	Failed int                       `json:"failed"`
	ByType map[events.Type]TypeStats `json:"by_type"`
}

// StatsPublisher wraps a publisher and counts what went through it. It is
// safe for concurrent use and serves its counters as JSON.
type StatsPublisher struct {
	next EventPublisher

	mu     sync.Mutex
	total  int
	failed int
	byType map[events.Type]TypeStats
}

// NewStatsPublisher wraps next; a nil next counts without delivering.
func NewStatsPublisher(next EventPublisher) *StatsPublisher {
	if next == nil {
		next = Discard
	}
	return &StatsPublisher{
		next:   next,
		byType: make(map[events.Type]TypeStats),
	}
}

func (p *StatsPublisher) Publish(ctx context.Context, event *events.Event) error {
	err := p.next.Publish(ctx, event)

	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.byType[event.Type]
	p.total++
	s.Published++
	s.Last = event.Timestamp
	if err != nil {
		p.failed++
		s.Failed++
	}
	p.byType[event.Type] = s
	return err
}

// Snapshot copies the counters.
func (p *StatsPublisher) Snapshot() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	byType := make(map[events.Type]TypeStats, len(p.byType))
	for k, v := range p.byType {
		byType[k] = v
	}
	return Stats{Total: p.total, Failed: p.failed, ByType: byType}
}

func (p *StatsPublisher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(p.Snapshot()); err != nil {
		http.Error(w, "Failed to encode stats", http.StatusInternalServerError)
	}
}
