package views

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrSuperseded is returned when a newer request for the same view was
// started before this one finished.
var ErrSuperseded = errors.New("superseded by a newer request")

// IdleViewTTL is how long a view keeps its generation once nothing touches it.
const IdleViewTTL = 24 * time.Hour

// Sequencer hands out monotonically increasing generations per key.
type Sequencer interface {
	Next(ctx context.Context, key string) (uint64, error)
	Current(ctx context.Context, key string) (uint64, error)
}

type generation struct {
	value    uint64
	lastSeen time.Time
}

// MemorySequencer keeps generations in process. Keys idle for longer than
// the cleanup window are forgotten.
type MemorySequencer struct {
	mu   sync.Mutex
	gens map[string]*generation
}

func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{gens: make(map[string]*generation)}
}

func (s *MemorySequencer) Next(_ context.Context, key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gens[key]
	if !ok {
		g = &generation{}
		s.gens[key] = g
	}
	g.value++
	g.lastSeen = time.Now()
	return g.value, nil
}

func (s *MemorySequencer) Current(_ context.Context, key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gens[key]
	if !ok {
		return 0, nil
	}
	g.lastSeen = time.Now()
	return g.value, nil
}

// Cleanup forgets keys idle for longer than maxIdle.
func (s *MemorySequencer) Cleanup(maxIdle time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, g := range s.gens {
		if time.Since(g.lastSeen) > maxIdle {
			delete(s.gens, key)
		}
	}
}

func (s *MemorySequencer) StartCleanupLoop(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup(maxIdle)
		}
	}
}

// Keys reports how many views are tracked.
func (s *MemorySequencer) Keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.gens)
}

// Ticket identifies one in-flight fetch of a view.
type Ticket struct {
	Key        string
	Generation uint64
}

// Tracker lets only the newest in-flight fetch of a view commit its result.
type Tracker struct {
	seq Sequencer
}

func NewTracker(seq Sequencer) *Tracker {
	return &Tracker{seq: seq}
}

func ViewKey(vendorID, view, session string) string {
	return fmt.Sprintf("view:%s:%s:%s", vendorID, view, session)
}

// Begin registers a new fetch for key, superseding earlier ones.
func (t *Tracker) Begin(ctx context.Context, key string) (Ticket, error) {
	gen, err := t.seq.Next(ctx, key)
	if err != nil {
		return Ticket{}, fmt.Errorf("failed to start view generation: %w", err)
	}
	return Ticket{Key: key, Generation: gen}, nil
}

// Commit returns ErrSuperseded unless ticket is still the newest for its key.
func (t *Tracker) Commit(ctx context.Context, ticket Ticket) error {
	current, err := t.seq.Current(ctx, ticket.Key)
	if err != nil {
		return fmt.Errorf("failed to read view generation: %w", err)
	}
	if current != ticket.Generation {
		return fmt.Errorf("%w: generation %d, latest %d", ErrSuperseded, ticket.Generation, current)
	}
	return nil
}
