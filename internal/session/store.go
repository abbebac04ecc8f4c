package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownSession = errors.New("unknown session")

// Store holds one Round per session ID in memory
type Store struct {
	picker ExercisePicker
	ttl    time.Duration
	now    func() time.Time
	newID  func() string

	mu     sync.Mutex
	rounds map[string]*Round
}

type StoreOption func(*Store)

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) {
		s.newID = newID
	}
}

func NewStore(picker ExercisePicker, ttl time.Duration, opts ...StoreOption) *Store {
	s := &Store{
		picker: picker,
		ttl:    ttl,
		now:    time.Now,
		newID:  uuid.NewString,
		rounds: make(map[string]*Round),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the round for id, creating a new round when id is empty or unknown
func (s *Store) GetOrCreate(id string) Round {
	s.mu.Lock()
	defer s.mu.Unlock()

	if round, ok := s.rounds[id]; ok && id != "" {
		round.LastSeen = s.now()
		return round.Snapshot()
	}

	round := NewRound(s.newID(), s.picker, s.now())
	s.rounds[round.ID] = round
	return round.Snapshot()
}

// Submit reviews an answer for the session. The review runs without holding the store lock;
// a second submit for the same session while one is running fails with ErrSubmissionInFlight.
func (s *Store) Submit(ctx context.Context, id string, reviewer AnswerReviewer, answer string) (Round, error) {
	s.mu.Lock()
	round, ok := s.rounds[id]
	if !ok {
		s.mu.Unlock()
		return Round{}, ErrUnknownSession
	}
	if round.inFlight {
		s.mu.Unlock()
		return round.Snapshot(), ErrSubmissionInFlight
	}
	if round.Submitted {
		s.mu.Unlock()
		return round.Snapshot(), ErrAlreadySubmitted
	}
	round.inFlight = true
	working := round.Snapshot()
	s.mu.Unlock()

	err := working.Submit(ctx, reviewer, answer)

	s.mu.Lock()
	defer s.mu.Unlock()
	working.inFlight = false
	working.LastSeen = s.now()
	s.rounds[id] = &working
	return working.Snapshot(), err
}

// Next moves the session to a new exercise
func (s *Store) Next(id string) (Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, ok := s.rounds[id]
	if !ok {
		return Round{}, ErrUnknownSession
	}
	if round.inFlight {
		return round.Snapshot(), ErrSubmissionInFlight
	}
	if err := round.Next(s.picker); err != nil {
		return round.Snapshot(), err
	}
	round.LastSeen = s.now()
	return round.Snapshot(), nil
}

// Prune removes rounds idle for longer than the TTL and returns how many were removed
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, round := range s.rounds {
		if round.inFlight || !round.LastSeen.Before(cutoff) {
			continue
		}
		delete(s.rounds, id)
		removed++
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rounds)
}

// StartSweeper prunes idle rounds every interval until ctx is done
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.Prune(); removed > 0 {
					slog.Default().Debug("pruned idle sessions", "removed", removed)
				}
			}
		}
	}()
}
