package session

import (
	"sync"
	"time"

	"FinSight/internal/domain/models"
)

// Conversation holds the per-session state the resolver may fall back to.
type Conversation struct {
	// Messages holds prior user messages, newest first, capped at maxHistory.
	Messages []string
	// Last is the most recently resolved instrument of the session.
	Last *models.Instrument

	touched time.Time
}

// Store keeps conversation state keyed by session id, with idle eviction.
// Replaces ambient per-session global maps with an explicit lifecycle-scoped
// object owned by the application.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Conversation

	idleTTL    time.Duration
	maxHistory int
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewStore creates a session store and starts the idle sweeper.
func NewStore(idleTTL time.Duration, maxHistory int, sweepPeriod time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	if maxHistory <= 0 {
		maxHistory = 10
	}
	if sweepPeriod <= 0 {
		sweepPeriod = 5 * time.Minute
	}
	s := &Store{
		sessions:   make(map[string]*Conversation),
		idleTTL:    idleTTL,
		maxHistory: maxHistory,
		stop:       make(chan struct{}),
	}
	go s.sweep(sweepPeriod)
	return s
}

// Snapshot returns a copy of the session's conversation state. A missing
// session yields an empty conversation.
func (s *Store) Snapshot(id string) Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[id]
	if !ok {
		return Conversation{}
	}
	out := Conversation{Last: c.Last}
	out.Messages = append(out.Messages, c.Messages...)
	return out
}

// RecordTurn appends the user message (newest first) and, when resolution
// succeeded, carries the instrument forward for history fallback.
func (s *Store) RecordTurn(id, message string, resolved *models.Instrument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[id]
	if !ok {
		c = &Conversation{}
		s.sessions[id] = c
	}
	c.Messages = append([]string{message}, c.Messages...)
	if len(c.Messages) > s.maxHistory {
		c.Messages = c.Messages[:s.maxHistory]
	}
	if resolved != nil {
		c.Last = resolved
	}
	c.touched = time.Now()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the sweeper goroutine.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) sweep(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.idleTTL)
			s.mu.Lock()
			for id, c := range s.sessions {
				if c.touched.Before(cutoff) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
