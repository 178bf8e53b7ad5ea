package debate

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	modeldebate "github.com/mirrormax/backend/internal/model/debate"
)

var ErrSessionNotFound = errors.New("debate session not found")

// Store tracks API-launched debate sessions in memory and fans runner
// events out to live subscribers.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]modeldebate.Session
	outcomes map[string]*Outcome
	subs     map[string]map[int]chan Event
	nextSub  int
}

// NewStore bootstraps the in-memory session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]modeldebate.Session),
		outcomes: make(map[string]*Outcome),
		subs:     make(map[string]map[int]chan Event),
	}
}

// Create provisions a session record for a topic.
func (s *Store) Create(_ context.Context, topic string) (modeldebate.Session, error) {
	session := modeldebate.Session{
		ID:        uuid.NewString(),
		Topic:     topic,
		State:     modeldebate.StateNotStarted,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

// Get retrieves a session by identifier.
func (s *Store) Get(_ context.Context, sessionID string) (modeldebate.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return modeldebate.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// List returns every known session.
func (s *Store) List(_ context.Context) []modeldebate.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]modeldebate.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// Outcome returns the finalized outcome for a session, if the run finished.
func (s *Store) Outcome(_ context.Context, sessionID string) (*Outcome, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	outcome, ok := s.outcomes[sessionID]
	return outcome, ok
}

// Publish records state transitions and delivers the event to subscribers.
// Slow subscribers are skipped rather than blocking the loop.
//
// Delivery happens under the lock: sends are non-blocking, and a cancel that
// closes the channel also holds the lock, so a send can never race a close.
func (s *Store) Publish(sessionID string, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[sessionID]; ok {
		session.State = event.State
		s.sessions[sessionID] = session
	}
	if event.Type == EventComplete && event.Outcome != nil {
		s.outcomes[sessionID] = event.Outcome
	}

	for _, ch := range s.subs[sessionID] {
		select {
		case ch <- event:
		default:
			log.Printf("[debate] dropping event for slow subscriber on session=%s", sessionID)
		}
	}
}

// Subscribe registers a live event feed for a session. The returned cancel
// func must be called exactly once; it closes the channel.
func (s *Store) Subscribe(sessionID string) (<-chan Event, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return nil, nil, ErrSessionNotFound
	}

	ch := make(chan Event, 32)
	id := s.nextSub
	s.nextSub++

	if s.subs[sessionID] == nil {
		s.subs[sessionID] = make(map[int]chan Event)
	}
	s.subs[sessionID][id] = ch

	cancel := func() {
		s.mu.Lock()
		if sub, ok := s.subs[sessionID][id]; ok {
			delete(s.subs[sessionID], id)
			close(sub)
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}
