package storage

import (
	"sync"
	"time"

	"art-history-quiz-bot/internal/domain/entities"
)

// SessionStore keeps ephemeral quiz sessions in memory, keyed by user ID.
// It holds no business logic; the orchestrator mutates session fields
// directly while holding the per-user lock.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*entities.Session
	locks    map[int64]*sync.Mutex
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*entities.Session),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// UserLock returns the mutex serializing all actions for one user. The
// lock outlives the session itself, so stale interactions after a session
// is cleared are still serialized.
func (s *SessionStore) UserLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// Create starts a fresh session for the user, replacing any existing one.
func (s *SessionStore) Create(userID int64, examType string) *entities.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := entities.NewSession(userID, examType)
	s.sessions[userID] = session
	return session
}

// Get returns the user's session, if any.
func (s *SessionStore) Get(userID int64) (*entities.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	return session, ok
}

// GetOrCreate returns the user's session, creating a bare one (no exam
// track) when absent. Used by flows that only need a place to hang a
// flag, such as the reset confirmation.
func (s *SessionStore) GetOrCreate(userID int64) *entities.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[userID]; ok {
		return session
	}
	session := entities.NewSession(userID, "")
	s.sessions[userID] = session
	return session
}

// Clear discards the user's session.
func (s *SessionStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Sweep removes sessions whose last activity predates the cutoff and
// returns how many were evicted.
func (s *SessionStore) Sweep(olderThan time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for userID, session := range s.sessions {
		if session.LastActiveAt.Before(olderThan) {
			delete(s.sessions, userID)
			evicted++
		}
	}
	return evicted
}
