package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
)

// SessionStorage keeps one in-memory quiz session per user id.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[string]*quiz.Session
}

// NewSessionStorage creates an empty SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[string]*quiz.Session),
	}
}

// GetOrCreate returns the user's session, calling create when there is none.
// create runs under the write lock, so concurrent callers get the same
// session.
func (s *SessionStorage) GetOrCreate(userID string, create func() *quiz.Session) (*quiz.Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return sess, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess, false
	}

	sess = create()
	s.sessions[userID] = sess

	return sess, true
}

// Get returns the user's session if one is held.
func (s *SessionStorage) Get(userID string) (*quiz.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	return sess, ok
}

// Delete removes the user's session and returns it. The caller closes it.
func (s *SessionStorage) Delete(userID string) (*quiz.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return sess, ok
}

// IdleSince lists users whose session saw no transition after cutoff.
func (s *SessionStorage) IdleSince(cutoff time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, sess := range s.sessions {
		if sess.LastActivity().Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of held sessions.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
