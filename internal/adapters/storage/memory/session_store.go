// Package memory provides in-memory stores. They are NOT persistent: sessions
// and report records are lost on restart. Suitable for development / local mode.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/frn-eng/intake-agent/internal/domain"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.UserID]*domain.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.UserID]*domain.Session),
		now:      time.Now,
	}
}

func (s *SessionStore) GetOrCreate(ctx context.Context, userID domain.UserID, roomID domain.RoomID) (*domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess.Clone(), true, nil
	}

	sess := domain.NewSession(userID, roomID, s.now())
	s.sessions[userID] = sess.Clone()
	return sess, false, nil
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.UserID] = session.Clone()
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

// Len reports the number of live sessions. Used by tests.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
