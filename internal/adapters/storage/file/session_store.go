// Package file persists sessions as a single JSON file so they survive
// process restarts. Writes go through a temp file plus rename.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/frn-eng/intake-agent/internal/domain"
)

type SessionStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewSessionStore opens (or prepares to create) the store at path.
// An unreadable existing file is a startup failure, not something to
// silently overwrite.
func NewSessionStore(path string) (*SessionStore, error) {
	s := &SessionStore{path: path, now: time.Now}
	if _, err := s.load(); err != nil {
		return nil, fmt.Errorf("opening session file %s: %w", path, err)
	}
	return s, nil
}

func (s *SessionStore) GetOrCreate(ctx context.Context, userID domain.UserID, roomID domain.RoomID) (*domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, false, err
	}

	if sess, ok := all[userID]; ok {
		return sess, true, nil
	}

	sess := domain.NewSession(userID, roomID, s.now())
	all[userID] = sess
	if err := s.persist(all); err != nil {
		return nil, false, err
	}
	return sess, false, nil
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}

	all[session.UserID] = session.Clone()
	return s.persist(all)
}

func (s *SessionStore) Delete(ctx context.Context, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := all[userID]; !ok {
		return nil
	}
	delete(all, userID)
	return s.persist(all)
}

func (s *SessionStore) load() (map[domain.UserID]*domain.Session, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[domain.UserID]*domain.Session), nil
		}
		return nil, err
	}

	all := make(map[domain.UserID]*domain.Session)
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *SessionStore) persist(all map[domain.UserID]*domain.Session) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	b, err := json.Marshal(all)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
