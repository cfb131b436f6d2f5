package intake

import (
	"sync"

	"github.com/frn-eng/intake-agent/internal/domain"
)

// keyedMutex serializes event handling per user id: two events for the same
// user never interleave their read-modify-write of the session, while
// different users proceed in parallel. Entries are reference counted so the
// map does not grow with every user ever seen.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[domain.UserID]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[domain.UserID]*userLock),
	}
}

// Lock blocks until the user's lock is held and returns the unlock func.
func (k *keyedMutex) Lock(id domain.UserID) func() {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &userLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
