package session

import (
	"context"
	"sync"

	"github.com/mailsign/signup-backend/internal/common/clock"
	"github.com/mailsign/signup-backend/internal/common/constants"
	"github.com/mailsign/signup-backend/internal/observability/metrics"
	userdomain "github.com/mailsign/signup-backend/internal/user/domain"
)

// MemoryStore is the single-instance default. The map is shared by every
// concurrent request handler and is guarded by the mutex.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	clock    clock.Clock
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		clock:    clk,
	}
}

func (s *MemoryStore) Create(ctx context.Context, user userdomain.User) (Session, error) {
	id, err := newSessionID(constants.SessionIDSize)
	if err != nil {
		return Session{}, err
	}

	sess := Session{
		ID:        id,
		User:      user,
		CreatedAt: s.clock.Now(),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	metrics.SessionsActive.Inc()

	return sess, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return Session{}, ErrSessionNotFound
	}

	return sess, nil
}

func (s *MemoryStore) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		metrics.SessionsActive.Dec()
		metrics.SessionsDestroyed.Inc()
	}

	return nil
}

// Len reports the number of live sessions, for tests and diagnostics.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
