package adapters

import (
	"context"
	"sync"
	"time"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

// MemorySessionStore keeps session exchanges in memory. Useful for tests and
// for running without a database path configured.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string][]ports.Exchange
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string][]ports.Exchange),
	}
}

func (s *MemorySessionStore) SaveExchange(ctx context.Context, sessionID string, ex ports.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}
	s.sessions[sessionID] = append(s.sessions[sessionID], ex)
	return nil
}

func (s *MemorySessionStore) LoadExchanges(ctx context.Context, sessionID string, k int) ([]ports.Exchange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.sessions[sessionID]
	if k > 0 && len(history) > k {
		history = history[len(history)-k:]
	}

	out := make([]ports.Exchange, len(history))
	copy(out, history)
	return out, nil
}

var _ ports.SessionStore = (*MemorySessionStore)(nil)
