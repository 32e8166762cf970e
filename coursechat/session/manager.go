// Package session tracks per-conversation history so follow-up questions can
// reference earlier exchanges.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

// Manager records query/answer exchanges and renders the recent window as a
// prompt block.
type Manager struct {
	store  ports.SessionStore
	window int
}

// NewManager creates a session manager keeping window exchanges in the
// rendered history. window <= 0 renders the full history.
func NewManager(store ports.SessionStore, window int) *Manager {
	return &Manager{store: store, window: window}
}

// NewSessionID returns a fresh unique session identifier.
func NewSessionID() string {
	return uuid.New().String()
}

// Record appends one completed exchange to the session.
func (m *Manager) Record(ctx context.Context, sessionID, query, answer string) error {
	ex := ports.Exchange{Query: query, Answer: answer, CreatedAt: time.Now().UTC()}
	if err := m.store.SaveExchange(ctx, sessionID, ex); err != nil {
		return fmt.Errorf("failed to record exchange: %w", err)
	}
	return nil
}

// History renders the recent exchanges for a session, oldest first, in the
// form consumed by the system prompt. Returns "" for a fresh session.
func (m *Manager) History(ctx context.Context, sessionID string) (string, error) {
	exchanges, err := m.store.LoadExchanges(ctx, sessionID, m.window)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}
	if len(exchanges) == 0 {
		return "", nil
	}

	lines := make([]string, 0, len(exchanges))
	for _, ex := range exchanges {
		lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", ex.Query, ex.Answer))
	}
	return strings.Join(lines, "\n"), nil
}
