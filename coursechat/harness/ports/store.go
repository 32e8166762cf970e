package harnessports

import (
	"context"
	"time"
)

// Exchange is one completed query/answer pair within a session.
type Exchange struct {
	Query     string
	Answer    string
	CreatedAt time.Time
}

// SessionStore persists per-session exchanges used to build the
// prior-conversation context folded into the system instructions.
type SessionStore interface {
	SaveExchange(ctx context.Context, sessionID string, ex Exchange) error
	// LoadExchanges returns the last k exchanges in chronological order
	// (oldest first). k <= 0 returns all.
	LoadExchanges(ctx context.Context, sessionID string, k int) ([]Exchange, error)
}
