package adapters

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/go-libsql"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// OpenSessionDB opens (creating if needed) a libSQL database at path and
// runs the embedded schema migrations.
func OpenSessionDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// LibSQLSessionStore persists session exchanges in libSQL.
type LibSQLSessionStore struct {
	db *sql.DB
}

// NewLibSQLSessionStore creates a session store backed by db. The schema
// must already be migrated, typically via OpenSessionDB.
func NewLibSQLSessionStore(db *sql.DB) *LibSQLSessionStore {
	return &LibSQLSessionStore{db: db}
}

// SaveExchange appends one query/answer pair to a session.
func (s *LibSQLSessionStore) SaveExchange(ctx context.Context, sessionID string, ex ports.Exchange) error {
	const stmt = `
		INSERT INTO session_exchanges (session_id, query, answer, created_at)
		VALUES (?, ?, ?, ?)
	`

	createdAt := ex.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := s.db.ExecContext(ctx, stmt, sessionID, ex.Query, ex.Answer, createdAt); err != nil {
		return fmt.Errorf("failed to save exchange: %w", err)
	}
	return nil
}

// LoadExchanges returns the last k exchanges for a session in chronological
// order. k <= 0 loads the full history.
func (s *LibSQLSessionStore) LoadExchanges(ctx context.Context, sessionID string, k int) ([]ports.Exchange, error) {
	stmt := `
		SELECT query, answer, created_at FROM session_exchanges
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
	`
	args := []any{sessionID}
	if k > 0 {
		stmt += " LIMIT ?"
		args = append(args, k)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []ports.Exchange
	for rows.Next() {
		var ex ports.Exchange
		if err := rows.Scan(&ex.Query, &ex.Answer, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchanges: %w", err)
	}

	// Rows come back newest first; flip to chronological order.
	for i, j := 0, len(exchanges)-1; i < j; i, j = i+1, j-1 {
		exchanges[i], exchanges[j] = exchanges[j], exchanges[i]
	}

	return exchanges, nil
}

var _ ports.SessionStore = (*LibSQLSessionStore)(nil)
