package session

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/go-libsql"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// LibSQLStore persists conversation history to a local libsql database so
// sessions survive process restarts. Trimming follows the same policy as
// the in-memory store.
type LibSQLStore struct {
	db    *sql.DB
	limit int
}

var _ ports.SessionStore = (*LibSQLStore)(nil)

// NewLibSQLStore opens (or creates) the database at path and runs schema
// migrations. A non-positive limit uses the default.
func NewLibSQLStore(path string, limit int) (*LibSQLStore, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create session database directory: %w", err)
	}

	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run session migrations: %w", err)
	}

	return &LibSQLStore{db: db, limit: limit}, nil
}

func (s *LibSQLStore) Append(ctx context.Context, conversationID string, msg ports.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversation_turns (conversation_id, role, text, created_at) VALUES (?, ?, ?, ?)`,
		conversationID, msg.Role, msg.Text, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	// Drop the oldest rows beyond the retention limit.
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM conversation_turns
		 WHERE conversation_id = ?
		   AND id NOT IN (
		     SELECT id FROM conversation_turns
		     WHERE conversation_id = ?
		     ORDER BY id DESC LIMIT ?
		   )`,
		conversationID, conversationID, s.limit,
	)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

func (s *LibSQLStore) History(ctx context.Context, conversationID string, k int) ([]ports.Message, error) {
	if k <= 0 {
		k = s.limit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, text, created_at FROM (
		   SELECT id, role, text, created_at FROM conversation_turns
		   WHERE conversation_id = ?
		   ORDER BY id DESC LIMIT ?
		 ) ORDER BY id ASC`,
		conversationID, k,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var history []ports.Message
	for rows.Next() {
		var msg ports.Message
		if err := rows.Scan(&msg.Role, &msg.Text, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		history = append(history, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return history, nil
}

// Clear drops all conversations.
func (s *LibSQLStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM conversation_turns`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *LibSQLStore) Close() error {
	return s.db.Close()
}
