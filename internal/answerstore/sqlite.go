package answerstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps drafts in a local SQLite database.
type SQLiteStore struct {
	db   *sqlx.DB
	path string
}

type draft struct {
	SessionID string    `db:"session_id"`
	Section   string    `db:"section"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// OpenSQLite opens or creates the database at path and runs migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	for _, m := range []string{migrationDrafts, migrationDraftsIndex} {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

const migrationDrafts = `
CREATE TABLE IF NOT EXISTS drafts (
    session_id TEXT NOT NULL,
    section TEXT NOT NULL,
    payload TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (session_id, section)
);
`

const migrationDraftsIndex = `
CREATE INDEX IF NOT EXISTS idx_drafts_updated ON drafts(updated_at);
`

func (s *SQLiteStore) Section(ctx context.Context, session string, section Section) (json.RawMessage, error) {
	if err := ValidateSession(session); err != nil {
		return nil, err
	}

	var d draft
	query := `SELECT session_id, section, payload, updated_at FROM drafts WHERE session_id = ? AND section = ?`
	err := s.db.GetContext(ctx, &d, query, session, string(section))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", session, section, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query draft %s/%s: %w", session, section, err)
	}

	return json.RawMessage(d.Payload), nil
}

// Put inserts or replaces one section payload.
func (s *SQLiteStore) Put(ctx context.Context, session string, section Section, payload json.RawMessage) error {
	if err := ValidateSession(session); err != nil {
		return err
	}
	if !json.Valid(payload) {
		return fmt.Errorf("payload for %s/%s is not valid JSON", session, section)
	}

	query := `
		INSERT INTO drafts (session_id, section, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, section) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, session, string(section), string(payload), time.Now().UTC())
	return err
}

// Sessions lists stored session ids, most recently updated first.
func (s *SQLiteStore) Sessions(ctx context.Context, limit int) ([]string, error) {
	var ids []string
	query := `SELECT session_id FROM drafts GROUP BY session_id ORDER BY MAX(updated_at) DESC LIMIT ?`
	if err := s.db.SelectContext(ctx, &ids, query, limit); err != nil {
		return nil, err
	}
	return ids, nil
}
