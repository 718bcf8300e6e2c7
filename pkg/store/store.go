// Package store keeps durable client-side state in a local sqlite database:
// the persisted session credential plus display preferences. It is the only
// thing surviving process restarts, everything else is fetched fresh.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// state keys, matching what the web client kept in local storage
const (
	keyToken        = "token"
	keyRefreshToken = "refresh_token"
	keyTokenExpires = "token_expires"
	keyUsername     = "username"
	keyDarkMode     = "dark_mode"
)

// ErrNoSession indicates no persisted session exists
var ErrNoSession = errors.New("no persisted session")

// PersistedSession is the credential material restored at startup
type PersistedSession struct {
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
	Identity     string
}

// Store is a sqlite-backed key-value store for client state
type Store struct {
	db *sqlx.DB
}

// New opens the state database and initializes the schema
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = "file:feedcli.db?cache=shared&mode=rwc"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	// single-user local file, one connection is plenty
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return nil, fmt.Errorf("execute schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession persists the credential and identity, replacing any previous
// session. All keys are written in one transaction so a failure can't leave
// a torn session behind.
func (s *Store) SaveSession(ctx context.Context, sess PersistedSession) error {
	expires := ""
	if !sess.ExpiresAt.IsZero() {
		expires = sess.ExpiresAt.UTC().Format(time.RFC3339)
	}
	pairs := map[string]string{
		keyToken:        sess.Token,
		keyRefreshToken: sess.RefreshToken,
		keyTokenExpires: expires,
		keyUsername:     sess.Identity,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := `
		INSERT INTO state (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	for key, value := range pairs {
		if _, err := tx.ExecContext(ctx, query, key, value); err != nil {
			return fmt.Errorf("save session key %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession restores the persisted session, ErrNoSession if absent
func (s *Store) LoadSession(ctx context.Context) (PersistedSession, error) {
	token, err := s.get(ctx, keyToken)
	if err != nil {
		return PersistedSession{}, fmt.Errorf("load session: %w", err)
	}
	if token == "" {
		return PersistedSession{}, ErrNoSession
	}

	sess := PersistedSession{Token: token}
	if sess.RefreshToken, err = s.get(ctx, keyRefreshToken); err != nil {
		return PersistedSession{}, fmt.Errorf("load session: %w", err)
	}
	if sess.Identity, err = s.get(ctx, keyUsername); err != nil {
		return PersistedSession{}, fmt.Errorf("load session: %w", err)
	}

	expires, err := s.get(ctx, keyTokenExpires)
	if err != nil {
		return PersistedSession{}, fmt.Errorf("load session: %w", err)
	}
	if expires != "" {
		ts, err := time.Parse(time.RFC3339, expires)
		if err != nil {
			return PersistedSession{}, fmt.Errorf("parse token expiry: %w", err)
		}
		sess.ExpiresAt = ts
	}

	return sess, nil
}

// ClearSession removes all persisted session keys. Display preferences are kept.
func (s *Store) ClearSession(ctx context.Context) error {
	query := `DELETE FROM state WHERE key IN (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, keyToken, keyRefreshToken, keyTokenExpires, keyUsername); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// SetDarkMode persists the display preference
func (s *Store) SetDarkMode(ctx context.Context, dark bool) error {
	value := "false"
	if dark {
		value = "true"
	}
	if err := s.set(ctx, keyDarkMode, value); err != nil {
		return fmt.Errorf("set dark mode: %w", err)
	}
	return nil
}

// DarkMode returns the persisted display preference, false by default
func (s *Store) DarkMode(ctx context.Context) (bool, error) {
	value, err := s.get(ctx, keyDarkMode)
	if err != nil {
		return false, fmt.Errorf("get dark mode: %w", err)
	}
	return value == "true", nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO state (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}

// get returns the stored value, empty string when the key is absent
func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM state WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
