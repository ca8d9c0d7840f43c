package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"ETFSwitch/internal/model"

	_ "modernc.org/sqlite"
)

// ErrNoToken is returned when no access token is stored for an account.
var ErrNoToken = errors.New("no access token stored")

// SQLiteStore keeps the candidate universe and brokerage access tokens.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS candidates (
			symbol   TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			name     TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS access_tokens (
			account      TEXT PRIMARY KEY,
			access_token TEXT NOT NULL,
			updated_at   INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// ListCandidates returns the candidate universe ordered by category then symbol.
func (s *SQLiteStore) ListCandidates(ctx context.Context) ([]model.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT symbol, category, name FROM candidates ORDER BY category, symbol`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var out []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.Symbol, &c.Category, &c.Name); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertCandidate adds a candidate or updates its category and name.
func (s *SQLiteStore) UpsertCandidate(ctx context.Context, c model.Candidate) error {
	if c.Symbol == "" || c.Category == "" {
		return errors.New("candidate symbol and category are required")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO candidates (symbol, category, name) VALUES (?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET category = excluded.category, name = excluded.name`,
		c.Symbol, c.Category, c.Name)
	return err
}

// RemoveCandidate deletes a candidate; it reports whether a row was removed.
func (s *SQLiteStore) RemoveCandidate(ctx context.Context, symbol string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candidates WHERE symbol = ?`, symbol)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// AccessToken returns the stored brokerage token for account.
func (s *SQLiteStore) AccessToken(ctx context.Context, account string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT access_token FROM access_tokens WHERE account = ?`, account).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("account %s: %w", account, ErrNoToken)
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

// SetAccessToken stores or replaces the token for account.
func (s *SQLiteStore) SetAccessToken(ctx context.Context, account, token string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO access_tokens (account, access_token, updated_at) VALUES (?,?,?)
		ON CONFLICT(account) DO UPDATE SET access_token = excluded.access_token, updated_at = excluded.updated_at`,
		account, token, time.Now().Unix())
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
