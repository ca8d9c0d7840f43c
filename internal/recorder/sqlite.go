package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id      TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			capital     REAL,
			slot_limit  INTEGER,
			dry_run     INTEGER,
			sells       INTEGER,
			buys        INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS target_book (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			symbol        TEXT NOT NULL,
			category      TEXT,
			name          TEXT,
			momentum      REAL,
			risk          REAL,
			capital_ratio REAL,
			price         REAL,
			quantity      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_book_run ON target_book(run_id)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			name      TEXT,
			side      TEXT,
			quantity  REAL,
			shares    INTEGER,
			status    TEXT,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_run ON orders(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO runs
		(run_id, timestamp, capital, slot_limit, dry_run, sells, buys, error)
		VALUES (?,?,?,?,?,?,?,?)`,
		run.RunID, run.StartedAt.Unix(), run.Capital, run.Limit, run.DryRun,
		run.Sells, run.Buys, run.Error,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM target_book WHERE run_id = ?`, run.RunID); err != nil {
		return err
	}
	for _, b := range run.Book {
		if _, err := tx.Exec(`INSERT INTO target_book
			(run_id, symbol, category, name, momentum, risk, capital_ratio, price, quantity)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			run.RunID, b.Symbol, b.Category, b.Name,
			b.Momentum, b.Risk, b.CapitalRatio, b.Price, b.Quantity,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordOrder(evt *OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := evt.Result
	_, err := r.db.Exec(`INSERT INTO orders
		(run_id, timestamp, symbol, name, side, quantity, shares, status, message)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		evt.RunID, time.Now().Unix(), res.Intent.Symbol, res.Intent.Name,
		string(res.Intent.Side), res.Intent.Quantity, res.Shares,
		string(res.Status), res.Message,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
