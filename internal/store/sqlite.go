// Package store records settle runs in a SQLite database so final positions
// and past runs can be inspected later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/piwi3910/declutter/internal/model"
)

// ErrNotFound is returned when a board has no recorded runs.
var ErrNotFound = errors.New("no settle runs recorded")

// Store is a settle history database.
type Store struct {
	db *sql.DB
}

// SettleRecord summarizes one recorded settle run.
type SettleRecord struct {
	ID                int64
	Board             string
	CreatedAt         time.Time
	Settings          model.Settings
	Items             int
	Clusters          int
	Moved             int
	Unresolved        int
	BoxedIn           int
	TotalDisplacement float64
}

// Open opens or creates the database at path. ":memory:" opens a private
// in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps writes serialized and an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			board TEXT NOT NULL,
			created_at TEXT NOT NULL,
			settings_json TEXT NOT NULL,
			items INTEGER NOT NULL,
			clusters INTEGER NOT NULL,
			moved INTEGER NOT NULL,
			unresolved INTEGER NOT NULL,
			boxed_in INTEGER NOT NULL,
			total_displacement REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_board ON runs(board, id);`,
		`CREATE TABLE IF NOT EXISTS positions (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			item_id TEXT NOT NULL,
			label TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			width REAL NOT NULL,
			height REAL NOT NULL,
			scale REAL NOT NULL,
			z INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordSettle stores a run and the final position of every item in one
// transaction and returns the new run ID.
func (s *Store) RecordSettle(ctx context.Context, board string, settings model.Settings, result model.Result) (int64, error) {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return 0, fmt.Errorf("marshal settings: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	st := result.Stats
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs(board, created_at, settings_json, items, clusters, moved, unresolved, boxed_in, total_displacement)
		 VALUES(?,?,?,?,?,?,?,?,?)`,
		board, time.Now().UTC().Format(time.RFC3339Nano), string(settingsJSON),
		st.Items, st.Clusters, st.Moved, len(st.PushUnresolved), len(st.PullBoxedIn), st.TotalDisplacement,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO positions(run_id, seq, item_id, label, x, y, width, height, scale, z) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare positions: %w", err)
	}
	defer stmt.Close()

	for i, it := range result.Items {
		if _, err := stmt.ExecContext(ctx, id, i, it.ID, it.Label, it.X, it.Y, it.Width, it.Height, it.Scale, it.Z); err != nil {
			return 0, fmt.Errorf("insert position %q: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// LatestPositions returns the items of the most recent run for board, in
// their original order.
func (s *Store) LatestPositions(ctx context.Context, board string) ([]model.Item, error) {
	var runID int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs WHERE board=? ORDER BY id DESC LIMIT 1`, board).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("board %q: %w", board, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, label, x, y, width, height, scale, z FROM positions WHERE run_id=? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Label, &it.X, &it.Y, &it.Width, &it.Height, &it.Scale, &it.Z); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// History returns up to limit runs for board, newest first. A limit of zero
// or less returns every run.
func (s *Store) History(ctx context.Context, board string, limit int) ([]SettleRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, board, created_at, settings_json, items, clusters, moved, unresolved, boxed_in, total_displacement
		 FROM runs WHERE board=? ORDER BY id DESC LIMIT ?`, board, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []SettleRecord
	for rows.Next() {
		var (
			r            SettleRecord
			createdAt    string
			settingsJSON string
		)
		if err := rows.Scan(&r.ID, &r.Board, &createdAt, &settingsJSON,
			&r.Items, &r.Clusters, &r.Moved, &r.Unresolved, &r.BoxedIn, &r.TotalDisplacement); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("run %d: bad timestamp: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(settingsJSON), &r.Settings); err != nil {
			return nil, fmt.Errorf("run %d: bad settings: %w", r.ID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("board %q: %w", board, ErrNotFound)
	}
	return out, nil
}
