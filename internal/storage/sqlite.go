package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/user/lifesim/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps snapshots as JSON documents in a SQLite table
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite creates or opens a SQLite database at path and applies the schema
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite has a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Get loads a snapshot by id
func (s *SQLiteStore) Get(ctx context.Context, id string) (*types.Life, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM lives WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query life: %w", err)
	}

	var life types.Life
	if err := json.Unmarshal([]byte(data), &life); err != nil {
		return nil, fmt.Errorf("failed to parse life: %w", err)
	}
	return &life, nil
}

// Put inserts or replaces a snapshot
func (s *SQLiteStore) Put(ctx context.Context, life *types.Life) error {
	data, err := json.Marshal(life)
	if err != nil {
		return fmt.Errorf("failed to marshal life: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO lives (id, alive, turn, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			alive = excluded.alive,
			turn = excluded.turn,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		life.ID, life.Alive, life.Current.Turn, string(data), s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to store life: %w", err)
	}
	return nil
}

// Delete removes a snapshot
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lives WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete life: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete life: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
