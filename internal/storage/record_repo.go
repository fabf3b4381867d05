package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteBackend stores records as rows of the records table.
type SQLiteBackend struct {
	db *sql.DB
}

func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

func (r *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("record get: %w", err)
	}
	return value, true, nil
}

func (r *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	if err := upsertRecord(ctx, r.db, key, value); err != nil {
		return fmt.Errorf("record set: %w", err)
	}
	return nil
}

func (r *SQLiteBackend) SetMany(ctx context.Context, values map[string]string) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for k, v := range values {
			if err := upsertRecord(ctx, tx, k, v); err != nil {
				return fmt.Errorf("record set %s: %w", k, err)
			}
		}
		return nil
	})
}

func (r *SQLiteBackend) Remove(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("record remove: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertRecord(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	return err
}
