package repository // SQL-backed slot for MySQL and Postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect selects the SQL flavour a SQLSlot speaks.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

// statements are the dialect-specific queries of a SQLSlot.
type statements struct {
	create string
	get    string
	upsert string
	remove string
}

var dialects = map[Dialect]statements{
	DialectMySQL: {
		create: `CREATE TABLE IF NOT EXISTS layout_slots (
		           slot_key   VARCHAR(191) NOT NULL PRIMARY KEY,
		           value      LONGTEXT     NOT NULL,
		           updated_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		         ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		get: `SELECT value FROM layout_slots WHERE slot_key = ?`,
		upsert: `INSERT INTO layout_slots (slot_key, value) VALUES (?, ?)
		         ON DUPLICATE KEY UPDATE value = VALUES(value)`,
		remove: `DELETE FROM layout_slots WHERE slot_key = ?`,
	},
	DialectPostgres: {
		create: `CREATE TABLE IF NOT EXISTS layout_slots (
		           slot_key   VARCHAR(191) PRIMARY KEY,
		           value      TEXT         NOT NULL,
		           updated_at TIMESTAMPTZ  NOT NULL DEFAULT now()
		         )`,
		get: `SELECT value FROM layout_slots WHERE slot_key = $1`,
		upsert: `INSERT INTO layout_slots (slot_key, value) VALUES ($1, $2)
		         ON CONFLICT (slot_key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		remove: `DELETE FROM layout_slots WHERE slot_key = $1`,
	},
}

// SQLSlot stores values in the layout_slots table.
type SQLSlot struct {
	db *sql.DB
	q  statements
}

// NewSQLSlot constructs a SQLSlot for the given dialect.
func NewSQLSlot(db *sql.DB, d Dialect) (*SQLSlot, error) {
	q, ok := dialects[d]
	if !ok {
		return nil, fmt.Errorf("repository: unknown sql dialect %q", d)
	}
	return &SQLSlot{db: db, q: q}, nil
}

// EnsureTable creates layout_slots when it does not exist yet.
func (r *SQLSlot) EnsureTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, r.q.create)
	return err
}

func (r *SQLSlot) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, r.q.get, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSlotEmpty
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *SQLSlot) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, r.q.upsert, key, value)
	return err
}

// Remove deletes the row; removing a missing key is not an error.
func (r *SQLSlot) Remove(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, r.q.remove, key)
	return err
}
