package kvstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/madanco/crewdeck/internal/db"
)

// SQLiteStore persists keys in the kv_store table created by the embedded
// migrations.
type SQLiteStore struct {
	conn *db.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(conn *db.DB) *SQLiteStore {
	return &SQLiteStore{conn: conn}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.conn.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.conn.Exec(ctx,
		`INSERT INTO kv_store (key, value, updated) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated = excluded.updated`,
		key, string(value), time.Now().UTC().UnixMilli())
	return err
}
