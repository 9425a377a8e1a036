package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snaplocation/internal/dbx"
)

// statements holds the dialect-specific SQL of a metadata repository.
type statements struct {
	get    string
	upsert string
	delete string
	clear  string
	list   string
}

var sqliteStatements = statements{
	get: `SELECT value FROM metadata WHERE key = ?`,
	upsert: `INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
	delete: `DELETE FROM metadata WHERE key = ?`,
	clear:  `DELETE FROM metadata`,
	list:   `SELECT key, value FROM metadata ORDER BY key`,
}

var postgresStatements = statements{
	get: `SELECT value FROM metadata WHERE key = $1`,
	upsert: `INSERT INTO metadata (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
	delete: `DELETE FROM metadata WHERE key = $1`,
	clear:  `DELETE FROM metadata`,
	list:   `SELECT key, value FROM metadata ORDER BY key`,
}

type kvStore struct {
	db dbx.DBTX
	q  statements
}

// SQLiteRepository is the metadata store on SQLite.
type SQLiteRepository struct {
	kvStore
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{kvStore{db: db, q: sqliteStatements}}
}

// PostgresRepository is the metadata store on PostgreSQL.
type PostgresRepository struct {
	kvStore
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{kvStore{db: db, q: postgresStatements}}
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("metadata get %q: %w", key, err)
	}
	return value, nil
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.q.upsert, key, value); err != nil {
		return fmt.Errorf("metadata set %q: %w", key, err)
	}
	return nil
}

func (s *kvStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.q.delete, key); err != nil {
		return fmt.Errorf("metadata delete %q: %w", key, err)
	}
	return nil
}

func (s *kvStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.q.clear); err != nil {
		return fmt.Errorf("metadata clear: %w", err)
	}
	return nil
}

func (s *kvStore) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx, s.q.list)
	if err != nil {
		return nil, fmt.Errorf("metadata list: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("metadata list: scan: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("metadata list: %w", err)
	}
	return out, nil
}
