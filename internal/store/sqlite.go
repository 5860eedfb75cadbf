package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/cadence/internal/shared"
	"github.com/klauspost/compress/zstd"
)

// SQLiteStore implements [Store] on top of a single kv table.
//
// Values are optionally zstd-compressed at rest; the compressed flag is
// tracked per row so compression can be toggled without rewriting data.
type SQLiteStore struct {
	db       *sql.DB
	compress bool
	enc      *zstd.Encoder
	dec      *zstd.Decoder
}

// NewSQLiteStore wraps an open database connection. The kv table must
// already exist (see shared.RunMigrations).
func NewSQLiteStore(db *sql.DB, compress bool) (*SQLiteStore, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &SQLiteStore{db: db, compress: compress, enc: enc, dec: dec}, nil
}

// Get retrieves the value stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value      []byte
		compressed bool
	)

	err := s.db.QueryRowContext(ctx, "SELECT value, compressed FROM kv WHERE key = ?", key).Scan(&value, &compressed)
	if err == sql.ErrNoRows {
		return nil, shared.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}

	if compressed {
		decoded, err := s.dec.DecodeAll(value, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress value for key %s: %w", key, err)
		}
		return decoded, nil
	}

	return value, nil
}

// Set writes value under key, replacing any previous value.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	stored := value
	compressed := false

	if s.compress && len(value) > 0 {
		stored = s.enc.EncodeAll(value, make([]byte, 0, len(value)))
		compressed = true
	}

	query := `
		INSERT INTO kv (key, value, compressed, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, compressed = excluded.compressed, updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, key, stored, compressed, time.Now()); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}

	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// ListKeys returns every stored key beginning with prefix in lexicographic order.
func (s *SQLiteStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv WHERE key LIKE ? || '%' ORDER BY key ASC", prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return keys, nil
}

// Clear removes every key in the store.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv"); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}
