package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ganot/project-sentry/internal/repository"
)

// KVStore implements repository.KeyValueStore on the kv table. Failures are
// logged and reported through return values; no method returns an error.
type KVStore struct {
	db     *DB
	logger *slog.Logger
}

// NewKVStore creates a KVStore. A nil logger discards output.
func NewKVStore(db *DB, logger *slog.Logger) *KVStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &KVStore{db: db, logger: logger}
}

// Lookup returns the stored JSON for key, or repository.ErrNotFound.
func (s *KVStore) Lookup(ctx context.Context, key string) (json.RawMessage, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %q: %w", key, err)
	}
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("%w: value for %q is not JSON", repository.ErrInvalidInput, key)
	}
	return json.RawMessage(raw), nil
}

// Get returns the stored JSON for key, or def when the key is missing or
// cannot be read.
func (s *KVStore) Get(ctx context.Context, key string, def json.RawMessage) json.RawMessage {
	raw, err := s.Lookup(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("error getting item", "key", key, "error", err)
		}
		return def
	}
	return raw
}

// Set stores value as JSON under key.
func (s *KVStore) Set(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("error setting item", "key", key, "error", err)
		return false
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(data))
	if err != nil {
		s.logger.Error("error setting item", "key", key, "error", err)
		return false
	}
	return true
}

// Remove deletes key. Removing a missing key succeeds.
func (s *KVStore) Remove(ctx context.Context, key string) bool {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		s.logger.Error("error removing item", "key", key, "error", err)
		return false
	}
	return true
}

func (s *KVStore) Clear(ctx context.Context) bool {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		s.logger.Error("error clearing store", "error", err)
		return false
	}
	return true
}

// Keys returns every key in ascending order.
func (s *KVStore) Keys(ctx context.Context) []string {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		s.logger.Error("error listing keys", "error", err)
		return []string{}
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			s.logger.Error("error listing keys", "error", err)
			return []string{}
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("error listing keys", "error", err)
		return []string{}
	}
	return keys
}

// GetAs decodes the value under key into T, returning def when the key is
// missing or does not decode.
func GetAs[T any](ctx context.Context, store repository.KeyValueStore, key string, def T) T {
	raw := store.Get(ctx, key, nil)
	if raw == nil {
		return def
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return def
	}
	return out
}
