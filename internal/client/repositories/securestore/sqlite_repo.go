package securestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/chepeat/chepeat/internal/cryptox"
	"github.com/chepeat/chepeat/internal/dbx"
)

// saltKey holds the Argon2 salt. It is never sealed, never listed and
// survives Clear so the derived key stays valid.
const saltKey = "__salt"

type SQLiteRepository struct {
	db  dbx.DBTX
	key []byte
}

// NewSQLiteRepository binds a repository to db. A nil key stores plaintext.
func NewSQLiteRepository(db dbx.DBTX, key []byte) *SQLiteRepository {
	return &SQLiteRepository{db: db, key: key}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM secure_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secure_store[%s]: %w", key, err)
	}
	return r.open(key, value)
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	if key == saltKey {
		return fmt.Errorf("key %s is reserved", saltKey)
	}
	sealed, err := r.seal(value)
	if err != nil {
		return fmt.Errorf("failed to seal secure_store[%s]: %w", key, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO secure_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, sealed)
	if err != nil {
		return fmt.Errorf("failed to set secure_store[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM secure_store WHERE key IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete secure_store%v: %w", keys, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM secure_store WHERE key <> ?`, saltKey)
	if err != nil {
		return fmt.Errorf("failed to clear secure_store: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM secure_store WHERE key <> ?`, saltKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list secure_store: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan secure_store row: %w", err)
		}
		plain, err := r.open(key, value)
		if err != nil {
			return nil, err
		}
		result[key] = plain
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate secure_store rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) seal(value []byte) ([]byte, error) {
	if r.key == nil {
		return value, nil
	}
	return cryptox.Seal(value, r.key)
}

func (r *SQLiteRepository) open(key string, value []byte) ([]byte, error) {
	if r.key == nil || value == nil {
		return value, nil
	}
	plain, err := cryptox.Open(value, r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to open secure_store[%s]: %w", key, err)
	}
	return plain, nil
}
