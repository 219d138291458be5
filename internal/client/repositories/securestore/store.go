package securestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chepeat/chepeat/internal/client/migrations"
	"github.com/chepeat/chepeat/internal/common"
	"github.com/chepeat/chepeat/internal/cryptox"
	"github.com/chepeat/chepeat/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Store owns the database handle and the repository bound to it.
type Store struct {
	DB   *sql.DB
	Repo Repository
}

// RunMigrations applies the embedded migrations. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens the store at dsn, migrates it and derives the sealing key from
// passphrase. An empty passphrase disables sealing.
func Open(ctx context.Context, dsn string, passphrase []byte) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open secure store: %w", err)
	}
	// One writer at a time; also keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate secure store: %w", err)
	}

	var key []byte
	if len(passphrase) > 0 {
		salt, err := loadOrCreateSalt(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		key = cryptox.DeriveKey(passphrase, salt)
	}

	return &Store{DB: db, Repo: NewSQLiteRepository(db, key)}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func loadOrCreateSalt(ctx context.Context, db *sql.DB) ([]byte, error) {
	var salt []byte
	err := dbx.WithTx(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
		err := tx.QueryRowContext(ctx, `SELECT value FROM secure_store WHERE key = ?`, saltKey).Scan(&salt)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		salt = common.GenerateRandByteArray(cryptox.SaltSize)
		_, err = tx.ExecContext(ctx, `INSERT INTO secure_store (key, value) VALUES (?, ?)`, saltKey, salt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load secure store salt: %w", err)
	}
	return salt, nil
}
