package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.sql
var schemaSQL string

// Record is one row of the members table.
type Record struct {
	ID    int64
	Name  string
	Sex   string
	Phone string
}

// Store is the set of operations the member book performs.
// Every method returns *Error on failure.
type Store interface {
	EnsureTable(ctx context.Context) error
	TableExists(ctx context.Context) (bool, error)
	Import(ctx context.Context, textPath string) (int, error)
	List(ctx context.Context) ([]Record, error)
	Insert(ctx context.Context, name, sex, phone string) (int64, error)
	UpdateByName(ctx context.Context, name, sex, phone string) (before, after Record, err error)
	SearchByPhone(ctx context.Context, phone string) ([]Record, error)
	DeleteAll(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store over a single SQLite file.
// It keeps no open handle between calls.
type SQLiteStore struct {
	path   string
	logger *slog.Logger
}

// NewSQLiteStore returns a store for the database file at path.
// The file is created on first use. A nil logger discards output.
func NewSQLiteStore(path string, logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SQLiteStore{path: path, logger: logger}
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// open creates or opens the database and applies pragmas.
// The caller owns the returned handle.
func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection per call; pragmas below apply to it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return db, nil
}

// withDB scopes a handle to fn. The handle is closed on every exit path.
func (s *SQLiteStore) withDB(ctx context.Context, op string, fn func(db *sql.DB) error) error {
	db, err := s.open(ctx)
	if err != nil {
		return storeError(op, err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			s.logger.Error("error closing database", "op", op, "path", s.path, "error", closeErr)
		}
	}()

	s.logger.Debug("store operation", "op", op, "path", s.path)
	return fn(db)
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// EnsureTable creates the members table if it does not exist.
// This function is idempotent.
func (s *SQLiteStore) EnsureTable(ctx context.Context) error {
	return s.withDB(ctx, "ensure table", func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
			return storeError("ensure table", fmt.Errorf("failed to execute schema: %w", err))
		}
		return nil
	})
}

// TableExists reports whether the members table is present.
func (s *SQLiteStore) TableExists(ctx context.Context) (bool, error) {
	var exists bool
	err := s.withDB(ctx, "table exists", func(db *sql.DB) error {
		var err error
		exists, err = tableExists(ctx, db)
		if err != nil {
			return storeError("table exists", err)
		}
		return nil
	})
	return exists, err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func tableExists(ctx context.Context, q queryer) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'members'",
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query sqlite_master: %w", err)
	}
	return count > 0, nil
}

func countRows(ctx context.Context, q queryer) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM members").Scan(&count); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return count, nil
}

// normalize brings user-entered text to NFC so visually equal names and
// phones compare equal.
func normalize(s string) string {
	return norm.NFC.String(s)
}

// verifyPragma checks that a pragma is set to the expected value on a fresh
// handle. Used for testing.
func (s *SQLiteStore) verifyPragma(ctx context.Context, name, expected string) error {
	return s.withDB(ctx, "verify pragma", func(db *sql.DB) error {
		var value string
		query := fmt.Sprintf("PRAGMA %s", name)
		if err := db.QueryRowContext(ctx, query).Scan(&value); err != nil {
			return fmt.Errorf("failed to query %s: %w", name, err)
		}
		if value != expected {
			return fmt.Errorf("%s = %q, expected %q", name, value, expected)
		}
		return nil
	})
}
