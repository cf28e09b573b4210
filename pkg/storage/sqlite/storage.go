package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

//go:embed schema.sql
var schemaSQL string

const memoryPath = ":memory:"

// SQLiteStorage implements the storage.Storage interface on a single SQLite file.
type SQLiteStorage struct {
	path     string
	db       *sql.DB
	contacts repository.ContactsRepository
}

// NewSQLiteStorage opens (or creates) the database at path. ":memory:" is accepted.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required for SQLite storage")
	}

	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite serializes writers; one connection also keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &SQLiteStorage{
		path:     path,
		db:       db,
		contacts: NewContactsRepository(db),
	}, nil
}

func dsn(path string) string {
	if path == memoryPath {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Connect checks the connection and creates the contacts table if needed.
func (s *SQLiteStorage) Connect(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Contacts returns the contacts repository.
func (s *SQLiteStorage) Contacts() repository.ContactsRepository {
	return s.contacts
}

// Ping checks if the database is reachable.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
