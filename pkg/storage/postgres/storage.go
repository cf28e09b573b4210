package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

// PostgresStorage implements the storage.Storage interface for PostgreSQL.
type PostgresStorage struct {
	db       *sql.DB
	contacts repository.ContactsRepository
}

// NewPostgresStorage creates a new PostgreSQL storage instance.
func NewPostgresStorage(databaseURL string, sslEnabled bool, maxIdleConns, maxOpenConns int, maxLifetime time.Duration) (*PostgresStorage, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required for PostgreSQL storage")
	}

	databaseURL = withSSLMode(databaseURL, sslEnabled)

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}

	// Configure connection pool
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxLifetime > 0 {
		db.SetConnMaxLifetime(maxLifetime)
	}

	return &PostgresStorage{
		db:       db,
		contacts: NewContactsRepository(db),
	}, nil
}

// withSSLMode appends sslmode to the URL unless the caller already chose one.
func withSSLMode(databaseURL string, sslEnabled bool) string {
	if strings.Contains(databaseURL, "sslmode=") {
		return databaseURL
	}
	sep := "?"
	if strings.Contains(databaseURL, "?") {
		sep = "&"
	}
	if sslEnabled {
		return databaseURL + sep + "sslmode=require"
	}
	return databaseURL + sep + "sslmode=disable"
}

// Connect establishes the connection and creates the contacts table if needed.
func (s *PostgresStorage) Connect(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := EnsureSchema(ctx, s.db); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *PostgresStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Contacts returns the contacts repository.
func (s *PostgresStorage) Contacts() repository.ContactsRepository {
	return s.contacts
}

// Ping checks if the database connection is alive.
func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
