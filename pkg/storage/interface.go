package storage

import (
	"context"
	"time"

	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

// Storage is the main storage abstraction interface.
// It gives access to the contacts repository and owns the backend connection.
type Storage interface {
	// Repository accessor
	Contacts() repository.ContactsRepository

	// Lifecycle management
	Connect(ctx context.Context) error
	Close() error

	// Health check
	Ping(ctx context.Context) error
}

// Config holds storage configuration for different backends.
type Config struct {
	Type         string        // "sqlite", "postgres", "file"
	FilePath     string        // SQLite database file or JSON document path
	DatabaseURL  string        // For postgres (connection string)
	SSLEnabled   bool          // Enable SSL for postgres connections
	MaxIdleConns int           // Connection pool - max idle connections
	MaxOpenConns int           // Connection pool - max open connections
	MaxLifetime  time.Duration // Connection pool - max lifetime
}

// DefaultConfig returns a default storage configuration.
func DefaultConfig(storageType string) Config {
	return Config{
		Type:         storageType,
		MaxIdleConns: 5,
		MaxOpenConns: 25,
		MaxLifetime:  5 * time.Minute,
	}
}
