package storage

import (
	"fmt"
	"strings"

	"github.com/lrtraviteja/contact-book-app/pkg/storage/file"
	"github.com/lrtraviteja/contact-book-app/pkg/storage/postgres"
	"github.com/lrtraviteja/contact-book-app/pkg/storage/sqlite"
)

// NewStorage creates a Storage implementation based on the provided configuration.
// Supported types: "sqlite", "postgres", "file". An empty type means sqlite.
func NewStorage(cfg Config) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", "sqlite":
		return asStorage[*sqlite.SQLiteStorage](sqlite.NewSQLiteStorage(cfg.FilePath))
	case "postgres":
		return asStorage[*postgres.PostgresStorage](postgres.NewPostgresStorage(cfg.DatabaseURL, cfg.SSLEnabled, cfg.MaxIdleConns, cfg.MaxOpenConns, cfg.MaxLifetime))
	case "file":
		return asStorage[*file.FileStorage](file.NewFileStorage(cfg.FilePath))
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (supported: sqlite, postgres, file)", cfg.Type)
	}
}

// asStorage keeps a failed constructor from producing a non-nil interface around a nil pointer.
func asStorage[T Storage](s T, err error) (Storage, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
