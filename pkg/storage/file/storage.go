package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

// FileStorage implements the storage.Storage interface on a single JSON document.
type FileStorage struct {
	filePath     string
	store        *Store
	contactsRepo repository.ContactsRepository
}

// NewFileStorage creates a new file-based storage instance.
func NewFileStorage(filePath string) (*FileStorage, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path is required for file-based storage")
	}

	store, err := NewStore(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open contacts file: %w", err)
	}

	return &FileStorage{
		filePath:     filePath,
		store:        store,
		contactsRepo: NewContactsRepository(store),
	}, nil
}

// Connect is a no-op: the document is loaded when the storage is created.
func (fs *FileStorage) Connect(ctx context.Context) error {
	return nil
}

// Close closes the file-based storage (no-op for files).
func (fs *FileStorage) Close() error {
	return nil
}

// Contacts returns the contacts repository.
func (fs *FileStorage) Contacts() repository.ContactsRepository {
	return fs.contactsRepo
}

// Ping checks that the directory holding the document is still there.
func (fs *FileStorage) Ping(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(fs.filePath))
	return err
}
