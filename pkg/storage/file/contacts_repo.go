package file

import (
	"context"

	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

type contactsRepository struct {
	store *Store
}

// NewContactsRepository creates a file-based contacts repository adapter.
func NewContactsRepository(store *Store) repository.ContactsRepository {
	return &contactsRepository{store: store}
}

func (r *contactsRepository) Insert(ctx context.Context, name, email, phone string) (*repository.Contact, error) {
	c, err := r.store.Insert(name, email, phone)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contactsRepository) GetByID(ctx context.Context, id int64) (*repository.Contact, error) {
	c, ok := r.store.Get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *contactsRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*repository.Contact, error) {
	c, ok := r.store.FindByEmailOrPhone(email, phone)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *contactsRepository) List(ctx context.Context, offset, limit int) ([]repository.Contact, error) {
	return r.store.List(offset, limit), nil
}

func (r *contactsRepository) Count(ctx context.Context) (int, error) {
	return r.store.Count(), nil
}

func (r *contactsRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	return r.store.Delete(id)
}

func (r *contactsRepository) DeleteAll(ctx context.Context) error {
	return r.store.DeleteAll()
}
