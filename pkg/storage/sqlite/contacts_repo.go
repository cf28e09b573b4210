package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

type contactsRepository struct {
	db *sql.DB
}

// NewContactsRepository creates a new SQLite contacts repository.
func NewContactsRepository(db *sql.DB) repository.ContactsRepository {
	return &contactsRepository{db: db}
}

func (r *contactsRepository) Insert(ctx context.Context, name, email, phone string) (*repository.Contact, error) {
	query := `INSERT INTO contacts (name, email, phone) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, name, email, phone)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, repository.ErrConstraint
		}
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &repository.Contact{ID: id, Name: name, Email: email, Phone: phone}, nil
}

func (r *contactsRepository) GetByID(ctx context.Context, id int64) (*repository.Contact, error) {
	query := `SELECT id, name, email, phone FROM contacts WHERE id = ?`
	return scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *contactsRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*repository.Contact, error) {
	query := `SELECT id, name, email, phone FROM contacts
	          WHERE email = ? OR phone = ?
	          ORDER BY id LIMIT 1`
	return scanOne(r.db.QueryRowContext(ctx, query, email, phone))
}

func scanOne(row *sql.Row) (*repository.Contact, error) {
	var c repository.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contactsRepository) List(ctx context.Context, offset, limit int) ([]repository.Contact, error) {
	query := `SELECT id, name, email, phone FROM contacts ORDER BY id LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]repository.Contact, 0, min(limit, 100))
	for rows.Next() {
		var c repository.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

func (r *contactsRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&count)
	return count, err
}

func (r *contactsRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *contactsRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM contacts`)
	return err
}

func isConstraintViolation(err error) bool {
	var sqliteErr *sqlitedrv.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
