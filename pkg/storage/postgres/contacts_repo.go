package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = pq.ErrorCode("23505")

// dbExecutor is an interface that works with both *sql.DB and *sql.Tx
type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type contactsRepository struct {
	db dbExecutor
}

// NewContactsRepository creates a new PostgreSQL contacts repository.
func NewContactsRepository(db dbExecutor) repository.ContactsRepository {
	return &contactsRepository{db: db}
}

func (r *contactsRepository) Insert(ctx context.Context, name, email, phone string) (*repository.Contact, error) {
	query := `INSERT INTO contacts (name, email, phone) VALUES ($1, $2, $3) RETURNING id`

	c := repository.Contact{Name: name, Email: email, Phone: phone}
	if err := r.db.QueryRowContext(ctx, query, name, email, phone).Scan(&c.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConstraint
		}
		return nil, err
	}
	return &c, nil
}

func (r *contactsRepository) GetByID(ctx context.Context, id int64) (*repository.Contact, error) {
	query := `SELECT id, name, email, phone FROM contacts WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *contactsRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*repository.Contact, error) {
	query := `SELECT id, name, email, phone FROM contacts
	          WHERE email = $1 OR phone = $2
	          ORDER BY id LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email, phone))
}

func (r *contactsRepository) scanOne(row *sql.Row) (*repository.Contact, error) {
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
	query := `SELECT id, name, email, phone FROM contacts ORDER BY id LIMIT $1 OFFSET $2`

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
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
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

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
