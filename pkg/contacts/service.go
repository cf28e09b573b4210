package contacts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lrtraviteja/contact-book-app/pkg/bus"
	"github.com/lrtraviteja/contact-book-app/pkg/logger"
	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Input is the caller-supplied payload for a new contact.
type Input struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	TotalContacts int  `json:"totalContacts"`
	HasNext       bool `json:"hasNext"`
	HasPrev       bool `json:"hasPrev"`
}

// Page is one window of contacts in ascending id order.
type Page struct {
	Contacts   []repository.Contact `json:"contacts"`
	Pagination Pagination           `json:"pagination"`
}

// Service applies validation, duplicate detection and paging on top of a
// contacts repository.
type Service struct {
	repo   repository.ContactsRepository
	events *bus.EventBus
}

func NewService(repo repository.ContactsRepository) *Service {
	return &Service{repo: repo}
}

// WithEvents attaches a bus that receives an event after each successful mutation.
func (s *Service) WithEvents(eb *bus.EventBus) *Service {
	s.events = eb
	return s
}

func (s *Service) Create(ctx context.Context, in Input) (*repository.Contact, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}

	if _, err := s.repo.FindByEmailOrPhone(ctx, email, phone); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeFault("lookup duplicate", err)
	}

	c, err := s.repo.Insert(ctx, name, email, phone)
	if err != nil {
		if errors.Is(err, repository.ErrConstraint) {
			return nil, ErrDuplicate
		}
		return nil, storeFault("insert contact", err)
	}

	logger.DebugCF("contacts", "Contact created", map[string]interface{}{"id": c.ID})
	created := *c
	s.events.Publish(bus.EventContactCreated, &bus.ContactEvent{Contact: &created})
	return c, nil
}

func (s *Service) List(ctx context.Context, page, limit int) (*Page, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, storeFault("count contacts", err)
	}

	items := []repository.Contact{}
	// A window that starts past math.MaxInt cannot hold any row.
	if page-1 <= math.MaxInt/limit {
		items, err = s.repo.List(ctx, (page-1)*limit, limit)
		if err != nil {
			return nil, storeFault("list contacts", err)
		}
		if items == nil {
			items = []repository.Contact{}
		}
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}
	return &Page{
		Contacts: items,
		Pagination: Pagination{
			CurrentPage:   page,
			TotalPages:    totalPages,
			TotalContacts: total,
			HasNext:       page < totalPages,
			HasPrev:       page > 1,
		},
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*repository.Contact, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFault("get contact", err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return storeFault("delete contact", err)
	}
	if !removed {
		return ErrNotFound
	}
	logger.DebugCF("contacts", "Contact deleted", map[string]interface{}{"id": id})
	s.events.Publish(bus.EventContactDeleted, &bus.ContactEvent{ContactID: id})
	return nil
}

func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return storeFault("delete all contacts", err)
	}
	logger.InfoC("contacts", "All contacts deleted")
	s.events.Publish(bus.EventContactsCleared, nil)
	return nil
}

func storeFault(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreFault, op, err)
}
