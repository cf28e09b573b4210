package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/lrtraviteja/contact-book-app/pkg/contacts"
	"github.com/lrtraviteja/contact-book-app/pkg/logger"
	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

const (
	MsgFetchFailed     = "Failed to fetch contacts"
	MsgCreateFailed    = "Failed to create contact"
	MsgDuplicate       = "Contact with this email or phone already exists"
	MsgDeleteFailed    = "Failed to delete contact"
	MsgDeleteAllFailed = "Failed to delete all contacts"
)

// Result is the outcome of a user-initiated mutation.
type Result struct {
	Success bool
	Error   string
}

// Snapshot is a point-in-time copy of State for rendering.
type Snapshot struct {
	Contacts      []repository.Contact
	Loading       bool
	Error         string
	CurrentPage   int
	TotalPages    int
	TotalContacts int
	SearchTerm    string
}

// State holds the client-side view of the contact list. All mutation goes
// through its methods.
type State struct {
	client *Client
	mu     sync.RWMutex
	snap   Snapshot
}

func NewState(c *Client) *State {
	return &State{
		client: c,
		snap: Snapshot{
			Contacts:    []repository.Contact{},
			CurrentPage: 1,
			TotalPages:  1,
		},
	}
}

func (s *State) setLoading(v bool) {
	s.mu.Lock()
	s.snap.Loading = v
	s.mu.Unlock()
}

// Refresh replaces the held page with the server's page. On failure the held
// page is kept and the error message set.
func (s *State) Refresh(ctx context.Context, page, limit int) {
	s.setLoading(true)
	defer s.setLoading(false)

	result, err := s.client.FetchContacts(ctx, page, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logger.WarnCF("client", "Fetch contacts failed", map[string]interface{}{"error": err.Error()})
		s.snap.Error = MsgFetchFailed
		return
	}
	s.snap.Contacts = result.Contacts
	s.snap.CurrentPage = result.Pagination.CurrentPage
	s.snap.TotalPages = result.Pagination.TotalPages
	s.snap.TotalContacts = result.Pagination.TotalContacts
	s.snap.Error = ""
}

func (s *State) Create(ctx context.Context, in contacts.Input) Result {
	created, err := s.client.CreateContact(ctx, in)
	if err != nil {
		msg := MsgCreateFailed
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			msg = MsgDuplicate
		}
		logger.WarnCF("client", "Create contact failed", map[string]interface{}{"error": err.Error()})
		s.mu.Lock()
		s.snap.Error = msg
		s.mu.Unlock()
		return Result{Error: msg}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Contacts = append([]repository.Contact{*created}, s.snap.Contacts...)
	s.snap.TotalContacts++
	s.snap.Error = ""
	return Result{Success: true}
}

func (s *State) DeleteOne(ctx context.Context, id int64) Result {
	if err := s.client.DeleteContact(ctx, id); err != nil {
		logger.WarnCF("client", "Delete contact failed", map[string]interface{}{"id": id, "error": err.Error()})
		s.mu.Lock()
		s.snap.Error = MsgDeleteFailed
		s.mu.Unlock()
		return Result{Error: MsgDeleteFailed}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]repository.Contact, 0, len(s.snap.Contacts))
	for _, c := range s.snap.Contacts {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.snap.Contacts = kept
	if s.snap.TotalContacts > 0 {
		s.snap.TotalContacts--
	}
	s.snap.Error = ""
	return Result{Success: true}
}

func (s *State) DeleteAll(ctx context.Context) Result {
	if err := s.client.DeleteAllContacts(ctx); err != nil {
		logger.WarnCF("client", "Delete all contacts failed", map[string]interface{}{"error": err.Error()})
		s.mu.Lock()
		s.snap.Error = MsgDeleteAllFailed
		s.mu.Unlock()
		return Result{Error: MsgDeleteAllFailed}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Contacts = []repository.Contact{}
	s.snap.TotalContacts = 0
	s.snap.CurrentPage = 1
	s.snap.TotalPages = 1
	s.snap.Error = ""
	return Result{Success: true}
}

func (s *State) SetSearchTerm(term string) {
	s.mu.Lock()
	s.snap.SearchTerm = term
	s.mu.Unlock()
}

func (s *State) ClearError() {
	s.mu.Lock()
	s.snap.Error = ""
	s.mu.Unlock()
}

// Filtered returns the held contacts matching the search term: case-insensitive
// on name and email, exact substring on phone. It never fetches.
func (s *State) Filtered() []repository.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterContacts(s.snap.Contacts, s.snap.SearchTerm)
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.snap
	out.Contacts = make([]repository.Contact, len(s.snap.Contacts))
	copy(out.Contacts, s.snap.Contacts)
	return out
}

func filterContacts(list []repository.Contact, term string) []repository.Contact {
	out := make([]repository.Contact, 0, len(list))
	if term == "" {
		return append(out, list...)
	}
	lower := strings.ToLower(term)
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Name), lower) ||
			strings.Contains(strings.ToLower(c.Email), lower) ||
			strings.Contains(c.Phone, term) {
			out = append(out, c)
		}
	}
	return out
}
