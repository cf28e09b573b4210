package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

// document is the on-disk layout of the contacts file.
type document struct {
	NextID   int64                `json:"next_id"`
	Contacts []repository.Contact `json:"contacts"`
}

// Store keeps contacts in memory and writes the whole set to a JSON file on every change.
// The single mutex makes the uniqueness checks and the write atomic.
type Store struct {
	mu       sync.RWMutex
	contacts []repository.Contact // sorted by ID
	byEmail  map[string]int64
	byPhone  map[string]int64
	nextID   int64
	filePath string
}

// NewStore loads filePath if it exists, creating parent directories as needed.
func NewStore(filePath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}

	s := &Store{
		byEmail:  make(map[string]int64),
		byPhone:  make(map[string]int64),
		nextID:   1,
		filePath: filePath,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Insert(name, email, phone string) (repository.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return repository.Contact{}, repository.ErrConstraint
	}
	if _, ok := s.byPhone[phone]; ok {
		return repository.Contact{}, repository.ErrConstraint
	}

	c := repository.Contact{ID: s.nextID, Name: name, Email: email, Phone: phone}
	s.contacts = append(s.contacts, c)
	s.byEmail[email] = c.ID
	s.byPhone[phone] = c.ID
	s.nextID++

	if err := s.saveLocked(); err != nil {
		s.contacts = s.contacts[:len(s.contacts)-1]
		delete(s.byEmail, email)
		delete(s.byPhone, phone)
		s.nextID--
		return repository.Contact{}, err
	}
	return c, nil
}

func (s *Store) Get(id int64) (repository.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.indexLocked(id)
	if !ok {
		return repository.Contact{}, false
	}
	return s.contacts[i], true
}

// FindByEmailOrPhone returns the lowest-ID contact matching either value.
func (s *Store) FindByEmailOrPhone(email, phone string) (repository.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, found := s.byEmail[email]
	if phoneID, ok := s.byPhone[phone]; ok && (!found || phoneID < id) {
		id, found = phoneID, true
	}
	if !found {
		return repository.Contact{}, false
	}
	i, _ := s.indexLocked(id)
	return s.contacts[i], true
}

func (s *Store) List(offset, limit int) []repository.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]repository.Contact, 0)
	if offset < 0 || offset >= len(s.contacts) || limit <= 0 {
		return result
	}
	end := offset + limit
	if end > len(s.contacts) || end < offset {
		end = len(s.contacts)
	}
	return append(result, s.contacts[offset:end]...)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contacts)
}

func (s *Store) Delete(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.indexLocked(id)
	if !ok {
		return false, nil
	}

	removed := s.contacts[i]
	previous := s.contacts
	s.contacts = append(append([]repository.Contact{}, previous[:i]...), previous[i+1:]...)
	delete(s.byEmail, removed.Email)
	delete(s.byPhone, removed.Phone)

	if err := s.saveLocked(); err != nil {
		s.contacts = previous
		s.byEmail[removed.Email] = removed.ID
		s.byPhone[removed.Phone] = removed.ID
		return false, err
	}
	return true, nil
}

func (s *Store) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.contacts
	s.contacts = nil
	if err := s.saveLocked(); err != nil {
		s.contacts = previous
		return err
	}
	s.byEmail = make(map[string]int64)
	s.byPhone = make(map[string]int64)
	return nil
}

// indexLocked finds id in the sorted slice. Callers hold mu.
func (s *Store) indexLocked(id int64) (int, bool) {
	i := sort.Search(len(s.contacts), func(i int) bool { return s.contacts[i].ID >= id })
	if i < len(s.contacts) && s.contacts[i].ID == id {
		return i, true
	}
	return 0, false
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", s.filePath, err)
	}

	sort.Slice(doc.Contacts, func(i, j int) bool { return doc.Contacts[i].ID < doc.Contacts[j].ID })
	for _, c := range doc.Contacts {
		s.byEmail[c.Email] = c.ID
		s.byPhone[c.Phone] = c.ID
		if c.ID >= doc.NextID {
			doc.NextID = c.ID + 1
		}
	}
	s.contacts = doc.Contacts
	if doc.NextID > s.nextID {
		s.nextID = doc.NextID
	}
	return nil
}

// saveLocked writes through a temp file and rename so a crash never leaves half a document.
func (s *Store) saveLocked() error {
	contacts := s.contacts
	if contacts == nil {
		contacts = []repository.Contact{}
	}
	data, err := json.MarshalIndent(document{NextID: s.nextID, Contacts: contacts}, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}
