package bus

import "github.com/lrtraviteja/contact-book-app/pkg/storage/repository"

// Event types published after a contact mutation has been persisted.
const (
	EventContactCreated  = "contact.created"
	EventContactDeleted  = "contact.deleted"
	EventContactsCleared = "contacts.cleared"
)

// ContactEvent carries the affected record, or just the ID for deletions.
type ContactEvent struct {
	Contact   *repository.Contact `json:"contact,omitempty"`
	ContactID int64               `json:"contact_id,omitempty"`
}
