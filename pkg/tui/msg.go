// Package tui implements the interactive contact list: a paged table backed by
// client.State with add, delete, delete-all and local search.
package tui

import "github.com/lrtraviteja/contact-book-app/pkg/client"

// Mode is the current screen.
type Mode int

const (
	ModeList    Mode = iota // Browsing the current page.
	ModeSearch              // Typing a local filter.
	ModeAdd                 // Filling in the new-contact form.
	ModeConfirm             // Confirming delete-all.
)

// refreshedMsg reports that State.Refresh finished.
type refreshedMsg struct{}

// mutationMsg reports the outcome of a create or delete.
type mutationMsg struct {
	action string
	result client.Result
}
