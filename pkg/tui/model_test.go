package tui

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrtraviteja/contact-book-app/pkg/api"
	"github.com/lrtraviteja/contact-book-app/pkg/client"
	"github.com/lrtraviteja/contact-book-app/pkg/config"
	"github.com/lrtraviteja/contact-book-app/pkg/contacts"
	"github.com/lrtraviteja/contact-book-app/pkg/storage/sqlite"
)

// newTestModel wires a model to the real API over a temporary SQLite database
// seeded with n contacts.
func newTestModel(t *testing.T, n, limit int) (Model, *client.State) {
	t.Helper()
	store, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Connect(context.Background()))

	svc := contacts.NewService(store.Contacts())
	for i := 1; i <= n; i++ {
		_, err := svc.Create(context.Background(), contacts.Input{
			Name:  fmt.Sprintf("Person %02d", i),
			Email: fmt.Sprintf("p%02d@example.com", i),
			Phone: fmt.Sprintf("555%04d", i),
		})
		require.NoError(t, err)
	}

	ts := httptest.NewServer(api.NewServer(config.ServerConfig{}, svc, store, nil).Handler())
	t.Cleanup(ts.Close)

	state := client.NewState(client.New(ts.URL, 5*time.Second))
	m := NewModel(context.Background(), state, limit)
	m = run(t, m, m.Init())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), state
}

// run executes cmd synchronously and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(k)
	return updated.(Model), cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, runeKey(r))
	}
	return m
}

func TestInit_LoadsFirstPage(t *testing.T) {
	m, state := newTestModel(t, 12, 5)
	snap := state.Snapshot()

	assert.Len(t, snap.Contacts, 5)
	assert.Equal(t, 3, snap.TotalPages)
	assert.Contains(t, m.View(), "Page 1 of 3")
	assert.Contains(t, m.View(), "Person 01")
}

func TestPaging(t *testing.T) {
	m, state := newTestModel(t, 12, 5)

	m, cmd := press(t, m, runeKey('n'))
	m = run(t, m, cmd)
	assert.Equal(t, 2, state.Snapshot().CurrentPage)
	assert.Equal(t, int64(6), state.Snapshot().Contacts[0].ID)

	m, cmd = press(t, m, runeKey('n'))
	m = run(t, m, cmd)
	_, cmd = press(t, m, runeKey('n'))
	assert.Nil(t, cmd, "no page past the last")
	assert.Equal(t, 3, state.Snapshot().CurrentPage)

	m, cmd = press(t, m, runeKey('p'))
	run(t, m, cmd)
	assert.Equal(t, 2, state.Snapshot().CurrentPage)
}

func TestCursorMovement(t *testing.T) {
	m, _ := newTestModel(t, 3, 10)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
	for i := 0; i < 5; i++ {
		m, _ = press(t, m, runeKey('j'))
	}
	assert.Equal(t, 2, m.cursor)
}

func TestAddContact(t *testing.T) {
	m, state := newTestModel(t, 1, 10)

	m, _ = press(t, m, runeKey('a'))
	require.Equal(t, ModeAdd, m.mode)

	m = typeText(t, m, "Grace")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "grace@navy.mil")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeText(t, m, "1906")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ModeList, m.mode)
	m = run(t, m, cmd)

	snap := state.Snapshot()
	assert.Equal(t, 2, snap.TotalContacts)
	assert.Equal(t, "Grace", snap.Contacts[0].Name)
	assert.Equal(t, "Contact added", m.status)
}

func TestAddContact_RequiresAllFields(t *testing.T) {
	m, _ := newTestModel(t, 0, 10)

	m, _ = press(t, m, runeKey('a'))
	m = typeText(t, m, "Only Name")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, ModeAdd, m.mode)
	assert.Equal(t, "Please fill in email, phone", m.status)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeList, m.mode)
}

func TestAddContact_DuplicateShowsError(t *testing.T) {
	m, state := newTestModel(t, 1, 10)

	m, _ = press(t, m, runeKey('a'))
	m = typeText(t, m, "Clone")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "p01@example.com")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "999")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = run(t, m, cmd)

	assert.Equal(t, client.MsgDuplicate, state.Snapshot().Error)
	assert.Contains(t, m.View(), client.MsgDuplicate)
	assert.Empty(t, m.status)
}

func TestDeleteSelected(t *testing.T) {
	m, state := newTestModel(t, 3, 10)

	m, _ = press(t, m, runeKey('j'))
	m, cmd := press(t, m, runeKey('d'))
	require.NotNil(t, cmd)
	m = run(t, m, cmd)

	snap := state.Snapshot()
	require.Len(t, snap.Contacts, 2)
	assert.Equal(t, int64(1), snap.Contacts[0].ID)
	assert.Equal(t, int64(3), snap.Contacts[1].ID)
	assert.Equal(t, "Contact deleted", m.status)
}

func TestDeleteAll_Confirm(t *testing.T) {
	m, state := newTestModel(t, 4, 10)

	m, _ = press(t, m, runeKey('D'))
	require.Equal(t, ModeConfirm, m.mode)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Equal(t, ModeList, m.mode)
	assert.Len(t, state.Snapshot().Contacts, 4)

	m, _ = press(t, m, runeKey('D'))
	m, cmd = press(t, m, runeKey('y'))
	m = run(t, m, cmd)

	snap := state.Snapshot()
	assert.Empty(t, snap.Contacts)
	assert.Equal(t, 0, snap.TotalContacts)
	assert.Contains(t, m.View(), "No contacts yet")
}

func TestSearchFiltersLocally(t *testing.T) {
	m, state := newTestModel(t, 12, 20)

	m, _ = press(t, m, runeKey('/'))
	require.Equal(t, ModeSearch, m.mode)
	m = typeText(t, m, "P1")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeList, m.mode)
	assert.Len(t, state.Filtered(), 3, "p10, p11 and p12 by email")
	assert.Len(t, state.Snapshot().Contacts, 12)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, state.Filtered(), 12)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, 0, 10)
	_, cmd := press(t, m, runeKey('q'))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
