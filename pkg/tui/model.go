package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lrtraviteja/contact-book-app/pkg/client"
	"github.com/lrtraviteja/contact-book-app/pkg/contacts"
)

const (
	actionCreate    = "create"
	actionDelete    = "delete"
	actionDeleteAll = "delete-all"
)

// Model is the root Bubble Tea model. All contact data lives in the shared
// client.State; the model only tracks screen state.
type Model struct {
	ctx    context.Context
	state  *client.State
	limit  int
	mode   Mode
	cursor int
	width  int
	height int
	help   help.Model
	search textinput.Model
	form   addForm
	status string
}

func NewModel(ctx context.Context, state *client.State, limit int) Model {
	if limit <= 0 {
		limit = contacts.DefaultLimit
	}
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "name, email or phone"

	return Model{
		ctx:    ctx,
		state:  state,
		limit:  limit,
		mode:   ModeList,
		help:   help.New(),
		search: search,
		form:   newAddForm(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.refresh(1)
}

func (m Model) refresh(page int) tea.Cmd {
	state, ctx, limit := m.state, m.ctx, m.limit
	return func() tea.Msg {
		state.Refresh(ctx, page, limit)
		return refreshedMsg{}
	}
}

func (m Model) mutate(action string, fn func(context.Context) client.Result) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return mutationMsg{action: action, result: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case refreshedMsg:
		m.clampCursor()
		return m, nil

	case mutationMsg:
		m.status = ""
		if msg.result.Success {
			m.status = successMessage(msg.action)
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeAdd:
			return m.updateForm(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := ListKeyMap()
	snap := m.state.Snapshot()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.state.Filtered())-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.NextPage):
		if snap.CurrentPage < snap.TotalPages {
			m.cursor = 0
			return m, m.refresh(snap.CurrentPage + 1)
		}
	case key.Matches(msg, keys.PrevPage):
		if snap.CurrentPage > 1 {
			m.cursor = 0
			return m, m.refresh(snap.CurrentPage - 1)
		}
	case key.Matches(msg, keys.Refresh):
		return m, m.refresh(snap.CurrentPage)
	case key.Matches(msg, keys.Search):
		m.mode = ModeSearch
		m.search.SetValue(snap.SearchTerm)
		return m, m.search.Focus()
	case key.Matches(msg, keys.Add):
		m.mode = ModeAdd
		m.form = newAddForm()
		m.status = ""
		return m, textinput.Blink
	case key.Matches(msg, keys.Delete):
		visible := m.state.Filtered()
		if m.cursor < len(visible) {
			id := visible[m.cursor].ID
			return m, m.mutate(actionDelete, func(ctx context.Context) client.Result {
				return m.state.DeleteOne(ctx, id)
			})
		}
	case key.Matches(msg, keys.DeleteAll):
		if snap.TotalContacts > 0 || len(snap.Contacts) > 0 {
			m.mode = ModeConfirm
		}
	case msg.Type == tea.KeyEsc:
		m.state.SetSearchTerm("")
		m.clampCursor()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := FormKeyMap()
	switch {
	case key.Matches(msg, keys.Cancel):
		m.search.Blur()
		m.search.SetValue("")
		m.state.SetSearchTerm("")
		m.mode = ModeList
		m.clampCursor()
		return m, nil
	case key.Matches(msg, keys.Submit):
		m.search.Blur()
		m.mode = ModeList
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.state.SetSearchTerm(m.search.Value())
	m.cursor = 0
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := FormKeyMap()
	switch {
	case key.Matches(msg, keys.Cancel):
		m.mode = ModeList
		m.status = ""
		return m, nil
	case msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp:
		m.form.prev()
		return m, nil
	case key.Matches(msg, keys.Next):
		m.form.next()
		return m, nil
	case key.Matches(msg, keys.Submit):
		if !m.form.onLastField() {
			m.form.next()
			return m, nil
		}
		if missing := m.form.missing(); len(missing) > 0 {
			m.status = "Please fill in " + strings.Join(missing, ", ")
			return m, nil
		}
		in := m.form.input()
		m.mode = ModeList
		m.status = ""
		return m, m.mutate(actionCreate, func(ctx context.Context) client.Result {
			return m.state.Create(ctx, in)
		})
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := ConfirmKeyMap()
	switch {
	case key.Matches(msg, keys.Yes):
		m.mode = ModeList
		m.cursor = 0
		return m, m.mutate(actionDeleteAll, m.state.DeleteAll)
	case key.Matches(msg, keys.No):
		m.mode = ModeList
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.state.Filtered())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func successMessage(action string) string {
	switch action {
	case actionCreate:
		return "Contact added"
	case actionDelete:
		return "Contact deleted"
	case actionDeleteAll:
		return "All contacts deleted"
	}
	return ""
}

func (m Model) View() string {
	snap := m.state.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Contact Book"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Page %d of %d · %d contacts", snap.CurrentPage, snap.TotalPages, snap.TotalContacts)))
	b.WriteString("\n\n")

	switch m.mode {
	case ModeAdd:
		b.WriteString(m.form.View())
		b.WriteString("\n")
	case ModeConfirm:
		b.WriteString(boxStyle.Render(fmt.Sprintf("Delete all %d contacts? This cannot be undone.", snap.TotalContacts)))
		b.WriteString("\n")
	default:
		b.WriteString(m.viewTable(snap))
		if m.mode == ModeSearch {
			b.WriteString("\n")
			b.WriteString(m.search.View())
		} else if snap.SearchTerm != "" {
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render("filter: " + snap.SearchTerm + " (esc to clear)"))
		}
		b.WriteString("\n")
	}

	switch {
	case snap.Loading:
		b.WriteString(mutedStyle.Render("Loading..."))
	case snap.Error != "":
		b.WriteString(errorStyle.Render(snap.Error))
	case m.status != "":
		if m.mode == ModeAdd {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(successStyle.Render(m.status))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.helpKeys()))
	return b.String()
}

func (m Model) helpKeys() help.KeyMap {
	switch m.mode {
	case ModeSearch, ModeAdd:
		return FormKeyMap()
	case ModeConfirm:
		return ConfirmKeyMap()
	default:
		return ListKeyMap()
	}
}

func (m Model) viewTable(snap client.Snapshot) string {
	visible := m.state.Filtered()
	if len(visible) == 0 {
		if snap.SearchTerm != "" {
			return mutedStyle.Render("No contacts match the search.") + "\n"
		}
		return mutedStyle.Render("No contacts yet. Press a to add one.") + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(row("ID", "Name", "Email", "Phone")))
	b.WriteString("\n")
	for i, c := range visible {
		line := row(fmt.Sprint(c.ID), c.Name, c.Email, c.Phone)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func row(id, name, email, phone string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell(id, colID), cell(name, colName), cell(email, colEmail), cell(phone, colPhone))
}

func cell(s string, width int) string {
	if lipgloss.Width(s) > width-1 {
		r := []rune(s)
		if len(r) > width-2 {
			s = string(r[:width-2]) + "…"
		}
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
