package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/lrtraviteja/contact-book-app/pkg/contacts"
)

const (
	fieldName = iota
	fieldEmail
	fieldPhone
	fieldCount
)

// addForm holds the three inputs of the new-contact form.
type addForm struct {
	inputs []textinput.Model
	focus  int
}

func newAddForm() addForm {
	labels := [fieldCount]string{"Name", "Email", "Phone"}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.Prompt = labels[i] + ": "
		ti.CharLimit = 128
		inputs[i] = ti
	}
	inputs[fieldName].Focus()
	return addForm{inputs: inputs}
}

func (f *addForm) next() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f *addForm) prev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + fieldCount - 1) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f addForm) onLastField() bool {
	return f.focus == fieldCount-1
}

func (f addForm) input() contacts.Input {
	return contacts.Input{
		Name:  strings.TrimSpace(f.inputs[fieldName].Value()),
		Email: strings.TrimSpace(f.inputs[fieldEmail].Value()),
		Phone: strings.TrimSpace(f.inputs[fieldPhone].Value()),
	}
}

// missing names the empty fields; the form refuses to submit until it is empty.
func (f addForm) missing() []string {
	in := f.input()
	var out []string
	if in.Name == "" {
		out = append(out, "name")
	}
	if in.Email == "" {
		out = append(out, "email")
	}
	if in.Phone == "" {
		out = append(out, "phone")
	}
	return out
}

func (f addForm) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New contact"))
	b.WriteString("\n\n")
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return boxStyle.Render(b.String())
}
