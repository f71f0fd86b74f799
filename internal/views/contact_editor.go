package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onyx-daemon/circle/internal/api"
	"github.com/onyx-daemon/circle/internal/forms"
	"github.com/onyx-daemon/circle/internal/models"
	"github.com/onyx-daemon/circle/internal/utils"
)

type EditorOutcome int

const (
	EditorSaved EditorOutcome = iota
	EditorCancelled
)

// EditorResultMsg is the editor's terminal outcome, delivered to the
// collection controller. A failed submit is not terminal; the editor
// re-enables and stays open.
type EditorResultMsg struct {
	Outcome EditorOutcome
}

// EditorModel runs one editor session over a ContactForm. A nil source
// contact makes it a create session, otherwise an edit session for
// that contact.
type EditorModel struct {
	svc  ContactService
	form forms.ContactForm

	submitting bool
	spinner    *utils.Spinner
	errMsg     string
}

type editorSavedMsg struct {
	contact models.Contact
	err     error
}

func NewEditorModel(svc ContactService, contact *models.Contact) *EditorModel {
	return &EditorModel{
		svc:     svc,
		form:    forms.NewContactForm(contact),
		spinner: utils.NewSpinner(),
	}
}

func (m *EditorModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return nil
		}

		switch msg.String() {
		case "esc":
			return func() tea.Msg {
				return EditorResultMsg{Outcome: EditorCancelled}
			}

		case "tab":
			return m.form.NextField()

		case "shift+tab":
			return m.form.PrevField()

		case "enter":
			if m.form.OnSubmit() {
				return m.submit()
			}
			return m.form.NextField()

		case "ctrl+a":
			return m.form.AddRowAtFocus()

		case "ctrl+x":
			return m.form.RemoveRowAtFocus()

		case "ctrl+t":
			m.form.CycleTypeAtFocus()
			return nil
		}

		// Any edit clears a lingering submit failure.
		m.errMsg = ""
		return m.form.UpdateFocused(msg)

	case editorSavedMsg:
		m.submitting = false
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				return sessionExpired(msg.err)
			}
			m.errMsg = api.UserMessage(msg.err, api.FallbackSaveContact)
			return nil
		}
		return func() tea.Msg {
			return EditorResultMsg{Outcome: EditorSaved}
		}
	}

	return nil
}

func (m *EditorModel) submit() tea.Cmd {
	if !m.form.Validate() {
		return nil
	}

	m.submitting = true
	m.errMsg = ""

	svc := m.svc
	payload := m.form.Payload()
	isEdit := m.form.IsEdit()
	id := m.form.ContactID()

	return func() tea.Msg {
		var contact models.Contact
		var err error
		if isEdit {
			contact, err = svc.UpdateContact(context.Background(), id, payload)
		} else {
			contact, err = svc.CreateContact(context.Background(), payload)
		}
		return editorSavedMsg{contact: contact, err: err}
	}
}

func (m *EditorModel) View() string {
	var content strings.Builder

	title := "New Contact"
	if m.form.IsEdit() {
		title = "Edit Contact"
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Background(lipgloss.Color(utils.Colours.Surface0)).
		Padding(0, 1)

	content.WriteString(headerStyle.Render(title))
	content.WriteString("\n\n")

	fieldStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Padding(0, 2)

	kind, row := m.form.FocusedField()

	content.WriteString(fieldStyle.Render(fieldLabel("First Name *", kind == forms.FieldFirstName)))
	content.WriteString("\n")
	content.WriteString(fieldStyle.Render(m.form.FirstName.View()))
	content.WriteString(m.renderFieldError("firstName"))
	content.WriteString("\n\n")

	content.WriteString(fieldStyle.Render(fieldLabel("Last Name *", kind == forms.FieldLastName)))
	content.WriteString("\n")
	content.WriteString(fieldStyle.Render(m.form.LastName.View()))
	content.WriteString(m.renderFieldError("lastName"))
	content.WriteString("\n\n")

	content.WriteString(fieldStyle.Render(fieldLabel("Title", kind == forms.FieldTitle)))
	content.WriteString("\n")
	content.WriteString(fieldStyle.Render(m.form.Title.View()))
	content.WriteString("\n\n")

	content.WriteString(fieldStyle.Render("Emails"))
	content.WriteString("\n")
	for i, r := range m.form.Emails.Rows() {
		focused := kind == forms.FieldEmailRow && row == i
		content.WriteString(fieldStyle.Render(m.renderEntryRow(r.Input.View(), string(r.Type), focused)))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(fieldStyle.Render("Phones"))
	content.WriteString("\n")
	for i, r := range m.form.Phones.Rows() {
		focused := kind == forms.FieldPhoneRow && row == i
		content.WriteString(fieldStyle.Render(m.renderEntryRow(r.Input.View(), string(r.Type), focused)))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	submitLabel := "Save Contact"
	if m.submitting {
		submitLabel = m.spinner.View() + " Saving..."
	} else if kind == forms.FieldSubmit {
		submitLabel = "▶ " + submitLabel
	}
	submitStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(utils.Colours.Green)).
		Foreground(lipgloss.Color(utils.Colours.Base)).
		Padding(0, 2)
	content.WriteString(fieldStyle.Render(submitStyle.Render(submitLabel)))
	content.WriteString("\n\n")

	if m.errMsg != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Red)).
			Padding(0, 2)
		content.WriteString(errorStyle.Render("✗ " + m.errMsg))
		content.WriteString("\n\n")
	}

	controlsStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Overlay1)).
		Padding(0, 1)
	controls := "[Tab] Next [Shift+Tab] Previous [Ctrl+A] Add Row [Ctrl+X] Remove Row [Ctrl+T] Cycle Type [Enter] Submit [Esc] Cancel"
	content.WriteString(controlsStyle.Render(controls))

	return content.String()
}

func (m *EditorModel) renderEntryRow(inputView, typeName string, focused bool) string {
	marker := "  "
	if focused {
		marker = lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Blue)).
			Bold(true).
			Render("▶ ")
	}

	typeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Peach)).
		Padding(0, 1)

	return fmt.Sprintf("%s%s %s", marker, inputView, typeStyle.Render("["+typeName+"]"))
}

func (m *EditorModel) renderFieldError(field string) string {
	msg, exists := m.form.Errors[field]
	if !exists {
		return ""
	}
	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Red)).
		Padding(0, 2)
	return "\n" + errorStyle.Render("✗ " + msg)
}
