package forms

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onyx-daemon/circle/internal/models"
	"github.com/onyx-daemon/circle/internal/utils"
)

// FieldKind identifies which part of the contact form a focus position
// falls on.
type FieldKind int

const (
	FieldFirstName FieldKind = iota
	FieldLastName
	FieldTitle
	FieldEmailRow
	FieldPhoneRow
	FieldSubmit
)

// EmailRow is one editable email entry: a text input for the address
// plus its type tag.
type EmailRow struct {
	Input textinput.Model
	Type  models.EmailType
}

// PhoneRow is one editable phone entry.
type PhoneRow struct {
	Input textinput.Model
	Type  models.PhoneType
}

// ContactForm is the in-memory state of one editor session. It serves
// both create and edit mode: supplying a source contact seeds the
// fields and switches submission to an update. All state is private to
// the session; nothing is shared until Payload() is sent.
type ContactForm struct {
	source *models.Contact

	FirstName textinput.Model
	LastName  textinput.Model
	Title     textinput.Model

	Emails EntryList[EmailRow]
	Phones EntryList[PhoneRow]

	focus  int
	Errors map[string]string
}

// NewContactForm seeds a form session. A nil contact opens the form in
// create mode with empty scalars and one blank entry row per list; a
// non-nil contact copies its fields, falling back to a single blank row
// for an empty list so the user always has an input row.
func NewContactForm(contact *models.Contact) ContactForm {
	f := ContactForm{
		source:    contact,
		FirstName: newFormInput("First name", 100),
		LastName:  newFormInput("Last name", 100),
		Title:     newFormInput("e.g. Software Engineer", 100),
		Errors:    make(map[string]string),
	}

	if contact != nil {
		f.FirstName.SetValue(contact.FirstName)
		f.LastName.SetValue(contact.LastName)
		f.Title.SetValue(contact.Title)
	}

	var emailRows []EmailRow
	var phoneRows []PhoneRow
	if contact != nil {
		for _, e := range contact.Emails {
			emailRows = append(emailRows, newEmailRow(e.Email, e.Type))
		}
		for _, p := range contact.Phones {
			phoneRows = append(phoneRows, newPhoneRow(p.PhoneNumber, p.Type))
		}
	}
	f.Emails = NewEntryList(emailRows, newEmailRow("", models.DefaultEmailType))
	f.Phones = NewEntryList(phoneRows, newPhoneRow("", models.DefaultPhoneType))

	f.FirstName.Focus()
	return f
}

func newFormInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Blue))
	in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Text))
	return in
}

func newEmailRow(email string, typ models.EmailType) EmailRow {
	in := newFormInput("email@example.com", 255)
	in.SetValue(email)
	return EmailRow{Input: in, Type: typ}
}

func newPhoneRow(number string, typ models.PhoneType) PhoneRow {
	in := newFormInput("+1234567890", 20)
	in.SetValue(number)
	return PhoneRow{Input: in, Type: typ}
}

// IsEdit reports whether the session was opened with an existing
// contact.
func (f *ContactForm) IsEdit() bool {
	return f.source != nil
}

// ContactID returns the id of the contact being edited; zero in create
// mode.
func (f *ContactForm) ContactID() int64 {
	if f.source == nil {
		return 0
	}
	return f.source.ID
}

func (f *ContactForm) fieldCount() int {
	return 3 + f.Emails.Len() + f.Phones.Len() + 1
}

// FocusedField returns the kind of field under focus and, for entry
// rows, the row index within its list.
func (f *ContactForm) FocusedField() (FieldKind, int) {
	switch {
	case f.focus == 0:
		return FieldFirstName, 0
	case f.focus == 1:
		return FieldLastName, 0
	case f.focus == 2:
		return FieldTitle, 0
	case f.focus < 3+f.Emails.Len():
		return FieldEmailRow, f.focus - 3
	case f.focus < 3+f.Emails.Len()+f.Phones.Len():
		return FieldPhoneRow, f.focus - 3 - f.Emails.Len()
	default:
		return FieldSubmit, 0
	}
}

func (f *ContactForm) NextField() tea.Cmd {
	if f.focus < f.fieldCount()-1 {
		f.focus++
	}
	return f.focusCurrent()
}

func (f *ContactForm) PrevField() tea.Cmd {
	if f.focus > 0 {
		f.focus--
	}
	return f.focusCurrent()
}

// OnSubmit reports whether focus sits on the submit control.
func (f *ContactForm) OnSubmit() bool {
	kind, _ := f.FocusedField()
	return kind == FieldSubmit
}

func (f *ContactForm) focusCurrent() tea.Cmd {
	f.FirstName.Blur()
	f.LastName.Blur()
	f.Title.Blur()
	for i := 0; i < f.Emails.Len(); i++ {
		f.Emails.Update(i, func(r *EmailRow) { r.Input.Blur() })
	}
	for i := 0; i < f.Phones.Len(); i++ {
		f.Phones.Update(i, func(r *PhoneRow) { r.Input.Blur() })
	}

	kind, row := f.FocusedField()
	var cmd tea.Cmd
	switch kind {
	case FieldFirstName:
		cmd = f.FirstName.Focus()
	case FieldLastName:
		cmd = f.LastName.Focus()
	case FieldTitle:
		cmd = f.Title.Focus()
	case FieldEmailRow:
		f.Emails.Update(row, func(r *EmailRow) { cmd = r.Input.Focus() })
	case FieldPhoneRow:
		f.Phones.Update(row, func(r *PhoneRow) { cmd = r.Input.Focus() })
	}
	return cmd
}

// UpdateFocused routes a message to the text input under focus.
func (f *ContactForm) UpdateFocused(msg tea.Msg) tea.Cmd {
	kind, row := f.FocusedField()
	var cmd tea.Cmd
	switch kind {
	case FieldFirstName:
		f.FirstName, cmd = f.FirstName.Update(msg)
	case FieldLastName:
		f.LastName, cmd = f.LastName.Update(msg)
	case FieldTitle:
		f.Title, cmd = f.Title.Update(msg)
	case FieldEmailRow:
		f.Emails.Update(row, func(r *EmailRow) { r.Input, cmd = r.Input.Update(msg) })
	case FieldPhoneRow:
		f.Phones.Update(row, func(r *PhoneRow) { r.Input, cmd = r.Input.Update(msg) })
	}
	return cmd
}

// AddRowAtFocus appends a blank row to the entry list whose section is
// under focus and moves focus to the new row. Focus on a scalar field
// or the submit control is a no-op.
func (f *ContactForm) AddRowAtFocus() tea.Cmd {
	kind, _ := f.FocusedField()
	switch kind {
	case FieldEmailRow:
		f.Emails.Append(newEmailRow("", models.DefaultEmailType))
		f.focus = 3 + f.Emails.Len() - 1
	case FieldPhoneRow:
		f.Phones.Append(newPhoneRow("", models.DefaultPhoneType))
		f.focus = 3 + f.Emails.Len() + f.Phones.Len() - 1
	default:
		return nil
	}
	return f.focusCurrent()
}

// RemoveRowAtFocus removes the entry row under focus. Removing the last
// remaining row of a list is a no-op, keeping at least one input row
// visible.
func (f *ContactForm) RemoveRowAtFocus() tea.Cmd {
	kind, row := f.FocusedField()
	switch kind {
	case FieldEmailRow:
		if f.Emails.Len() <= 1 {
			return nil
		}
		f.Emails.Remove(row)
		if row >= f.Emails.Len() {
			f.focus--
		}
	case FieldPhoneRow:
		if f.Phones.Len() <= 1 {
			return nil
		}
		f.Phones.Remove(row)
		if row >= f.Phones.Len() {
			f.focus--
		}
	default:
		return nil
	}
	return f.focusCurrent()
}

// CycleTypeAtFocus advances the type tag of the entry row under focus
// through its enumerated set.
func (f *ContactForm) CycleTypeAtFocus() {
	kind, row := f.FocusedField()
	switch kind {
	case FieldEmailRow:
		f.Emails.Update(row, func(r *EmailRow) { r.Type = r.Type.Next() })
	case FieldPhoneRow:
		f.Phones.Update(row, func(r *PhoneRow) { r.Type = r.Type.Next() })
	}
}

// Validate checks the required-field policy: first and last name must
// be non-empty after trimming. Entry rows are not validated here; blank
// rows are dropped at submission instead.
func (f *ContactForm) Validate() bool {
	f.Errors = make(map[string]string)

	if strings.TrimSpace(f.FirstName.Value()) == "" {
		f.Errors["firstName"] = "First name is required"
	}
	if strings.TrimSpace(f.LastName.Value()) == "" {
		f.Errors["lastName"] = "Last name is required"
	}

	return len(f.Errors) == 0
}

// Payload assembles the sanitized submission payload: trimmed scalars,
// blank entry rows dropped, order preserved.
func (f *ContactForm) Payload() models.ContactPayload {
	p := models.ContactPayload{
		FirstName: f.FirstName.Value(),
		LastName:  f.LastName.Value(),
		Title:     f.Title.Value(),
	}

	for _, r := range f.Emails.Rows() {
		p.Emails = append(p.Emails, models.EmailEntry{Email: r.Input.Value(), Type: r.Type})
	}
	for _, r := range f.Phones.Rows() {
		p.Phones = append(p.Phones, models.PhoneEntry{PhoneNumber: r.Input.Value(), Type: r.Type})
	}

	return p.Sanitized()
}
