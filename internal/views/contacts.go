package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onyx-daemon/circle/internal/api"
	"github.com/onyx-daemon/circle/internal/config"
	"github.com/onyx-daemon/circle/internal/models"
	"github.com/onyx-daemon/circle/internal/utils"
)

// ContactsModel owns the contact collection: the settled search query,
// the current page, the visible contacts, and the editor and delete
// workflows layered over the list.
type ContactsModel struct {
	svc      ContactService
	pageSize int
	debounce time.Duration

	searchInput textinput.Model
	query       string // settled query, the one fetches run with

	contacts   []models.Contact
	selected   int
	page       int
	totalPages int

	// Every fetch carries a sequence number; a result is applied only
	// when its number still matches the latest issued. Stale responses
	// from superseded fetches are dropped.
	fetchSeq    int
	debounceSeq int

	editor       *EditorModel
	deleteTarget *models.Contact
	deleting     bool

	loading        bool
	loadingSpinner *utils.Spinner
	errMsg         string
	successMessage string

	width  int
	height int
}

type contactsFetchedMsg struct {
	seq  int
	page api.Page
	err  error
}

type searchDebouncedMsg struct {
	seq int
}

type deleteResultMsg struct {
	id  int64
	err error
}

func NewContactsModel(svc ContactService, cfg *config.Config) *ContactsModel {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search contacts..."
	searchInput.CharLimit = 100
	searchInput.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Blue))
	searchInput.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Text))

	pageSize := config.DefaultPageSize
	debounce := config.DefaultSearchDebounce
	if cfg != nil {
		pageSize = cfg.PageSize
		debounce = cfg.SearchDebounce
	}

	return &ContactsModel{
		svc:            svc,
		pageSize:       pageSize,
		debounce:       debounce,
		searchInput:    searchInput,
		contacts:       []models.Contact{},
		loadingSpinner: utils.NewSpinner(),
	}
}

func (m *ContactsModel) Init() tea.Cmd {
	m.loading = true
	return m.fetch()
}

// fetch issues one request for the current settled query and page,
// tagged with a fresh sequence number.
func (m *ContactsModel) fetch() tea.Cmd {
	m.fetchSeq++
	seq := m.fetchSeq
	query := m.query
	page := m.page
	size := m.pageSize
	svc := m.svc

	return func() tea.Msg {
		var result api.Page
		var err error
		if query != "" {
			result, err = svc.SearchContacts(context.Background(), query, page, size)
		} else {
			result, err = svc.ListContacts(context.Background(), page, size)
		}
		return contactsFetchedMsg{seq: seq, page: result, err: err}
	}
}

func (m *ContactsModel) Update(msg tea.Msg) tea.Cmd {
	// The editor owns the input surface while open, but fetch results
	// still belong to the list; a current result must land even when
	// it resolves mid-edit, or the list is stuck loading after close.
	if m.editor != nil {
		switch msg := msg.(type) {
		case contactsFetchedMsg:
			return m.applyFetchResult(msg)

		case EditorResultMsg:
			m.editor = nil
			if msg.Outcome == EditorSaved {
				m.successMessage = "Contact saved."
				m.loading = true
				return m.fetch()
			}
			return nil
		}
		return m.editor.Update(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.deleteTarget != nil {
			return m.updateDeleteConfirm(msg)
		}
		return m.updateList(msg)

	case contactsFetchedMsg:
		return m.applyFetchResult(msg)

	case searchDebouncedMsg:
		if msg.seq != m.debounceSeq {
			return nil
		}
		value := strings.TrimSpace(m.searchInput.Value())
		if value == m.query {
			return nil
		}
		m.query = value
		m.page = 0
		m.selected = 0
		m.loading = true
		return m.fetch()

	case deleteResultMsg:
		m.deleting = false
		m.deleteTarget = nil
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				return sessionExpired(msg.err)
			}
			m.errMsg = api.UserMessage(msg.err, api.FallbackDeleteContact)
			return nil
		}
		m.successMessage = "Contact deleted."
		m.loading = true
		return m.fetch()
	}

	return nil
}

// applyFetchResult lands one fetch result, discarding it when a later
// fetch has been issued since.
func (m *ContactsModel) applyFetchResult(msg contactsFetchedMsg) tea.Cmd {
	if msg.seq != m.fetchSeq {
		return nil
	}
	m.loading = false
	if msg.err != nil {
		if api.IsUnauthorized(msg.err) {
			return sessionExpired(msg.err)
		}
		m.errMsg = api.UserMessage(msg.err, api.FallbackFetchContacts)
		return nil
	}
	m.errMsg = ""
	m.contacts = msg.page.Content
	m.totalPages = msg.page.TotalPages
	if m.selected >= len(m.contacts) {
		m.selected = 0
	}
	return nil
}

func (m *ContactsModel) updateList(msg tea.KeyMsg) tea.Cmd {
	if m.searchInput.Focused() {
		switch msg.String() {
		case "esc":
			m.searchInput.Blur()
			return nil
		case "enter":
			m.searchInput.Blur()
			return nil
		case "tab", "shift+tab", "up", "down":
			m.searchInput.Blur()
			// fall through to list handling on the next keypress
			return nil
		}

		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.debounceSeq++
		seq := m.debounceSeq
		debounce := m.debounce
		return tea.Batch(cmd, tea.Tick(debounce, func(time.Time) tea.Msg {
			return searchDebouncedMsg{seq: seq}
		}))
	}

	switch msg.String() {
	case "q":
		return tea.Quit

	case "/", "ctrl+s":
		m.clearMessages()
		return m.searchInput.Focus()

	case "esc":
		if m.query != "" || m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.query = ""
			m.page = 0
			m.selected = 0
			m.loading = true
			return m.fetch()
		}
		return nil

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.contacts)-1 {
			m.selected++
		}

	case "left", "pgup", "h":
		if m.page > 0 {
			m.page--
			m.selected = 0
			m.loading = true
			return m.fetch()
		}

	case "right", "pgdown", "l":
		if m.page < m.totalPages-1 {
			m.page++
			m.selected = 0
			m.loading = true
			return m.fetch()
		}

	case "n", "ctrl+n":
		m.clearMessages()
		m.editor = NewEditorModel(m.svc, nil)
		return nil

	case "e", "enter":
		if len(m.contacts) > 0 {
			m.clearMessages()
			contact := m.contacts[m.selected]
			m.editor = NewEditorModel(m.svc, &contact)
		}

	case "d", "delete":
		if len(m.contacts) > 0 {
			m.clearMessages()
			contact := m.contacts[m.selected]
			m.deleteTarget = &contact
		}

	case "r":
		m.clearMessages()
		m.loading = true
		return m.fetch()

	case "p", "ctrl+p":
		return NavigateTo(ViewProfile)
	}

	return nil
}

func (m *ContactsModel) updateDeleteConfirm(msg tea.KeyMsg) tea.Cmd {
	if m.deleting {
		return nil
	}

	switch msg.String() {
	case "y", "Y", "enter":
		target := m.deleteTarget
		m.deleting = true
		svc := m.svc
		id := target.ID
		return func() tea.Msg {
			err := svc.DeleteContact(context.Background(), id)
			return deleteResultMsg{id: id, err: err}
		}

	case "n", "N", "esc":
		m.deleteTarget = nil
	}

	return nil
}

func (m *ContactsModel) clearMessages() {
	m.errMsg = ""
	m.successMessage = ""
}

func sessionExpired(err error) tea.Cmd {
	notice := api.UserMessage(err, "Your session has expired. Please log in again.")
	return func() tea.Msg {
		return SessionExpiredMsg{Notice: notice}
	}
}

func (m *ContactsModel) View() string {
	if m.editor != nil {
		return m.editor.View()
	}
	if m.deleteTarget != nil {
		return m.renderDeleteConfirm()
	}
	return m.renderList()
}

func (m *ContactsModel) renderList() string {
	var content strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Background(lipgloss.Color(utils.Colours.Surface0)).
		Padding(0, 1).
		Width(m.width)

	content.WriteString(headerStyle.Render("Contacts"))
	content.WriteString("\n")

	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(utils.Colours.Surface1)).
		Padding(0, 1).
		Width(40)
	if m.searchInput.Focused() {
		searchStyle = searchStyle.BorderForeground(lipgloss.Color(utils.Colours.Blue))
	}
	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, "Search: ", searchStyle.Render(m.searchInput.View())))
	content.WriteString("\n")

	if m.loading {
		loadingStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Yellow)).
			Padding(2, 0)
		content.WriteString(loadingStyle.Render(m.loadingSpinner.View() + " Loading contacts..."))
	} else if len(m.contacts) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Overlay1)).
			Padding(2, 0)
		if m.query != "" {
			content.WriteString(emptyStyle.Render("No contacts found matching your search."))
		} else {
			content.WriteString(emptyStyle.Render("No contacts yet. Press N to create your first contact."))
		}
	} else {
		for i, contact := range m.contacts {
			content.WriteString(m.renderContactItem(contact, i == m.selected))
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	content.WriteString(m.renderFooter())

	if m.successMessage != "" {
		successStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Green)).
			Padding(1, 0)
		content.WriteString("\n")
		content.WriteString(successStyle.Render("✓ " + m.successMessage))
	}

	if m.errMsg != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Red)).
			Padding(1, 0)
		content.WriteString("\n")
		content.WriteString(errorStyle.Render("✗ " + m.errMsg))
	}

	return content.String()
}

func (m *ContactsModel) renderContactItem(contact models.Contact, isSelected bool) string {
	var style lipgloss.Style
	if isSelected {
		style = lipgloss.NewStyle().
			Background(lipgloss.Color(utils.Colours.Surface1)).
			Foreground(lipgloss.Color(utils.Colours.Text)).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(utils.Colours.Blue))
	} else {
		style = lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Text)).
			Padding(0, 1)
	}

	avatar := contact.Initials()
	if avatar == "" {
		avatar = "??"
	}
	avatarStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(utils.Colours.Mauve)).
		Foreground(lipgloss.Color(utils.Colours.Base)).
		Padding(0, 1)

	nameStyle := lipgloss.NewStyle().Bold(true).Width(28)
	name := utils.Truncate(contact.FullName(), 28)

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Overlay1)).
		Width(24)
	title := utils.Truncate(contact.Title, 24)

	detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Blue))
	detail := ""
	if len(contact.Emails) > 0 {
		detail = contact.Emails[0].Email
		if len(contact.Emails) > 1 {
			detail += fmt.Sprintf(" (+%d)", len(contact.Emails)-1)
		}
	} else if len(contact.Phones) > 0 {
		detail = contact.Phones[0].PhoneNumber
		if len(contact.Phones) > 1 {
			detail += fmt.Sprintf(" (+%d)", len(contact.Phones)-1)
		}
	}

	line := fmt.Sprintf("%s %s%s%s",
		avatarStyle.Render(avatar),
		nameStyle.Render(name),
		titleStyle.Render(title),
		detailStyle.Render(detail),
	)

	return style.Render(line)
}

func (m *ContactsModel) renderFooter() string {
	controls := "[N]ew [E]dit [D]elete [/]Search [←/→]Page [R]efresh [P]rofile [Q]uit"
	controlsStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Overlay1)).
		Padding(0, 1)

	pagination := ""
	if m.totalPages > 1 {
		pagination = fmt.Sprintf("Page %d of %d", m.page+1, m.totalPages)
	}
	statsStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Overlay1)).
		Padding(0, 1)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		controlsStyle.Render(controls),
		statsStyle.Render(pagination),
	)
}

func (m *ContactsModel) renderDeleteConfirm() string {
	contact := m.deleteTarget

	var content strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(utils.Colours.Red)).
		Background(lipgloss.Color(utils.Colours.Surface0)).
		Padding(0, 1).
		Width(m.width)

	content.WriteString(headerStyle.Render("Delete Contact"))
	content.WriteString("\n\n")

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Red)).
		Padding(0, 2)
	content.WriteString(warningStyle.Render(fmt.Sprintf("Are you sure you want to delete '%s'?", contact.FullName())))
	content.WriteString("\n\n")

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Padding(0, 2)
	info := fmt.Sprintf("Emails: %d\nPhones: %d", len(contact.Emails), len(contact.Phones))
	content.WriteString(infoStyle.Render(info))
	content.WriteString("\n\n")

	content.WriteString(infoStyle.Render("This action cannot be undone."))
	content.WriteString("\n\n")

	if m.deleting {
		busyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Yellow)).
			Padding(0, 2)
		content.WriteString(busyStyle.Render(m.loadingSpinner.View() + " Deleting..."))
		content.WriteString("\n\n")
	}

	controlsStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Overlay1)).
		Padding(0, 1)
	content.WriteString(controlsStyle.Render("[Y] Yes, Delete [N/Esc] Cancel"))

	return content.String()
}
