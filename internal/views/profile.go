package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onyx-daemon/circle/internal/api"
	"github.com/onyx-daemon/circle/internal/models"
	"github.com/onyx-daemon/circle/internal/utils"
)

type passwordField int

const (
	pwFieldCurrent passwordField = iota
	pwFieldNew
	pwFieldConfirm
	pwFieldSubmit
)

// ProfileModel shows the authenticated account and hosts the
// change-password modal.
type ProfileModel struct {
	auth AuthService
	user models.User

	showPasswordForm bool
	pwInputs         []textinput.Model
	pwFocus          passwordField
	submitting       bool

	spinner *utils.Spinner
	errMsg  string
	notice  string
}

// ProfileLoadedMsg carries the refreshed account; the app syncs it
// into the session before routing it here.
type ProfileLoadedMsg struct {
	User models.User
	Err  error
}

type passwordChangedMsg struct {
	err error
}

func NewProfileModel(auth AuthService, user models.User) *ProfileModel {
	return &ProfileModel{
		auth:    auth,
		user:    user,
		spinner: utils.NewSpinner(),
	}
}

func (m *ProfileModel) Init() tea.Cmd {
	auth := m.auth
	return func() tea.Msg {
		user, err := auth.CurrentUser(context.Background())
		return ProfileLoadedMsg{User: user, Err: err}
	}
}

func (m *ProfileModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showPasswordForm {
			return m.updatePasswordForm(msg)
		}

		switch msg.String() {
		case "esc", "q":
			return NavigateTo(ViewContacts)

		case "c":
			m.openPasswordForm()
			return m.pwInputs[pwFieldCurrent].Focus()

		case "ctrl+l", "L":
			return func() tea.Msg {
				return LoggedOutMsg{}
			}
		}

	case ProfileLoadedMsg:
		if msg.Err != nil {
			if api.IsUnauthorized(msg.Err) {
				return sessionExpired(msg.Err)
			}
			m.errMsg = api.UserMessage(msg.Err, api.FallbackProfile)
			return nil
		}
		m.user = msg.User
		return nil

	case passwordChangedMsg:
		m.submitting = false
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				return sessionExpired(msg.err)
			}
			m.errMsg = api.UserMessage(msg.err, api.FallbackChangePassword)
			return nil
		}
		m.showPasswordForm = false
		m.notice = "Password changed."
		return nil
	}

	return nil
}

func (m *ProfileModel) openPasswordForm() {
	m.pwInputs = make([]textinput.Model, pwFieldSubmit)
	labels := []string{"Current password", "New password (min 6 characters)", "Confirm new password"}
	for i, label := range labels {
		in := newAuthInput(label, 100)
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
		m.pwInputs[i] = in
	}
	m.pwFocus = pwFieldCurrent
	m.showPasswordForm = true
	m.errMsg = ""
	m.notice = ""
}

func (m *ProfileModel) updatePasswordForm(msg tea.KeyMsg) tea.Cmd {
	if m.submitting {
		return nil
	}

	switch msg.String() {
	case "esc":
		m.showPasswordForm = false
		m.errMsg = ""
		return nil

	case "tab", "down":
		if m.pwFocus < pwFieldSubmit {
			m.pwFocus++
		}
		return m.focusPasswordField()

	case "shift+tab", "up":
		if m.pwFocus > 0 {
			m.pwFocus--
		}
		return m.focusPasswordField()

	case "enter":
		if m.pwFocus == pwFieldSubmit {
			return m.submitPasswordChange()
		}
		m.pwFocus++
		return m.focusPasswordField()
	}

	m.errMsg = ""
	var cmd tea.Cmd
	if m.pwFocus < pwFieldSubmit {
		m.pwInputs[m.pwFocus], cmd = m.pwInputs[m.pwFocus].Update(msg)
	}
	return cmd
}

func (m *ProfileModel) focusPasswordField() tea.Cmd {
	for i := range m.pwInputs {
		m.pwInputs[i].Blur()
	}
	if m.pwFocus < pwFieldSubmit {
		return m.pwInputs[m.pwFocus].Focus()
	}
	return nil
}

// submitPasswordChange short-circuits on local validation before any
// remote call is made.
func (m *ProfileModel) submitPasswordChange() tea.Cmd {
	current := m.pwInputs[pwFieldCurrent].Value()
	newPassword := m.pwInputs[pwFieldNew].Value()
	confirm := m.pwInputs[pwFieldConfirm].Value()

	if current == "" {
		m.errMsg = "Current password is required"
		return nil
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	if newPassword != confirm {
		m.errMsg = "New passwords do not match"
		return nil
	}

	m.submitting = true
	m.errMsg = ""
	auth := m.auth

	return func() tea.Msg {
		err := auth.ChangePassword(context.Background(), api.PasswordChange{
			CurrentPassword: current,
			NewPassword:     newPassword,
		})
		return passwordChangedMsg{err: err}
	}
}

func (m *ProfileModel) View() string {
	if m.showPasswordForm {
		return m.renderPasswordForm()
	}
	return m.renderProfile()
}

func (m *ProfileModel) renderProfile() string {
	var content strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Background(lipgloss.Color(utils.Colours.Surface0)).
		Padding(0, 1)

	content.WriteString(headerStyle.Render("Profile"))
	content.WriteString("\n\n")

	avatar := m.user.Initials()
	if avatar == "" {
		avatar = "??"
	}
	avatarStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(utils.Colours.Mauve)).
		Foreground(lipgloss.Color(utils.Colours.Base)).
		Padding(1, 2).
		Bold(true)
	content.WriteString("  " + avatarStyle.Render(avatar))
	content.WriteString("\n\n")

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Padding(0, 2)

	status := "Inactive"
	if m.user.Active {
		status = "Active"
	}

	info := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nStatus: %s",
		m.user.FullName(),
		m.user.Email,
		m.user.PhoneNumber,
		status,
	)
	if since := utils.FormatDate(m.user.CreatedAt); since != "" {
		info += fmt.Sprintf("\nMember since: %s", since)
	}
	content.WriteString(infoStyle.Render(info))
	content.WriteString("\n\n")

	if m.notice != "" {
		noticeStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Green)).
			Padding(0, 2)
		content.WriteString(noticeStyle.Render("✓ " + m.notice))
		content.WriteString("\n\n")
	}

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
	content.WriteString(controlsStyle.Render("[C] Change Password [Ctrl+L] Logout [Esc] Back to Contacts"))

	return content.String()
}

func (m *ProfileModel) renderPasswordForm() string {
	var content strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Background(lipgloss.Color(utils.Colours.Surface0)).
		Padding(0, 1)

	content.WriteString(headerStyle.Render("Change Password"))
	content.WriteString("\n\n")

	fieldStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Padding(0, 2)

	labels := []string{"Current Password", "New Password", "Confirm New Password"}
	for i, label := range labels {
		content.WriteString(fieldStyle.Render(fieldLabel(label, m.pwFocus == passwordField(i))))
		content.WriteString("\n")
		content.WriteString(fieldStyle.Render(m.pwInputs[i].View()))
		content.WriteString("\n\n")
	}

	submitLabel := "Change Password"
	if m.submitting {
		submitLabel = m.spinner.View() + " Changing..."
	} else if m.pwFocus == pwFieldSubmit {
		submitLabel = "▶ " + submitLabel
	}
	submitStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(utils.Colours.Blue)).
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
	content.WriteString(controlsStyle.Render("[Tab] Next Field [Enter] Submit [Esc] Cancel"))

	return content.String()
}
