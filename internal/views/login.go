package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onyx-daemon/circle/internal/api"
	"github.com/onyx-daemon/circle/internal/utils"
)

type loginField int

const (
	loginFieldEmail loginField = iota
	loginFieldPassword
	loginFieldSubmit
)

type LoginModel struct {
	auth AuthService

	email    textinput.Model
	password textinput.Model
	focus    loginField

	submitting bool
	spinner    *utils.Spinner
	errMsg     string
}

type loginResultMsg struct {
	result api.AuthResult
	err    error
}

func NewLoginModel(auth AuthService) *LoginModel {
	email := newAuthInput("you@example.com", 255)
	email.Focus()

	password := newAuthInput("Password", 100)
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginModel{
		auth:     auth,
		email:    email,
		password: password,
		spinner:  utils.NewSpinner(),
	}
}

func newAuthInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Blue))
	in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Text))
	return in
}

func (m *LoginModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return nil
		}

		switch msg.String() {
		case "tab", "down":
			m.nextField()
			return m.focusCurrent()

		case "shift+tab", "up":
			m.prevField()
			return m.focusCurrent()

		case "enter":
			if m.focus == loginFieldSubmit {
				return m.submit()
			}
			m.nextField()
			return m.focusCurrent()

		case "ctrl+r":
			return NavigateTo(ViewRegister)
		}

		m.errMsg = ""
		var cmd tea.Cmd
		switch m.focus {
		case loginFieldEmail:
			m.email, cmd = m.email.Update(msg)
		case loginFieldPassword:
			m.password, cmd = m.password.Update(msg)
		}
		return cmd

	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = api.UserMessage(msg.err, api.FallbackLogin)
			return nil
		}
		return func() tea.Msg {
			return SessionEstablishedMsg{Token: msg.result.Token, User: msg.result.User}
		}
	}

	return nil
}

func (m *LoginModel) nextField() {
	if m.focus < loginFieldSubmit {
		m.focus++
	}
}

func (m *LoginModel) prevField() {
	if m.focus > 0 {
		m.focus--
	}
}

func (m *LoginModel) focusCurrent() tea.Cmd {
	m.email.Blur()
	m.password.Blur()

	switch m.focus {
	case loginFieldEmail:
		return m.email.Focus()
	case loginFieldPassword:
		return m.password.Focus()
	}
	return nil
}

func (m *LoginModel) submit() tea.Cmd {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()

	if email == "" || password == "" {
		m.errMsg = "Email and password are required"
		return nil
	}

	m.submitting = true
	m.errMsg = ""
	auth := m.auth

	return func() tea.Msg {
		result, err := auth.Login(context.Background(), api.Credentials{
			Email:    email,
			Password: password,
		})
		return loginResultMsg{result: result, err: err}
	}
}

func (m *LoginModel) View() string {
	var content strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Background(lipgloss.Color(utils.Colours.Surface0)).
		Padding(0, 1)

	content.WriteString(headerStyle.Render("circle — Sign In"))
	content.WriteString("\n\n")

	fieldStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Padding(0, 2)

	content.WriteString(fieldStyle.Render(fieldLabel("Email", m.focus == loginFieldEmail)))
	content.WriteString("\n")
	content.WriteString(fieldStyle.Render(m.email.View()))
	content.WriteString("\n\n")

	content.WriteString(fieldStyle.Render(fieldLabel("Password", m.focus == loginFieldPassword)))
	content.WriteString("\n")
	content.WriteString(fieldStyle.Render(m.password.View()))
	content.WriteString("\n\n")

	submitLabel := "Sign In"
	if m.submitting {
		submitLabel = m.spinner.View() + " Signing in..."
	} else if m.focus == loginFieldSubmit {
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
	content.WriteString(controlsStyle.Render("[Tab] Next Field [Enter] Submit [Ctrl+R] Register [Ctrl+C] Quit"))

	return content.String()
}

func fieldLabel(label string, focused bool) string {
	if focused {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Blue)).
			Bold(true).
			Render("▶ " + label)
	}
	return "  " + label
}
