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

type registerField int

const (
	regFieldFirstName registerField = iota
	regFieldLastName
	regFieldEmail
	regFieldPhone
	regFieldPassword
	regFieldConfirm
	regFieldSubmit
)

type RegisterModel struct {
	auth AuthService

	inputs []textinput.Model
	focus  registerField

	submitting bool
	spinner    *utils.Spinner
	errMsg     string
}

type registerResultMsg struct {
	result api.AuthResult
	err    error
}

func NewRegisterModel(auth AuthService) *RegisterModel {
	inputs := make([]textinput.Model, regFieldSubmit)

	inputs[regFieldFirstName] = newAuthInput("First name", 100)
	inputs[regFieldLastName] = newAuthInput("Last name", 100)
	inputs[regFieldEmail] = newAuthInput("you@example.com", 255)
	inputs[regFieldPhone] = newAuthInput("+1234567890 (optional)", 20)
	inputs[regFieldPassword] = newAuthInput("Password (min 6 characters)", 100)
	inputs[regFieldPassword].EchoMode = textinput.EchoPassword
	inputs[regFieldPassword].EchoCharacter = '•'
	inputs[regFieldConfirm] = newAuthInput("Confirm password", 100)
	inputs[regFieldConfirm].EchoMode = textinput.EchoPassword
	inputs[regFieldConfirm].EchoCharacter = '•'

	inputs[regFieldFirstName].Focus()

	return &RegisterModel{
		auth:    auth,
		inputs:  inputs,
		spinner: utils.NewSpinner(),
	}
}

func (m *RegisterModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return nil
		}

		switch msg.String() {
		case "esc":
			return NavigateTo(ViewLogin)

		case "tab", "down":
			m.nextField()
			return m.focusCurrent()

		case "shift+tab", "up":
			m.prevField()
			return m.focusCurrent()

		case "enter":
			if m.focus == regFieldSubmit {
				return m.submit()
			}
			m.nextField()
			return m.focusCurrent()
		}

		m.errMsg = ""
		var cmd tea.Cmd
		if m.focus < regFieldSubmit {
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		}
		return cmd

	case registerResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = api.UserMessage(msg.err, api.FallbackRegister)
			return nil
		}
		return func() tea.Msg {
			return SessionEstablishedMsg{Token: msg.result.Token, User: msg.result.User}
		}
	}

	return nil
}

func (m *RegisterModel) nextField() {
	if m.focus < regFieldSubmit {
		m.focus++
	}
}

func (m *RegisterModel) prevField() {
	if m.focus > 0 {
		m.focus--
	}
}

func (m *RegisterModel) focusCurrent() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	if m.focus < regFieldSubmit {
		return m.inputs[m.focus].Focus()
	}
	return nil
}

// validate runs the local checks before any remote call: required
// fields, a well-formed email, matching passwords of minimum length.
func (m *RegisterModel) validate() string {
	firstName := strings.TrimSpace(m.inputs[regFieldFirstName].Value())
	lastName := strings.TrimSpace(m.inputs[regFieldLastName].Value())
	email := strings.TrimSpace(m.inputs[regFieldEmail].Value())
	password := m.inputs[regFieldPassword].Value()
	confirm := m.inputs[regFieldConfirm].Value()

	if firstName == "" || lastName == "" || email == "" || password == "" {
		return "First name, last name, email and password are required"
	}
	if err := utils.ValidateEmail(email); err != nil {
		return "Please enter a valid email address"
	}
	if err := utils.ValidatePassword(password); err != nil {
		return err.Error()
	}
	if password != confirm {
		return "Passwords do not match"
	}
	if err := utils.ValidatePhone(m.inputs[regFieldPhone].Value()); err != nil {
		return err.Error()
	}
	return ""
}

func (m *RegisterModel) submit() tea.Cmd {
	if msg := m.validate(); msg != "" {
		m.errMsg = msg
		return nil
	}

	m.submitting = true
	m.errMsg = ""
	auth := m.auth

	reg := api.Registration{
		FirstName:   strings.TrimSpace(m.inputs[regFieldFirstName].Value()),
		LastName:    strings.TrimSpace(m.inputs[regFieldLastName].Value()),
		Email:       strings.TrimSpace(m.inputs[regFieldEmail].Value()),
		PhoneNumber: utils.NormalizePhone(m.inputs[regFieldPhone].Value()),
		Password:    m.inputs[regFieldPassword].Value(),
	}

	return func() tea.Msg {
		result, err := auth.Register(context.Background(), reg)
		return registerResultMsg{result: result, err: err}
	}
}

func (m *RegisterModel) View() string {
	var content strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Background(lipgloss.Color(utils.Colours.Surface0)).
		Padding(0, 1)

	content.WriteString(headerStyle.Render("circle — Create Account"))
	content.WriteString("\n\n")

	fieldStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Padding(0, 2)

	labels := []string{"First Name", "Last Name", "Email", "Phone", "Password", "Confirm Password"}
	for i, label := range labels {
		content.WriteString(fieldStyle.Render(fieldLabel(label, m.focus == registerField(i))))
		content.WriteString("\n")
		content.WriteString(fieldStyle.Render(m.inputs[i].View()))
		content.WriteString("\n\n")
	}

	submitLabel := "Create Account"
	if m.submitting {
		submitLabel = m.spinner.View() + " Creating account..."
	} else if m.focus == regFieldSubmit {
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
	content.WriteString(controlsStyle.Render("[Tab] Next Field [Enter] Submit [Esc] Back to Login"))

	return content.String()
}
