package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onyx-daemon/circle/internal/api"
	"github.com/onyx-daemon/circle/internal/config"
	"github.com/onyx-daemon/circle/internal/models"
	"github.com/onyx-daemon/circle/internal/session"
	"github.com/onyx-daemon/circle/internal/storage"
	"github.com/onyx-daemon/circle/internal/utils"
)

type ViewState int

const (
	ViewLogin ViewState = iota
	ViewRegister
	ViewContacts
	ViewProfile
)

// ContactService is the slice of the API client the contact views
// depend on.
type ContactService interface {
	ListContacts(ctx context.Context, page, size int) (api.Page, error)
	SearchContacts(ctx context.Context, query string, page, size int) (api.Page, error)
	CreateContact(ctx context.Context, payload models.ContactPayload) (models.Contact, error)
	UpdateContact(ctx context.Context, id int64, payload models.ContactPayload) (models.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
}

// AuthService is the slice of the API client the auth and profile
// views depend on.
type AuthService interface {
	Login(ctx context.Context, creds api.Credentials) (api.AuthResult, error)
	Register(ctx context.Context, reg api.Registration) (api.AuthResult, error)
	CurrentUser(ctx context.Context) (models.User, error)
	ChangePassword(ctx context.Context, change api.PasswordChange) error
}

type AppModel struct {
	state  ViewState
	width  int
	height int

	client  *api.Client
	session *session.Session
	config  *config.Config

	login    *LoginModel
	register *RegisterModel
	contacts *ContactsModel
	profile  *ProfileModel

	err error
}

type NavigateMsg struct {
	State ViewState
}

type ErrorMsg struct {
	Err error
}

// SessionEstablishedMsg is emitted by login and register on success.
type SessionEstablishedMsg struct {
	Token string
	User  models.User
}

// SessionExpiredMsg is emitted when an authenticated call comes back
// unauthorized; the app drops the session and routes back to login.
type SessionExpiredMsg struct {
	Notice string
}

// LoggedOutMsg is emitted by the profile view on explicit logout.
type LoggedOutMsg struct{}

func NewAppModel() (*AppModel, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := storage.NewStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	client := api.NewClient(api.Config{BaseURL: cfg.APIURL, Timeout: cfg.Timeout})
	sess := session.New(store)

	app := &AppModel{
		state:   ViewLogin,
		client:  client,
		session: sess,
		config:  cfg,
	}

	if sess.Restore() {
		client.SetToken(sess.Token())
		app.state = ViewContacts
		app.contacts = NewContactsModel(client, cfg)
	} else {
		app.login = NewLoginModel(client)
	}

	return app, nil
}

func (m *AppModel) Init() tea.Cmd {
	if m.state == ViewContacts && m.contacts != nil {
		return m.contacts.Init()
	}
	return nil
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.contacts != nil {
			m.contacts.width = msg.Width
			m.contacts.height = msg.Height
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case NavigateMsg:
		return m.navigateTo(msg.State)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case SessionEstablishedMsg:
		if err := m.session.Establish(msg.Token, msg.User); err != nil {
			// The session still works for this run; persistence is
			// best effort.
			m.err = err
		}
		m.client.SetToken(msg.Token)
		m.contacts = nil
		return m.navigateTo(ViewContacts)

	case SessionExpiredMsg:
		m.session.Clear()
		m.client.ClearToken()
		m.contacts = nil
		m.profile = nil
		model, cmd := m.navigateTo(ViewLogin)
		if m.login != nil && msg.Notice != "" {
			m.login.errMsg = msg.Notice
		}
		return model, cmd

	case LoggedOutMsg:
		m.session.Clear()
		m.client.ClearToken()
		m.contacts = nil
		m.profile = nil
		return m.navigateTo(ViewLogin)

	case ProfileLoadedMsg:
		// Keep the persisted session's account copy fresh.
		if msg.Err == nil {
			if err := m.session.SetUser(msg.User); err != nil {
				m.err = err
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case ViewLogin:
		if m.login != nil {
			cmd = m.login.Update(msg)
		}
	case ViewRegister:
		if m.register != nil {
			cmd = m.register.Update(msg)
		}
	case ViewContacts:
		if m.contacts != nil {
			cmd = m.contacts.Update(msg)
		}
	case ViewProfile:
		if m.profile != nil {
			cmd = m.profile.Update(msg)
		}
	}

	return m, cmd
}

func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content string
	switch m.state {
	case ViewLogin:
		if m.login != nil {
			content = m.login.View()
		}
	case ViewRegister:
		if m.register != nil {
			content = m.register.View()
		}
	case ViewContacts:
		if m.contacts != nil {
			content = m.contacts.View()
		}
	case ViewProfile:
		if m.profile != nil {
			content = m.profile.View()
		}
	default:
		content = "Unknown view"
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Red)).
			Bold(true).
			Padding(1)
		content += "\n" + errorStyle.Render(fmt.Sprintf("Error: %s", m.err.Error()))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *AppModel) navigateTo(state ViewState) (tea.Model, tea.Cmd) {
	m.state = state
	m.err = nil

	var cmd tea.Cmd
	switch state {
	case ViewLogin:
		if m.login == nil {
			m.login = NewLoginModel(m.client)
		}
	case ViewRegister:
		if m.register == nil {
			m.register = NewRegisterModel(m.client)
		}
	case ViewContacts:
		if m.contacts == nil {
			m.contacts = NewContactsModel(m.client, m.config)
			m.contacts.width = m.width
			m.contacts.height = m.height
			cmd = m.contacts.Init()
		}
	case ViewProfile:
		m.profile = NewProfileModel(m.client, m.session.User())
		cmd = m.profile.Init()
	}

	return m, cmd
}

func NavigateTo(state ViewState) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{State: state}
	}
}

func ShowError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}
