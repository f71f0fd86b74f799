package api

import (
	"encoding/json"
	"time"

	"github.com/onyx-daemon/circle/internal/models"
)

// Config carries the client settings resolved from the environment.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 30 * time.Second
)

// envelope is the server's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Page is one page of contacts as returned by the list and search
// operations.
type Page struct {
	Content       []models.Contact `json:"content"`
	TotalPages    int              `json:"totalPages"`
	TotalElements int64            `json:"totalElements"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the account-creation request body.
type Registration struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// PasswordChange is the change-password request body.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResult is what a successful login or registration returns.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}
