package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/onyx-daemon/circle/internal/models"
)

// Client talks JSON over HTTP to the circle backend: the contact
// collection service and the auth service. It is safe for use from
// concurrently running tea commands; the only mutable state is the
// bearer token.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// SetToken installs the bearer token sent on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the bearer token, returning the client to
// unauthenticated requests.
func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates and returns the issued token with the account it
// belongs to.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, creds, &result, FallbackLogin)
	return result, err
}

// Register creates an account and returns its first session token.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, reg, &result, FallbackRegister)
	return result, err
}

// CurrentUser fetches the authenticated account.
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &user, FallbackProfile)
	return user, err
}

// ChangePassword replaces the account password after the server has
// verified the current one.
func (c *Client) ChangePassword(ctx context.Context, change PasswordChange) error {
	return c.do(ctx, http.MethodPost, "/api/auth/change-password", nil, change, nil, FallbackChangePassword)
}

// ListContacts fetches one unfiltered page of the collection.
func (c *Client) ListContacts(ctx context.Context, page, size int) (Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var result Page
	err := c.do(ctx, http.MethodGet, "/api/contacts", q, nil, &result, FallbackFetchContacts)
	return result, err
}

// SearchContacts fetches one page filtered by first or last name.
func (c *Client) SearchContacts(ctx context.Context, query string, page, size int) (Page, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var result Page
	err := c.do(ctx, http.MethodGet, "/api/contacts/search", q, nil, &result, FallbackFetchContacts)
	return result, err
}

// CreateContact stores a new contact and returns it with its assigned
// id.
func (c *Client) CreateContact(ctx context.Context, payload models.ContactPayload) (models.Contact, error) {
	var contact models.Contact
	err := c.do(ctx, http.MethodPost, "/api/contacts", nil, payload, &contact, FallbackSaveContact)
	return contact, err
}

// UpdateContact replaces a contact's fields, including its full email
// and phone lists.
func (c *Client) UpdateContact(ctx context.Context, id int64, payload models.ContactPayload) (models.Contact, error) {
	var contact models.Contact
	path := fmt.Sprintf("/api/contacts/%d", id)
	err := c.do(ctx, http.MethodPut, path, nil, payload, &contact, FallbackSaveContact)
	return contact, err
}

// DeleteContact removes a contact permanently.
func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/contacts/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, FallbackDeleteContact)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, fallback string) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return classify(fmt.Errorf("failed to encode request: %w", err), fallback)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return classify(fmt.Errorf("failed to build request: %w", err), fallback)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classify(err, fallback)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return newUnauthorizedError(fallback)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify(fmt.Errorf("failed to read response: %w", err), fallback)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		if resp.StatusCode >= 400 {
			return newRemoteError("", fallback)
		}
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return newRemoteError("", fallback)
		}
		return classify(fmt.Errorf("failed to decode response: %w", err), fallback)
	}

	if resp.StatusCode >= 400 || !env.Success {
		return newRemoteError(env.Message, fallback)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return classify(fmt.Errorf("failed to decode response data: %w", err), fallback)
		}
	}

	return nil
}
