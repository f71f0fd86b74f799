package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onyx-daemon/circle/internal/models"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(Config{BaseURL: srv.URL})
	return client, srv
}

func TestListContactsDecodesPage(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/contacts" {
			t.Errorf("path = %s, want /api/contacts", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %s, want 2", got)
		}
		if got := r.URL.Query().Get("size"); got != "9" {
			t.Errorf("size = %s, want 9", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"content": []map[string]any{
					{"id": 1, "firstName": "Ada", "lastName": "Lovelace"},
				},
				"totalPages": 3,
			},
		})
	}))
	defer srv.Close()

	page, err := client.ListContacts(context.Background(), 2, 9)
	if err != nil {
		t.Fatalf("ListContacts() error: %v", err)
	}

	if page.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", page.TotalPages)
	}
	if len(page.Content) != 1 || page.Content[0].FirstName != "Ada" {
		t.Errorf("Content = %+v", page.Content)
	}
}

func TestSearchContactsSendsQuery(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/contacts/search" {
			t.Errorf("path = %s, want /api/contacts/search", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "Smith" {
			t.Errorf("query = %s, want Smith", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"content": []any{}, "totalPages": 0},
		})
	}))
	defer srv.Close()

	if _, err := client.SearchContacts(context.Background(), "Smith", 0, 9); err != nil {
		t.Fatalf("SearchContacts() error: %v", err)
	}
}

func TestAuthorizationHeaderSentWhenTokenSet(t *testing.T) {
	var gotAuth string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	client.SetToken("tok-123")
	if err := client.DeleteContact(context.Background(), 7); err != nil {
		t.Fatalf("DeleteContact() error: %v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestServerMessageSurfacedVerbatim(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "First name is required",
		})
	}))
	defer srv.Close()

	_, err := client.CreateContact(context.Background(), models.ContactPayload{})
	if err == nil {
		t.Fatal("expected error")
	}

	if got := UserMessage(err, FallbackSaveContact); got != "First name is required" {
		t.Errorf("UserMessage = %q, want server message", got)
	}
}

func TestMissingMessageFallsBackPerOperation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	})
	client, srv := newTestClient(handler)
	defer srv.Close()

	_, err := client.ListContacts(context.Background(), 0, 9)
	if got := UserMessage(err, ""); got != FallbackFetchContacts {
		t.Errorf("fetch fallback = %q, want %q", got, FallbackFetchContacts)
	}

	_, err = client.UpdateContact(context.Background(), 1, models.ContactPayload{})
	if got := UserMessage(err, ""); got != FallbackSaveContact {
		t.Errorf("save fallback = %q, want %q", got, FallbackSaveContact)
	}

	err = client.DeleteContact(context.Background(), 1)
	if got := UserMessage(err, ""); got != FallbackDeleteContact {
		t.Errorf("delete fallback = %q, want %q", got, FallbackDeleteContact)
	}
}

func TestUnauthorizedClassified(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := client.ListContacts(context.Background(), 0, 9)
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized = false for 401 response, err = %v", err)
	}
}

func TestDeleteUsesDeleteMethodAndPath(t *testing.T) {
	var gotMethod, gotPath string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := client.DeleteContact(context.Background(), 42); err != nil {
		t.Fatalf("DeleteContact() error: %v", err)
	}

	if gotMethod != http.MethodDelete || gotPath != "/api/contacts/42" {
		t.Errorf("request = %s %s, want DELETE /api/contacts/42", gotMethod, gotPath)
	}
}

func TestLoginReturnsTokenAndUser(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var creds Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != "ada@example.com" {
			t.Errorf("credentials email = %q", creds.Email)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"token": "jwt-abc",
				"user":  map[string]any{"id": 1, "firstName": "Ada", "lastName": "Lovelace", "active": true},
			},
		})
	}))
	defer srv.Close()

	result, err := client.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if result.Token != "jwt-abc" {
		t.Errorf("Token = %q", result.Token)
	}
	if result.User.FullName() != "Ada Lovelace" {
		t.Errorf("User = %+v", result.User)
	}
}

func TestTransportFailureClassified(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})

	_, err := client.ListContacts(context.Background(), 0, 9)
	if err == nil {
		t.Fatal("expected transport error")
	}

	if got := UserMessage(err, ""); got != FallbackFetchContacts {
		t.Errorf("UserMessage = %q, want fetch fallback", got)
	}
}
