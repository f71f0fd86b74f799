package views

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/onyx-daemon/circle/internal/api"
	"github.com/onyx-daemon/circle/internal/models"
)

type listCall struct {
	page, size int
}

type searchCall struct {
	query      string
	page, size int
}

type fakeContactService struct {
	page      api.Page
	fetchErr  error
	deleteErr error
	createErr error
	updateErr error

	listCalls   []listCall
	searchCalls []searchCall
	deleteCalls []int64
	created     []models.ContactPayload
	updated     map[int64]models.ContactPayload
}

func (f *fakeContactService) ListContacts(_ context.Context, page, size int) (api.Page, error) {
	f.listCalls = append(f.listCalls, listCall{page: page, size: size})
	return f.page, f.fetchErr
}

func (f *fakeContactService) SearchContacts(_ context.Context, query string, page, size int) (api.Page, error) {
	f.searchCalls = append(f.searchCalls, searchCall{query: query, page: page, size: size})
	return f.page, f.fetchErr
}

func (f *fakeContactService) CreateContact(_ context.Context, payload models.ContactPayload) (models.Contact, error) {
	f.created = append(f.created, payload)
	return models.Contact{ID: 1, FirstName: payload.FirstName, LastName: payload.LastName}, f.createErr
}

func (f *fakeContactService) UpdateContact(_ context.Context, id int64, payload models.ContactPayload) (models.Contact, error) {
	if f.updated == nil {
		f.updated = make(map[int64]models.ContactPayload)
	}
	f.updated[id] = payload
	return models.Contact{ID: id, FirstName: payload.FirstName, LastName: payload.LastName}, f.updateErr
}

func (f *fakeContactService) DeleteContact(_ context.Context, id int64) error {
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestStaleFetchResultDiscarded(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)
	m.Init()

	// A second fetch supersedes the first before its result lands.
	m.query = "ada"
	m.fetch()

	stale := api.Page{Content: []models.Contact{{ID: 1, FirstName: "Old", LastName: "Result"}}, TotalPages: 5}
	m.Update(contactsFetchedMsg{seq: 1, page: stale})

	if len(m.contacts) != 0 {
		t.Errorf("stale result was applied, contacts = %d", len(m.contacts))
	}
	if !m.loading {
		t.Error("stale result cleared the loading flag")
	}

	fresh := api.Page{Content: []models.Contact{{ID: 2, FirstName: "New", LastName: "Result"}}, TotalPages: 2}
	m.Update(contactsFetchedMsg{seq: 2, page: fresh})

	if len(m.contacts) != 1 || m.contacts[0].ID != 2 {
		t.Errorf("fresh result not applied, contacts = %+v", m.contacts)
	}
	if m.totalPages != 2 {
		t.Errorf("totalPages = %d, want 2", m.totalPages)
	}
	if m.loading {
		t.Error("loading still set after fresh result")
	}
}

func TestQueryChangeResetsPage(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)
	m.page = 3
	m.totalPages = 5

	m.searchInput.Focus()
	cmd := m.Update(keyRune('a'))
	if cmd == nil {
		t.Fatal("typing in the search box returned no debounce command")
	}

	seqBefore := m.fetchSeq
	m.Update(searchDebouncedMsg{seq: m.debounceSeq})

	if m.query != "a" {
		t.Errorf("query = %q, want %q", m.query, "a")
	}
	if m.page != 0 {
		t.Errorf("page = %d, want 0 after query change", m.page)
	}
	if m.fetchSeq != seqBefore+1 {
		t.Errorf("fetchSeq = %d, want %d (exactly one fetch issued)", m.fetchSeq, seqBefore+1)
	}
}

func TestStaleDebounceIgnored(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)

	m.searchInput.Focus()
	m.Update(keyRune('a'))
	m.Update(keyRune('b'))

	seqBefore := m.fetchSeq
	m.Update(searchDebouncedMsg{seq: m.debounceSeq - 1})
	if m.fetchSeq != seqBefore {
		t.Error("superseded debounce triggered a fetch")
	}

	m.Update(searchDebouncedMsg{seq: m.debounceSeq})
	if m.fetchSeq != seqBefore+1 {
		t.Error("latest debounce did not trigger a fetch")
	}
	if m.query != "ab" {
		t.Errorf("query = %q, want %q", m.query, "ab")
	}
}

func TestUnchangedQueryDoesNotRefetch(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)

	m.searchInput.Focus()
	m.Update(keyRune('a'))
	m.Update(searchDebouncedMsg{seq: m.debounceSeq})

	seqBefore := m.fetchSeq
	// Debounce fires again with the same settled value.
	m.debounceSeq++
	m.Update(searchDebouncedMsg{seq: m.debounceSeq})
	if m.fetchSeq != seqBefore {
		t.Error("unchanged query triggered a fetch")
	}
}

func TestFetchResultLandsWhileEditorOpen(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)
	m.Init()

	// Open the editor before the initial fetch resolves.
	m.Update(keyRune('n'))
	if m.editor == nil {
		t.Fatal("editor did not open")
	}

	page := api.Page{Content: []models.Contact{{ID: 3, FirstName: "Ada", LastName: "Lovelace"}}, TotalPages: 1}
	m.Update(contactsFetchedMsg{seq: m.fetchSeq, page: page})

	m.Update(EditorResultMsg{Outcome: EditorCancelled})
	if m.editor != nil {
		t.Fatal("editor still open after cancel")
	}
	if m.loading {
		t.Error("loading still set; fetch result was swallowed by the editor")
	}
	if len(m.contacts) != 1 || m.contacts[0].ID != 3 {
		t.Errorf("contacts = %+v, want the fetched page applied", m.contacts)
	}
}

func TestStaleFetchResultDiscardedWhileEditorOpen(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)
	m.Init()
	m.query = "ada"
	m.fetch()

	m.Update(keyRune('n'))
	stale := api.Page{Content: []models.Contact{{ID: 1, FirstName: "Old", LastName: "Result"}}, TotalPages: 5}
	m.Update(contactsFetchedMsg{seq: 1, page: stale})

	if len(m.contacts) != 0 {
		t.Errorf("stale result was applied mid-edit, contacts = %+v", m.contacts)
	}
	if !m.loading {
		t.Error("stale result cleared the loading flag")
	}
}

func TestClearingQueryRefetchesUnfiltered(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)
	m.query = "smith"
	m.searchInput.SetValue("smith")
	m.page = 1
	m.totalPages = 3

	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("clearing the query issued no fetch")
	}
	if m.query != "" || m.page != 0 {
		t.Errorf("query = %q page = %d, want empty query on page 0", m.query, m.page)
	}
	cmd()

	if len(fake.listCalls) != 1 || len(fake.searchCalls) != 0 {
		t.Errorf("list=%v search=%v, want one unfiltered fetch", fake.listCalls, fake.searchCalls)
	}
	if fake.listCalls[0].page != 0 {
		t.Errorf("refetch page = %d, want 0", fake.listCalls[0].page)
	}
}

func TestDeleteRunsExactlyOnceAndRefreshes(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)
	m.contacts = []models.Contact{{ID: 7, FirstName: "Ada", LastName: "Lovelace"}}
	m.query = "ada"
	m.page = 2

	m.Update(keyRune('d'))
	if m.deleteTarget == nil || m.deleteTarget.ID != 7 {
		t.Fatal("delete candidate not recorded")
	}

	cmd := m.Update(keyRune('y'))
	if cmd == nil {
		t.Fatal("confirm returned no command")
	}

	// A second confirm while the delete is in flight is a no-op.
	if again := m.Update(keyRune('y')); again != nil {
		t.Error("second confirm issued another command")
	}

	result := cmd()
	if len(fake.deleteCalls) != 1 || fake.deleteCalls[0] != 7 {
		t.Fatalf("deleteCalls = %v, want exactly [7]", fake.deleteCalls)
	}

	refresh := m.Update(result)
	if m.deleteTarget != nil {
		t.Error("candidate not cleared after delete")
	}
	if refresh == nil {
		t.Fatal("successful delete did not trigger a refresh")
	}
	refresh()

	if len(fake.searchCalls) != 1 {
		t.Fatalf("searchCalls = %v, want one refresh", fake.searchCalls)
	}
	if fake.searchCalls[0].query != "ada" || fake.searchCalls[0].page != 2 {
		t.Errorf("refresh used query=%q page=%d, want current query/page", fake.searchCalls[0].query, fake.searchCalls[0].page)
	}
}

func TestDeleteFailureClosesConfirm(t *testing.T) {
	fake := &fakeContactService{deleteErr: errors.New("boom")}
	m := NewContactsModel(fake, nil)
	m.contacts = []models.Contact{{ID: 7, FirstName: "Ada", LastName: "Lovelace"}}

	m.Update(keyRune('d'))
	cmd := m.Update(keyRune('y'))
	refresh := m.Update(cmd())

	if m.deleteTarget != nil {
		t.Error("confirm surface still open after failed delete")
	}
	if refresh != nil {
		t.Error("failed delete triggered a refresh")
	}
	if m.errMsg != "Failed to delete contact" {
		t.Errorf("errMsg = %q, want fallback", m.errMsg)
	}
}

func TestDeleteCancelMakesNoRemoteCall(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)
	m.contacts = []models.Contact{{ID: 7, FirstName: "Ada", LastName: "Lovelace"}}

	m.Update(keyRune('d'))
	m.Update(keyRune('n'))

	if m.deleteTarget != nil {
		t.Error("candidate not discarded on cancel")
	}
	if len(fake.deleteCalls) != 0 {
		t.Errorf("cancel made %d remote calls", len(fake.deleteCalls))
	}
}

func TestEmptyStateMessages(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)
	m.loading = false

	view := m.renderList()
	if !strings.Contains(view, "No contacts yet") {
		t.Error("default empty state missing for blank query")
	}

	m.query = "zz"
	view = m.renderList()
	if !strings.Contains(view, "No contacts found matching your search.") {
		t.Error("search empty state missing for non-empty query")
	}
}

func TestPageNavigationFetches(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)
	m.contacts = []models.Contact{{ID: 1, FirstName: "A", LastName: "B"}}
	m.totalPages = 3

	cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.page != 1 || cmd == nil {
		t.Fatalf("page = %d after next, want 1 with a fetch", m.page)
	}
	cmd()
	if len(fake.listCalls) != 1 || fake.listCalls[0].page != 1 {
		t.Errorf("listCalls = %v, want fetch of page 1", fake.listCalls)
	}

	// Already on the first page going back from page 1.
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.page != 0 {
		t.Errorf("page = %d after prev, want 0", m.page)
	}
	if again := m.Update(tea.KeyMsg{Type: tea.KeyLeft}); again != nil {
		t.Error("prev on first page issued a fetch")
	}
}

func TestSavedEditorOutcomeRefreshes(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)
	m.query = "ada"
	m.page = 1
	m.editor = NewEditorModel(fake, nil)

	refresh := m.Update(EditorResultMsg{Outcome: EditorSaved})
	if m.editor != nil {
		t.Error("editor still open after Saved outcome")
	}
	if refresh == nil {
		t.Fatal("Saved outcome did not refresh")
	}
	refresh()
	if len(fake.searchCalls) != 1 || fake.searchCalls[0].page != 1 {
		t.Errorf("searchCalls = %v, want refresh of current page", fake.searchCalls)
	}
}

func TestCancelledEditorOutcomeDoesNotRefetch(t *testing.T) {
	fake := &fakeContactService{}
	m := NewContactsModel(fake, nil)
	m.editor = NewEditorModel(fake, nil)

	refresh := m.Update(EditorResultMsg{Outcome: EditorCancelled})
	if m.editor != nil {
		t.Error("editor still open after Cancelled outcome")
	}
	if refresh != nil {
		t.Error("Cancelled outcome triggered a refetch")
	}
}
