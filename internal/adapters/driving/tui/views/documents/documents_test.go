package documents

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

// mockDocumentService implements driving.DocumentService.
type mockDocumentService struct {
	docs    []domain.Document
	listErr error
	deleted []string
}

func (m *mockDocumentService) Upload(_ context.Context, path string) (*domain.Document, error) {
	return &domain.Document{ID: "d-new", Filename: path}, nil
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.docs, nil
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func newTestView(docs []domain.Document) (*View, *mockDocumentService) {
	svc := &mockDocumentService{docs: docs}
	v := NewView(nil, svc)
	v.SetDimensions(80, 24)
	return v, svc
}

func testDocuments() []domain.Document {
	return []domain.Document{
		{ID: "d-1", Filename: "taxes.pdf", Status: domain.DocumentStatusReady},
		{ID: "d-2", Filename: "notes.md", Status: domain.DocumentStatusProcessing},
		{ID: "d-3", Filename: "broken.txt", Status: domain.DocumentStatusError, ErrorMessage: "parse failed"},
	}
}

func TestView_InitLoadsDocuments(t *testing.T) {
	v, _ := newTestView(testDocuments())

	cmd := v.Init()
	require.NotNil(t, cmd)

	loaded, ok := cmd().(messages.DocumentsLoaded)
	require.True(t, ok)
	assert.Len(t, loaded.Documents, 3)

	v, _ = v.Update(loaded)
	view := v.View()
	assert.Contains(t, view, "taxes.pdf")
	assert.Contains(t, view, "ready")
	assert.Contains(t, view, "parse failed")
}

func TestView_LoadError(t *testing.T) {
	v, svc := newTestView(nil)
	svc.listErr = errors.New("backend unreachable")

	v, _ = v.Update(v.loadDocuments()())

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "backend unreachable")
}

func TestView_EmptyState(t *testing.T) {
	v, _ := newTestView(nil)

	v, _ = v.Update(v.loadDocuments()())

	assert.Contains(t, v.View(), "No documents uploaded")
	assert.Contains(t, v.View(), "parley document upload")
}

func TestView_Navigation(t *testing.T) {
	v, _ := newTestView(testDocuments())
	v, _ = v.Update(v.loadDocuments()())

	v, _ = v.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, v.SelectedIndex())

	v, _ = v.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_Delete(t *testing.T) {
	v, svc := newTestView(testDocuments())
	v, _ = v.Update(v.loadDocuments()())

	_, cmd := v.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	require.NotNil(t, cmd)

	deleted, ok := cmd().(messages.DocumentDeleted)
	require.True(t, ok)
	require.NoError(t, deleted.Err)
	assert.Equal(t, []string{"d-1"}, svc.deleted)
}

func TestView_DeleteReloads(t *testing.T) {
	v, _ := newTestView(testDocuments())
	v, _ = v.Update(v.loadDocuments()())

	v, cmd := v.Update(messages.DocumentDeleted{ID: "d-1"})

	require.NotNil(t, cmd)
	assert.True(t, v.loading)
}

func TestView_EscReturnsToChat(t *testing.T) {
	v, _ := newTestView(nil)

	_, cmd := v.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewChat, changed.View)
}
