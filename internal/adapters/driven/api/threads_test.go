package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

func TestCreateThread(t *testing.T) {
	var gotBody map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/threads", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"t-1","title":"New Chat","created_at":"2025-03-14T09:26:53.589793+00:00","updated_at":"2025-03-14T09:26:53.589793+00:00"}`))
	}))

	thread, err := client.CreateThread(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"title": "New Chat"}, gotBody)
	assert.Equal(t, "t-1", thread.ID)
	assert.Equal(t, domain.DefaultThreadTitle, thread.Title)
	assert.False(t, thread.CreatedAt.IsZero())
}

func TestListThreads(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/threads", r.URL.Path)
		w.Write([]byte(`[
			{"id":"t-2","title":"Deductions","last_response_id":"resp_7","created_at":"2025-03-14T10:00:00","updated_at":"2025-03-14T11:00:00"},
			{"id":"t-1","title":"New Chat","last_response_id":null,"created_at":"2025-03-13T10:00:00","updated_at":"2025-03-13T10:00:00"}
		]`))
	}))

	threads, err := client.ListThreads(context.Background())

	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, "Deductions", threads[0].Title)
	assert.Equal(t, "resp_7", threads[0].LastResponseID)
	assert.Empty(t, threads[1].LastResponseID)
}

func TestRenameThread(t *testing.T) {
	var gotBody map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/threads/t-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"t-1","title":"Renamed"}`))
	}))

	err := client.RenameThread(context.Background(), "t-1", "Renamed")

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"title": "Renamed"}, gotBody)
}

func TestDeleteThread(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.DeleteThread(context.Background(), "t-1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/threads/t-1", gotPath)
}

func TestHistory(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/threads/t-1/messages", r.URL.Path)
		w.Write([]byte(`[
			{"id":"m-1","thread_id":"t-1","role":"user","content":"what is a 1099?","created_at":"2025-03-14T10:00:00"},
			{"id":"m-2","thread_id":"t-1","role":"assistant","content":"A 1099 is a tax form.","created_at":"2025-03-14T10:00:05",
			 "sources":[{"document_id":"d-1","chunk_index":3,"content":"Form 1099 reports...","metadata":{"topic":"forms"}}]}
		]`))
	}))

	messages, err := client.History(context.Background(), "t-1")

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Empty(t, messages[0].Sources)
	require.Len(t, messages[1].Sources, 1)
	assert.Equal(t, "d-1", messages[1].Sources[0].DocumentID)
	assert.Equal(t, 3, messages[1].Sources[0].ChunkIndex)
	assert.Equal(t, "forms", messages[1].Sources[0].Metadata["topic"])
}
