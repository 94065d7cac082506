package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCache_PutThreadsAndList(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	threads := []domain.Thread{
		{ID: "t-2", Title: "Deductions", LastResponseID: "resp_7", UpdatedAt: time.Now()},
		{ID: "t-1", Title: "New Chat"},
	}
	require.NoError(t, cache.PutThreads(ctx, threads))

	got, err := cache.Threads(ctx)

	require.NoError(t, err)
	require.Len(t, got, 2)
	// Listing order is preserved as received
	assert.Equal(t, "t-2", got[0].ID)
	assert.Equal(t, "resp_7", got[0].LastResponseID)
	assert.Equal(t, "t-1", got[1].ID)
}

func TestCache_PutThreadsReplacesList(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutThreads(ctx, []domain.Thread{{ID: "t-1", Title: "Old"}}))
	require.NoError(t, cache.PutThreads(ctx, []domain.Thread{{ID: "t-2", Title: "New"}}))

	got, err := cache.Threads(ctx)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t-2", got[0].ID)
}

func TestCache_PutThreadFrontsNewThread(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutThreads(ctx, []domain.Thread{{ID: "t-1", Title: "Existing"}}))
	require.NoError(t, cache.PutThread(ctx, domain.Thread{ID: "t-2", Title: "New Chat"}))

	got, err := cache.Threads(ctx)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t-2", got[0].ID)
}

func TestCache_PutThreadUpdatesTitle(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutThread(ctx, domain.Thread{ID: "t-1", Title: "New Chat"}))
	require.NoError(t, cache.PutThread(ctx, domain.Thread{ID: "t-1", Title: "Tax Forms"}))

	got, err := cache.Threads(ctx)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tax Forms", got[0].Title)
}

func TestCache_HistoryRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	messages := []domain.Message{
		{ID: "m-1", Role: domain.RoleUser, Content: "what is a 1099?", CreatedAt: time.Now()},
		{ID: "m-2", Role: domain.RoleAssistant, Content: "A 1099 is a tax form.", Sources: []domain.Source{
			{DocumentID: "d-1", ChunkIndex: 3, Content: "Form 1099 reports...", Metadata: map[string]any{"topic": "forms"}},
		}},
	}
	require.NoError(t, cache.PutHistory(ctx, "t-1", messages))

	got, err := cache.History(ctx, "t-1")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.RoleUser, got[0].Role)
	assert.Equal(t, "t-1", got[0].ThreadID)
	assert.Empty(t, got[0].Sources)
	require.Len(t, got[1].Sources, 1)
	assert.Equal(t, "d-1", got[1].Sources[0].DocumentID)
	assert.Equal(t, "forms", got[1].Sources[0].Metadata["topic"])
}

func TestCache_HistoryNeverCached(t *testing.T) {
	cache := newTestCache(t)

	_, err := cache.History(context.Background(), "t-unknown")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCache_EmptyHistoryIsCached(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutHistory(ctx, "t-1", nil))

	got, err := cache.History(ctx, "t-1")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCache_PutHistoryReplaces(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutHistory(ctx, "t-1", []domain.Message{
		{Role: domain.RoleUser, Content: "old"},
	}))
	require.NoError(t, cache.PutHistory(ctx, "t-1", []domain.Message{
		{Role: domain.RoleUser, Content: "q"},
		{Role: domain.RoleAssistant, Content: "a"},
	}))

	got, err := cache.History(ctx, "t-1")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "q", got[0].Content)
}

func TestCache_DeleteThread(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutThreads(ctx, []domain.Thread{{ID: "t-1", Title: "Doomed"}}))
	require.NoError(t, cache.PutHistory(ctx, "t-1", []domain.Message{
		{Role: domain.RoleUser, Content: "q"},
	}))

	require.NoError(t, cache.DeleteThread(ctx, "t-1"))

	threads, err := cache.Threads(ctx)
	require.NoError(t, err)
	assert.Empty(t, threads)
	_, err = cache.History(ctx, "t-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCache_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	cache, err := NewCache(path)
	require.NoError(t, err)
	require.NoError(t, cache.PutThreads(ctx, []domain.Thread{{ID: "t-1", Title: "Persisted"}}))
	require.NoError(t, cache.Close())

	reopened, err := NewCache(path)
	require.NoError(t, err)
	defer reopened.Close()

	threads, err := reopened.Threads(ctx)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, "Persisted", threads[0].Title)
}

func TestNewCache_DefaultPathUnderHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cache, err := NewCache("")

	require.NoError(t, err)
	defer cache.Close()
	assert.Contains(t, cache.Path(), filepath.Join(".parley", "data", "cache.db"))
}
