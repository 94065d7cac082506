package driven

import (
	"context"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

// HistoryCache is a local, write-through mirror of threads and fetched
// message history. It lets thread listings and transcripts render
// without a network round trip and keeps them browsable offline.
// Backed by SQLite.
type HistoryCache interface {
	// PutThreads replaces the cached thread list.
	PutThreads(ctx context.Context, threads []domain.Thread) error

	// PutThread inserts or updates one cached thread.
	PutThread(ctx context.Context, thread domain.Thread) error

	// Threads returns cached threads, most recently updated first.
	Threads(ctx context.Context) ([]domain.Thread, error)

	// PutHistory replaces the cached messages for a thread.
	PutHistory(ctx context.Context, threadID string, messages []domain.Message) error

	// History returns cached messages for a thread, oldest first.
	// Returns domain.ErrNotFound when the thread was never cached.
	History(ctx context.Context, threadID string) ([]domain.Message, error)

	// DeleteThread removes a thread and its cached messages.
	DeleteThread(ctx context.Context, threadID string) error

	// Close releases the underlying storage.
	Close() error
}
