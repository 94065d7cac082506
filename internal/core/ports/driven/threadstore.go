package driven

import (
	"context"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

// ThreadStore persists threads and their message history.
// Backed by the chat backend's REST API.
type ThreadStore interface {
	// CreateThread creates a thread with the default title and
	// returns it.
	CreateThread(ctx context.Context) (*domain.Thread, error)

	// ListThreads returns all threads, most recently updated first.
	ListThreads(ctx context.Context) ([]domain.Thread, error)

	// RenameThread sets a thread's title.
	RenameThread(ctx context.Context, id, title string) error

	// DeleteThread removes a thread and its messages.
	DeleteThread(ctx context.Context, id string) error

	// History returns a thread's messages ordered oldest first.
	History(ctx context.Context, id string) ([]domain.Message, error)
}
