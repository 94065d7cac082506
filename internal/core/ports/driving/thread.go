package driving

import (
	"context"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

// ThreadService manages conversation threads.
type ThreadService interface {
	// Create creates a new thread with the default title.
	Create(ctx context.Context) (*domain.Thread, error)

	// List returns all threads, most recently updated first. Falls
	// back to the local cache when the backend is unreachable.
	List(ctx context.Context) ([]domain.Thread, error)

	// Rename sets a thread's title.
	Rename(ctx context.Context, id, title string) error

	// Delete removes a thread and its messages.
	Delete(ctx context.Context, id string) error

	// History returns a thread's messages, oldest first. Falls back
	// to the local cache when the backend is unreachable.
	History(ctx context.Context, id string) ([]domain.Message, error)
}
