package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driven"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driving"
	"github.com/custodia-labs/parley-cli/internal/logger"
)

// Ensure ThreadService implements the interface.
var _ driving.ThreadService = (*ThreadService)(nil)

// ThreadService manages conversation threads, keeping the optional
// local cache in sync write-through so listings survive offline.
type ThreadService struct {
	store driven.ThreadStore
	cache driven.HistoryCache // optional
}

// NewThreadService creates a thread service. The cache parameter is
// optional (can be nil).
func NewThreadService(store driven.ThreadStore, cache driven.HistoryCache) *ThreadService {
	return &ThreadService{store: store, cache: cache}
}

// Create creates a new thread with the default title.
func (s *ThreadService) Create(ctx context.Context) (*domain.Thread, error) {
	thread, err := s.store.CreateThread(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating thread: %w", err)
	}
	if s.cache != nil {
		if cacheErr := s.cache.PutThread(ctx, *thread); cacheErr != nil {
			logger.Warn("caching thread %s: %v", thread.ID, cacheErr)
		}
	}
	return thread, nil
}

// List returns all threads, most recently updated first. When the
// backend is unreachable the cached listing is returned instead.
func (s *ThreadService) List(ctx context.Context) ([]domain.Thread, error) {
	threads, err := s.store.ListThreads(ctx)
	if err != nil {
		if s.cache != nil {
			cached, cacheErr := s.cache.Threads(ctx)
			if cacheErr == nil {
				logger.Info("backend unreachable, listing cached threads")
				return cached, nil
			}
		}
		return nil, fmt.Errorf("listing threads: %w", err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.PutThreads(ctx, threads); cacheErr != nil {
			logger.Warn("caching thread list: %v", cacheErr)
		}
	}
	return threads, nil
}

// Rename sets a thread's title.
func (s *ThreadService) Rename(ctx context.Context, id, title string) error {
	if title == "" {
		return fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
	}
	if err := s.store.RenameThread(ctx, id, title); err != nil {
		return fmt.Errorf("renaming thread: %w", err)
	}
	if s.cache != nil {
		// Refresh the cached row so offline listings show the new title.
		if threads, err := s.store.ListThreads(ctx); err == nil {
			if cacheErr := s.cache.PutThreads(ctx, threads); cacheErr != nil {
				logger.Warn("caching thread list: %v", cacheErr)
			}
		}
	}
	return nil
}

// Delete removes a thread and its messages.
func (s *ThreadService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteThread(ctx, id); err != nil {
		return fmt.Errorf("deleting thread: %w", err)
	}
	if s.cache != nil {
		if cacheErr := s.cache.DeleteThread(ctx, id); cacheErr != nil {
			logger.Warn("evicting cached thread %s: %v", id, cacheErr)
		}
	}
	return nil
}

// History returns a thread's messages, oldest first, falling back to
// the cache when the backend is unreachable.
func (s *ThreadService) History(ctx context.Context, id string) ([]domain.Message, error) {
	messages, err := s.store.History(ctx, id)
	if err != nil {
		if s.cache != nil {
			cached, cacheErr := s.cache.History(ctx, id)
			if cacheErr == nil {
				logger.Info("backend unreachable, using cached history for %s", id)
				return cached, nil
			}
		}
		return nil, fmt.Errorf("fetching history: %w", err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.PutHistory(ctx, id, messages); cacheErr != nil {
			logger.Warn("caching history for %s: %v", id, cacheErr)
		}
	}
	return messages, nil
}
