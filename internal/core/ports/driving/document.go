package driving

import (
	"context"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

// DocumentService manages the uploaded documents feeding retrieval.
type DocumentService interface {
	// Upload sends a local file to the backend for ingestion.
	Upload(ctx context.Context, path string) (*domain.Document, error)

	// List returns all uploaded documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get returns one document record by id.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes an uploaded document.
	Delete(ctx context.Context, id string) error
}
