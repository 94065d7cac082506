package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

// DocumentStore manages the source documents feeding retrieval.
// The client never reads document content back; ingestion, chunking,
// and indexing are fully server-side.
type DocumentStore interface {
	// UploadDocument streams a file to the backend. The backend
	// rejects unsupported types and duplicate content.
	UploadDocument(ctx context.Context, filename string, r io.Reader) (*domain.Document, error)

	// ListDocuments returns all uploaded documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// GetDocument retrieves one document record by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// DeleteDocument removes a document and its indexed chunks.
	DeleteDocument(ctx context.Context, id string) error
}
