package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driven"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driving"
	"github.com/custodia-labs/parley-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// MaxUploadSize is the largest file the backend accepts (20 MB).
const MaxUploadSize = 20 * 1024 * 1024

// uploadExtensions are the file types the backend can ingest.
var uploadExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// DocumentService manages uploaded source documents.
type DocumentService struct {
	store driven.DocumentStore
}

// NewDocumentService creates a document service.
func NewDocumentService(store driven.DocumentStore) *DocumentService {
	return &DocumentService{store: store}
}

// Upload validates a local file and sends it to the backend for
// ingestion. Type and size are checked client-side to avoid shipping
// 20 MB only to be rejected.
func (s *DocumentService) Upload(ctx context.Context, path string) (*domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !uploadExtensions[ext] {
		return nil, fmt.Errorf("%w: unsupported file type %q (allowed: PDF, TXT, MD)",
			domain.ErrInvalidInput, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if info.Size() > MaxUploadSize {
		return nil, fmt.Errorf("%w: file too large (max 20 MB)", domain.ErrInvalidInput)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	logger.Debug("uploading %s (%d bytes)", path, info.Size())
	doc, err := s.store.UploadDocument(ctx, filepath.Base(path), f)
	if err != nil {
		return nil, fmt.Errorf("uploading document: %w", err)
	}
	return doc, nil
}

// List returns all uploaded documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// Get returns one document record by id.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching document: %w", err)
	}
	return doc, nil
}

// Delete removes an uploaded document.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}
