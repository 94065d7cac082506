package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.DocumentStore = (*Client)(nil)

// documentPayload is the backend's document representation.
type documentPayload struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	FileSize     int64  `json:"file_size"`
	MimeType     string `json:"mime_type"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	CreatedAt    string `json:"created_at"`
}

func (p documentPayload) toDomain() domain.Document {
	return domain.Document{
		ID:           p.ID,
		Filename:     p.Filename,
		FileSize:     p.FileSize,
		MimeType:     p.MimeType,
		Status:       p.Status,
		ErrorMessage: p.ErrorMessage,
		CreatedAt:    parseTime(p.CreatedAt),
	}
}

// UploadDocument streams a file to the backend as a multipart upload.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (*domain.Document, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading upload content: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/documents", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading document: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, fmt.Errorf("uploading document: %w", err)
	}

	var payload documentPayload
	if err := decodeJSON(resp.Body, &payload); err != nil {
		return nil, err
	}
	doc := payload.toDomain()
	return &doc, nil
}

// ListDocuments returns all uploaded documents, newest first.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var payloads []documentPayload
	if err := c.doJSON(ctx, http.MethodGet, "/api/documents", nil, &payloads); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	docs := make([]domain.Document, len(payloads))
	for i, p := range payloads {
		docs[i] = p.toDomain()
	}
	return docs, nil
}

// GetDocument retrieves one document record by ID.
func (c *Client) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var payload documentPayload
	if err := c.doJSON(ctx, http.MethodGet, "/api/documents/"+id, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetching document: %w", err)
	}
	doc := payload.toDomain()
	return &doc, nil
}

// DeleteDocument removes a document and its indexed chunks.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/documents/"+id, nil, nil); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}
