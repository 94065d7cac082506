package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.ThreadStore = (*Client)(nil)

// threadPayload is the backend's thread representation.
type threadPayload struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	LastResponseID string `json:"last_response_id"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func (p threadPayload) toDomain() domain.Thread {
	return domain.Thread{
		ID:             p.ID,
		Title:          p.Title,
		LastResponseID: p.LastResponseID,
		CreatedAt:      parseTime(p.CreatedAt),
		UpdatedAt:      parseTime(p.UpdatedAt),
	}
}

// messagePayload is the backend's message representation.
type messagePayload struct {
	ID        string          `json:"id"`
	ThreadID  string          `json:"thread_id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Sources   []sourcePayload `json:"sources"`
	CreatedAt string          `json:"created_at"`
}

type sourcePayload struct {
	DocumentID string         `json:"document_id"`
	ChunkIndex int            `json:"chunk_index"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata"`
}

func (p messagePayload) toDomain() domain.Message {
	msg := domain.Message{
		ID:        p.ID,
		ThreadID:  p.ThreadID,
		Role:      domain.Role(p.Role),
		Content:   p.Content,
		CreatedAt: parseTime(p.CreatedAt),
	}
	for _, s := range p.Sources {
		msg.Sources = append(msg.Sources, domain.Source{
			DocumentID: s.DocumentID,
			ChunkIndex: s.ChunkIndex,
			Content:    s.Content,
			Metadata:   s.Metadata,
		})
	}
	return msg
}

// CreateThread creates a thread with the default title.
func (c *Client) CreateThread(ctx context.Context) (*domain.Thread, error) {
	reqBody := struct {
		Title string `json:"title"`
	}{Title: domain.DefaultThreadTitle}

	var payload threadPayload
	if err := c.doJSON(ctx, http.MethodPost, "/api/threads", reqBody, &payload); err != nil {
		return nil, fmt.Errorf("creating thread: %w", err)
	}
	thread := payload.toDomain()
	return &thread, nil
}

// ListThreads returns all threads, most recently updated first.
func (c *Client) ListThreads(ctx context.Context) ([]domain.Thread, error) {
	var payloads []threadPayload
	if err := c.doJSON(ctx, http.MethodGet, "/api/threads", nil, &payloads); err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}
	threads := make([]domain.Thread, len(payloads))
	for i, p := range payloads {
		threads[i] = p.toDomain()
	}
	return threads, nil
}

// RenameThread sets a thread's title.
func (c *Client) RenameThread(ctx context.Context, id, title string) error {
	reqBody := struct {
		Title string `json:"title"`
	}{Title: title}

	if err := c.doJSON(ctx, http.MethodPatch, "/api/threads/"+id, reqBody, nil); err != nil {
		return fmt.Errorf("renaming thread: %w", err)
	}
	return nil
}

// DeleteThread removes a thread and its messages.
func (c *Client) DeleteThread(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/threads/"+id, nil, nil); err != nil {
		return fmt.Errorf("deleting thread: %w", err)
	}
	return nil
}

// History returns a thread's messages ordered oldest first.
func (c *Client) History(ctx context.Context, id string) ([]domain.Message, error) {
	var payloads []messagePayload
	if err := c.doJSON(ctx, http.MethodGet, "/api/threads/"+id+"/messages", nil, &payloads); err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	messages := make([]domain.Message, len(payloads))
	for i, p := range payloads {
		messages[i] = p.toDomain()
	}
	return messages, nil
}
