package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to ask the assistant"`
	ThreadID string `json:"thread_id,omitempty" jsonschema:"thread to continue; a new thread is created when omitted"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string `json:"answer"`
	ThreadID string `json:"thread_id"`
}

// ListThreadsInput is the input schema for the list_threads tool.
type ListThreadsInput struct{}

// ListThreadsOutput is the output schema for the list_threads tool.
type ListThreadsOutput struct {
	Threads []ThreadOutput `json:"threads"`
	Count   int            `json:"count"`
}

// ThreadOutput represents a single thread.
type ThreadOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the document-backed assistant a question and get the full answer",
	}, s.handleAsk)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_threads",
		Description: "List conversation threads, most recently updated first",
	}, s.handleListThreads)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	threadID := input.ThreadID
	if threadID == "" {
		thread, err := s.ports.Thread.Create(ctx)
		if err != nil {
			return nil, AskOutput{}, fmt.Errorf("creating thread: %w", err)
		}
		threadID = thread.ID
	}

	if err := s.ports.Chat.SwitchThread(ctx, threadID); err != nil {
		return nil, AskOutput{}, fmt.Errorf("switching thread: %w", err)
	}

	if err := s.ports.Chat.Send(ctx, input.Question); err != nil {
		return nil, AskOutput{}, err
	}
	if s.ports.Chat.Phase() == domain.ExchangeFailed {
		if err := s.ports.Chat.LastError(); err != nil {
			return nil, AskOutput{}, err
		}
	}

	return nil, AskOutput{
		Answer:   lastAssistantReply(s.ports.Chat.Messages()),
		ThreadID: threadID,
	}, nil
}

// handleListThreads handles the list_threads tool invocation.
func (s *Server) handleListThreads(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListThreadsInput,
) (*mcp.CallToolResult, ListThreadsOutput, error) {
	threads, err := s.ports.Thread.List(ctx)
	if err != nil {
		return nil, ListThreadsOutput{}, err
	}

	output := ListThreadsOutput{
		Threads: make([]ThreadOutput, len(threads)),
		Count:   len(threads),
	}
	for i := range threads {
		output.Threads[i] = ThreadOutput{
			ID:    threads[i].ID,
			Title: threads[i].Title,
		}
		if !threads[i].UpdatedAt.IsZero() {
			output.Threads[i].UpdatedAt = threads[i].UpdatedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	return nil, output, nil
}

// lastAssistantReply returns the content of the most recent assistant
// message in the transcript, or "".
func lastAssistantReply(messages []domain.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleAssistant {
			return messages[i].Content
		}
	}
	return ""
}
