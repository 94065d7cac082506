package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Parley resources.
	uriScheme = "parley://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing threads.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "threads",
		Name:        "threads",
		Description: "List of all conversation threads",
		MIMEType:    "application/json",
	}, s.handleThreadsResource)

	// Template for thread transcripts.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "threads/{threadId}/messages",
		Name:        "thread-messages",
		Description: "Transcript of a specific thread, oldest message first",
		MIMEType:    "application/json",
	}, s.handleMessagesResource)
}

// handleThreadsResource returns a list of all threads.
func (s *Server) handleThreadsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	threads, err := s.ports.Thread.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}

	type threadInfo struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	infos := make([]threadInfo, len(threads))
	for i := range threads {
		infos[i] = threadInfo{
			ID:    threads[i].ID,
			Title: threads[i].Title,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling threads: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleMessagesResource returns the transcript of a specific thread.
func (s *Server) handleMessagesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract threadId from URI: parley://threads/{threadId}/messages
	threadID := extractThreadID(req.Params.URI)
	if threadID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	messages, err := s.ports.Thread.History(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	type messageInfo struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	infos := make([]messageInfo, len(messages))
	for i := range messages {
		infos[i] = messageInfo{
			Role:    string(messages[i].Role),
			Content: messages[i].Content,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling messages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractThreadID extracts the thread ID from a URI like parley://threads/{threadId}/messages.
func extractThreadID(uri string) string {
	const prefix = uriScheme + "threads/"
	const suffix = "/messages"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
