// Package mcp provides an MCP (Model Context Protocol) server adapter for Parley.
// It lets AI assistants converse with the retrieval backend through the same
// services the CLI and TUI use.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")

// ErrMissingThreadService is returned when the thread service is not provided.
var ErrMissingThreadService = errors.New("mcp: thread service is required")
