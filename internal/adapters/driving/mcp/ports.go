package mcp

import (
	"github.com/custodia-labs/parley-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat drives conversational exchanges.
	Chat driving.ChatService

	// Thread manages conversation threads.
	Thread driving.ThreadService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Thread == nil {
		return ErrMissingThreadService
	}
	return nil
}
