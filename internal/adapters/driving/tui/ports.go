// Package tui provides the interactive terminal user interface for Parley.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/parley-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat drives conversational exchanges.
	Chat driving.ChatService

	// Thread manages conversation threads.
	Thread driving.ThreadService

	// Document manages uploaded documents.
	Document driving.DocumentService

	// Session reports the sign-in state.
	Session driving.SessionService
}
