// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation transcript and message input.
	ViewChat ViewType = iota
	// ViewThreads is the thread management view.
	ViewThreads
	// ViewDocuments is the uploaded documents view.
	ViewDocuments
	// ViewMenu is the main navigation menu.
	ViewMenu
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewThreads:
		return "threads"
	case ViewDocuments:
		return "documents"
	case ViewMenu:
		return "menu"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// TranscriptUpdated carries one chat update from the exchange stream.
// The receiving view re-reads the transcript from the chat service.
type TranscriptUpdated struct {
	Update driving.ChatUpdate
}

// SendFinished signals that a blocking send returned. Err is only set
// for fail-fast rejections; stream failures arrive as failed-phase
// transcript updates instead.
type SendFinished struct {
	Err error
}

// ThreadsLoaded carries the thread list from the service.
type ThreadsLoaded struct {
	Threads []domain.Thread
	Err     error
}

// ThreadSelected signals a thread was chosen for conversation.
type ThreadSelected struct {
	Thread domain.Thread
}

// ThreadSwitched signals the chat service finished switching threads
// and the transcript is ready to render.
type ThreadSwitched struct {
	ThreadID string
	Title    string
	Err      error
}

// ThreadCreated signals a new thread was created.
type ThreadCreated struct {
	Thread *domain.Thread
	Err    error
}

// ThreadRenamed signals a thread rename completed.
type ThreadRenamed struct {
	ID    string
	Title string
	Err   error
}

// ThreadDeleted signals a thread was deleted. Active reports whether
// it was the active conversation, in which case the transcript has
// been cleared.
type ThreadDeleted struct {
	ID     string
	Active bool
	Err    error
}

// DocumentsLoaded carries the uploaded document list.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentDeleted signals a document was deleted.
type DocumentDeleted struct {
	ID  string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
