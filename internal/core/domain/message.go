package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	// RoleUser marks a message authored by the user.
	RoleUser Role = "user"

	// RoleAssistant marks a message authored by the assistant.
	RoleAssistant Role = "assistant"
)

// Message represents one turn in a conversation.
// An assistant message's content starts empty and grows append-only
// while its exchange is streaming; it is never mutated afterwards.
type Message struct {
	// ID is the server-assigned identifier. Empty for messages that
	// have not been persisted yet (the in-flight exchange pair).
	ID string

	// ThreadID links to the owning Thread.
	ThreadID string

	// Role is the author of the message.
	Role Role

	// Content is the message text.
	Content string

	// Sources are the retrieved document chunks cited by an assistant
	// reply. Only ever attached when history is loaded, never mid-stream.
	Sources []Source

	// CreatedAt is when the message was persisted server-side.
	CreatedAt time.Time
}

// Source is a retrieved document chunk cited in support of an
// assistant reply. Immutable once attached to a message.
type Source struct {
	// DocumentID identifies the cited document.
	DocumentID string

	// ChunkIndex is the ordinal position of the chunk within the document.
	ChunkIndex int

	// Content is the chunk text.
	Content string

	// Metadata contains optional scalar fields such as topic or
	// document_type.
	Metadata map[string]any
}
