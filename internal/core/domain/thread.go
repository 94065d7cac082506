package domain

import "time"

// DefaultThreadTitle is assigned to newly created threads until the
// backend generates a title from the first exchange.
const DefaultThreadTitle = "New Chat"

// Thread represents one conversation with the assistant.
type Thread struct {
	// ID is the unique identifier for the thread.
	ID string

	// Title is the human-readable title. Starts as DefaultThreadTitle
	// and is replaced when the backend streams a title update.
	Title string

	// LastResponseID is the identifier of the most recent completed
	// assistant response, when the backend reported one.
	LastResponseID string

	// CreatedAt is when the thread was created.
	CreatedAt time.Time

	// UpdatedAt is when the thread last changed.
	UpdatedAt time.Time
}
