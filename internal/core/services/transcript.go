package services

import (
	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

// Transcript owns the ordered message list for the active thread.
// All mutation goes through its operations; at most one message is
// still open (being appended to) at any time, and it is always the
// last element.
//
// Transcript is not safe for concurrent use. The chat service guards
// it with its own mutex so that exactly one decode loop mutates it.
type Transcript struct {
	messages []domain.Message
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// BeginExchange appends the pending pair for a new exchange: the user
// message followed by an empty assistant message that deltas will be
// appended to.
func (t *Transcript) BeginExchange(threadID, userText string) {
	t.messages = append(t.messages,
		domain.Message{ThreadID: threadID, Role: domain.RoleUser, Content: userText},
		domain.Message{ThreadID: threadID, Role: domain.RoleAssistant},
	)
}

// AppendDelta appends a fragment to the open assistant message. It is
// a no-op when the last message is not an assistant message, so a
// stray delta can never corrupt a user turn.
func (t *Transcript) AppendDelta(fragment string) {
	if len(t.messages) == 0 {
		return
	}
	last := &t.messages[len(t.messages)-1]
	if last.Role != domain.RoleAssistant {
		return
	}
	last.Content += fragment
}

// AbortPendingAssistant removes the trailing assistant message iff its
// content is still empty. Called when an exchange fails before any
// delta arrived, so the transcript never keeps an empty bubble.
// Reports whether a message was removed.
func (t *Transcript) AbortPendingAssistant() bool {
	if len(t.messages) == 0 {
		return false
	}
	last := t.messages[len(t.messages)-1]
	if last.Role != domain.RoleAssistant || last.Content != "" {
		return false
	}
	t.messages = t.messages[:len(t.messages)-1]
	return true
}

// RemoveLastUser removes the most recent user message. Used by retry,
// which compensates for BeginExchange re-adding it. The scan from the
// end skips a partial assistant reply left by a mid-stream failure.
// Reports whether a message was removed.
func (t *Transcript) RemoveLastUser() bool {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == domain.RoleUser {
			t.messages = append(t.messages[:i], t.messages[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps in a thread's history wholesale. Used when the active
// thread changes.
func (t *Transcript) Replace(messages []domain.Message) {
	t.messages = append([]domain.Message(nil), messages...)
}

// Clear empties the transcript.
func (t *Transcript) Clear() {
	t.messages = nil
}

// Messages returns a copy of the message list.
func (t *Transcript) Messages() []domain.Message {
	return append([]domain.Message(nil), t.messages...)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}
