package driving

import (
	"context"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

// ChatService drives conversational exchanges for the active thread.
// One exchange may be in flight at a time; submissions while one is
// running are rejected, never queued.
type ChatService interface {
	// SwitchThread makes the given thread active, cancelling any
	// in-flight exchange and loading the thread's history into the
	// transcript. An empty id deselects (used after deleting the
	// active thread) and clears the transcript.
	SwitchThread(ctx context.Context, threadID string) error

	// Send submits a user message and streams the assistant's reply
	// into the transcript. It returns once the exchange terminates.
	// Fails fast with domain.ErrNoActiveThread or
	// domain.ErrExchangeInFlight; other errors leave the exchange in
	// the failed phase with a retry offered.
	Send(ctx context.Context, text string) error

	// Retry resubmits the text of the failed exchange exactly once.
	// Valid only in the failed phase (domain.ErrNoFailedExchange
	// otherwise).
	Retry(ctx context.Context) error

	// Cancel stops the in-flight exchange, if any.
	Cancel()

	// ActiveThreadID returns the active thread's id, or "".
	ActiveThreadID() string

	// Messages returns a snapshot of the active transcript.
	Messages() []domain.Message

	// Phase returns the current exchange phase.
	Phase() domain.ExchangePhase

	// LastError returns the failure reason of the last exchange, or
	// nil. Cleared on the next submission.
	LastError() error

	// LastResponseID returns the response identifier reported by the
	// most recent completed exchange, or "". Informational only.
	LastResponseID() string

	// Updates returns the channel on which transcript and phase
	// changes are announced. The channel is buffered and coalescing:
	// a slow consumer misses intermediate updates, never blocks the
	// decode loop.
	Updates() <-chan ChatUpdate
}

// ChatUpdate announces a change to the transcript or exchange state.
// Consumers re-read Messages and Phase on receipt.
type ChatUpdate struct {
	// Phase is the exchange phase at the time of the update.
	Phase domain.ExchangePhase

	// Delta is the text fragment that caused this update, when it was
	// caused by a delta event. Consumers that render incrementally
	// (the one-shot CLI) print it; the TUI re-reads Messages instead.
	Delta string

	// Title is the new thread title when this update was caused by a
	// title event, otherwise empty.
	Title string

	// ResponseID is set on the completion update when the backend
	// reported a response identifier.
	ResponseID string

	// Err is the failure reason when Phase is the failed phase.
	Err error
}
