package driven

import (
	"context"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

// ExchangeOpener opens one streamed chat exchange against the backend.
type ExchangeOpener interface {
	// OpenExchange submits a user message for the given thread and
	// returns the live event stream of the assistant's reply.
	//
	// Failure modes before any streaming happens:
	//   - domain.ErrNotAuthenticated: no valid session
	//   - domain.ErrSessionExpired: the backend answered 401; the
	//     stored session has been invalidated
	//   - *domain.HTTPError: any other non-2xx response
	//   - wrapped transport error: the connection could not be made
	OpenExchange(ctx context.Context, threadID, message string) (ExchangeStream, error)
}

// ExchangeStream yields the semantic events of one streamed reply, in
// arrival order. It is consumed by a single decode loop; no method is
// safe for concurrent use.
type ExchangeStream interface {
	// Next blocks until the next event arrives. It returns io.EOF
	// when the peer closes the stream cleanly, *domain.ProtocolError
	// when the stream carried an error frame, and a wrapped transport
	// error when the connection drops mid-stream.
	Next(ctx context.Context) (domain.StreamEvent, error)

	// Close releases the underlying connection. Safe to call after
	// Next returned an error, and more than once.
	Close() error
}
