package domain

// ExchangePhase tracks one user-turn/assistant-turn exchange through
// its lifecycle. At most one exchange is in flight per thread.
type ExchangePhase int

const (
	// ExchangeIdle means no exchange has been started.
	ExchangeIdle ExchangePhase = iota

	// ExchangeSending means the request is being established but no
	// response has been accepted yet.
	ExchangeSending

	// ExchangeStreaming means events are being consumed from the
	// response stream.
	ExchangeStreaming

	// ExchangeCompleted means the stream finished cleanly.
	ExchangeCompleted

	// ExchangeFailed means the exchange terminated with an error and
	// a retry is offered.
	ExchangeFailed
)

// String returns the phase name for logging and status display.
func (p ExchangePhase) String() string {
	switch p {
	case ExchangeIdle:
		return "idle"
	case ExchangeSending:
		return "sending"
	case ExchangeStreaming:
		return "streaming"
	case ExchangeCompleted:
		return "completed"
	case ExchangeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// InFlight reports whether submitting a new exchange must be rejected.
func (p ExchangePhase) InFlight() bool {
	return p == ExchangeSending || p == ExchangeStreaming
}
