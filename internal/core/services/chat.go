package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driven"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driving"
	"github.com/custodia-labs/parley-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// updateBuffer is the capacity of the update channel. Sends never
// block: when the consumer lags, intermediate updates are dropped and
// the consumer re-reads the transcript on the next one.
const updateBuffer = 16

// ChatService orchestrates one exchange at a time against the active
// thread: it opens the request, drives the event loop, applies events
// to the transcript, and implements retry-on-failure.
//
// A generation counter guards against stale exchanges: switching or
// deleting the active thread bumps the generation and cancels the
// in-flight context, so any event that races past cancellation is
// discarded before it can touch the new thread's transcript.
type ChatService struct {
	opener  driven.ExchangeOpener
	threads driven.ThreadStore
	cache   driven.HistoryCache // optional

	mu         sync.Mutex
	transcript *Transcript
	threadID   string
	phase      domain.ExchangePhase
	lastErr    error
	generation uint64
	cancel     context.CancelFunc

	// retryText is the user text of the failed exchange;
	// retryUserInList records whether its user message is still in
	// the transcript (mid-stream failures keep it, pre-stream
	// failures roll the whole pair back).
	retryText       string
	retryUserInList bool

	lastResponseID string
	updates        chan driving.ChatUpdate
}

// NewChatService creates a chat service. The cache parameter is
// optional (can be nil).
func NewChatService(
	opener driven.ExchangeOpener,
	threads driven.ThreadStore,
	cache driven.HistoryCache,
) *ChatService {
	return &ChatService{
		opener:     opener,
		threads:    threads,
		cache:      cache,
		transcript: NewTranscript(),
		phase:      domain.ExchangeIdle,
		updates:    make(chan driving.ChatUpdate, updateBuffer),
	}
}

// SwitchThread makes the given thread active and loads its history.
// Any in-flight exchange is cancelled first; its late events are
// discarded by the generation check.
func (s *ChatService) SwitchThread(ctx context.Context, threadID string) error {
	s.mu.Lock()
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.threadID = threadID
	s.phase = domain.ExchangeIdle
	s.lastErr = nil
	s.retryText = ""
	s.retryUserInList = false
	s.transcript.Clear()
	s.mu.Unlock()

	if threadID == "" {
		s.notify(driving.ChatUpdate{Phase: domain.ExchangeIdle})
		return nil
	}

	history, err := s.loadHistory(ctx, threadID)
	if err != nil {
		return fmt.Errorf("loading thread history: %w", err)
	}

	s.mu.Lock()
	// The user may have switched again while history was in flight.
	if s.threadID == threadID {
		s.transcript.Replace(history)
	}
	s.mu.Unlock()

	s.notify(driving.ChatUpdate{Phase: domain.ExchangeIdle})
	return nil
}

// loadHistory fetches a thread's messages, preferring the backend and
// falling back to the local cache when it is unreachable.
func (s *ChatService) loadHistory(ctx context.Context, threadID string) ([]domain.Message, error) {
	history, err := s.threads.History(ctx, threadID)
	if err == nil {
		if s.cache != nil {
			if cacheErr := s.cache.PutHistory(ctx, threadID, history); cacheErr != nil {
				logger.Warn("caching history for %s: %v", threadID, cacheErr)
			}
		}
		return history, nil
	}

	if s.cache != nil {
		cached, cacheErr := s.cache.History(ctx, threadID)
		if cacheErr == nil {
			logger.Info("backend unreachable, using cached history for %s", threadID)
			return cached, nil
		}
	}
	return nil, err
}

// Send submits a user message and consumes the streamed reply. It
// returns after the exchange reaches a terminal phase.
func (s *ChatService) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.threadID == "" {
		s.mu.Unlock()
		return domain.ErrNoActiveThread
	}
	if s.phase.InFlight() {
		s.mu.Unlock()
		return domain.ErrExchangeInFlight
	}

	gen := s.generation
	threadID := s.threadID
	exchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.phase = domain.ExchangeSending
	s.lastErr = nil
	s.retryText = text
	s.retryUserInList = false
	s.transcript.BeginExchange(threadID, text)
	s.mu.Unlock()

	defer cancel()
	s.notify(driving.ChatUpdate{Phase: domain.ExchangeSending})

	logger.Debug("opening exchange on thread %s", threadID)
	stream, err := s.opener.OpenExchange(exchCtx, threadID, text)
	if err != nil {
		s.failBeforeStream(gen, err)
		return err
	}
	defer stream.Close()

	if !s.apply(gen, func() { s.phase = domain.ExchangeStreaming }) {
		return nil // superseded while connecting
	}
	s.notify(driving.ChatUpdate{Phase: domain.ExchangeStreaming})

	return s.consume(exchCtx, gen, threadID, stream)
}

// consume drives the decode loop until a terminal event or error.
// Events are applied strictly in arrival order; the transcript is
// only ever mutated from within this single loop.
func (s *ChatService) consume(
	ctx context.Context, gen uint64, threadID string, stream driven.ExchangeStream,
) error {
	for {
		ev, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			// Clean close without a done frame still completes.
			s.complete(gen, "")
			return nil
		}
		if err != nil {
			if s.stale(gen) {
				return nil
			}
			s.failMidStream(gen, err)
			return err
		}

		switch ev := ev.(type) {
		case domain.DeltaEvent:
			if !s.apply(gen, func() { s.transcript.AppendDelta(ev.Text) }) {
				return nil
			}
			s.notify(driving.ChatUpdate{Phase: domain.ExchangeStreaming, Delta: ev.Text})

		case domain.TitleEvent:
			if s.stale(gen) {
				return nil
			}
			// Title persistence failures never abort the exchange.
			if err := s.threads.RenameThread(ctx, threadID, ev.Title); err != nil {
				logger.Warn("renaming thread %s: %v", threadID, err)
			}
			s.notify(driving.ChatUpdate{Phase: domain.ExchangeStreaming, Title: ev.Title})

		case domain.DoneEvent:
			// Terminal: later frames, if any, are not consumed.
			s.complete(gen, ev.ResponseID)
			return nil
		}
	}
}

// Retry resubmits the failed exchange's user text exactly once.
func (s *ChatService) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != domain.ExchangeFailed {
		s.mu.Unlock()
		return domain.ErrNoFailedExchange
	}
	text := s.retryText
	if s.retryUserInList {
		// Send re-adds the user message, so drop the failed one.
		s.transcript.RemoveLastUser()
		s.retryUserInList = false
	}
	s.phase = domain.ExchangeIdle
	s.mu.Unlock()

	return s.Send(ctx, text)
}

// Cancel stops the in-flight exchange, if any.
func (s *ChatService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// ActiveThreadID returns the active thread's id, or "".
func (s *ChatService) ActiveThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

// Messages returns a snapshot of the active transcript.
func (s *ChatService) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Messages()
}

// Phase returns the current exchange phase.
func (s *ChatService) Phase() domain.ExchangePhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LastError returns the failure reason of the last exchange, or nil.
func (s *ChatService) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// LastResponseID returns the response identifier reported by the most
// recent completed exchange, or "".
func (s *ChatService) LastResponseID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResponseID
}

// Updates returns the channel announcing transcript and phase changes.
func (s *ChatService) Updates() <-chan driving.ChatUpdate {
	return s.updates
}

// apply runs fn under the lock iff the exchange is still current.
// Reports whether fn ran.
func (s *ChatService) apply(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	fn()
	return true
}

// stale reports whether the exchange has been superseded.
func (s *ChatService) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.generation
}

// failBeforeStream handles rejection before streaming began: the
// whole pending pair is rolled back so a total failure adds exactly
// zero messages.
func (s *ChatService) failBeforeStream(gen uint64, err error) {
	applied := s.apply(gen, func() {
		s.transcript.AbortPendingAssistant()
		s.transcript.RemoveLastUser()
		s.retryUserInList = false
		s.phase = domain.ExchangeFailed
		s.lastErr = err
	})
	if applied {
		logger.Debug("exchange rejected before streaming: %v", err)
		s.notify(driving.ChatUpdate{Phase: domain.ExchangeFailed, Err: err})
	}
}

// failMidStream handles a failure after streaming began: the user
// message stays, the assistant message is removed iff still empty.
func (s *ChatService) failMidStream(gen uint64, err error) {
	applied := s.apply(gen, func() {
		s.transcript.AbortPendingAssistant()
		s.retryUserInList = true
		s.phase = domain.ExchangeFailed
		s.lastErr = err
	})
	if applied {
		logger.Debug("exchange failed mid-stream: %v", err)
		s.notify(driving.ChatUpdate{Phase: domain.ExchangeFailed, Err: err})
	}
}

// complete marks the exchange terminal.
func (s *ChatService) complete(gen uint64, responseID string) {
	applied := s.apply(gen, func() {
		s.phase = domain.ExchangeCompleted
		s.cancel = nil
		if responseID != "" {
			s.lastResponseID = responseID
		}
	})
	if applied {
		s.notify(driving.ChatUpdate{Phase: domain.ExchangeCompleted, ResponseID: responseID})
	}
}

// notify delivers an update without ever blocking the decode loop.
func (s *ChatService) notify(u driving.ChatUpdate) {
	select {
	case s.updates <- u:
	default:
	}
}
