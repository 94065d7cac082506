package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driven"
	"github.com/custodia-labs/parley-cli/internal/sse"
)

// Ensure Client implements the interface.
var _ driven.ExchangeOpener = (*Client)(nil)

// chatRequest is the POST /api/chat request format.
type chatRequest struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

// OpenExchange submits a user message and returns the live event
// stream of the assistant's reply.
func (c *Client) OpenExchange(ctx context.Context, threadID, message string) (driven.ExchangeStream, error) {
	jsonBody, err := json.Marshal(chatRequest{ThreadID: threadID, Message: message})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opening exchange: %w", err)
	}

	if err := c.checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return &exchangeStream{body: resp.Body}, nil
}

// exchangeStream decodes one streamed reply: raw chunks through the
// wire decoder, frames through the interpreter.
type exchangeStream struct {
	body    io.ReadCloser
	decoder sse.Decoder
	queue   []domain.StreamEvent
	readErr error // sticky; returned once the queue drains
	buf     [4096]byte
}

var _ driven.ExchangeStream = (*exchangeStream)(nil)

// Next blocks until the next semantic event arrives.
func (s *exchangeStream) Next(ctx context.Context) (domain.StreamEvent, error) {
	for {
		if len(s.queue) > 0 {
			ev := s.queue[0]
			s.queue = s.queue[1:]
			return ev, nil
		}
		if s.readErr != nil {
			return nil, s.readErr
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// The read unblocks when the request context is cancelled,
		// because the response body is tied to it.
		n, err := s.body.Read(s.buf[:])
		if n > 0 {
			for _, frame := range s.decoder.Feed(s.buf[:n]) {
				ev, frameErr := interpretFrame(frame)
				if frameErr != nil {
					s.readErr = io.EOF
					return nil, frameErr
				}
				if ev != nil {
					s.queue = append(s.queue, ev)
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				s.readErr = io.EOF
			} else {
				s.readErr = fmt.Errorf("reading stream: %w", err)
			}
		}
	}
}

// Close releases the underlying connection.
func (s *exchangeStream) Close() error {
	s.readErr = io.EOF
	return s.body.Close()
}
