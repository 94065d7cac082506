package api

import (
	"encoding/json"
	"strings"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/sse"
)

// eventError is the frame name the backend uses for fatal errors.
const eventError = "error"

// eventPayload is the union of all event data shapes the backend
// sends. Which fields are set determines the event kind.
type eventPayload struct {
	Text       *string `json:"text"`
	Title      *string `json:"title"`
	ResponseID string  `json:"response_id"`
	Error      *string `json:"error"`
}

// interpretFrame classifies one wire frame into a semantic event.
//
// Classification is first-match: an error frame is fatal, a payload
// with text is a delta, one with title is a title update, anything
// else signals completion. A payload that fails to parse is treated
// as decode noise and dropped (nil, nil) unless it arrived on an
// error-named frame, where a garbled message is still fatal.
func interpretFrame(f sse.Frame) (domain.StreamEvent, error) {
	var p eventPayload
	if err := json.Unmarshal([]byte(f.Data), &p); err != nil {
		if f.Event == eventError && strings.TrimSpace(f.Data) != "" {
			return nil, &domain.ProtocolError{Message: "unreadable error from server"}
		}
		return nil, nil
	}

	switch {
	case f.Event == eventError && p.Error != nil:
		return nil, &domain.ProtocolError{Message: *p.Error}
	case p.Text != nil:
		return domain.DeltaEvent{Text: *p.Text}, nil
	case p.Title != nil:
		return domain.TitleEvent{Title: *p.Title}, nil
	default:
		return domain.DoneEvent{ResponseID: p.ResponseID}, nil
	}
}
