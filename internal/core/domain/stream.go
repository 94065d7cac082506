package domain

// StreamEvent is one semantic event decoded from a streamed assistant
// reply. Exactly one of DeltaEvent, TitleEvent, or DoneEvent. Error
// frames surface as *ProtocolError from the stream instead.
type StreamEvent interface {
	streamEvent()
}

// DeltaEvent carries an incremental text fragment of the in-progress
// assistant reply.
type DeltaEvent struct {
	Text string
}

// TitleEvent carries a new thread title generated by the backend.
type TitleEvent struct {
	Title string
}

// DoneEvent signals that no further events follow for the exchange.
// ResponseID identifies the completed response when the backend sent
// one; it may be empty.
type DoneEvent struct {
	ResponseID string
}

func (DeltaEvent) streamEvent() {}
func (TitleEvent) streamEvent() {}
func (DoneEvent) streamEvent()  {}
