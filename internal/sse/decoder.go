// Package sse decodes server-sent event frames from a chunked byte
// stream. It implements the strict two-field framing the chat backend
// emits (an optional "event:" line naming the frame, one "data:" line
// carrying the payload) and is deliberately not a general SSE parser:
// multi-line data payloads are never sent by the protocol and are not
// reassembled.
package sse

import (
	"bytes"
	"strings"
)

// Field prefixes recognised by the decoder.
const (
	eventPrefix = "event: "
	dataPrefix  = "data: "
)

// Frame is one named event reconstructed from the byte stream.
// It is transient: callers interpret it immediately and discard it.
type Frame struct {
	// Event is the frame name from the preceding "event:" line.
	// Empty when the block carried no "event:" line.
	Event string

	// Data is the raw payload from the "data:" line.
	Data string
}

// Decoder turns raw stream chunks into complete frames. It keeps a
// single growable buffer across calls so frames split at arbitrary
// byte offsets (including mid UTF-8 sequence) reassemble correctly.
// A Decoder is not safe for concurrent use; one decode loop owns it.
type Decoder struct {
	buf   []byte
	event string
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends a chunk to the buffer and returns all frames completed
// by it, in stream order. The final partial line stays buffered until
// a future chunk terminates it. Feed never fails: unrecognised lines
// (blank separators included) are skipped.
func (d *Decoder) Feed(p []byte) []Frame {
	d.buf = append(d.buf, p...)

	nl := bytes.LastIndexByte(d.buf, '\n')
	if nl < 0 {
		return nil
	}

	complete := d.buf[:nl]
	d.buf = append(d.buf[:0:0], d.buf[nl+1:]...)

	var frames []Frame
	for _, line := range strings.Split(string(complete), "\n") {
		switch {
		case strings.HasPrefix(line, eventPrefix):
			d.event = strings.TrimSpace(line[len(eventPrefix):])
		case strings.HasPrefix(line, dataPrefix):
			frames = append(frames, Frame{
				Event: d.event,
				Data:  line[len(dataPrefix):],
			})
		}
	}
	return frames
}

// Pending reports whether unterminated bytes remain buffered. Bytes
// still pending when the stream closes are discarded, never emitted:
// a missing trailing newline is not a completed frame.
func (d *Decoder) Pending() bool {
	return len(d.buf) > 0
}
