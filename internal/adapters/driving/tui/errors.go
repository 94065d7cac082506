package tui

import "errors"

// ErrNoChatService is returned when the chat service is not provided.
var ErrNoChatService = errors.New("tui: chat service is required")
