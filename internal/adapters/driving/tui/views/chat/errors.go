package chat

import "errors"

// ErrNoChatService is returned when no chat service is available.
var ErrNoChatService = errors.New("chat service not available")

// ErrNoThreadService is returned when no thread service is available.
var ErrNoThreadService = errors.New("thread service not available")
