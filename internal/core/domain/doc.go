// Package domain defines the core business entities for Parley.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Thread: A conversation with the assistant
//   - Message: One turn in a conversation
//   - Source: A retrieved document chunk cited by an assistant reply
//   - StreamEvent: An incremental event decoded from a streamed reply
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
