package driving

import "context"

// SessionService manages the user's sign-in state.
type SessionService interface {
	// Login exchanges credentials for a session and stores it.
	Login(ctx context.Context, email, password string) error

	// Logout discards the stored session.
	Logout() error

	// Authenticated reports whether a session is stored.
	Authenticated() bool
}
