package driven

import "context"

// SessionProvider supplies the bearer credential attached to every
// backend request. Implementations handle token storage and refresh
// transparently.
type SessionProvider interface {
	// Token returns a valid access token.
	// Returns domain.ErrNotAuthenticated when no session exists and
	// refresh is not possible.
	Token(ctx context.Context) (string, error)

	// Invalidate discards the stored session. Called when the backend
	// answers 401: the credential is dead and the user must sign in
	// again.
	Invalidate() error

	// Authenticated reports whether a session is currently stored.
	// It does not guarantee the backend still accepts it.
	Authenticated() bool
}

// SessionAuthenticator establishes a new session from user
// credentials. Implemented by the same adapter as SessionProvider.
type SessionAuthenticator interface {
	// PasswordLogin exchanges an email/password pair for a token at
	// the auth endpoint and stores the resulting session.
	PasswordLogin(ctx context.Context, email, password string) error
}
