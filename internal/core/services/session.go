package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driven"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService manages the user's sign-in state on top of the
// credential adapter.
type SessionService struct {
	provider driven.SessionProvider
	auth     driven.SessionAuthenticator
}

// NewSessionService creates a session service.
func NewSessionService(
	provider driven.SessionProvider, auth driven.SessionAuthenticator,
) *SessionService {
	return &SessionService{provider: provider, auth: auth}
}

// Login exchanges credentials for a session and stores it.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if err := s.auth.PasswordLogin(ctx, email, password); err != nil {
		return fmt.Errorf("signing in: %w", err)
	}
	return nil
}

// Logout discards the stored session.
func (s *SessionService) Logout() error {
	return s.provider.Invalidate()
}

// Authenticated reports whether a session is stored.
func (s *SessionService) Authenticated() bool {
	return s.provider.Authenticated()
}
