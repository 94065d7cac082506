package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthStatusCmd_SignedOut(t *testing.T) {
	_, _, _, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "auth", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestAuthStatusCmd_SignedIn(t *testing.T) {
	_, _, _, session, cleanup := setupTestServices()
	defer cleanup()
	session.authenticated = true

	out, err := execute(t, "auth", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Signed in")
}

func TestAuthLogoutCmd(t *testing.T) {
	_, _, _, session, cleanup := setupTestServices()
	defer cleanup()
	session.authenticated = true

	out, err := execute(t, "auth", "logout")

	require.NoError(t, err)
	assert.True(t, session.loggedOut)
	assert.Contains(t, out, "Signed out")
}
