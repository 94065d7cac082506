// Package file stores the backend session as a JSON token file on
// disk. Tokens refresh automatically ahead of expiry, and the file is
// watched so a login from another terminal is picked up by a running
// process.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driven"
	"github.com/custodia-labs/parley-cli/internal/logger"
)

// Ensure SessionStore implements the interfaces.
var (
	_ driven.SessionProvider      = (*SessionStore)(nil)
	_ driven.SessionAuthenticator = (*SessionStore)(nil)
)

// Default configuration values.
const (
	DefaultDirName  = ".parley"
	DefaultFileName = "session.json"
	DefaultTimeout  = 30 * time.Second

	// refreshBuffer refreshes tokens this long before they expire so
	// an exchange never starts with a token about to die.
	refreshBuffer = 5 * time.Minute
)

// Config holds configuration for the session store.
type Config struct {
	// Path is the token file location (default: ~/.parley/session.json).
	Path string

	// AuthURL is the auth endpoint base URL (required), e.g.
	// https://xyz.supabase.co/auth/v1.
	AuthURL string

	// APIKey is the public API key the auth endpoint expects on every
	// request, when it requires one.
	APIKey string

	// Timeout is the auth request timeout (default: 30s).
	Timeout time.Duration
}

// SessionStore holds the bearer session for the backend.
type SessionStore struct {
	path    string
	authURL string
	apiKey  string
	client  *http.Client
	watcher *fsnotify.Watcher

	mu    sync.RWMutex
	token *oauth2.Token
}

// NewSessionStore creates a session store, loading any existing token
// file and watching it for external changes.
func NewSessionStore(cfg Config) (*SessionStore, error) {
	if cfg.AuthURL == "" {
		return nil, fmt.Errorf("session: auth URL is required")
	}
	if cfg.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		cfg.Path = filepath.Join(home, DefaultDirName, DefaultFileName)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &SessionStore{
		path:    cfg.Path,
		authURL: cfg.AuthURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}

	if err := s.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load session file: %w", err)
	}

	if err := s.watch(); err != nil {
		// A missing watcher only costs cross-process pickup.
		logger.Warn("session file watch unavailable: %v", err)
	}

	return s, nil
}

// Token returns a valid access token, refreshing ahead of expiry.
func (s *SessionStore) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.token != nil && s.fresh() {
		token := s.token.AccessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check: another caller may have refreshed meanwhile.
	if s.token != nil && s.fresh() {
		return s.token.AccessToken, nil
	}

	if s.token == nil || s.token.RefreshToken == "" {
		return "", domain.ErrNotAuthenticated
	}

	token, err := s.grant(ctx, map[string]string{"refresh_token": s.token.RefreshToken}, "refresh_token")
	if err != nil {
		return "", fmt.Errorf("%w: token refresh failed: %v", domain.ErrNotAuthenticated, err)
	}

	s.token = token
	if err := s.save(); err != nil {
		return "", fmt.Errorf("save refreshed session: %w", err)
	}
	return token.AccessToken, nil
}

// Invalidate discards the stored session.
func (s *SessionStore) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Authenticated reports whether a session is currently stored.
func (s *SessionStore) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil && s.token.AccessToken != ""
}

// PasswordLogin exchanges an email/password pair for a session.
func (s *SessionStore) PasswordLogin(ctx context.Context, email, password string) error {
	token, err := s.grant(ctx, map[string]string{"email": email, "password": password}, "password")
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if err := s.save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Close stops the file watcher.
func (s *SessionStore) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// fresh reports whether the cached token is still usable without a
// refresh. Callers hold at least a read lock.
func (s *SessionStore) fresh() bool {
	if s.token.AccessToken == "" {
		return false
	}
	if s.token.Expiry.IsZero() {
		return true
	}
	return time.Until(s.token.Expiry) > refreshBuffer
}

// grant performs a token grant against the auth endpoint.
func (s *SessionStore) grant(ctx context.Context, body map[string]string, grantType string) (*oauth2.Token, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.authURL+"/token?grant_type="+grantType,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
			Msg         string `json:"msg"`
		}
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr == nil {
			_ = json.Unmarshal(raw, &errResp)
		}
		switch {
		case errResp.Description != "":
			return nil, fmt.Errorf("auth error: %s", errResp.Description)
		case errResp.Msg != "":
			return nil, fmt.Errorf("auth error: %s", errResp.Msg)
		default:
			return nil, fmt.Errorf("auth request failed with status %d", resp.StatusCode)
		}
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int    `json:"expires_in"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("auth endpoint returned no access token")
	}

	token := &oauth2.Token{
		AccessToken:  tokenResp.AccessToken,
		TokenType:    tokenResp.TokenType,
		RefreshToken: tokenResp.RefreshToken,
	}
	if tokenResp.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}
	return token, nil
}

// load reads the token file into memory.
func (s *SessionStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("parse session file: %w", err)
	}

	s.mu.Lock()
	s.token = &token
	s.mu.Unlock()
	return nil
}

// save writes the token file. Callers hold the write lock.
func (s *SessionStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s.token, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// Tokens are credentials: owner-only permissions.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// watch reloads the token file when another process rewrites it.
func (s *SessionStore) watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory: the file itself may not exist yet, and
	// most editors replace rather than rewrite it.
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		watcher.Close()
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}
	s.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.path {
					continue
				}
				switch {
				case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create):
					if err := s.load(); err != nil {
						logger.Warn("reload session file: %v", err)
					} else {
						logger.Debug("session file reloaded after external change")
					}
				case event.Op.Has(fsnotify.Remove):
					s.mu.Lock()
					s.token = nil
					s.mu.Unlock()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("session file watcher: %v", err)
			}
		}
	}()
	return nil
}
