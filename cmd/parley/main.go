// Command parley is a terminal client for a retrieval-backed chat
// service: it manages conversation threads, uploads documents, and
// streams assistant replies into the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/parley-cli/internal/adapters/driven/api"
	configfile "github.com/custodia-labs/parley-cli/internal/adapters/driven/config/file"
	sessionfile "github.com/custodia-labs/parley-cli/internal/adapters/driven/session/file"
	"github.com/custodia-labs/parley-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/parley-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driven"
	"github.com/custodia-labs/parley-cli/internal/core/services"
	"github.com/custodia-labs/parley-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// defaultAuthURL assumes the auth endpoint lives next to a local
// backend. Deployments set auth.url in the config file.
const defaultAuthURL = "http://localhost:8000/auth/v1"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	authURL := cfg.GetString(configfile.KeyAuthURL)
	if authURL == "" {
		authURL = defaultAuthURL
	}

	session, err := sessionfile.NewSessionStore(sessionfile.Config{
		AuthURL: authURL,
		APIKey:  cfg.GetString(configfile.KeyAuthAPIKey),
	})
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer session.Close()

	client := api.NewClient(api.Config{
		BaseURL: cfg.GetString(configfile.KeyBackendURL),
	}, session)

	// The cache is optional: without it thread listing and history
	// just lose their offline fallback.
	var cache driven.HistoryCache
	if sqlCache, err := sqlite.NewCache(cfg.GetString(configfile.KeyCachePath)); err != nil {
		logger.Warn("history cache unavailable: %v", err)
	} else {
		defer sqlCache.Close()
		cache = sqlCache
	}

	cli.SetServices(cli.Services{
		Chat:     services.NewChatService(client, client, cache),
		Thread:   services.NewThreadService(client, cache),
		Document: services.NewDocumentService(client),
		Session:  services.NewSessionService(session, session),
	})

	return cli.Execute(version)
}
