// Package cli provides the cobra command tree for the parley binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/parley-cli/internal/core/ports/driving"
	"github.com/custodia-labs/parley-cli/internal/logger"
)

// version is injected at build time via Execute.
var version = "dev"

// Services injected by the composition root before Execute runs.
var (
	chatService     driving.ChatService
	threadService   driving.ThreadService
	documentService driving.DocumentService
	sessionService  driving.SessionService
)

// verboseFlag enables debug logging on stderr.
var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Chat with your documents from the terminal",
	Long: `Parley is a terminal client for a retrieval-backed chat service.
Ask questions against your uploaded documents, browse conversation
threads, and stream answers as they are generated.

Run without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Services aggregates everything the command tree needs.
type Services struct {
	Chat     driving.ChatService
	Thread   driving.ThreadService
	Document driving.DocumentService
	Session  driving.SessionService
}

// SetServices wires the core services into the command tree. Called by
// the composition root before Execute.
func SetServices(s Services) {
	chatService = s.Chat
	threadService = s.Thread
	documentService = s.Document
	sessionService = s.Session
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
