package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Parley.

The TUI shows the conversation transcript, streams answers as they are
generated, and lets you switch threads and browse documents.

Controls:
  Enter    - Send message
  Ctrl+T   - Threads
  Ctrl+D   - Documents
  Esc      - Back / Cancel
  Ctrl+C   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if chatService == nil || threadService == nil {
		return errors.New("services not configured")
	}

	// Panic recovery so a crashed TUI leaves a usable terminal and a
	// stack trace.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app := tui.NewApp(tui.Ports{
		Chat:     chatService,
		Thread:   threadService,
		Document: documentService,
		Session:  sessionService,
	})

	if err := app.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
