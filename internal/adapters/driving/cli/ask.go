package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/logger"
)

// askThreadID targets an existing thread instead of creating one.
var askThreadID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question",
	Long: `Submits a question and streams the answer to stdout as it is
generated. By default a new thread is created; use --thread to continue
an existing conversation.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askThreadID, "thread", "t", "", "thread ID to continue")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil || threadService == nil {
		return errors.New("chat service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	threadID := askThreadID
	if threadID == "" {
		thread, err := threadService.Create(ctx)
		if err != nil {
			return fmt.Errorf("creating thread: %w", err)
		}
		threadID = thread.ID
	}

	if err := chatService.SwitchThread(ctx, threadID); err != nil {
		return fmt.Errorf("selecting thread: %w", err)
	}

	// Print the answer as it grows. Updates only wake the printer: the
	// channel drops entries under a lagging consumer, so the reply text
	// always comes from the transcript itself. The reply lands right
	// after the user turn appended past the loaded history.
	base := len(chatService.Messages())
	var printed int
	printTail := func() {
		msgs := chatService.Messages()
		if len(msgs) <= base+1 || msgs[base+1].Role != domain.RoleAssistant {
			return
		}
		if content := msgs[base+1].Content; len(content) > printed {
			cmd.Print(content[printed:])
			printed = len(content)
		}
	}

	// Send blocks until the exchange terminates, so drain updates on
	// the side.
	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-chatService.Updates():
				printTail()
			case <-done:
				return
			}
		}
	}()

	sendErr := chatService.Send(ctx, args[0])
	close(done)
	wg.Wait()

	// Catch anything streamed after the last update the goroutine saw.
	printTail()

	if sendErr != nil {
		return sendErr
	}
	if chatService.Phase() == domain.ExchangeFailed {
		if err := chatService.LastError(); err != nil {
			return err
		}
		return errors.New("exchange failed")
	}
	if id := chatService.LastResponseID(); id != "" {
		logger.Debug("exchange complete (response %s)", id)
	}

	cmd.Println()
	if askThreadID == "" {
		cmd.Printf("(thread %s)\n", threadID)
	}
	return nil
}
