package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

var threadCmd = &cobra.Command{
	Use:   "thread",
	Short: "Manage conversation threads",
	Long:  `List, create, rename, or delete conversation threads.`,
}

var threadListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all threads",
	RunE:  runThreadList,
}

var threadNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new thread",
	RunE:  runThreadNew,
}

var threadRenameCmd = &cobra.Command{
	Use:   "rename [thread-id] [title]",
	Short: "Rename a thread",
	Args:  cobra.ExactArgs(2),
	RunE:  runThreadRename,
}

var threadDeleteCmd = &cobra.Command{
	Use:   "delete [thread-id]",
	Short: "Delete a thread and its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runThreadDelete,
}

var threadHistoryCmd = &cobra.Command{
	Use:   "history [thread-id]",
	Short: "Print a thread's messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runThreadHistory,
}

// historySources includes cited sources in the history output.
var historySources bool

func init() {
	threadHistoryCmd.Flags().BoolVar(&historySources, "sources", false, "show cited sources")

	threadCmd.AddCommand(threadListCmd)
	threadCmd.AddCommand(threadNewCmd)
	threadCmd.AddCommand(threadRenameCmd)
	threadCmd.AddCommand(threadDeleteCmd)
	threadCmd.AddCommand(threadHistoryCmd)
	rootCmd.AddCommand(threadCmd)
}

func runThreadList(cmd *cobra.Command, _ []string) error {
	if threadService == nil {
		return errors.New("thread service not configured")
	}

	threads, err := threadService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list threads: %w", err)
	}

	if len(threads) == 0 {
		cmd.Println("No threads yet. Start one with: parley ask \"...\"")
		return nil
	}

	for i := range threads {
		cmd.Printf("  %s  %s\n", threads[i].ID, threads[i].Title)
	}
	cmd.Printf("\nTotal: %d threads\n", len(threads))
	return nil
}

func runThreadNew(cmd *cobra.Command, _ []string) error {
	if threadService == nil {
		return errors.New("thread service not configured")
	}

	thread, err := threadService.Create(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}

	cmd.Printf("Created thread %s\n", thread.ID)
	return nil
}

func runThreadRename(cmd *cobra.Command, args []string) error {
	if threadService == nil {
		return errors.New("thread service not configured")
	}

	if err := threadService.Rename(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to rename thread: %w", err)
	}

	cmd.Printf("Renamed thread %s\n", args[0])
	return nil
}

func runThreadDelete(cmd *cobra.Command, args []string) error {
	if threadService == nil {
		return errors.New("thread service not configured")
	}

	if err := threadService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}

	cmd.Printf("Deleted thread %s\n", args[0])
	return nil
}

func runThreadHistory(cmd *cobra.Command, args []string) error {
	if threadService == nil {
		return errors.New("thread service not configured")
	}

	messages, err := threadService.History(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	if len(messages) == 0 {
		cmd.Println("No messages in this thread.")
		return nil
	}

	for i := range messages {
		printMessage(cmd, &messages[i])
	}
	return nil
}

func printMessage(cmd *cobra.Command, msg *domain.Message) {
	label := "You"
	if msg.Role == domain.RoleAssistant {
		label = "Assistant"
	}
	cmd.Printf("%s:\n%s\n\n", label, msg.Content)

	if historySources && len(msg.Sources) > 0 {
		cmd.Println("  Sources:")
		for _, src := range msg.Sources {
			cmd.Printf("    - %s (chunk %d)\n", src.DocumentID, src.ChunkIndex)
		}
		cmd.Println()
	}
}
