// sessions.go implements the "studio sessions" listing and removal commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beifong-dev/studio/internal/log"
)

var (
	sessionsPage    int
	sessionsPerPage int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved podcast sessions",
	Long: `Display one page of the saved sessions listing, most recently
updated first. Use --page and --per-page to move through the list.`,
	RunE: runSessions,
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm <session-id>",
	Short: "Delete a session and all its server-side data",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsRm,
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	perPage := sessionsPerPage
	if perPage == 0 {
		perPage = cfg.Listing.PerPage
	}

	list, err := client.ListSessions(cmd.Context(), sessionsPage, perPage)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if len(list.Sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	for _, s := range list.Sessions {
		topic := s.Topic
		if topic == "" {
			topic = "(untitled)"
		}
		fmt.Printf("  %-38s  %-18s  %-12s  %s\n", s.SessionID, topic, s.Stage, s.UpdatedAt)
	}

	p := list.Pagination
	fmt.Printf("\nPage %d/%d (%d sessions)\n", p.Page, p.TotalPages, p.Total)
	return nil
}

func runSessionsRm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	sessionID := args[0]
	if err := client.DeleteSession(cmd.Context(), sessionID); err != nil {
		return fmt.Errorf("deleting session %s: %w", sessionID, err)
	}

	// Best effort: the deletion already succeeded on the backend.
	if logger, err := newLogger(); err == nil {
		logger.Append(log.LogEvent{Event: log.EventSessionDeleted, SessionID: sessionID})
	}

	fmt.Printf("Deleted session %s\n", sessionID)
	return nil
}

func init() {
	sessionsCmd.Flags().IntVar(&sessionsPage, "page", 1, "Page to display")
	sessionsCmd.Flags().IntVar(&sessionsPerPage, "per-page", 0, "Sessions per page (default from config)")

	sessionsCmd.AddCommand(sessionsRmCmd)
}
