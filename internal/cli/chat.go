// chat.go implements the "studio chat" command: a one-shot chat turn that
// submits a message and polls until the agent finishes.
package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send one chat message and wait for the agent's answer",
	Long: `Submit a single message to the podcast agent and poll until the
operation completes. Without --session a fresh session is created and
its id printed, so follow-up messages can continue the conversation:

  studio chat "Make a podcast about urban beekeeping"
  studio chat --session <id> "I approve this script. It looks good!"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)
	ctx := cmd.Context()

	sessionID := chatSessionID
	if sessionID == "" {
		// Propose a client-generated id so the printed id is usable even
		// if the backend response is lost.
		proposed := uuid.NewString()
		resp, err := client.CreateSession(ctx, proposed)
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}
		sessionID = resp.SessionID
		if sessionID == "" {
			sessionID = proposed
		}
		fmt.Printf("Session: %s\n\n", sessionID)
	}

	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		return fmt.Errorf("message is empty")
	}

	resp, err := client.ChatAndWait(ctx, sessionID, message)
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}

	if resp.Error.Set {
		if resp.Error.Message != "" {
			fmt.Printf("Error: %s\n\n", resp.Error.Message)
		} else {
			fmt.Print("Error: the operation failed\n\n")
		}
	}
	fmt.Println(resp.Response)
	if resp.Stage != "" {
		fmt.Printf("\nStage: %s\n", resp.Stage)
	}
	return nil
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "Existing session to continue")
}
