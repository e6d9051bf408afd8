// Package cli defines Cobra command definitions for the studio CLI.
// This file contains the root command, version flag, and help output.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/beifong-dev/studio/internal/api"
	"github.com/beifong-dev/studio/internal/config"
	"github.com/beifong-dev/studio/internal/log"
	"github.com/beifong-dev/studio/internal/session"
	"github.com/beifong-dev/studio/internal/tui"
	"github.com/beifong-dev/studio/internal/tui/app"
)

var (
	backendURL string
	resumeID   string
	version    = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "studio",
	Short: "Terminal client for the AI Podcast Studio backend",
	Long: `Studio is a terminal client for the AI Podcast Studio backend.
It drives the podcast creation pipeline through an agent chat: pick
sources from a web search, approve the generated script, banner and
audio, and browse finished podcasts and social media analytics.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// When no subcommand is provided, launch the TUI if on a TTY,
		// show help otherwise.
		if !tui.IsTTY() {
			return cmd.Help()
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		logger, err := newLogger()
		if err != nil {
			return err
		}

		ctrl := session.NewController(client, logger)
		return tui.Run(app.New(cfg, client, ctrl, resumeID))
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads ~/.studio/config.yaml, falling back to defaults when the
// file does not exist.
func loadConfig() (*config.Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return config.Load(home)
}

// newLogger opens the JSONL event log under ~/.studio.
func newLogger() (*log.Logger, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	logger, err := log.NewLogger(home)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return logger, nil
}

// newClient builds the backend client from the config: request timeout and
// poll budgets come from config.yaml, with --url overriding the base URL.
func newClient(cfg *config.Config) *api.Client {
	url := cfg.Backend.URL
	if backendURL != "" {
		url = backendURL
	}
	return api.NewClient(url,
		api.WithTimeout(time.Duration(cfg.Backend.TimeoutSeconds)*time.Second),
		api.WithPollBudget(cfg.Poll.MaxAttempts, cfg.Poll.ErrorBudget),
	)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURL, "url", "", "Backend base URL (overrides config)")
	rootCmd.Flags().StringVar(&resumeID, "session", "", "Resume this session in the TUI instead of creating a new one")

	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(socialCmd)
	rootCmd.AddCommand(podcastsCmd)
	rootCmd.AddCommand(articlesCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(tasksCmd)
}
