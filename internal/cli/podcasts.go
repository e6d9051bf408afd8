// podcasts.go implements the "studio podcasts" listing and detail commands.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/beifong-dev/studio/internal/api"
)

var (
	podcastsPage    int
	podcastsPerPage int
	podcastsSearch  string
)

var podcastsCmd = &cobra.Command{
	Use:   "podcasts",
	Short: "List finished podcasts",
	RunE:  runPodcasts,
}

var podcastsShowCmd = &cobra.Command{
	Use:   "show <id-or-identifier>",
	Short: "Show a podcast's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runPodcastsShow,
}

func runPodcasts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	perPage := podcastsPerPage
	if perPage == 0 {
		perPage = cfg.Listing.PerPage
	}

	list, err := client.ListPodcasts(cmd.Context(), api.PodcastParams{
		Page:    podcastsPage,
		PerPage: perPage,
		Search:  podcastsSearch,
	})
	if err != nil {
		return fmt.Errorf("listing podcasts: %w", err)
	}

	if len(list.Items) == 0 {
		fmt.Println("No podcasts found.")
		return nil
	}

	for _, p := range list.Items {
		fmt.Printf("  %4d  %-40s  %-8s  %s\n", p.ID, p.Title, p.LanguageCode, p.CreatedAt)
	}

	fmt.Printf("\nPage %d/%d (%d podcasts)\n", list.Page, list.TotalPages, list.Total)
	return nil
}

func runPodcastsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)
	ctx := cmd.Context()

	var p *api.Podcast
	if id, convErr := strconv.Atoi(args[0]); convErr == nil {
		p, err = client.GetPodcast(ctx, id)
	} else {
		p, err = client.GetPodcastByIdentifier(ctx, args[0])
	}
	if err != nil {
		return fmt.Errorf("fetching podcast %s: %w", args[0], err)
	}

	fmt.Printf("Title:       %s\n", p.Title)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	if p.LanguageCode != "" {
		fmt.Printf("Language:    %s\n", p.LanguageCode)
	}
	if p.TTSEngine != "" {
		fmt.Printf("TTS engine:  %s\n", p.TTSEngine)
	}
	if p.BannerImg != "" {
		fmt.Printf("Banner:      %s\n", client.BannerURL(p.BannerImg))
	}
	if p.AudioFile != "" {
		fmt.Printf("Audio:       %s\n", client.AudioURL(p.AudioFile))
	}
	if p.CreatedAt != "" {
		fmt.Printf("Created:     %s\n", p.CreatedAt)
	}
	if p.ScriptText != "" {
		fmt.Printf("\n%s\n", p.ScriptText)
	}
	return nil
}

func init() {
	podcastsCmd.Flags().IntVar(&podcastsPage, "page", 1, "Page to display")
	podcastsCmd.Flags().IntVar(&podcastsPerPage, "per-page", 0, "Podcasts per page (default from config)")
	podcastsCmd.Flags().StringVar(&podcastsSearch, "search", "", "Full-text search in titles and descriptions")

	podcastsCmd.AddCommand(podcastsShowCmd)
}
