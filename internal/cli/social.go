// social.go implements the "studio social" command group over the social
// media dashboard endpoints.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beifong-dev/studio/internal/api"
)

var (
	socialPage      int
	socialPerPage   int
	socialPlatform  string
	socialAuthor    string
	socialDateFrom  string
	socialDateTo    string
	socialSearch    string
	socialSentiment string

	socialTopLimit int
)

var socialCmd = &cobra.Command{
	Use:   "social",
	Short: "Browse social media posts and analytics",
}

var socialPostsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List social posts with optional filters",
	Long: `Display one page of social posts. Every filter flag narrows the
result set server-side; combining flags applies all of them.`,
	RunE: runSocialPosts,
}

var socialStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the social dashboard statistics",
	RunE:  runSocialStats,
}

var socialTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the most-engaged posts",
	RunE:  runSocialTop,
}

func runSocialPosts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	perPage := socialPerPage
	if perPage == 0 {
		perPage = cfg.Listing.PerPage
	}

	list, err := client.ListSocialPosts(cmd.Context(), api.SocialPostParams{
		Page:      socialPage,
		PerPage:   perPage,
		Platform:  socialPlatform,
		Author:    socialAuthor,
		DateFrom:  socialDateFrom,
		DateTo:    socialDateTo,
		Search:    socialSearch,
		Sentiment: socialSentiment,
	})
	if err != nil {
		return fmt.Errorf("listing social posts: %w", err)
	}

	if len(list.Items) == 0 {
		fmt.Println("No posts match the current filters.")
		return nil
	}

	for _, p := range list.Items {
		fmt.Println(formatSocialPost(p))
	}

	fmt.Printf("\nPage %d/%d (%d posts)\n", list.Page, list.TotalPages, list.Total)
	return nil
}

func runSocialStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	stats, err := client.SocialStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching social stats: %w", err)
	}

	fmt.Printf("Total posts:    %d\n", stats.TotalPosts)
	fmt.Printf("Facebook posts: %d\n", stats.FacebookPosts)
	fmt.Printf("X posts:        %d\n", stats.XPosts)
	fmt.Printf("Unique authors: %d\n", stats.UniqueAuthors)
	return nil
}

func runSocialTop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	posts, err := client.TopSocialPosts(cmd.Context(), socialTopLimit, socialPlatform)
	if err != nil {
		return fmt.Errorf("fetching top posts: %w", err)
	}

	for i, p := range posts {
		fmt.Printf("%2d. %s\n", i+1, formatSocialPost(p))
	}
	return nil
}

// formatSocialPost renders one post as a single summary line.
func formatSocialPost(p api.SocialPost) string {
	author := p.AuthorName
	if author == "" {
		author = p.AuthorHandle
	}
	engagement := p.ReactionsCount + p.LikesCount + p.SharesCount + p.RepostsCount

	message := strings.ReplaceAll(p.Message, "\n", " ")
	if r := []rune(message); len(r) > 80 {
		message = string(r[:77]) + "..."
	}

	line := fmt.Sprintf("[%s] %s: %s (%d comments, %d engagement)",
		p.Platform, author, message, p.CommentsCount, engagement)
	if p.Sentiment != "" {
		line += " [" + p.Sentiment + "]"
	}
	return line
}

func init() {
	socialPostsCmd.Flags().IntVar(&socialPage, "page", 1, "Page to display")
	socialPostsCmd.Flags().IntVar(&socialPerPage, "per-page", 0, "Posts per page (default from config)")
	socialPostsCmd.Flags().StringVar(&socialPlatform, "platform", "", "Filter by platform (facebook, x)")
	socialPostsCmd.Flags().StringVar(&socialAuthor, "author", "", "Filter by author name")
	socialPostsCmd.Flags().StringVar(&socialDateFrom, "from", "", "Only posts on or after this date (YYYY-MM-DD)")
	socialPostsCmd.Flags().StringVar(&socialDateTo, "to", "", "Only posts on or before this date (YYYY-MM-DD)")
	socialPostsCmd.Flags().StringVar(&socialSearch, "search", "", "Full-text search in post messages")
	socialPostsCmd.Flags().StringVar(&socialSentiment, "sentiment", "", "Filter by sentiment label")

	socialTopCmd.Flags().IntVar(&socialTopLimit, "limit", 10, "Number of posts to show")
	socialTopCmd.Flags().StringVar(&socialPlatform, "platform", "", "Filter by platform (facebook, x)")

	socialCmd.AddCommand(socialPostsCmd)
	socialCmd.AddCommand(socialStatsCmd)
	socialCmd.AddCommand(socialTopCmd)
}
