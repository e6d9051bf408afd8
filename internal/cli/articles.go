// articles.go implements the "studio articles" command over the crawled
// article feed.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beifong-dev/studio/internal/api"
)

var (
	articlesPage     int
	articlesPerPage  int
	articlesSource   string
	articlesCategory string
	articlesSearch   string
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List crawled news articles",
	RunE:  runArticles,
}

func runArticles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	perPage := articlesPerPage
	if perPage == 0 {
		perPage = cfg.Listing.PerPage
	}

	list, err := client.ListArticles(cmd.Context(), api.ArticleParams{
		Page:     articlesPage,
		PerPage:  perPage,
		Source:   articlesSource,
		Category: articlesCategory,
		Search:   articlesSearch,
	})
	if err != nil {
		return fmt.Errorf("listing articles: %w", err)
	}

	if len(list.Items) == 0 {
		fmt.Println("No articles match the current filters.")
		return nil
	}

	for _, a := range list.Items {
		line := fmt.Sprintf("  %5d  %s", a.ID, a.Title)
		if a.Source != "" {
			line += "  [" + a.Source + "]"
		}
		if len(a.Categories) > 0 {
			line += "  (" + strings.Join(a.Categories, ", ") + ")"
		}
		fmt.Println(line)
	}

	fmt.Printf("\nPage %d/%d (%d articles)\n", list.Page, list.TotalPages, list.Total)
	return nil
}

func init() {
	articlesCmd.Flags().IntVar(&articlesPage, "page", 1, "Page to display")
	articlesCmd.Flags().IntVar(&articlesPerPage, "per-page", 0, "Articles per page (default from config)")
	articlesCmd.Flags().StringVar(&articlesSource, "source", "", "Filter by source name")
	articlesCmd.Flags().StringVar(&articlesCategory, "category", "", "Filter by category")
	articlesCmd.Flags().StringVar(&articlesSearch, "search", "", "Full-text search in titles and content")
}
