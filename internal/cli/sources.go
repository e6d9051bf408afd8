// sources.go implements the "studio sources" command over the content source
// registry.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List registered content sources",
	RunE:  runSources,
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	sources, err := client.ListSources(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	if len(sources) == 0 {
		fmt.Println("No sources registered.")
		return nil
	}

	for _, s := range sources {
		status := "active"
		if !s.Active {
			status = "inactive"
		}
		line := fmt.Sprintf("  %4d  %-25s  %-8s", s.ID, s.Name, status)
		if s.Category != "" {
			line += "  " + s.Category
		}
		if s.URL != "" {
			line += "  " + s.URL
		}
		fmt.Println(line)
	}
	return nil
}
