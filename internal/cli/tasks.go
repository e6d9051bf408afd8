// tasks.go implements the "studio tasks" command over the backend task
// scheduler.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tasksAll bool

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List scheduled backend tasks",
	RunE:  runTasks,
}

func runTasks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	tasks, err := client.ListTasks(cmd.Context(), tasksAll)
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks defined.")
		return nil
	}

	for _, t := range tasks {
		status := "enabled"
		if !t.Enabled {
			status = "disabled"
		}
		line := fmt.Sprintf("  %4d  %-30s  %-8s", t.ID, t.Name, status)
		if t.Type != "" {
			line += "  " + t.Type
		}
		if t.Schedule != "" {
			line += "  " + t.Schedule
		}
		fmt.Println(line)
	}
	return nil
}

func init() {
	tasksCmd.Flags().BoolVar(&tasksAll, "all", false, "Include disabled tasks")
}
