package cmd

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/eisen/internal/task"
	"github.com/Iron-Ham/eisen/internal/util"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Toggle tasks between complete and open",
	Long: `Toggle each task between complete and open. Ids may be unique prefixes.
All ids are resolved before anything changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

// resolveAll resolves every reference or none. References naming a task
// already resolved are dropped.
func resolveAll(ws *workspace.Workspace, refs []string) ([]task.Task, error) {
	tasks := make([]task.Task, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		t, err := ws.Tasks.Resolve(ref)
		if err != nil {
			return nil, err
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func runDone(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		tasks, err := resolveAll(ws, args)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			previous, ok := ws.Tasks.ToggleComplete(t.ID)
			if !ok {
				continue
			}
			verb := "Completed"
			if previous.IsComplete {
				verb = "Reopened"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", verb, util.ShortID(t.ID), t.Title)
		}
		return nil
	})
}
