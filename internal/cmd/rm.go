package cmd

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/eisen/internal/util"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete tasks",
	Long: `Delete tasks. Ids may be unique prefixes.
All ids are resolved before anything is deleted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		tasks, err := resolveAll(ws, args)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			ws.Tasks.DeleteTask(t.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", util.ShortID(t.ID), t.Title)
		}
		return nil
	})
}
