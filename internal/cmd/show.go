package cmd

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show every field of a task",
	Long:  `Show every field of a task. The id may be a unique prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		t, err := ws.Tasks.Resolve(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), newRenderer(cmd, ws).Detail(t))
		return nil
	}, workspace.ReadOnly())
}
