package cmd

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/spf13/cobra"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Show tasks in the four quadrants",
	Long: `Show tasks in the four quadrants of the Eisenhower matrix with the
completion percentage of the shown tasks.`,
	Args: cobra.NoArgs,
	RunE: runMatrix,
}

func init() {
	rootCmd.AddCommand(matrixCmd)
	matrixCmd.Flags().String("category", "", "only tasks in this category")
	matrixCmd.Flags().Bool("hide-done", false, "leave completed tasks out of the quadrants")
}

// applyCategoryFlag selects the --category value on the workspace, if set.
func applyCategoryFlag(cmd *cobra.Command, ws *workspace.Workspace) error {
	if !cmd.Flags().Changed("category") {
		return nil
	}
	value, _ := cmd.Flags().GetString("category")
	label, err := parseCategory(value)
	if err != nil {
		return err
	}
	ws.Selection.Set(label)
	return nil
}

func runMatrix(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		if err := applyCategoryFlag(cmd, ws); err != nil {
			return err
		}
		r := newRenderer(cmd, ws)
		if hide, _ := cmd.Flags().GetBool("hide-done"); hide {
			r.ShowCompleted = false
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.Matrix(ws.View.Quadrants(), ws.View.Selected(), ws.View.Completion()))
		return nil
	}, workspace.ReadOnly())
}
