package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/matrix"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion statistics",
	Long: `Show task counts, completion and overdue tasks, broken down by quadrant
and by category.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().String("category", "", "only tasks in this category")
	statsCmd.Flags().StringP("output", "o", "text", "output format: text, json or yaml")
}

func runStats(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "text", "json", "yaml":
	default:
		return errors.NewValidationError("must be text, json or yaml").WithField("output").WithValue(output)
	}

	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		if err := applyCategoryFlag(cmd, ws); err != nil {
			return err
		}
		summary := matrix.Summarize(ws.Tasks.Tasks(), ws.View.Selected(), ws.Now(), ws.MatrixOptions())

		out := cmd.OutOrStdout()
		switch output {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(summary); err != nil {
				return err
			}
			return enc.Close()
		default:
			fmt.Fprintln(out, newRenderer(cmd, ws).Stats(summary))
			return nil
		}
	}, workspace.ReadOnly())
}
