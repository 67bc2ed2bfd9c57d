package cmd

import (
	"context"
	"os"

	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/render"
	"github.com/Iron-Ham/eisen/internal/tui"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive matrix",
	Long: `Open the interactive matrix. Move between quadrants with tab, toggle
tasks with space, add tasks with a and press ? for all keys.

Quick add understands markers: "Call bank #finance !high ^tomorrow".
Changes are saved automatically.

With --read-only nothing is saved, the writer lock is not taken and changes
made by other eisen processes are shown as they happen.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().Bool("read-only", false, "follow changes without saving")
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !render.IsTerminal(os.Stdout) {
		return errors.NewValidationError("the tui needs a terminal; try 'eisen matrix'")
	}

	var opts []workspace.Option
	if readOnly, _ := cmd.Flags().GetBool("read-only"); readOnly {
		opts = append(opts, workspace.ReadOnly())
	}

	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		return tui.New(ws).Run(ctx)
	}, opts...)
}
