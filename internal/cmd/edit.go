package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/task"
	"github.com/Iron-Ham/eisen/internal/util"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a task",
	Long: `Change fields of a task. Only the flags given are changed.
The id may be a unique prefix.`,
	Example: `  eisen edit 3f2a --priority high --due +2d
  eisen edit 3f2a --no-due`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().StringP("description", "d", "", "new description")
	editCmd.Flags().StringP("priority", "p", "", "new priority: high, medium or low")
	editCmd.Flags().String("category", "", "new category")
	editCmd.Flags().String("due", "", "new due date")
	editCmd.Flags().Bool("no-due", false, "remove the due date")
}

// patchFromFlags builds a patch from the flags that were set.
func patchFromFlags(cmd *cobra.Command, ws *workspace.Workspace) (task.Patch, error) {
	var patch task.Patch
	flags := cmd.Flags()

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		title = strings.TrimSpace(title)
		if title == "" {
			return patch, errors.NewValidationError("cannot be empty").WithField("title")
		}
		patch.Title = &title
	}
	if flags.Changed("description") {
		description, _ := flags.GetString("description")
		patch.Description = &description
	}
	if flags.Changed("priority") {
		value, _ := flags.GetString("priority")
		p, err := task.ParsePriority(value)
		if err != nil {
			return patch, err
		}
		patch.Priority = &p
	}
	if flags.Changed("category") {
		value, _ := flags.GetString("category")
		label, err := parseCategory(value)
		if err != nil {
			return patch, err
		}
		patch.Category = &label
	}
	if flags.Changed("due") {
		value, _ := flags.GetString("due")
		due, err := task.ParseDue(value, ws.Now())
		if err != nil {
			return patch, err
		}
		if due == nil {
			patch.ClearDueDate = true
		} else {
			patch.DueDate = due
		}
	}
	if noDue, _ := flags.GetBool("no-due"); noDue {
		patch.ClearDueDate = true
	}
	return patch, nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		t, err := ws.Tasks.Resolve(args[0])
		if err != nil {
			return err
		}

		patch, err := patchFromFlags(cmd, ws)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			return errors.NewValidationError("nothing to change; pass at least one flag")
		}

		ws.Tasks.UpdateTask(t.ID, patch)
		if patch.Category != nil && !ws.Categories.Contains(*patch.Category) {
			ws.Categories.Add(*patch.Category)
		}

		updated, _ := ws.Tasks.GetByID(t.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", util.ShortID(updated.ID), updated.Title)
		return nil
	})
}
