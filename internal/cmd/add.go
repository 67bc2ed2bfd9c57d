package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/matrix"
	"github.com/Iron-Ham/eisen/internal/task"
	"github.com/Iron-Ham/eisen/internal/util"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <title>...",
	Short: "Add a task",
	Long: `Add a task. All arguments are joined into the title.

Without --category the task goes into the first category of the list.
A category that does not exist yet is added to the list.

Due dates accept 2006-01-02, "2006-01-02 15:04", RFC 3339, today,
tomorrow and offsets such as +3h or +2d.`,
	Example: `  eisen add File the quarterly report -p high --due tomorrow
  eisen add "Buy stamps" --category errands`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("description", "d", "", "longer description")
	addCmd.Flags().StringP("priority", "p", string(task.PriorityMedium), "priority: high, medium or low")
	addCmd.Flags().String("category", "", "category (default: first category)")
	addCmd.Flags().String("due", "", "due date")
}

func runAdd(cmd *cobra.Command, args []string) error {
	description, _ := cmd.Flags().GetString("description")
	priorityFlag, _ := cmd.Flags().GetString("priority")
	categoryFlag, _ := cmd.Flags().GetString("category")
	dueFlag, _ := cmd.Flags().GetString("due")

	priority, err := task.ParsePriority(priorityFlag)
	if err != nil {
		return err
	}

	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		draft := task.Draft{
			Title:       strings.Join(args, " "),
			Description: description,
			Priority:    priority,
		}

		due, err := task.ParseDue(dueFlag, ws.Now())
		if err != nil {
			return err
		}
		draft.DueDate = due

		if cmd.Flags().Changed("category") {
			if draft.Category, err = parseCategory(categoryFlag); err != nil {
				return err
			}
		} else if cats := ws.Categories.List(); len(cats) > 0 {
			draft.Category = cats[0]
		} else {
			return errors.NewValidationError("no categories exist; pass --category").WithField("category")
		}

		if err := draft.Validate(); err != nil {
			return err
		}

		added := ws.Tasks.Add(draft)
		if !ws.Categories.Contains(added.Category) {
			ws.Categories.Add(added.Category)
			fmt.Fprintf(cmd.OutOrStdout(), "New category: %s\n", added.Category)
		}

		q := matrix.QuadrantOf(added, ws.Now(), ws.MatrixOptions())
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", util.ShortID(added.ID), added.Title)
		fmt.Fprintf(cmd.OutOrStdout(), "Quadrant: %s (%s)\n", q.Title(), q.Subtitle())
		return nil
	})
}
