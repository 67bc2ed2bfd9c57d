package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/matrix"
	"github.com/Iron-Ham/eisen/internal/task"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks, newest first.

--match filters titles with a case-insensitive glob pattern, for example
"*report*" or "call ?om".`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("category", "", "only tasks in this category")
	listCmd.Flags().String("match", "", "only tasks whose title matches this glob")
	listCmd.Flags().StringP("quadrant", "q", "", "only tasks in this quadrant (q1-q4, title or key)")
	listCmd.Flags().String("status", "all", "open, done or all")
}

// listFilter selects tasks for the list command.
type listFilter struct {
	sel      matrix.Selected
	match    glob.Glob
	quadrant *matrix.Quadrant
	status   string
}

func parseListFilter(cmd *cobra.Command) (listFilter, error) {
	var f listFilter

	if cmd.Flags().Changed("category") {
		c, _ := cmd.Flags().GetString("category")
		label, err := parseCategory(c)
		if err != nil {
			return f, err
		}
		f.sel = matrix.Only(label)
	}

	if pattern, _ := cmd.Flags().GetString("match"); pattern != "" {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return f, errors.NewValidationError("invalid glob pattern").WithField("match").WithValue(pattern)
		}
		f.match = g
	}

	if q, _ := cmd.Flags().GetString("quadrant"); q != "" {
		parsed, ok := matrix.ParseQuadrant(q)
		if !ok {
			return f, errors.NewValidationError("unknown quadrant").WithField("quadrant").WithValue(q)
		}
		f.quadrant = &parsed
	}

	f.status, _ = cmd.Flags().GetString("status")
	switch f.status {
	case "open", "done", "all":
	default:
		return f, errors.NewValidationError("must be open, done or all").WithField("status").WithValue(f.status)
	}
	return f, nil
}

func (f listFilter) apply(tasks []task.Task, ws *workspace.Workspace) []task.Task {
	now := ws.Now()
	opts := ws.MatrixOptions()

	var out []task.Task
	for _, t := range matrix.Filter(tasks, f.sel) {
		if (f.status == "open" && t.IsComplete) || (f.status == "done" && !t.IsComplete) {
			continue
		}
		if f.match != nil && !f.match.Match(strings.ToLower(t.Title)) {
			continue
		}
		if f.quadrant != nil && matrix.QuadrantOf(t, now, opts) != *f.quadrant {
			continue
		}
		out = append(out, t)
	}
	return out
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := parseListFilter(cmd)
	if err != nil {
		return err
	}

	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		tasks := filter.apply(ws.Tasks.Tasks(), ws)
		fmt.Fprintln(cmd.OutOrStdout(), newRenderer(cmd, ws).List(tasks))
		return nil
	}, workspace.ReadOnly())
}
