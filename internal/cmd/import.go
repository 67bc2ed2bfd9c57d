package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/Iron-Ham/eisen/internal/category"
	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/export"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all tasks with the contents of a file",
	Long: `Replace all tasks with the tasks in a json or yaml file written by
'eisen export'. A bare array of tasks, such as a copied data file, is
accepted too. Categories of imported tasks are normalized.

Categories in the file replace the category list; categories used by
imported tasks are added to it.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringP("format", "f", "", "json or yaml (default: from the file extension)")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := exportFormat(formatFlag, path)
	if err != nil {
		return err
	}
	if !format.Readable() {
		return errors.NewValidationError("format cannot be imported").WithField("format").WithValue(string(format))
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	doc, err := export.Read(f, format)
	if err != nil {
		return err
	}

	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		ws.Tasks.ReplaceAll(doc.Tasks)

		cats := slices.Clone(ws.Categories.List())
		if len(doc.Categories) > 0 {
			cats = cats[:0]
			for _, c := range doc.Categories {
				if label := category.Normalize(c); label != "" {
					cats = append(cats, label)
				}
			}
		}
		for _, t := range doc.Tasks {
			if !slices.Contains(cats, t.Category) {
				cats = append(cats, t.Category)
			}
		}
		ws.Categories.Replace(cats)

		ws.Logger.Info("imported", "path", path, "tasks", len(doc.Tasks))
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks from %s\n", len(doc.Tasks), path)
		return nil
	})
}
