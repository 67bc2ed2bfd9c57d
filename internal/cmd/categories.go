package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/matrix"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "List or change categories",
	Long: `List or change the category list.

Labels are normalized: "work" and "WORK" both become "Work", and other
input is capitalized word by word.`,
	Args: cobra.NoArgs,
	RunE: runCategoriesList,
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with their task counts",
	Args:  cobra.NoArgs,
	RunE:  runCategoriesList,
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <label>...",
	Short: "Add a category",
	Long:  `Add a category. All arguments are joined into one label.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCategoriesAdd,
}

var categoriesRmCmd = &cobra.Command{
	Use:     "rm <label>...",
	Aliases: []string{"remove"},
	Short:   "Remove a category",
	Long: `Remove a category from the list. All arguments are joined into one
label. Tasks keep their category; they are still shown and can be filtered.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCategoriesRm,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesRmCmd)
}

func runCategoriesList(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		counts := make(map[string]int)
		for _, t := range ws.Tasks.Tasks() {
			counts[t.Category]++
		}
		fmt.Fprintln(cmd.OutOrStdout(), newRenderer(cmd, ws).Categories(ws.Categories.List(), counts, matrix.All()))
		return nil
	}, workspace.ReadOnly())
}

func runCategoriesAdd(cmd *cobra.Command, args []string) error {
	label, err := parseCategory(strings.Join(args, " "))
	if err != nil {
		return err
	}
	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		if ws.Categories.Contains(label) {
			return errors.NewValidationError("category already exists").WithField("category").WithValue(label)
		}
		ws.Categories.Add(label)
		fmt.Fprintf(cmd.OutOrStdout(), "Added category %s\n", label)
		return nil
	})
}

func runCategoriesRm(cmd *cobra.Command, args []string) error {
	label, err := parseCategory(strings.Join(args, " "))
	if err != nil {
		return err
	}
	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		if !ws.Categories.Contains(label) {
			return errors.NewNotFoundError("category", label)
		}
		ws.Categories.Remove(label)
		fmt.Fprintf(cmd.OutOrStdout(), "Removed category %s\n", label)

		inUse := len(matrix.Filter(ws.Tasks.Tasks(), matrix.Only(label)))
		if inUse > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d task(s) still use it\n", inUse)
		}
		return nil
	})
}
