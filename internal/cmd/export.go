package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/eisen/internal/export"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write tasks to a file",
	Long: `Write tasks and categories to a file or standard output.

json and yaml exports can be read back with 'eisen import'. csv is a flat
table and pdf is a printable matrix report.

Without --format the format is taken from the output file extension, or
json when writing to standard output.`,
	Example: `  eisen export -o backup.json
  eisen export --format pdf --category work -o work.pdf`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "", "json, yaml, csv or pdf")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: standard output)")
	exportCmd.Flags().String("category", "", "limit the pdf report to one category")
}

// exportFormat picks the format from the flag or the output path.
func exportFormat(flag, path string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if path != "" {
		if f, ok := export.DetectFormat(path); ok {
			return f, nil
		}
	}
	return export.FormatJSON, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	format, err := exportFormat(formatFlag, output)
	if err != nil {
		return err
	}

	return withWorkspace(cmd, func(ctx context.Context, ws *workspace.Workspace) error {
		if err := applyCategoryFlag(cmd, ws); err != nil {
			return err
		}

		doc := export.NewDocument(ws.Tasks.Tasks(), ws.Categories.List(), ws.Now())
		opts := export.Options{
			Now:      ws.Now(),
			Matrix:   ws.MatrixOptions(),
			PageSize: ws.Config.Export.PageSize,
			Selected: ws.View.Selected(),
		}

		var w io.Writer = cmd.OutOrStdout()
		if output != "" {
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}

		if err := export.Write(w, format, doc, opts); err != nil {
			return fmt.Errorf("failed to export %s: %w", format, err)
		}
		ws.Logger.Info("exported", "format", string(format), "tasks", len(doc.Tasks), "output", output)
		if output != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks to %s\n", len(doc.Tasks), output)
		}
		return nil
	}, workspace.ReadOnly())
}
