package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitegraph/internal/config"
	"github.com/nao1215/sitegraph/internal/report"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored link graph as a CSV edge list",
		Long: `Export writes the link graph of a stored crawl as a CSV file with
Source and Target columns, one row per directed edge.

By default the most recent crawl is exported. Use --crawl-id with an ID
from "sitegraph list" to export an older crawl.

Examples:
  # Export the latest crawl
  sitegraph export

  # Export a specific crawl to a custom path
  sitegraph export --crawl-id 3 -o older.csv`,
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultExportFile,
		"Output file path for the CSV file")
	cmd.Flags().Int64("crawl-id", 0,
		"Export the crawl with this ID instead of the latest one")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	crawlID, err := cmd.Flags().GetInt64("crawl-id")
	if err != nil {
		return err
	}

	graph, err := loadStoredGraph(cmd.Context(), crawlID)
	if err != nil {
		return err
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := report.NewCSVExporter().Export(graph, f); err != nil {
		_ = f.Close() //nolint:errcheck // Export error takes precedence
		return fmt.Errorf("failed to export CSV: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d edges to %s\n",
		graph.EdgeCount(), outputPath)
	return nil
}
