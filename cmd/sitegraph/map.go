package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitegraph/internal/config"
	"github.com/nao1215/sitegraph/internal/database"
	"github.com/nao1215/sitegraph/internal/model"
	"github.com/nao1215/sitegraph/internal/report"
)

// NewMapCmd creates the map command.
func NewMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Render a stored link graph as a Graphviz DOT file",
		Long: `Map renders the link graph of a stored crawl in Graphviz DOT format.

By default the most recent crawl is rendered. Use --crawl-id with an ID
from "sitegraph list" to render an older crawl.

Render the output with Graphviz:
  sitegraph map -o sitemap.dot
  dot -Tsvg sitemap.dot -o sitemap.svg

Examples:
  # Render the latest crawl
  sitegraph map

  # Render a specific crawl to a custom path
  sitegraph map --crawl-id 3 -o older.dot`,
		RunE: runMapCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultDOTFile,
		"Output file path for the DOT file")
	cmd.Flags().Int64("crawl-id", 0,
		"Render the crawl with this ID instead of the latest one")

	return cmd
}

// runMapCmd executes the map command.
func runMapCmd(cmd *cobra.Command, _ []string) error {
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

	if err := writeDOTFile(outputPath, graph); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d nodes and %d edges to %s\n",
		graph.NodeCount(), graph.EdgeCount(), outputPath)
	return nil
}

// loadStoredGraph loads a crawl's graph from the database, either the
// latest crawl or a specific one.
func loadStoredGraph(ctx context.Context, crawlID int64) (*model.Graph, error) {
	db, err := database.Open(config.XDGDataDir(), database.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database (run \"sitegraph crawl\" first): %w", err)
	}
	defer func() {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
	}()

	var graph *model.Graph
	if crawlID > 0 {
		graph, err = db.LoadGraph(ctx, crawlID)
	} else {
		graph, err = db.LoadLatestGraph(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stored crawl: %w", err)
	}
	if graph == nil {
		if crawlID > 0 {
			return nil, fmt.Errorf("no stored crawl found with ID %d", crawlID)
		}
		return nil, fmt.Errorf("no stored crawl found (run \"sitegraph crawl\" first)")
	}
	return graph, nil
}

// writeDOTFile renders the graph in DOT format to the given path.
func writeDOTFile(path string, graph *model.Graph) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create DOT file: %w", err)
	}

	if _, err := report.NewDOTWriter(f).Write(graph); err != nil {
		_ = f.Close() //nolint:errcheck // Write error takes precedence
		return fmt.Errorf("failed to write DOT file: %w", err)
	}
	return f.Close()
}
