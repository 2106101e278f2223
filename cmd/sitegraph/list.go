package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/nao1215/sitegraph/internal/config"
	"github.com/nao1215/sitegraph/internal/database"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored crawls",
		Long: `List shows all crawls stored in the local database, newest first.

Use the ID column with "sitegraph map --crawl-id" or
"sitegraph export --crawl-id" to work with a specific crawl.`,
		RunE: runListCmd,
	}
}

// runListCmd executes the list command.
func runListCmd(cmd *cobra.Command, _ []string) error {
	db, err := database.Open(config.XDGDataDir(), database.Options{})
	if err != nil {
		return fmt.Errorf("failed to open database (run \"sitegraph crawl\" first): %w", err)
	}
	defer func() {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
	}()

	crawls, err := db.ListCrawls(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list crawls: %w", err)
	}

	if len(crawls) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored crawls found.")
		return nil
	}

	tbl := table.New("ID", "Seed", "Started", "Fetched", "Failed", "Early Stop").
		WithWriter(cmd.OutOrStdout())
	for _, c := range crawls {
		tbl.AddRow(
			strconv.FormatInt(c.ID, 10),
			string(c.Seed),
			c.StartedAt.Format(time.RFC3339),
			strconv.Itoa(c.PagesFetched),
			strconv.Itoa(c.PagesFailed),
			strconv.FormatBool(c.EarlyStopped),
		)
	}
	tbl.Print()
	return nil
}
