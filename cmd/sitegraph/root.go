// Package main provides the entry point for the sitegraph CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitegraph.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitegraph",
		Short: "Website link-structure crawler and broken-link finder",
		Long: `sitegraph crawls a website breadth-first from a seed URL, builds the
directed graph of internal links, and reports every broken link (HTTP 404)
together with the traversal path that reached it.

Crawl results are stored locally so the link graph can later be rendered
as a Graphviz diagram or exported as a CSV edge list.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewMapCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
