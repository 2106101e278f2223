// Package main provides the entry point for the sitegraph CLI.
//
// sitegraph crawls a website, builds its internal link graph, and reports
// broken links (HTTP 404) together with the traversal path that reached them.
//
// Usage:
//
//	sitegraph crawl <url>
//	sitegraph crawl --stop-on-404 <url>
//
// See --help for all available options.
package main

// main is the entry point for sitegraph.
func main() {
	Execute()
}
