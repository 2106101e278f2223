// Package report renders crawl results for humans and tools.
//
// # Components
//
//   - Writer: common interface for report output (text, JSON, Markdown)
//   - SimpleWriter: human-readable terminal summary
//   - JSONWriter: machine-readable report for tool integration
//   - MarkdownWriter: shareable document with a mermaid status chart and
//     the link graph rendered as a mermaid flow diagram
//   - NotFoundLog: the 404 diagnostic text log, one record block per
//     broken link with its arrow-joined traversal path
//   - CSVExporter: the graph's edge list as Source/Target rows
//   - DOTWriter: Graphviz rendering of the link graph
//
// All writers consume immutable crawl results; none of them mutate the
// graph or the report.
package report
