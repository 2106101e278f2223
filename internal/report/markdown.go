package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/sitegraph/internal/model"
)

// maxDiagramEdges caps the mermaid flow diagram size. Diagrams beyond this
// stop being readable and slow markdown viewers to a crawl.
const maxDiagramEdges = 100

// MarkdownWriter outputs reports in Markdown format for documentation and
// sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts and mermaid charts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeStatusChart(md, report)
	w.writeBrokenLinks(md, report)
	w.writeGraphDiagram(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Site Crawl Report")
	md.PlainText("")

	status := "✅ Complete"
	if report.EarlyStopped {
		status = "⚠️ Stopped at first 404 (partial results)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", "`" + string(report.Seed) + "`"},
			{"Crawl Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.String()},
			{"Pages Fetched", strconv.Itoa(report.PagesFetched)},
			{"Pages Failed", strconv.Itoa(report.PagesFailed)},
			{"Nodes", strconv.Itoa(report.Graph.NodeCount())},
			{"Edges", strconv.Itoa(report.Graph.EdgeCount())},
			{"Status", status},
		},
	})
	md.PlainText("")
}

// writeStatusChart writes a mermaid pie chart of the HTTP status code
// distribution.
func (w *MarkdownWriter) writeStatusChart(md *markdown.Markdown, report *model.CrawlReport) {
	if len(report.StatusCounts) == 0 {
		return
	}

	md.H2("HTTP Status Distribution")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("HTTP Status Codes"),
		piechart.WithShowData(true),
	)
	for _, code := range sortedStatusCodes(report.StatusCounts) {
		chart.LabelAndIntValue(strconv.Itoa(code), uint64(report.StatusCounts[code]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeBrokenLinks writes the broken-link section with traversal paths.
func (w *MarkdownWriter) writeBrokenLinks(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Broken Links")
	md.PlainText("")

	if !report.HasBrokenLinks() {
		md.Tip("No broken links detected.")
		md.PlainText("")
		return
	}

	md.Cautionf("%d broken link(s) detected.", len(report.NotFound))
	md.PlainText("")

	rows := make([][]string, 0, len(report.NotFound))
	for _, rec := range report.NotFound {
		rows = append(rows, []string{
			"`" + string(rec.URL) + "`",
			rec.PathString(),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Traversal Path"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeGraphDiagram renders the link graph as a mermaid flow diagram.
// Node labels use the URL path component for compactness.
func (w *MarkdownWriter) writeGraphDiagram(md *markdown.Markdown, report *model.CrawlReport) {
	edges := report.Graph.Edges()
	if len(edges) == 0 {
		return
	}

	md.H2("Link Graph")
	md.PlainText("")

	truncated := false
	if len(edges) > maxDiagramEdges {
		edges = edges[:maxDiagramEdges]
		truncated = true
	}

	// Stable node identifiers: n0, n1, ... in first-seen order.
	ids := make(map[model.URL]string)
	nodeID := func(u model.URL) string {
		id, ok := ids[u]
		if !ok {
			id = fmt.Sprintf("n%d", len(ids))
			ids[u] = id
		}
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")
	for _, edge := range edges {
		fmt.Fprintf(&sb, "    %s[\"%s\"] --> %s[\"%s\"]\n",
			nodeID(edge.Source), edge.Source.PathComponent(),
			nodeID(edge.Target), edge.Target.PathComponent())
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, strings.TrimRight(sb.String(), "\n"))
	md.PlainText("")

	if truncated {
		md.Note(fmt.Sprintf("Diagram truncated to the first %d of %d edges.",
			maxDiagramEdges, report.Graph.EdgeCount()))
		md.PlainText("")
	}
}
