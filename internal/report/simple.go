package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rodaine/table"

	"github.com/nao1215/sitegraph/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose includes the full edge list in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose includes the full edge list in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report as plain text.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Crawl of %s\n", report.Seed)
	fmt.Fprintf(&buf, "  started:  %s\n", report.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&buf, "  duration: %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(&buf, "  pages:    %d fetched, %d failed\n", report.PagesFetched, report.PagesFailed)
	fmt.Fprintf(&buf, "  graph:    %d nodes, %d edges\n",
		report.Graph.NodeCount(), report.Graph.EdgeCount())

	if report.EarlyStopped {
		fmt.Fprintf(&buf, "  status:   stopped at first 404\n")
	}

	if len(report.StatusCounts) > 0 {
		buf.WriteString("\nHTTP status codes:\n")
		for _, code := range sortedStatusCodes(report.StatusCounts) {
			fmt.Fprintf(&buf, "  %d: %d\n", code, report.StatusCounts[code])
		}
	}

	if report.HasBrokenLinks() {
		fmt.Fprintf(&buf, "\nBroken links (%d):\n", len(report.NotFound))
		tbl := table.New("URL", "Path").WithWriter(&buf)
		for _, rec := range report.NotFound {
			tbl.AddRow(string(rec.URL), rec.PathString())
		}
		tbl.Print()
	} else {
		buf.WriteString("\nNo broken links found.\n")
	}

	if w.verbose && report.Graph.EdgeCount() > 0 {
		buf.WriteString("\nEdges:\n")
		for _, edge := range report.Graph.Edges() {
			fmt.Fprintf(&buf, "  %s -> %s\n", edge.Source, edge.Target)
		}
	}

	return w.output.Write(buf.Bytes())
}

// sortedStatusCodes returns the observed status codes in ascending order.
func sortedStatusCodes(counts map[int]int) []int {
	codes := make([]int, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}
