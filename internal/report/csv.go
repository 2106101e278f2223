package report

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/nao1215/sitegraph/internal/model"
)

// edgeRow is the CSV shape of one directed edge.
type edgeRow struct {
	Source string `csv:"Source"`
	Target string `csv:"Target"`
}

// CSVExporter writes the graph's edge list as a tabular file with Source
// and Target columns, one row per edge.
type CSVExporter struct{}

// NewCSVExporter creates a CSVExporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes the edge list of the graph to w. Edges are emitted in the
// graph's sorted order so exports are reproducible.
func (e *CSVExporter) Export(graph *model.Graph, w io.Writer) error {
	edges := graph.Edges()
	rows := make([]edgeRow, 0, len(edges))
	for _, edge := range edges {
		rows = append(rows, edgeRow{
			Source: string(edge.Source),
			Target: string(edge.Target),
		})
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to export edge list: %w", err)
	}
	return nil
}
