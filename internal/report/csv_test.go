package report

import (
	"bytes"
	"testing"

	"github.com/nao1215/sitegraph/internal/model"
)

func TestCSVExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes sorted edge rows", func(t *testing.T) {
		t.Parallel()

		graph := model.NewGraph()
		graph.AddEdge("https://example.com/b", "https://example.com/c")
		graph.AddEdge("https://example.com", "https://example.com/a")
		graph.AddEdge("https://example.com", "https://example.com/b")

		var buf bytes.Buffer
		if err := NewCSVExporter().Export(graph, &buf); err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		want := "Source,Target\n" +
			"https://example.com,https://example.com/a\n" +
			"https://example.com,https://example.com/b\n" +
			"https://example.com/b,https://example.com/c\n"
		if buf.String() != want {
			t.Errorf("Export() = %q, want %q", buf.String(), want)
		}
	})

	t.Run("empty graph writes header only", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewCSVExporter().Export(model.NewGraph(), &buf); err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if buf.String() != "Source,Target\n" {
			t.Errorf("Export() = %q, want header row only", buf.String())
		}
	})
}
