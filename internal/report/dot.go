package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sitegraph/internal/model"
)

// edgePalette colors graph edges. Colors cycle deterministically so the
// same graph always renders the same way.
var edgePalette = []string{"#1f78b4", "#33a02c", "#e31a1c", "#ff7f00"}

// DOTWriter renders the link graph in Graphviz DOT format. Nodes are
// labeled by their URL path component; the full URL stays available as a
// tooltip.
type DOTWriter struct {
	output io.Writer
}

// NewDOTWriter creates a DOTWriter that outputs to the given writer.
func NewDOTWriter(output io.Writer) *DOTWriter {
	return &DOTWriter{output: output}
}

// Write renders the graph and returns the number of bytes written.
func (w *DOTWriter) Write(graph *model.Graph) (int, error) {
	var buf bytes.Buffer

	buf.WriteString("digraph sitemap {\n")
	buf.WriteString("    rankdir=LR;\n")
	buf.WriteString("    node [shape=box, fontsize=10];\n\n")

	for _, node := range graph.Nodes() {
		fmt.Fprintf(&buf, "    %s [label=%s, tooltip=%s];\n",
			quote(string(node)), quote(node.PathComponent()), quote(string(node)))
	}

	buf.WriteString("\n")

	for i, edge := range graph.Edges() {
		fmt.Fprintf(&buf, "    %s -> %s [color=%s];\n",
			quote(string(edge.Source)), quote(string(edge.Target)),
			quote(edgePalette[i%len(edgePalette)]))
	}

	buf.WriteString("}\n")

	return w.output.Write(buf.Bytes())
}

// quote wraps s in double quotes, escaping embedded quotes and backslashes
// per the DOT grammar.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
