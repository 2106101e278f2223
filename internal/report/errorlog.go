package report

import (
	"bytes"
	"fmt"
	"os"

	"github.com/nao1215/sitegraph/internal/model"
)

// NotFoundLog writes the 404 diagnostic log: one block per broken link
// holding the URL and the arrow-joined traversal path that reached it.
// Each run overwrites any prior contents of the file.
type NotFoundLog struct {
	// path is the log file location, injected at construction so the
	// filename is configuration rather than a package-wide constant.
	path string
}

// NewNotFoundLog creates a NotFoundLog writing to the given file path.
func NewNotFoundLog(path string) *NotFoundLog {
	return &NotFoundLog{path: path}
}

// Path returns the log file location.
func (l *NotFoundLog) Path() string {
	return l.path
}

// Write truncates the log file and writes all records. Writing an empty
// record list is a no-op that leaves the filesystem untouched.
func (l *NotFoundLog) Write(records []model.NotFoundRecord) error {
	if len(records) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, rec := range records {
		fmt.Fprintf(&buf, "404: %s\nPath: %s\n\n", rec.URL, rec.PathString())
	}

	if err := os.WriteFile(l.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write 404 log %s: %w", l.path, err)
	}
	return nil
}
