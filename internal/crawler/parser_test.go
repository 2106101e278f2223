package crawler

import (
	"reflect"
	"strings"
	"testing"
)

// TestParserExtractLinks tests anchor extraction and resolution.
func TestParserExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative links against base", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/a">A</a>
			<a href="b">B</a>
			<a href="https://other.com/x">External</a>
		</body></html>`

		parser, err := NewParser("https://ex.com/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		links, err := parser.ExtractLinks(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract links: %v", err)
		}

		want := []string{"https://ex.com/a", "https://ex.com/b", "https://other.com/x"}
		if !reflect.DeepEqual(links, want) {
			t.Errorf("ExtractLinks() = %v, want %v", links, want)
		}
	})

	t.Run("strips fragments", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/page#section"></a><a href="/page#other"></a>`

		parser, err := NewParser("https://ex.com/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		links, err := parser.ExtractLinks(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract links: %v", err)
		}

		want := []string{"https://ex.com/page"}
		if !reflect.DeepEqual(links, want) {
			t.Errorf("ExtractLinks() = %v, want %v", links, want)
		}
	})

	t.Run("collapses duplicates into a set", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/a"></a><a href="/a"></a><a href="https://ex.com/a"></a>`

		parser, err := NewParser("https://ex.com/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		links, err := parser.ExtractLinks(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract links: %v", err)
		}

		if len(links) != 1 {
			t.Errorf("expected 1 deduplicated link, got %d: %v", len(links), links)
		}
	})

	t.Run("drops non-navigational and malformed hrefs silently", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="javascript:void(0)">JS</a>
			<a href="mailto:a@ex.com">Mail</a>
			<a href="tel:+123">Tel</a>
			<a href="#">Top</a>
			<a href="%zz">Malformed</a>
			<a>No href</a>
			<a href="/ok">OK</a>
		</body></html>`

		parser, err := NewParser("https://ex.com/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		links, err := parser.ExtractLinks(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract links: %v", err)
		}

		want := []string{"https://ex.com/ok"}
		if !reflect.DeepEqual(links, want) {
			t.Errorf("ExtractLinks() = %v, want %v", links, want)
		}
	})

	t.Run("handles nested and malformed HTML", func(t *testing.T) {
		t.Parallel()

		html := `<div><p><a href="/deep">deep</a><table><tr><td><a href="/cell">`

		parser, err := NewParser("https://ex.com/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		links, err := parser.ExtractLinks(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to extract links: %v", err)
		}

		want := []string{"https://ex.com/cell", "https://ex.com/deep"}
		if !reflect.DeepEqual(links, want) {
			t.Errorf("ExtractLinks() = %v, want %v", links, want)
		}
	})
}

// TestNewParserInvalidBase verifies base URL validation.
func TestNewParserInvalidBase(t *testing.T) {
	t.Parallel()

	if _, err := NewParser("%zz"); err == nil {
		t.Error("expected error for malformed base URL")
	}
}
