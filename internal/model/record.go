package model

import "strings"

// NotFoundRecord ties a URL that returned HTTP 404 to the traversal path
// that reached it. The path runs from the seed to the broken URL inclusive
// and is carried purely for diagnostics.
type NotFoundRecord struct {
	// URL is the page that returned 404.
	URL URL `json:"url"`

	// Path is the ordered sequence of URLs from the seed to URL, inclusive.
	Path []URL `json:"path"`
}

// PathString renders the traversal path as an arrow-joined string,
// e.g. "https://ex.com -> https://ex.com/a".
func (r NotFoundRecord) PathString() string {
	steps := make([]string, 0, len(r.Path))
	for _, step := range r.Path {
		steps = append(steps, string(step))
	}
	return strings.Join(steps, " -> ")
}
