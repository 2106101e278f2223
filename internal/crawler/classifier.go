package crawler

import (
	"net/url"
	"strings"

	"github.com/nao1215/sitegraph/internal/model"
)

// DefaultIgnoredExtensions lists path suffixes treated as binary assets.
// Links to these are never enqueued; fetching them would waste bandwidth
// and they contain no anchors to follow.
var DefaultIgnoredExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp",
}

// Blog path markers used by the pagination-loop heuristic.
const (
	blogPathMarker       = "/blog/"
	blogPaginationMarker = "/blog/page/"
	blogIndexSuffix      = "/blog"
)

// Classifier decides whether a resolved link is internal to the crawl
// origin and whether it should be skipped.
//
// The blog heuristic exists because blog posts cross-link each other
// heavily: treating every post-to-post link as a new path to explore
// explodes the frontier without discovering anything new. Paginated index
// pages (/blog/page/N) remain crawlable as entry points into posts.
type Classifier struct {
	// ignoredExtensions are lowercase path suffixes classified as binary
	// assets. Matched case-insensitively.
	ignoredExtensions []string
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithIgnoredExtensions appends extra asset extensions to the default set,
// typically from a site configuration file. Extensions are lowercased and
// given a leading dot when missing.
func WithIgnoredExtensions(exts []string) ClassifierOption {
	return func(c *Classifier) {
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			c.ignoredExtensions = append(c.ignoredExtensions, ext)
		}
	}
}

// NewClassifier creates a Classifier with the default asset extensions.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		ignoredExtensions: append([]string(nil), DefaultIgnoredExtensions...),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IsInternal reports whether link belongs to the crawl origin. A link is
// internal when its host component is empty (relative link) or equals the
// origin host exactly. Hosts are compared case-sensitively as produced by
// URL parsing; no subdomain or scheme matching is applied.
func (c *Classifier) IsInternal(link model.URL, origin *url.URL) bool {
	u, err := url.Parse(string(link))
	if err != nil {
		return false
	}
	return u.Host == "" || u.Host == origin.Host
}

// IsBlogPost reports whether u is an individual blog post page: under
// /blog/, not a pagination index (/blog/page/...), and not the bare /blog
// listing itself.
func (c *Classifier) IsBlogPost(u model.URL) bool {
	s := string(u)
	return strings.Contains(s, blogPathMarker) &&
		!strings.Contains(s, blogPaginationMarker) &&
		!strings.HasSuffix(s, blogIndexSuffix)
}

// ShouldSkip reports whether a resolved, normalized link should be dropped
// instead of enqueued. A link is skipped when it points at a binary asset,
// or when the current page is a blog post and the link targets another
// non-pagination blog URL (the pagination-loop guard).
func (c *Classifier) ShouldSkip(link model.URL, onBlogPost bool) bool {
	if c.hasIgnoredExtension(link) {
		return true
	}

	if onBlogPost {
		s := string(link)
		if strings.Contains(s, blogPathMarker) && !strings.Contains(s, blogPaginationMarker) {
			return true
		}
	}

	return false
}

// hasIgnoredExtension reports whether the link's path ends with one of the
// ignored asset extensions, case-insensitively. Unparseable links are
// matched against the raw string so asset URLs never slip through on a
// parse quirk.
func (c *Classifier) hasIgnoredExtension(link model.URL) bool {
	path := string(link)
	if u, err := url.Parse(path); err == nil && u.Path != "" {
		path = u.Path
	}
	path = strings.ToLower(path)

	for _, ext := range c.ignoredExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
