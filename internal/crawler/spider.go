package crawler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nao1215/sitegraph/internal/model"
)

// Spider drives a breadth-first traversal of a site, building the link
// graph and collecting broken-link diagnostics.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
type Spider struct {
	// fetcher retrieves pages over HTTP.
	fetcher *Fetcher

	// classifier decides which links are internal and which are skipped.
	classifier *Classifier

	// logger receives per-page progress at debug level.
	logger *slog.Logger

	// stopOnFirst404 terminates the traversal at the first 404, in
	// traversal order, returning the graph built so far.
	stopOnFirst404 bool
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithStopOnFirst404 makes the crawl terminate as soon as the first broken
// link is found. Early-stopped reports carry exactly one NotFoundRecord and
// are flagged so callers skip end-of-crawl persistence and logging.
func WithStopOnFirst404(stop bool) SpiderOption {
	return func(s *Spider) {
		s.stopOnFirst404 = stop
	}
}

// WithSpiderLogger sets a custom logger.
func WithSpiderLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider using the given fetcher and classifier.
//
// Design decision: We require the collaborators rather than constructing
// them internally because timeout, header, and extension configuration is
// assembled by the caller, and tests swap in fetchers pointed at local
// servers.
func NewSpider(fetcher *Fetcher, classifier *Classifier, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:    fetcher,
		classifier: classifier,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// frontierEntry is one item in the BFS queue: a page to visit and the path
// that discovered it. The path runs from the seed to the entry inclusive
// and is carried purely for 404 diagnostics.
type frontierEntry struct {
	url  model.URL
	path []model.URL
}

// Crawl traverses the site rooted at seedURL and returns the crawl report.
//
// The frontier is a FIFO queue seeded with the normalized seed. Visited
// deduplication happens at dequeue time, not enqueue time, so a URL may sit
// in the frontier more than once before its first visit but is fetched at
// most once. Transport failures and HTTP error statuses abandon the page
// and continue; a 404 is recorded together with its traversal path.
//
// Every relative href resolves against the seed URL, not the page it was
// found on. This is a deliberate contract of the tool, kept so that link
// discovery is reproducible across crawls (see Parser).
//
// Cancelling ctx returns the partial report alongside ctx.Err().
func (s *Spider) Crawl(ctx context.Context, seedURL string) (*model.CrawlReport, error) {
	origin, err := url.Parse(seedURL)
	if err != nil || origin.Host == "" || (origin.Scheme != "http" && origin.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seedURL)
	}

	parser, err := NewParser(seedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seedURL)
	}

	seed := model.Normalize(seedURL)
	report := model.NewCrawlReport(seed)
	defer func() {
		report.Duration = time.Since(report.StartedAt)
	}()

	visited := make(map[model.URL]bool)
	queue := []frontierEntry{{url: seed, path: []model.URL{seed}}}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		entry := queue[0]
		queue = queue[1:]

		if visited[entry.url] {
			continue
		}
		visited[entry.url] = true

		s.logger.Debug("crawling page", "url", entry.url, "queued", len(queue))

		res, err := s.fetcher.Fetch(ctx, string(entry.url))
		if err != nil {
			// Transport failure: abandon the page, no retry.
			s.logger.Debug("abandoning page", "url", entry.url, "error", err)
			report.PagesFailed++
			continue
		}

		report.RecordStatus(res.StatusCode)

		if res.StatusCode == http.StatusNotFound {
			report.PagesFailed++
			record := model.NotFoundRecord{URL: entry.url, Path: entry.path}
			report.NotFound = append(report.NotFound, record)
			s.logger.Info("broken link found", "url", entry.url, "path", record.PathString())

			if s.stopOnFirst404 {
				report.EarlyStopped = true
				return report, nil
			}
			continue
		}

		if res.StatusCode < 200 || res.StatusCode > 299 {
			s.logger.Debug("abandoning page after error status",
				"url", entry.url, "status", res.StatusCode)
			report.PagesFailed++
			continue
		}

		report.PagesFetched++

		links, err := parser.ExtractLinks(bytes.NewReader(res.Body))
		if err != nil {
			s.logger.Debug("failed to parse page", "url", entry.url, "error", err)
			continue
		}

		onBlogPost := s.classifier.IsBlogPost(entry.url)

		for _, link := range links {
			normalized := model.Normalize(link)

			if s.classifier.ShouldSkip(normalized, onBlogPost) {
				continue
			}
			if !s.classifier.IsInternal(normalized, origin) || visited[normalized] {
				continue
			}

			report.Graph.AddEdge(entry.url, normalized)

			// Copy the path: entries sharing a backing array would corrupt
			// each other's diagnostics as the queue grows.
			path := make([]model.URL, len(entry.path)+1)
			copy(path, entry.path)
			path[len(entry.path)] = normalized

			queue = append(queue, frontierEntry{url: normalized, path: path})
		}
	}

	return report, nil
}
