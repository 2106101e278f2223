package model

import "time"

// CrawlReport bundles everything a single crawl produced: the link graph,
// broken-link records, and bookkeeping counters. It is the input to report
// writers and to persistence.
type CrawlReport struct {
	// Seed is the normalized URL the crawl started from.
	Seed URL `json:"seed"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total wall-clock time of the crawl.
	Duration time.Duration `json:"duration"`

	// PagesFetched counts pages that returned a successful status.
	PagesFetched int `json:"pages_fetched"`

	// PagesFailed counts pages abandoned due to transport failures or
	// HTTP error statuses (404s included).
	PagesFailed int `json:"pages_failed"`

	// StatusCounts is the distribution of HTTP status codes observed.
	// Transport failures are not counted here; they never produced a status.
	StatusCounts map[int]int `json:"status_counts,omitempty"`

	// Graph is the discovered link structure.
	Graph *Graph `json:"graph"`

	// NotFound lists every 404 encountered, with traversal paths.
	// When EarlyStopped is true it holds at most one record.
	NotFound []NotFoundRecord `json:"not_found,omitempty"`

	// EarlyStopped is true when the crawl terminated on the first 404.
	// Early-stopped reports bypass the 404 log and persistence.
	EarlyStopped bool `json:"early_stopped"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error holds the fatal error that ended the crawl, if any.
	// Excluded from JSON; ErrorMessage carries the text instead.
	Error error `json:"-"`

	// ErrorMessage is the human-readable form of Error.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewCrawlReport creates an empty report for the given seed with the
// start time set to now.
func NewCrawlReport(seed URL) *CrawlReport {
	return &CrawlReport{
		Seed:         seed,
		StartedAt:    time.Now(),
		StatusCounts: make(map[int]int),
		Graph:        NewGraph(),
		NotFound:     make([]NotFoundRecord, 0),
	}
}

// RecordStatus increments the counter for an observed HTTP status code.
func (r *CrawlReport) RecordStatus(code int) {
	if r.StatusCounts == nil {
		r.StatusCounts = make(map[int]int)
	}
	r.StatusCounts[code]++
}

// HasBrokenLinks reports whether any 404 was recorded.
func (r *CrawlReport) HasBrokenLinks() bool {
	return len(r.NotFound) > 0
}
