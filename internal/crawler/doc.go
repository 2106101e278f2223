// Package crawler implements the site traversal engine of sitegraph.
//
// # Architecture
//
// The package is designed around the Spider type, which drives a
// breadth-first search over the pages of a single site. The Spider owns the
// frontier queue, the visited set, and the output graph for the duration of
// one crawl, and delegates the rest:
//
//   - Fetcher: HTTP collaborator that surfaces status codes distinctly from
//     transport failures
//   - Parser: HTML link extractor built on golang.org/x/net/html
//   - Classifier: predicates deciding which links are internal and which
//     should be skipped (binary assets, blog pagination loops)
//
// # Traversal contract
//
// Each crawl is purely sequential: one fetch in flight at a time, no URL
// fetched more than once. The frontier carries the full traversal path per
// entry so broken links can be reported with the exact route that reached
// them. Stop-on-first-404 terminates deterministically in traversal order.
// Concurrency across multiple seeds lives in the pipeline package, never
// inside one traversal.
//
// # Failure handling
//
// Transport failures and HTTP error statuses abandon the current page and
// continue; nothing is retried. Malformed anchors are silently excluded
// during extraction.
package crawler
