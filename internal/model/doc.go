// Package model defines the core data types shared across sitegraph:
// normalized URLs, the directed link graph, broken-link records, and the
// crawl report that bundles everything a single crawl produced.
//
// Types in this package are plain data with no I/O. The crawler mutates
// them during a crawl; persistence and report writers consume them
// afterwards as immutable snapshots.
package model
