// Package database provides SQLite-based persistence for crawl snapshots.
//
// Each completed crawl is stored as a whole snapshot: one row in the crawls
// table plus the full node set, edge set, and broken-link records. Graphs
// are loaded whole for downstream rendering and export; there is no partial
// update path because the graph is immutable once a crawl finishes.
//
// Design decision: We use modernc.org/sqlite (pure Go) rather than a cgo
// driver so the tool builds and cross-compiles without a C toolchain.
package database
