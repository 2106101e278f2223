package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitegraph/internal/model"
)

// dbFileName is the SQLite database file created inside the data directory.
const dbFileName = "sitegraph.db"

// GraphDB stores crawl snapshots in SQLite.
type GraphDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures GraphDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a GraphDB at the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*GraphDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	gdb := &GraphDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := gdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return gdb, nil
}

// Close closes the database connection.
func (gdb *GraphDB) Close() error {
	return gdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (gdb *GraphDB) createTables() error {
	schema := `
	-- One row per completed crawl
	CREATE TABLE IF NOT EXISTS crawls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		pages_fetched INTEGER NOT NULL,
		pages_failed INTEGER NOT NULL,
		early_stopped INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_crawls_seed ON crawls(seed);
	CREATE INDEX IF NOT EXISTS idx_crawls_started ON crawls(started_at);

	-- Graph node set per crawl
	CREATE TABLE IF NOT EXISTS nodes (
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		UNIQUE(crawl_id, url)
	);

	-- Directed edge set per crawl
	CREATE TABLE IF NOT EXISTS edges (
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		UNIQUE(crawl_id, source, target)
	);

	CREATE INDEX IF NOT EXISTS idx_edges_crawl ON edges(crawl_id);

	-- Broken links with their traversal paths (path stored as JSON array)
	CREATE TABLE IF NOT EXISTS not_founds (
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		path TEXT NOT NULL
	);
	`

	_, err := gdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveCrawl persists a whole crawl snapshot in a single transaction and
// returns the new crawl ID.
func (gdb *GraphDB) SaveCrawl(ctx context.Context, report *model.CrawlReport) (int64, error) {
	tx, err := gdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	res, err := tx.ExecContext(ctx,
		`INSERT INTO crawls (seed, started_at, duration_ms, pages_fetched, pages_failed, early_stopped)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(report.Seed),
		report.StartedAt.UTC().Format(time.RFC3339),
		report.Duration.Milliseconds(),
		report.PagesFetched,
		report.PagesFailed,
		report.EarlyStopped,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl: %w", err)
	}

	crawlID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get crawl id: %w", err)
	}

	for _, node := range report.Graph.Nodes() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (crawl_id, url) VALUES (?, ?)`,
			crawlID, string(node),
		); err != nil {
			return 0, fmt.Errorf("failed to insert node %s: %w", node, err)
		}
	}

	for _, edge := range report.Graph.Edges() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO edges (crawl_id, source, target) VALUES (?, ?, ?)`,
			crawlID, string(edge.Source), string(edge.Target),
		); err != nil {
			return 0, fmt.Errorf("failed to insert edge %s -> %s: %w", edge.Source, edge.Target, err)
		}
	}

	for _, record := range report.NotFound {
		pathJSON, err := json.Marshal(record.Path)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize path for %s: %w", record.URL, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO not_founds (crawl_id, url, path) VALUES (?, ?, ?)`,
			crawlID, string(record.URL), string(pathJSON),
		); err != nil {
			return 0, fmt.Errorf("failed to insert 404 record for %s: %w", record.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl snapshot: %w", err)
	}

	return crawlID, nil
}

// LoadGraph restores the graph of the crawl with the given ID. Node and
// edge sets round-trip exactly. Returns (nil, nil) when no such crawl
// exists.
func (gdb *GraphDB) LoadGraph(ctx context.Context, crawlID int64) (*model.Graph, error) {
	var exists int
	err := gdb.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM crawls WHERE id = ?`, crawlID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up crawl %d: %w", crawlID, err)
	}
	if exists == 0 {
		return nil, nil
	}

	graph := model.NewGraph()

	rows, err := gdb.db.QueryContext(ctx,
		`SELECT url FROM nodes WHERE crawl_id = ?`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		graph.AddNode(model.URL(url))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}

	edgeRows, err := gdb.db.QueryContext(ctx,
		`SELECT source, target FROM edges WHERE crawl_id = ?`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var source, target string
		if err := edgeRows.Scan(&source, &target); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		graph.AddEdge(model.URL(source), model.URL(target))
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}

	return graph, nil
}

// LoadLatestGraph restores the graph of the most recent crawl.
// Returns (nil, nil) when no crawl has been stored yet; the caller decides
// how to surface "no graph available" to the user.
func (gdb *GraphDB) LoadLatestGraph(ctx context.Context) (*model.Graph, error) {
	var crawlID int64
	err := gdb.db.QueryRowContext(ctx,
		`SELECT id FROM crawls ORDER BY id DESC LIMIT 1`).Scan(&crawlID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest crawl: %w", err)
	}

	return gdb.LoadGraph(ctx, crawlID)
}

// CrawlMetadata summarizes one stored crawl without loading its graph.
type CrawlMetadata struct {
	// ID is the crawl's database identifier.
	ID int64

	// Seed is the URL the crawl started from.
	Seed model.URL

	// StartedAt is when the crawl began.
	StartedAt time.Time

	// PagesFetched and PagesFailed are the crawl's page counters.
	PagesFetched int
	PagesFailed  int

	// EarlyStopped reports whether the crawl stopped at the first 404.
	EarlyStopped bool
}

// ListCrawls returns metadata for all stored crawls, newest first.
func (gdb *GraphDB) ListCrawls(ctx context.Context) ([]CrawlMetadata, error) {
	rows, err := gdb.db.QueryContext(ctx,
		`SELECT id, seed, started_at, pages_fetched, pages_failed, early_stopped
		 FROM crawls ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawls: %w", err)
	}
	defer rows.Close()

	var results []CrawlMetadata
	for rows.Next() {
		var meta CrawlMetadata
		var seed, startedAt string
		if err := rows.Scan(&meta.ID, &seed, &startedAt,
			&meta.PagesFetched, &meta.PagesFailed, &meta.EarlyStopped); err != nil {
			return nil, fmt.Errorf("failed to scan crawl metadata: %w", err)
		}
		meta.Seed = model.URL(seed)
		meta.StartedAt = parseTimestamp(startedAt)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// LoadNotFounds restores the broken-link records of the crawl with the
// given ID.
func (gdb *GraphDB) LoadNotFounds(ctx context.Context, crawlID int64) ([]model.NotFoundRecord, error) {
	rows, err := gdb.db.QueryContext(ctx,
		`SELECT url, path FROM not_founds WHERE crawl_id = ?`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to query 404 records: %w", err)
	}
	defer rows.Close()

	var records []model.NotFoundRecord
	for rows.Next() {
		var url, pathJSON string
		if err := rows.Scan(&url, &pathJSON); err != nil {
			return nil, fmt.Errorf("failed to scan 404 record: %w", err)
		}

		record := model.NotFoundRecord{URL: model.URL(url)}
		if err := json.Unmarshal([]byte(pathJSON), &record.Path); err != nil {
			return nil, fmt.Errorf("failed to parse path for %s: %w", url, err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. Returns zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
