package database

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/nao1215/sitegraph/internal/model"
)

// newTestReport builds a small crawl report for persistence tests.
func newTestReport() *model.CrawlReport {
	report := model.NewCrawlReport("https://ex.com")
	report.StartedAt = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	report.Duration = 1500 * time.Millisecond
	report.PagesFetched = 2
	report.PagesFailed = 1
	report.Graph.AddEdge("https://ex.com", "https://ex.com/a")
	report.Graph.AddEdge("https://ex.com", "https://ex.com/b")
	report.NotFound = append(report.NotFound, model.NotFoundRecord{
		URL:  "https://ex.com/a",
		Path: []model.URL{"https://ex.com", "https://ex.com/a"},
	})
	return report
}

// TestGraphDBSaveAndLoad verifies node and edge sets round-trip exactly.
func TestGraphDBSaveAndLoad(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	report := newTestReport()

	crawlID, err := db.SaveCrawl(ctx, report)
	if err != nil {
		t.Fatalf("failed to save crawl: %v", err)
	}
	if crawlID == 0 {
		t.Fatal("expected non-zero crawl ID")
	}

	graph, err := db.LoadGraph(ctx, crawlID)
	if err != nil {
		t.Fatalf("failed to load graph: %v", err)
	}
	if graph == nil {
		t.Fatal("expected graph, got nil")
	}

	if !reflect.DeepEqual(graph.Nodes(), report.Graph.Nodes()) {
		t.Errorf("nodes differ: %v vs %v", graph.Nodes(), report.Graph.Nodes())
	}
	if !reflect.DeepEqual(graph.Edges(), report.Graph.Edges()) {
		t.Errorf("edges differ: %v vs %v", graph.Edges(), report.Graph.Edges())
	}
}

// TestGraphDBLoadLatestGraph verifies the latest crawl wins.
func TestGraphDBLoadLatestGraph(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	first := newTestReport()
	if _, err := db.SaveCrawl(ctx, first); err != nil {
		t.Fatalf("failed to save first crawl: %v", err)
	}

	second := model.NewCrawlReport("https://other.com")
	second.Graph.AddEdge("https://other.com", "https://other.com/x")
	if _, err := db.SaveCrawl(ctx, second); err != nil {
		t.Fatalf("failed to save second crawl: %v", err)
	}

	graph, err := db.LoadLatestGraph(ctx)
	if err != nil {
		t.Fatalf("failed to load latest graph: %v", err)
	}
	if graph == nil {
		t.Fatal("expected graph, got nil")
	}
	if !graph.HasEdge("https://other.com", "https://other.com/x") {
		t.Error("latest graph should come from the second crawl")
	}
	if graph.HasNode("https://ex.com") {
		t.Error("latest graph must not mix in nodes from earlier crawls")
	}
}

// TestGraphDBLoadLatestGraphEmpty verifies the missing-snapshot contract:
// nil, nil rather than an error.
func TestGraphDBLoadLatestGraphEmpty(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	graph, err := db.LoadLatestGraph(context.Background())
	if err != nil {
		t.Fatalf("expected no error for empty database, got %v", err)
	}
	if graph != nil {
		t.Errorf("expected nil graph for empty database, got %v", graph.Nodes())
	}
}

// TestGraphDBLoadGraphUnknownID verifies lookups of missing crawls.
func TestGraphDBLoadGraphUnknownID(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	graph, err := db.LoadGraph(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected no error for unknown crawl ID, got %v", err)
	}
	if graph != nil {
		t.Error("expected nil graph for unknown crawl ID")
	}
}

// TestGraphDBNotFoundRecords verifies broken-link records round-trip with
// their traversal paths.
func TestGraphDBNotFoundRecords(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	report := newTestReport()

	crawlID, err := db.SaveCrawl(ctx, report)
	if err != nil {
		t.Fatalf("failed to save crawl: %v", err)
	}

	records, err := db.LoadNotFounds(ctx, crawlID)
	if err != nil {
		t.Fatalf("failed to load 404 records: %v", err)
	}
	if !reflect.DeepEqual(records, report.NotFound) {
		t.Errorf("records differ: %v vs %v", records, report.NotFound)
	}
}

// TestGraphDBListCrawls verifies metadata listing order and contents.
func TestGraphDBListCrawls(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.SaveCrawl(ctx, newTestReport()); err != nil {
		t.Fatalf("failed to save crawl: %v", err)
	}

	second := model.NewCrawlReport("https://other.com")
	second.EarlyStopped = true
	if _, err := db.SaveCrawl(ctx, second); err != nil {
		t.Fatalf("failed to save second crawl: %v", err)
	}

	crawls, err := db.ListCrawls(ctx)
	if err != nil {
		t.Fatalf("failed to list crawls: %v", err)
	}
	if len(crawls) != 2 {
		t.Fatalf("expected 2 crawls, got %d", len(crawls))
	}
	if crawls[0].Seed != "https://other.com" {
		t.Errorf("newest crawl should come first, got seed %q", crawls[0].Seed)
	}
	if !crawls[0].EarlyStopped {
		t.Error("early-stopped flag should round-trip")
	}
	if crawls[1].Seed != "https://ex.com" {
		t.Errorf("oldest crawl seed = %q, want https://ex.com", crawls[1].Seed)
	}
}

// TestOpenWithoutCreate verifies Open fails when the database is required
// to already exist.
func TestOpenWithoutCreate(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
	if err == nil {
		t.Error("expected error opening missing database with CreateIfNotExists=false")
	}
}
