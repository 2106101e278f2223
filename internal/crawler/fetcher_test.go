package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestFetcherSurfacesStatusCodes verifies that HTTP error statuses produce
// a FetchResult rather than a Go error. The Spider relies on this to tell
// a 404 apart from a connection that never completed.
func TestFetcherSurfacesStatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
	}{
		{name: "ok", status: http.StatusOK},
		{name: "not found", status: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			f := NewFetcher()
			res, err := f.Fetch(context.Background(), srv.URL)
			if err != nil {
				t.Fatalf("expected no transport error, got %v", err)
			}
			if res.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", res.StatusCode, tt.status)
			}
		})
	}
}

// TestFetcherTransportFailure verifies transport-level failures return an
// error with no result.
func TestFetcherTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // connection refused from here on

	f := NewFetcher(WithTimeout(time.Second))
	res, err := f.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected transport error for closed server")
	}
	if res != nil {
		t.Errorf("expected nil result on transport failure, got %+v", res)
	}
}

// TestFetcherBodyLimit verifies responses are truncated at the limit.
func TestFetcherBodyLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for range 1024 {
			if _, err := w.Write([]byte("0123456789")); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	f := NewFetcher(WithMaxBodySize(100))
	res, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(res.Body) != 100 {
		t.Errorf("body length = %d, want 100", len(res.Body))
	}
}

// TestFetcherRequestHeaders verifies configured headers reach the server.
func TestFetcherRequestHeaders(t *testing.T) {
	t.Parallel()

	var gotUA, gotCookie, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		gotCustom = r.Header.Get("X-Custom")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewFetcher(
		WithUserAgent("sitegraph-test"),
		WithCookie("session=abc"),
		WithHeaders(map[string]string{"X-Custom": "value"}),
	)

	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if gotUA != "sitegraph-test" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "sitegraph-test")
	}
	if gotCookie != "session=abc" {
		t.Errorf("Cookie = %q, want %q", gotCookie, "session=abc")
	}
	if gotCustom != "value" {
		t.Errorf("X-Custom = %q, want %q", gotCustom, "value")
	}
}

// TestFetcherContextCancellation verifies a cancelled context aborts the fetch.
func TestFetcherContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher()
	if _, err := f.Fetch(ctx, srv.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
