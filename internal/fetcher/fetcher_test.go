package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns status, body, and content type for a normal page", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if _, err := w.Write([]byte("<html><body>hello</body></html>")); err != nil {
				t.Error(err)
			}
		}))
		defer server.Close()

		f := New(Options{Timeout: 5 * time.Second, UserAgent: "test-agent/1.0"})
		result, err := f.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() returned error: %v", err)
		}

		if result.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d, want %d", result.StatusCode, http.StatusOK)
		}
		if result.ContentType != "text/html" {
			t.Errorf("ContentType = %q, want %q (parameters stripped)", result.ContentType, "text/html")
		}
		if !strings.Contains(string(result.Body), "hello") {
			t.Errorf("Body = %q, want it to contain %q", result.Body, "hello")
		}
		if result.Elapsed <= 0 {
			t.Error("Elapsed should be positive")
		}
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		t.Parallel()

		var gotAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAgent = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		f := New(Options{Timeout: 5 * time.Second, UserAgent: "seocrawl-test/1.0"})
		if _, err := f.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch() returned error: %v", err)
		}
		if gotAgent != "seocrawl-test/1.0" {
			t.Errorf("User-Agent = %q, want %q", gotAgent, "seocrawl-test/1.0")
		}
	})

	t.Run("HTTP error statuses are results, not errors", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		f := New(Options{Timeout: 5 * time.Second})
		result, err := f.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() returned error for 404: %v", err)
		}
		if result.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want %d", result.StatusCode, http.StatusNotFound)
		}
	})

	t.Run("follows redirects and records the final URL", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/end", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
			if _, err := w.Write([]byte("arrived")); err != nil {
				t.Error(err)
			}
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		f := New(Options{Timeout: 5 * time.Second})
		result, err := f.Fetch(context.Background(), server.URL+"/start")
		if err != nil {
			t.Fatalf("Fetch() returned error: %v", err)
		}
		if result.FinalURL != server.URL+"/end" {
			t.Errorf("FinalURL = %q, want %q", result.FinalURL, server.URL+"/end")
		}
		if result.URL != server.URL+"/start" {
			t.Errorf("URL = %q, want the requested URL %q", result.URL, server.URL+"/start")
		}
	})

	t.Run("redirect chains beyond the bound fail with a permanent error", func(t *testing.T) {
		t.Parallel()

		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
		}))
		defer server.Close()

		f := New(Options{Timeout: 5 * time.Second, MaxRedirects: 3})
		_, err := f.Fetch(context.Background(), server.URL+"/loop")
		if err == nil {
			t.Fatal("Fetch() should fail on an unbounded redirect chain")
		}

		var fetchErr *Error
		if !errors.As(err, &fetchErr) {
			t.Fatalf("error type = %T, want *fetcher.Error", err)
		}
		if fetchErr.Kind != KindTooManyRedirects {
			t.Errorf("Kind = %v, want %v", fetchErr.Kind, KindTooManyRedirects)
		}
		if fetchErr.Transient() {
			t.Error("too-many-redirects must not be transient")
		}
	})

	t.Run("body is truncated at the configured cap", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := w.Write([]byte(strings.Repeat("a", 4096))); err != nil {
				t.Error(err)
			}
		}))
		defer server.Close()

		f := New(Options{Timeout: 5 * time.Second, MaxBodySize: 1024})
		result, err := f.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() returned error: %v", err)
		}
		if len(result.Body) != 1024 {
			t.Errorf("len(Body) = %d, want 1024", len(result.Body))
		}
	})

	t.Run("timeouts classify as transient", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer server.Close()

		f := New(Options{Timeout: 30 * time.Millisecond})
		_, err := f.Fetch(context.Background(), server.URL)
		if err == nil {
			t.Fatal("Fetch() should time out")
		}

		var fetchErr *Error
		if !errors.As(err, &fetchErr) {
			t.Fatalf("error type = %T, want *fetcher.Error", err)
		}
		if fetchErr.Kind != KindTimeout {
			t.Errorf("Kind = %v, want %v", fetchErr.Kind, KindTimeout)
		}
		if !fetchErr.Transient() {
			t.Error("timeout must be transient")
		}
	})

	t.Run("connection failures classify as transient", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		addr := server.URL
		server.Close()

		f := New(Options{Timeout: 2 * time.Second})
		_, err := f.Fetch(context.Background(), addr)
		if err == nil {
			t.Fatal("Fetch() should fail against a closed port")
		}

		var fetchErr *Error
		if !errors.As(err, &fetchErr) {
			t.Fatalf("error type = %T, want *fetcher.Error", err)
		}
		if fetchErr.Kind != KindConnection {
			t.Errorf("Kind = %v, want %v", fetchErr.Kind, KindConnection)
		}
		if !fetchErr.Transient() {
			t.Error("connection failure must be transient")
		}
	})

	t.Run("context cancellation aborts the request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		f := New(Options{Timeout: 10 * time.Second})
		if _, err := f.Fetch(ctx, server.URL); err == nil {
			t.Fatal("Fetch() should fail when the context is cancelled")
		}
	})
}
