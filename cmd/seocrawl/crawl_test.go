package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/seocrawl/internal/config"
)

// TestNewCrawlCmd tests the crawl command creation.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crawl <url> [url...]" {
			t.Errorf("expected use 'crawl <url> [url...]', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"max-pages", "max-depth", "concurrency", "delay", "timeout",
			"retries", "respect-robots", "user-agent", "follow-external",
			"allow-subdomains", "exclude", "language", "ngram",
			"min-frequency", "stuffing-threshold", "db-dir", "no-save",
			"format", "output", "config",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})

	t.Run("requires at least one seed", func(t *testing.T) {
		t.Parallel()
		if err := cmd.Args(cmd, []string{}); err == nil {
			t.Error("expected error for missing seed URLs")
		}
	})
}

// TestBuildConfig tests config construction from flags and file.
func TestBuildConfig(t *testing.T) {
	t.Run("flags override defaults", func(t *testing.T) {
		cmd := NewCrawlCmd()
		cmd.SetArgs(nil)
		if err := cmd.Flags().Set("max-pages", "7"); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("delay", "3s"); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("respect-robots", "false"); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("buildConfig() returned error: %v", err)
		}
		if cfg.MaxPages != 7 {
			t.Errorf("MaxPages = %d, want 7", cfg.MaxPages)
		}
		if cfg.CrawlDelay != 3*time.Second {
			t.Errorf("CrawlDelay = %s, want 3s", cfg.CrawlDelay)
		}
		if cfg.RespectRobots {
			t.Error("RespectRobots should be overridden to false")
		}
		if cfg.MaxDepth != config.DefaultMaxDepth {
			t.Errorf("MaxDepth = %d, want default %d", cfg.MaxDepth, config.DefaultMaxDepth)
		}
	})

	t.Run("config file wins over defaults but loses to flags", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "test.yml")
		content := "max_pages: 42\nmax_depth: 2\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewCrawlCmd()
		if err := cmd.Flags().Set("config", configPath); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("max-pages", "9"); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("buildConfig() returned error: %v", err)
		}
		if cfg.MaxPages != 9 {
			t.Errorf("MaxPages = %d, flag should win over file", cfg.MaxPages)
		}
		if cfg.MaxDepth != 2 {
			t.Errorf("MaxDepth = %d, file should win over default", cfg.MaxDepth)
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "absent.yml")); err != nil {
			t.Fatal(err)
		}
		if _, err := buildConfig(cmd, []string{"https://example.com"}); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})

	t.Run("no-save disables persistence", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.Flags().Set("no-save", "true"); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("buildConfig() returned error: %v", err)
		}
		if cfg.SaveToDB || cfg.DBDir != "" {
			t.Errorf("SaveToDB = %v, DBDir = %q; persistence should be off", cfg.SaveToDB, cfg.DBDir)
		}
	})
}

// TestNewWriter tests report format selection.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"text", "json", "markdown", "md", "csv", "html"} {
		w, err := newWriter(format, os.Stdout, false)
		if err != nil {
			t.Errorf("newWriter(%q) returned error: %v", format, err)
		}
		if w == nil {
			t.Errorf("newWriter(%q) returned nil writer", format)
		}
	}

	if _, err := newWriter("xml", os.Stdout, false); err == nil {
		t.Error("expected error for unknown format")
	}
}

// TestCrawlCommand runs the crawl command end to end against a local site.
func TestCrawlCommand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Garden Tools</title></head>` +
			`<body><h1>Garden Tools</h1>` +
			`<p>Quality garden tools and garden supplies for every garden.</p>` +
			`<a href="/pruners">Pruners</a></body></html>`))
	})
	mux.HandleFunc("/pruners", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Pruners</title></head>` +
			`<body><h1>Pruners</h1><p>Sharp pruners for garden work.</p></body></html>`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	dbDir := t.TempDir()
	reportPath := filepath.Join(t.TempDir(), "report.json")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{
		"crawl",
		"--db-dir", dbDir,
		"--format", "json",
		"--output", reportPath,
		"--delay", "0s",
		"--max-pages", "5",
		"--concurrency", "1",
		server.URL + "/",
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("crawl command returned error: %v", err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}

	// The database must hold the finished session.
	sessionsOut := runCommand(t, "sessions", "--db-dir", dbDir)
	if !containsAll(sessionsOut, "FETCHED", server.URL) {
		t.Errorf("sessions output missing crawl:\n%s", sessionsOut)
	}
}
