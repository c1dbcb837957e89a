package extractor

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/seocrawl/internal/model"
)

func fetchResultFor(body string) *model.FetchResult {
	return &model.FetchResult{
		URL:         "https://example.com/page",
		FinalURL:    "https://example.com/page",
		StatusCode:  http.StatusOK,
		Headers:     http.Header{},
		ContentType: "text/html",
		Body:        []byte(body),
		Elapsed:     25 * time.Millisecond,
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("routes registered content types", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(NewHTML())
		if _, err := r.For("text/html"); err != nil {
			t.Errorf("For(text/html) returned error: %v", err)
		}
		if _, err := r.For("TEXT/HTML"); err != nil {
			t.Errorf("For() should be case-insensitive: %v", err)
		}
	})

	t.Run("unknown content types return a sentinel", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(NewHTML())
		if _, err := r.For("application/pdf"); !errors.Is(err, ErrUnsupportedContentType) {
			t.Errorf("For(application/pdf) error = %v, want %v", err, ErrUnsupportedContentType)
		}
	})
}

func TestHTMLExtract(t *testing.T) {
	t.Parallel()

	t.Run("extracts metadata fields", func(t *testing.T) {
		t.Parallel()

		page, err := NewHTML().Extract(fetchResultFor(`<!DOCTYPE html>
<html lang="en">
<head>
  <title>  Crawler   Guide </title>
  <meta name="description" content="All about crawlers.">
  <link rel="canonical" href="/page">
</head>
<body>
  <h1>Getting Started</h1>
  <h2>Fetching</h2>
  <p>Body content here.</p>
</body>
</html>`), 2, "https://example.com/")
		if err != nil {
			t.Fatalf("Extract() returned error: %v", err)
		}

		if page.Title != "Crawler Guide" {
			t.Errorf("Title = %q, want %q", page.Title, "Crawler Guide")
		}
		if page.H1 != "Getting Started" {
			t.Errorf("H1 = %q, want %q", page.H1, "Getting Started")
		}
		if page.MetaDescription != "All about crawlers." {
			t.Errorf("MetaDescription = %q", page.MetaDescription)
		}
		if page.CanonicalURL != "https://example.com/page" {
			t.Errorf("CanonicalURL = %q, want resolved absolute URL", page.CanonicalURL)
		}
		if page.Language != "en" {
			t.Errorf("Language = %q, want %q", page.Language, "en")
		}
		if page.Domain != "example.com" {
			t.Errorf("Domain = %q, want %q", page.Domain, "example.com")
		}
		if page.Depth != 2 || page.Parent != "https://example.com/" {
			t.Errorf("Depth/Parent = %d/%q, want 2/https://example.com/", page.Depth, page.Parent)
		}
		if len(page.Headings) != 2 {
			t.Fatalf("len(Headings) = %d, want 2", len(page.Headings))
		}
		if page.Headings[1].Level != 2 || page.Headings[1].Text != "Fetching" {
			t.Errorf("Headings[1] = %+v", page.Headings[1])
		}
	})

	t.Run("missing metadata degrades to empty fields", func(t *testing.T) {
		t.Parallel()

		page, err := NewHTML().Extract(fetchResultFor(`<html><body><p>just text</p></body></html>`), 0, "")
		if err != nil {
			t.Fatalf("Extract() returned error: %v", err)
		}
		if page.Title != "" || page.H1 != "" || page.MetaDescription != "" {
			t.Errorf("empty page should have empty metadata, got %+v", page)
		}
		if page.WordCount != 2 {
			t.Errorf("WordCount = %d, want 2", page.WordCount)
		}
	})

	t.Run("boilerplate elements are excluded from body text", func(t *testing.T) {
		t.Parallel()

		page, err := NewHTML().Extract(fetchResultFor(`<html><body>
<nav>navigation menu</nav>
<header>site banner</header>
<p>real content</p>
<script>var hidden = "scripted";</script>
<style>.x { color: red }</style>
<footer>copyright footer</footer>
<aside>sidebar widgets</aside>
</body></html>`), 0, "")
		if err != nil {
			t.Fatalf("Extract() returned error: %v", err)
		}

		for _, banned := range []string{"navigation", "banner", "scripted", "color", "copyright", "sidebar"} {
			if strings.Contains(page.BodyText, banned) {
				t.Errorf("BodyText contains boilerplate text %q: %q", banned, page.BodyText)
			}
		}
		if !strings.Contains(page.BodyText, "real content") {
			t.Errorf("BodyText should keep paragraph text, got %q", page.BodyText)
		}
	})

	t.Run("resolves links and classifies them", func(t *testing.T) {
		t.Parallel()

		page, err := NewHTML().Extract(fetchResultFor(`<html><body>
<a href="/about">About us</a>
<a href="https://other.example.org/page" rel="nofollow">External</a>
<a href="javascript:void(0)">Skipped</a>
<a href="mailto:hi@example.com">Mail</a>
<a href="#section">Fragment</a>
</body></html>`), 0, "")
		if err != nil {
			t.Fatalf("Extract() returned error: %v", err)
		}

		if len(page.Links) != 2 {
			t.Fatalf("len(Links) = %d, want 2 (javascript/mailto/fragment skipped): %+v", len(page.Links), page.Links)
		}

		internal := page.Links[0]
		if internal.URL != "https://example.com/about" {
			t.Errorf("internal link URL = %q", internal.URL)
		}
		if !internal.Internal {
			t.Error("same-domain link should be internal")
		}
		if internal.AnchorText != "About us" {
			t.Errorf("AnchorText = %q", internal.AnchorText)
		}

		external := page.Links[1]
		if external.Internal {
			t.Error("cross-domain link should be external")
		}
		if !external.NoFollow {
			t.Error("rel=nofollow should be recorded")
		}
	})

	t.Run("collects images including lazy-loaded sources", func(t *testing.T) {
		t.Parallel()

		page, err := NewHTML().Extract(fetchResultFor(`<html><body>
<img src="/logo.png" alt="Site logo">
<img data-src="/lazy.png" alt="">
<img alt="no source at all">
</body></html>`), 0, "")
		if err != nil {
			t.Fatalf("Extract() returned error: %v", err)
		}

		if len(page.Images) != 2 {
			t.Fatalf("len(Images) = %d, want 2: %+v", len(page.Images), page.Images)
		}
		if page.Images[0].URL != "https://example.com/logo.png" || page.Images[0].Alt != "Site logo" {
			t.Errorf("Images[0] = %+v", page.Images[0])
		}
		if page.Images[1].URL != "https://example.com/lazy.png" {
			t.Errorf("Images[1] = %+v, want data-src resolved", page.Images[1])
		}
	})

	t.Run("identical body text hashes identically", func(t *testing.T) {
		t.Parallel()

		h := NewHTML()
		a, err := h.Extract(fetchResultFor(`<html><body><p>same words</p></body></html>`), 0, "")
		if err != nil {
			t.Fatal(err)
		}
		b, err := h.Extract(fetchResultFor(`<html><body><div><p>same   words</p></div></body></html>`), 0, "")
		if err != nil {
			t.Fatal(err)
		}

		if a.ContentHash == "" {
			t.Fatal("ContentHash should be set")
		}
		if a.ContentHash != b.ContentHash {
			t.Errorf("whitespace-equivalent bodies should hash equal: %q vs %q", a.ContentHash, b.ContentHash)
		}
	})

	t.Run("truncates oversized anchor text", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", 600)
		page, err := NewHTML().Extract(fetchResultFor(`<html><body><a href="/x">`+long+`</a></body></html>`), 0, "")
		if err != nil {
			t.Fatalf("Extract() returned error: %v", err)
		}
		if len(page.Links) != 1 {
			t.Fatalf("len(Links) = %d, want 1", len(page.Links))
		}
		if got := len([]rune(page.Links[0].AnchorText)); got != maxAnchorLen {
			t.Errorf("anchor length = %d, want %d", got, maxAnchorLen)
		}
	})
}
