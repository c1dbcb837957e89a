package model

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"
)

// FetchResult is the raw outcome of a single HTTP fetch.
// It is transient: the scheduler owns it, hands it once to the extractor,
// and discards it. Nothing retains the body after extraction.
type FetchResult struct {
	// URL is the URL that was requested.
	URL string

	// FinalURL is the URL after following redirects. Equal to URL when no
	// redirect occurred.
	FinalURL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// Headers contains the response headers.
	Headers http.Header

	// ContentType is the MIME type from the Content-Type header, without
	// parameters such as charset.
	ContentType string

	// Body is the response body, capped at the configured maximum size.
	Body []byte

	// Elapsed is the wall-clock duration of the request.
	Elapsed time.Duration
}

// PageRecord is the structured content extracted from one successfully
// fetched page. It is immutable after the extractor produces it and is
// forwarded to the analyzer and storage as-is.
type PageRecord struct {
	// URL is the canonical final URL of the page.
	URL string `json:"url"`

	// Domain is the lower-cased host of the page URL.
	Domain string `json:"domain"`

	// StatusCode is the HTTP status the page was fetched with.
	StatusCode int `json:"status_code"`

	// Depth is the link distance from the seed.
	Depth int `json:"depth"`

	// Parent is the URL of the page that linked here. Empty for seeds.
	Parent string `json:"parent,omitempty"`

	// Title is the text of the <title> tag. Empty when absent.
	Title string `json:"title,omitempty"`

	// H1 is the text of the first <h1> element. Empty when absent.
	H1 string `json:"h1,omitempty"`

	// Headings contains all h1-h6 headings in document order.
	Headings []Heading `json:"headings,omitempty"`

	// MetaDescription is the content of <meta name="description">.
	MetaDescription string `json:"meta_description,omitempty"`

	// CanonicalURL is the href of <link rel="canonical">, when present.
	CanonicalURL string `json:"canonical_url,omitempty"`

	// Language is the lang attribute of the <html> element, when present.
	Language string `json:"language,omitempty"`

	// BodyText is the visible body text with boilerplate elements removed.
	// Excluded from JSON because it can be large; the analyzer consumes it
	// before the record is serialized.
	BodyText string `json:"-"`

	// WordCount is the number of whitespace-separated words in BodyText.
	WordCount int `json:"word_count"`

	// ContentHash is the SHA-256 hash of BodyText in hex form, used for
	// duplicate-content detection across pages.
	ContentHash string `json:"content_hash"`

	// Links contains the outbound links found on the page.
	Links []Link `json:"links,omitempty"`

	// Images contains the image references found on the page.
	Images []Image `json:"images,omitempty"`

	// ResponseTime is how long the fetch took.
	ResponseTime time.Duration `json:"response_time"`

	// FetchedAt records when the fetch completed.
	FetchedAt time.Time `json:"fetched_at"`
}

// Link is an outbound link extracted from a page, resolved to absolute form.
type Link struct {
	// URL is the absolute link target.
	URL string `json:"url"`

	// AnchorText is the visible link text, truncated to 500 characters.
	AnchorText string `json:"anchor_text,omitempty"`

	// Internal reports whether the link stays on the page's domain.
	Internal bool `json:"internal"`

	// NoFollow reports whether the link carries rel="nofollow".
	NoFollow bool `json:"nofollow"`
}

// Image is an image reference extracted from a page.
type Image struct {
	// URL is the absolute image source.
	URL string `json:"url"`

	// Alt is the alt text, truncated to 500 characters.
	Alt string `json:"alt,omitempty"`
}

// Heading is a single h1-h6 element.
type Heading struct {
	// Level is the heading level, 1 through 6.
	Level int `json:"level"`

	// Text is the heading's visible text.
	Text string `json:"text"`
}

// ComputeHash calculates and sets the SHA-256 hash of the page's body text.
// Call this after BodyText is final.
func (p *PageRecord) ComputeHash() {
	sum := sha256.Sum256([]byte(p.BodyText))
	p.ContentHash = hex.EncodeToString(sum[:])
}
