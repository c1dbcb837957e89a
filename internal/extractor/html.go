package extractor

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nao1215/seocrawl/internal/frontier"
	"github.com/nao1215/seocrawl/internal/model"
)

// maxAnchorLen caps stored anchor and alt text. Longer values are almost
// always markup accidents (an <a> wrapping a whole article) and would bloat
// storage without adding signal.
const maxAnchorLen = 500

// boilerplateElements are elements whose text is site chrome rather than
// page content. Their subtrees are skipped when collecting body text so the
// keyword statistics reflect what the page is about, not its navigation.
var boilerplateElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"aside":    true,
	"iframe":   true,
}

// skippedSchemes are href prefixes that never name a fetchable page.
var skippedSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// HTML extracts structured content from HTML pages.
//
// Design decision: We parse with golang.org/x/net/html rather than regex
// because it tolerates the malformed markup that dominates the real web and
// gives us a tree we can walk once, collecting metadata, text, links, and
// images in a single pass.
type HTML struct{}

// NewHTML creates an HTML extractor.
func NewHTML() *HTML {
	return &HTML{}
}

// ContentTypes implements Extractor.
func (h *HTML) ContentTypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Extract parses the fetched HTML and returns the page record. Missing
// metadata degrades to empty fields; Extract fails only when the tokenizer
// cannot produce a tree at all, which x/net/html reserves for read errors.
func (h *HTML) Extract(result *model.FetchResult, depth int, parent string) (*model.PageRecord, error) {
	doc, err := html.Parse(bytes.NewReader(result.Body))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(result.FinalURL)
	if err != nil {
		return nil, err
	}

	page := &model.PageRecord{
		URL:          result.FinalURL,
		Domain:       strings.ToLower(base.Hostname()),
		StatusCode:   result.StatusCode,
		Depth:        depth,
		Parent:       parent,
		ResponseTime: result.Elapsed,
		FetchedAt:    time.Now(),
	}

	w := &walker{base: base, page: page}
	w.walk(doc)

	page.BodyText = collapseSpace(w.text.String())
	page.WordCount = len(strings.Fields(page.BodyText))
	page.ComputeHash()

	return page, nil
}

// walker carries the per-page state of one DOM traversal.
type walker struct {
	base *url.URL
	page *model.PageRecord
	text strings.Builder

	// inTitle is true while inside <title>, so its text lands in the title
	// field instead of the body text.
	inTitle bool
}

// walk visits one node and its children. Boilerplate subtrees are pruned
// before descending.
func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		if boilerplateElements[n.Data] {
			return
		}
		w.element(n)
		if n.Data == "title" {
			w.inTitle = true
			defer func() { w.inTitle = false }()
		}
	case html.TextNode:
		if !w.inTitle {
			w.text.WriteString(n.Data)
			w.text.WriteString(" ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// element records what a single element contributes to the page record.
func (w *walker) element(n *html.Node) {
	switch n.Data {
	case "html":
		if lang := getAttr(n, "lang"); lang != "" && w.page.Language == "" {
			w.page.Language = lang
		}

	case "title":
		if w.page.Title == "" {
			w.page.Title = collapseSpace(nodeText(n))
		}

	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := collapseSpace(nodeText(n))
		if text == "" {
			return
		}
		level := int(n.Data[1] - '0')
		w.page.Headings = append(w.page.Headings, model.Heading{Level: level, Text: text})
		if level == 1 && w.page.H1 == "" {
			w.page.H1 = text
		}

	case "meta":
		if strings.EqualFold(getAttr(n, "name"), "description") && w.page.MetaDescription == "" {
			w.page.MetaDescription = strings.TrimSpace(getAttr(n, "content"))
		}

	case "link":
		if relContains(getAttr(n, "rel"), "canonical") && w.page.CanonicalURL == "" {
			if resolved := w.resolve(getAttr(n, "href")); resolved != "" {
				w.page.CanonicalURL = resolved
			}
		}

	case "a":
		resolved := w.resolve(getAttr(n, "href"))
		if resolved == "" {
			return
		}
		w.page.Links = append(w.page.Links, model.Link{
			URL:        resolved,
			AnchorText: truncate(collapseSpace(nodeText(n)), maxAnchorLen),
			Internal:   frontier.Domain(resolved) == w.page.Domain,
			NoFollow:   relContains(getAttr(n, "rel"), "nofollow"),
		})

	case "img":
		src := getAttr(n, "src")
		if src == "" {
			src = getAttr(n, "data-src") // lazy-loading convention
		}
		resolved := w.resolve(src)
		if resolved == "" {
			return
		}
		w.page.Images = append(w.page.Images, model.Image{
			URL: resolved,
			Alt: truncate(strings.TrimSpace(getAttr(n, "alt")), maxAnchorLen),
		})
	}
}

// resolve turns an href or src into an absolute URL, or "" when the value
// is empty, a fragment, or a non-fetchable scheme.
func (w *walker) resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") {
		return ""
	}
	lower := strings.ToLower(ref)
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return w.base.ResolveReference(u).String()
}

// nodeText concatenates the text content of a node's subtree, skipping
// boilerplate children.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteString(" ")
		case html.ElementNode:
			if boilerplateElements[n.Data] {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

// collapseSpace trims and collapses all whitespace runs to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// relContains reports whether a space-separated rel attribute contains the
// given token.
func relContains(rel, token string) bool {
	for _, part := range strings.Fields(rel) {
		if strings.EqualFold(part, token) {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
