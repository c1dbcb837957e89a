package frontier

import (
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// Canonicalization errors.
var (
	// ErrInvalidURL is returned for URLs that do not parse or lack a host.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrUnsupportedScheme is returned for non-HTTP(S) URLs.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
)

// trackingParams are query parameters that identify ad/analytics campaigns
// rather than content. They are dropped during canonicalization so the same
// page reached through different campaigns deduplicates to one target.
// The list is fixed; changing it changes seen-set identity mid-session.
var trackingParams = map[string]bool{
	"gclid":        true,
	"fbclid":       true,
	"msclkid":      true,
	"igshid":       true,
	"mc_cid":       true,
	"mc_eid":       true,
	"_hsenc":       true,
	"_hsmi":        true,
	"ref_src":      true,
	"spm":          true,
	"utm_id":       true,
	"utm_source":   true,
	"utm_medium":   true,
	"utm_term":     true,
	"utm_content":  true,
	"utm_campaign": true,
}

// canonicalFlags is the purell flag set used for every URL in a session.
// Mirrors safe normalizations only: nothing here changes which resource the
// URL identifies.
const canonicalFlags = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagUppercaseEscapes |
	purell.FlagDecodeUnnecessaryEscapes |
	purell.FlagEncodeNecessaryEscapes |
	purell.FlagRemoveDefaultPort |
	purell.FlagRemoveEmptyQuerySeparator |
	purell.FlagRemoveDotSegments |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagSortQuery |
	purell.FlagRemoveEmptyPortSeparator |
	purell.FlagRemoveUnnecessaryHostDots

// Canonicalize returns the canonical string form of rawURL used for
// deduplication. When base is non-nil, relative URLs are resolved against
// it first. The function is idempotent: feeding its output back in yields
// the same string.
func Canonicalize(rawURL string, base *url.URL) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrInvalidURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrInvalidURL
	}
	if base != nil {
		u = base.ResolveReference(u)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", ErrUnsupportedScheme
	}
	if u.Host == "" {
		return "", ErrInvalidURL
	}

	// Fragments never change the fetched resource.
	u.Fragment = ""

	// Drop tracking parameters before purell sorts what remains.
	if u.RawQuery != "" {
		q := u.Query()
		for param := range q {
			if trackingParams[strings.ToLower(param)] {
				q.Del(param)
			}
		}
		u.RawQuery = q.Encode()
	}

	normalized := purell.NormalizeURL(u, canonicalFlags)

	out, err := url.Parse(normalized)
	if err != nil {
		return "", ErrInvalidURL
	}

	// Root path and empty path are the same resource; non-root trailing
	// slashes are redundant for deduplication purposes.
	switch {
	case out.Path == "":
		out.Path = "/"
	case out.Path != "/" && strings.HasSuffix(out.Path, "/"):
		out.Path = strings.TrimRight(out.Path, "/")
		if out.Path == "" {
			out.Path = "/"
		}
	}

	return out.String(), nil
}

// Domain returns the lower-cased host (without port) of a canonical URL.
// It returns "" for unparseable input.
func Domain(canonicalURL string) string {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
