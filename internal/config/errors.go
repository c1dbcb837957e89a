package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate and identify exactly what is wrong.
//
// Design decision: package-level sentinel errors rather than fresh error
// instances in Validate, so callers can use errors.Is for programmatic
// handling while still getting human-readable messages.
var (
	// ErrNoSeeds is returned when no seed URL is provided.
	ErrNoSeeds = errors.New("no seed URL specified: provide at least one URL to crawl")

	// ErrInvalidMaxPages is returned when the page cap is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidMaxDepth is returned when the depth limit is negative.
	// Depth 0 is valid and crawls only the seed pages.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidConcurrency is returned when the worker count is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the body size cap is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidKeywordLength is returned when the keyword length bounds are
	// not positive or the maximum is below the minimum.
	ErrInvalidKeywordLength = errors.New("invalid keyword length bounds: min must be positive and max >= min")

	// ErrInvalidNGramSize is returned when the n-gram size is below 1.
	ErrInvalidNGramSize = errors.New("invalid max n-gram size: must be at least 1")

	// ErrInvalidKeywordFrequency is returned when the minimum keyword
	// frequency is below 1.
	ErrInvalidKeywordFrequency = errors.New("invalid min keyword frequency: must be at least 1")

	// ErrInvalidStuffingThreshold is returned when the stuffing density
	// threshold is outside (0, 1].
	ErrInvalidStuffingThreshold = errors.New("invalid stuffing density threshold: must be a ratio in (0, 1]")

	// ErrUnsupportedLanguage is returned when no stop-word list exists for
	// the configured language.
	ErrUnsupportedLanguage = errors.New("unsupported stop words language: use english or spanish")

	// ErrInvalidExcludePattern is returned when an exclusion pattern does
	// not compile as a regular expression.
	ErrInvalidExcludePattern = errors.New("invalid exclude pattern: not a valid regular expression")
)
