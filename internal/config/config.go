package config

import (
	"path/filepath"
	"regexp"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Where applicable these follow common crawler practice: conservative
// politeness, bounded concurrency, and hard caps on session size.
const (
	// DefaultMaxPages caps the number of pages fetched per session.
	// This prevents runaway crawling on large or infinitely-generating sites.
	DefaultMaxPages = 500

	// DefaultMaxDepth limits link distance from the seeds. Depth 0 means
	// only the seed pages themselves.
	DefaultMaxDepth = 5

	// DefaultConcurrency is the number of concurrent fetch workers.
	// Higher values increase throughput but also load on target servers.
	DefaultConcurrency = 10

	// DefaultCrawlDelay is the per-domain floor between request starts.
	// A robots.txt crawl-delay directive can raise it, never lower it.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultTimeout is the per-request timeout, covering connection,
	// redirects, and body read.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is how many times a transient fetch error
	// (timeout, connection reset, 5xx) is retried before the target is
	// marked failed.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base backoff between retries. The actual
	// wait grows linearly with the attempt number.
	DefaultRetryDelay = 2 * time.Second

	// DefaultUserAgent identifies seocrawl in HTTP requests. A descriptive
	// User-Agent lets site operators identify crawler traffic in their logs.
	DefaultUserAgent = "seocrawl/1.0 (+https://github.com/nao1215/seocrawl)"

	// DefaultMaxBodySize limits the response body size read per page.
	// Larger responses are truncated to prevent memory exhaustion.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultMaxRedirects bounds redirect chains before the fetch is
	// classified as a too-many-redirects failure.
	DefaultMaxRedirects = 5

	// DefaultMinKeywordLength and DefaultMaxKeywordLength bound the rune
	// length of recorded keywords and n-grams.
	DefaultMinKeywordLength = 3
	DefaultMaxKeywordLength = 50

	// DefaultMaxNGramSize is the largest n-gram built by the analyzer.
	DefaultMaxNGramSize = 3

	// DefaultMinKeywordFrequency is the minimum per-page occurrences for a
	// term to be recorded. 1 keeps single-occurrence terms so corpus-wide
	// IDF scoring still sees them.
	DefaultMinKeywordFrequency = 1

	// DefaultStuffingThreshold is the keyword density ratio above which
	// the stuffing flag is raised. 0.05 means 5% of the content tokens;
	// stop-word-bearing phrases can exceed 1 because stop words are not
	// counted in the denominator.
	DefaultStuffingThreshold = 0.05

	// DefaultStopWordsLanguage selects the stop-word list.
	DefaultStopWordsLanguage = "english"

	// AppName is the application name used for XDG directory paths.
	AppName = "seocrawl"
)

// DefaultExcludePatterns filters URLs that are never worth fetching for SEO
// analysis: binary assets, feeds, and CMS plumbing.
var DefaultExcludePatterns = []string{
	`(?i)\.(jpg|jpeg|png|gif|webp|svg|ico|css|js|pdf|doc|docx|xls|xlsx|zip|rar|gz|mp3|mp4|avi|mov)$`,
	`/feed/?$`,
	`/wp-admin/`,
	`/wp-json/`,
}

// Config holds all options for a crawl session. It is populated from
// defaults, then the optional YAML config file, then CLI flags, and passed
// through the application by dependency injection rather than global state.
//
// Design decision: a single flat struct instead of nested sub-structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// Seeds are the URLs the session starts from. At least one is required.
	Seeds []string

	// MaxPages caps the number of pages fetched in the session.
	MaxPages int

	// MaxDepth limits link distance from the seeds.
	MaxDepth int

	// Concurrency is the fetch worker count.
	Concurrency int

	// CrawlDelay is the per-domain minimum spacing between request starts.
	// The effective delay for a domain is the maximum of this value and the
	// domain's robots.txt crawl-delay directive.
	CrawlDelay time.Duration

	// Timeout bounds each individual fetch.
	Timeout time.Duration

	// MaxRetries bounds retries of transient fetch errors per target.
	MaxRetries int

	// RetryDelay is the base backoff between retries.
	RetryDelay time.Duration

	// RespectRobots enables robots.txt compliance. When false, no robots
	// files are fetched and all targets are considered allowed.
	RespectRobots bool

	// FollowExternal admits links that leave the seed domains.
	FollowExternal bool

	// AllowSubdomains treats subdomains of a seed domain as internal.
	AllowSubdomains bool

	// ExcludePatterns are regular expressions; URLs matching any of them
	// are rejected by the frontier.
	ExcludePatterns []string

	// UserAgent is sent with every request and matched against robots.txt
	// groups.
	UserAgent string

	// MaxBodySize caps the response body read per page, in bytes.
	MaxBodySize int64

	// MaxRedirects bounds redirect chains per fetch.
	MaxRedirects int

	// StopWordsLanguage selects the analyzer's stop-word list
	// ("english" or "spanish", also accepted as "en"/"es").
	StopWordsLanguage string

	// MinKeywordLength and MaxKeywordLength bound keyword rune length.
	MinKeywordLength int
	MaxKeywordLength int

	// MaxNGramSize is the largest n-gram the analyzer builds.
	MaxNGramSize int

	// MinKeywordFrequency is the minimum per-page occurrences for a term
	// to be recorded.
	MinKeywordFrequency int

	// StuffingThreshold is the density ratio above which a keyword is
	// flagged as stuffed.
	StuffingThreshold float64

	// DomainDelays overrides the crawl delay for specific domains,
	// typically loaded from the config file.
	DomainDelays map[string]time.Duration

	// DBDir is the directory for the SQLite database. When empty, results
	// are not persisted.
	DBDir string

	// SaveToDB indicates whether to persist results. Set automatically
	// when DBDir is configured.
	SaveToDB bool

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// ConfigFilePath is the explicit path of the YAML config file, if any.
	ConfigFilePath string

	compiledExcludes []*regexp.Regexp
}

// NewConfig creates a Config with default values.
//
// Design decision: a constructor rather than zero values, because many
// defaults are non-zero and the constructor doubles as documentation of
// what those defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:            DefaultMaxPages,
		MaxDepth:            DefaultMaxDepth,
		Concurrency:         DefaultConcurrency,
		CrawlDelay:          DefaultCrawlDelay,
		Timeout:             DefaultTimeout,
		MaxRetries:          DefaultMaxRetries,
		RetryDelay:          DefaultRetryDelay,
		RespectRobots:       true,
		AllowSubdomains:     true,
		ExcludePatterns:     append([]string(nil), DefaultExcludePatterns...),
		UserAgent:           DefaultUserAgent,
		MaxBodySize:         DefaultMaxBodySize,
		MaxRedirects:        DefaultMaxRedirects,
		StopWordsLanguage:   DefaultStopWordsLanguage,
		MinKeywordLength:    DefaultMinKeywordLength,
		MaxKeywordLength:    DefaultMaxKeywordLength,
		MaxNGramSize:        DefaultMaxNGramSize,
		MinKeywordFrequency: DefaultMinKeywordFrequency,
		StuffingThreshold:   DefaultStuffingThreshold,
	}
}

// XDGDataDir returns the XDG data directory for seocrawl.
// On Linux: ~/.local/share/seocrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for seocrawl.
// On Linux: ~/.config/seocrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once before any network activity; configuration errors are
// the only errors that halt a session before it starts.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.MinKeywordLength <= 0 || c.MaxKeywordLength < c.MinKeywordLength {
		return ErrInvalidKeywordLength
	}
	if c.MaxNGramSize < 1 {
		return ErrInvalidNGramSize
	}
	if c.MinKeywordFrequency < 1 {
		return ErrInvalidKeywordFrequency
	}
	if c.StuffingThreshold <= 0 || c.StuffingThreshold > 1 {
		return ErrInvalidStuffingThreshold
	}
	if !supportedLanguage(c.StopWordsLanguage) {
		return ErrUnsupportedLanguage
	}

	// Compile exclusion patterns now so an invalid regex fails the session
	// before any fetch happens.
	compiled := make([]*regexp.Regexp, 0, len(c.ExcludePatterns))
	for _, pattern := range c.ExcludePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return ErrInvalidExcludePattern
		}
		compiled = append(compiled, re)
	}
	c.compiledExcludes = compiled

	return nil
}

// CompiledExcludes returns the exclusion patterns compiled by Validate.
// It returns nil if Validate has not run.
func (c *Config) CompiledExcludes() []*regexp.Regexp {
	return c.compiledExcludes
}

// supportedLanguage reports whether a stop-word list exists for the name.
func supportedLanguage(lang string) bool {
	switch lang {
	case "english", "en", "spanish", "es":
		return true
	default:
		return false
	}
}

// Snapshot returns a JSON-serializable copy of the options that affect
// crawl results, stored with the session for reproducibility.
func (c *Config) Snapshot() map[string]any {
	return map[string]any{
		"max_pages":                  c.MaxPages,
		"max_depth":                  c.MaxDepth,
		"concurrent_requests":        c.Concurrency,
		"crawl_delay_seconds":        c.CrawlDelay.Seconds(),
		"timeout_seconds":            c.Timeout.Seconds(),
		"max_retries":                c.MaxRetries,
		"respect_robots":             c.RespectRobots,
		"follow_external":            c.FollowExternal,
		"allow_subdomains":           c.AllowSubdomains,
		"exclude_patterns":           c.ExcludePatterns,
		"stop_words_language":        c.StopWordsLanguage,
		"min_keyword_length":         c.MinKeywordLength,
		"max_keyword_length":         c.MaxKeywordLength,
		"max_ngram_size":             c.MaxNGramSize,
		"min_keyword_frequency":      c.MinKeywordFrequency,
		"stuffing_density_threshold": c.StuffingThreshold,
		"user_agent":                 c.UserAgent,
	}
}
