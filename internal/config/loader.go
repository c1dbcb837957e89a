package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".seocrawl.yml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .seocrawl.yml configuration file.
// All fields are optional; unset fields keep their defaults. Durations are
// expressed in seconds as floats, matching the CLI flags.
type File struct {
	// MaxPages caps pages fetched per session.
	MaxPages *int `yaml:"max_pages,omitempty"`

	// MaxDepth limits link distance from the seeds.
	MaxDepth *int `yaml:"max_depth,omitempty"`

	// Concurrency is the fetch worker count.
	Concurrency *int `yaml:"concurrent_requests,omitempty"`

	// CrawlDelaySeconds is the per-domain delay floor in seconds.
	CrawlDelaySeconds *float64 `yaml:"crawl_delay,omitempty"`

	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds *float64 `yaml:"request_timeout,omitempty"`

	// RespectRobots toggles robots.txt compliance.
	RespectRobots *bool `yaml:"respect_robots,omitempty"`

	// FollowExternal admits links leaving the seed domains.
	FollowExternal *bool `yaml:"follow_external,omitempty"`

	// AllowSubdomains treats seed-domain subdomains as internal.
	AllowSubdomains *bool `yaml:"allow_subdomains,omitempty"`

	// ExcludePatterns replaces the default URL exclusion regexes.
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent *string `yaml:"user_agent,omitempty"`

	// StopWordsLanguage selects the stop-word list.
	StopWordsLanguage *string `yaml:"stop_words_language,omitempty"`

	// MinKeywordLength / MaxKeywordLength bound keyword rune length.
	MinKeywordLength *int `yaml:"min_keyword_length,omitempty"`
	MaxKeywordLength *int `yaml:"max_keyword_length,omitempty"`

	// MaxNGramSize is the largest n-gram built.
	MaxNGramSize *int `yaml:"max_ngram_size,omitempty"`

	// MinKeywordFrequency is the minimum per-page occurrences recorded.
	MinKeywordFrequency *int `yaml:"min_keyword_frequency,omitempty"`

	// StuffingThreshold is the density ratio for the stuffing flag.
	StuffingThreshold *float64 `yaml:"stuffing_density_threshold,omitempty"`

	// DBDir is the SQLite database directory.
	DBDir *string `yaml:"db_dir,omitempty"`

	// Domains holds per-domain overrides, keyed by lower-case host.
	Domains map[string]DomainConfig `yaml:"domains,omitempty"`
}

// DomainConfig holds per-domain overrides loaded from the config file.
// Currently only the crawl delay can be overridden; the effective delay for
// a domain is still raised by its robots.txt crawl-delay directive.
type DomainConfig struct {
	// CrawlDelaySeconds overrides the global crawl delay for this domain.
	CrawlDelaySeconds float64 `yaml:"crawl_delay"`
}

// LoadConfigFile loads options from a YAML file. If the file does not
// exist, it returns ErrConfigNotFound; callers decide whether that matters
// based on whether the path was explicitly given by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in order:
// the explicit path if given, then .seocrawl.yml in the current directory,
// then in the user's home directory. Returns "" when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// Apply copies the file's set fields onto the config. CLI flags are applied
// after this, so flags win over the file and the file wins over defaults.
func (f *File) Apply(c *Config) {
	if f.MaxPages != nil {
		c.MaxPages = *f.MaxPages
	}
	if f.MaxDepth != nil {
		c.MaxDepth = *f.MaxDepth
	}
	if f.Concurrency != nil {
		c.Concurrency = *f.Concurrency
	}
	if f.CrawlDelaySeconds != nil {
		c.CrawlDelay = secondsToDuration(*f.CrawlDelaySeconds)
	}
	if f.TimeoutSeconds != nil {
		c.Timeout = secondsToDuration(*f.TimeoutSeconds)
	}
	if f.RespectRobots != nil {
		c.RespectRobots = *f.RespectRobots
	}
	if f.FollowExternal != nil {
		c.FollowExternal = *f.FollowExternal
	}
	if f.AllowSubdomains != nil {
		c.AllowSubdomains = *f.AllowSubdomains
	}
	if len(f.ExcludePatterns) > 0 {
		c.ExcludePatterns = append([]string(nil), f.ExcludePatterns...)
	}
	if f.UserAgent != nil {
		c.UserAgent = *f.UserAgent
	}
	if f.StopWordsLanguage != nil {
		c.StopWordsLanguage = *f.StopWordsLanguage
	}
	if f.MinKeywordLength != nil {
		c.MinKeywordLength = *f.MinKeywordLength
	}
	if f.MaxKeywordLength != nil {
		c.MaxKeywordLength = *f.MaxKeywordLength
	}
	if f.MaxNGramSize != nil {
		c.MaxNGramSize = *f.MaxNGramSize
	}
	if f.MinKeywordFrequency != nil {
		c.MinKeywordFrequency = *f.MinKeywordFrequency
	}
	if f.StuffingThreshold != nil {
		c.StuffingThreshold = *f.StuffingThreshold
	}
	if f.DBDir != nil {
		c.DBDir = *f.DBDir
		c.SaveToDB = c.DBDir != ""
	}
	if len(f.Domains) > 0 {
		if c.DomainDelays == nil {
			c.DomainDelays = make(map[string]time.Duration, len(f.Domains))
		}
		for host, dc := range f.Domains {
			if dc.CrawlDelaySeconds > 0 {
				c.DomainDelays[host] = secondsToDuration(dc.CrawlDelaySeconds)
			}
		}
	}
}

// secondsToDuration converts a float seconds value to a time.Duration.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
