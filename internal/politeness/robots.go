package politeness

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// maxRobotsSize caps how much of a robots.txt file is read. Real robots
// files are a few kilobytes; anything larger is treated as absent.
const maxRobotsSize = 512 * 1024

// Verdict is the politeness cache's answer for one URL.
type Verdict struct {
	// Allowed reports whether the URL may be fetched.
	Allowed bool

	// CrawlDelay is the robots.txt crawl-delay directive for the matched
	// agent group, or zero when none was given.
	CrawlDelay time.Duration
}

// Cache fetches, parses, and caches robots.txt rules per domain for the
// lifetime of one session. The cache has no expiry: a session is bounded
// and re-fetching mid-session would make admission decisions inconsistent.
type Cache struct {
	// client performs the robots.txt fetches.
	client *http.Client

	// userAgent is matched against robots.txt agent groups and sent with
	// the robots request itself.
	userAgent string

	// respect disables all robots handling when false: every check
	// answers allow-all without fetching anything.
	respect bool

	// limiter spaces the robots.txt fetch like any other request to the
	// domain, so a robots fetch and the page fetch that follows it never
	// start back-to-back. Nil means no spacing.
	limiter *Limiter

	// logger receives debug output for fetch and parse events.
	logger *slog.Logger

	// group collapses concurrent first references to one domain into a
	// single robots.txt fetch.
	group singleflight.Group

	// mu guards rules.
	mu sync.RWMutex

	// rules holds the parsed ruleset per host. A nil value means
	// "allow all": the robots.txt was missing, unreachable, or invalid.
	rules map[string]*robotstxt.RobotsData
}

// NewCache creates a robots.txt cache. If client is nil, a default client
// with a 10 second timeout is used. The limiter, when non-nil, paces the
// robots.txt fetch itself.
func NewCache(client *http.Client, userAgent string, respect bool, limiter *Limiter, logger *slog.Logger) *Cache {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		client:    client,
		userAgent: userAgent,
		respect:   respect,
		limiter:   limiter,
		logger:    logger,
		rules:     make(map[string]*robotstxt.RobotsData),
	}
}

// Check answers whether rawURL may be fetched and what crawl-delay the
// domain's robots.txt requests. The first reference to a domain fetches
// /robots.txt exactly once, even under concurrent first references.
// Check never fails the crawl: any robots error degrades to allow-all.
func (c *Cache) Check(ctx context.Context, rawURL string) Verdict {
	if !c.respect {
		return Verdict{Allowed: true}
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return Verdict{Allowed: false}
	}

	data := c.rulesFor(ctx, u)
	if data == nil {
		return Verdict{Allowed: true}
	}

	group := data.FindGroup(c.userAgent)
	if group == nil {
		return Verdict{Allowed: true}
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	return Verdict{
		Allowed:    group.Test(path),
		CrawlDelay: group.CrawlDelay,
	}
}

// rulesFor returns the cached ruleset for the URL's host, fetching it on
// first reference. A nil return means allow-all.
func (c *Cache) rulesFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	host := strings.ToLower(u.Host)

	c.mu.RLock()
	data, ok := c.rules[host]
	c.mu.RUnlock()
	if ok {
		return data
	}

	result, _, _ := c.group.Do(host, func() (any, error) {
		fetched := c.fetch(ctx, u.Scheme, host, strings.ToLower(u.Hostname()))
		c.mu.Lock()
		c.rules[host] = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	if result == nil {
		return nil
	}
	return result.(*robotstxt.RobotsData)
}

// fetch retrieves and parses one robots.txt. Every failure path returns
// nil, which the caller records as allow-all. The fetch is paced by the
// limiter under the same domain key the page fetches use, so it advances
// the domain's last-request time like any other request.
func (c *Cache) fetch(ctx context.Context, scheme, host, domain string) *robotstxt.RobotsData {
	if c.limiter != nil {
		if err := c.limiter.Acquire(ctx, domain); err != nil {
			return nil
		}
	}

	robotsURL := scheme + "://" + host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("robots.txt unreachable, allowing all", "host", host, "error", err.Error())
		return nil
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("robots.txt not available, allowing all", "host", host, "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		c.logger.Debug("robots.txt unparseable, allowing all", "host", host, "error", err.Error())
		return nil
	}

	c.logger.Debug("robots.txt cached", "host", host, "bytes", len(body))
	return data
}

// CachedDomains returns how many domains have a cached ruleset.
func (c *Cache) CachedDomains() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rules)
}
