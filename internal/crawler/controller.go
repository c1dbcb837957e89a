package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/seocrawl/internal/analyzer"
	"github.com/nao1215/seocrawl/internal/config"
	"github.com/nao1215/seocrawl/internal/extractor"
	"github.com/nao1215/seocrawl/internal/fetcher"
	"github.com/nao1215/seocrawl/internal/frontier"
	"github.com/nao1215/seocrawl/internal/model"
	"github.com/nao1215/seocrawl/internal/politeness"
)

// Controller runs one crawl session: it seeds the frontier, starts the
// worker pool, and collects results until the frontier drains, the page
// limit is hit, or Stop is called.
//
// Design decision: workers coordinate only through the frontier and the
// politeness layer. Each FetchResult, PageRecord, and PageKeywords is owned
// by exactly one worker until it is appended to the shared result slices
// under the controller mutex, so no page data is ever mutated concurrently.
type Controller struct {
	cfg      *config.Config
	logger   *slog.Logger
	fetcher  *fetcher.Fetcher
	robots   *politeness.Cache
	limiter  *politeness.Limiter
	registry *extractor.Registry
	analyzer *analyzer.Analyzer

	// front is set by Run and read by Stop.
	front   *frontier.Frontier
	frontMu sync.Mutex
	stopped atomic.Bool

	mu           sync.Mutex
	pages        []*model.PageRecord
	keywords     []*model.PageKeywords
	domainErrors map[string]int
}

// New wires a Controller from validated configuration. The robots cache
// shares the fetcher's HTTP client so both reuse one connection pool.
func New(cfg *config.Config, logger *slog.Logger) (*Controller, error) {
	if logger == nil {
		logger = slog.Default()
	}

	a, err := analyzer.New(analyzer.Options{
		Language:          cfg.StopWordsLanguage,
		MinLength:         cfg.MinKeywordLength,
		MaxLength:         cfg.MaxKeywordLength,
		MaxNGramSize:      cfg.MaxNGramSize,
		MinFrequency:      cfg.MinKeywordFrequency,
		StuffingThreshold: cfg.StuffingThreshold,
	})
	if err != nil {
		return nil, err
	}

	f := fetcher.New(fetcher.Options{
		Timeout:      cfg.Timeout,
		UserAgent:    cfg.UserAgent,
		MaxBodySize:  cfg.MaxBodySize,
		MaxRedirects: cfg.MaxRedirects,
	})

	// The robots cache shares the limiter so its own fetch counts as a
	// request to the domain.
	limiter := politeness.NewLimiter(cfg.CrawlDelay, cfg.DomainDelays)

	return &Controller{
		cfg:          cfg,
		logger:       logger,
		fetcher:      f,
		robots:       politeness.NewCache(f.Client(), cfg.UserAgent, cfg.RespectRobots, limiter, logger),
		limiter:      limiter,
		registry:     extractor.NewRegistry(extractor.NewHTML()),
		analyzer:     a,
		domainErrors: make(map[string]int),
	}, nil
}

// Run executes the session and blocks until every worker has finished.
// A stopped session is not an error: partial results are returned with
// Session.Stopped set. Run returns an error only when the session cannot
// start at all, such as an invalid seed URL.
func (c *Controller) Run(ctx context.Context) (*model.SessionResult, error) {
	front, err := frontier.New(c.cfg.Seeds, frontier.Options{
		MaxDepth:        c.cfg.MaxDepth,
		MaxPages:        c.cfg.MaxPages,
		FollowExternal:  c.cfg.FollowExternal,
		AllowSubdomains: c.cfg.AllowSubdomains,
		ExcludePatterns: c.cfg.CompiledExcludes(),
	})
	if err != nil {
		return nil, err
	}

	c.frontMu.Lock()
	c.front = front
	if c.stopped.Load() {
		front.Stop()
	}
	c.frontMu.Unlock()

	startedAt := time.Now()
	c.logger.Info("crawl session started",
		"seeds", len(c.cfg.Seeds),
		"workers", c.cfg.Concurrency,
		"max_pages", c.cfg.MaxPages,
		"max_depth", c.cfg.MaxDepth)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < c.cfg.Concurrency; i++ {
		g.Go(func() error {
			return c.worker(gctx, front)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Targets still queued after a stop or page limit get a terminal state
	// so the accounting covers every admitted URL.
	if n := front.FinishPending(model.OutcomeSkipped); n > 0 {
		c.logger.Debug("pending targets marked skipped", "count", n)
	}

	counters := front.Counters()
	c.mu.Lock()
	pages := c.pages
	keywords := c.keywords
	domainErrors := make(map[string]int, len(c.domainErrors))
	for domain, n := range c.domainErrors {
		domainErrors[domain] = n
	}
	c.mu.Unlock()

	for _, page := range pages {
		counters.Links += len(page.Links)
	}
	for _, kw := range keywords {
		counters.Keywords += len(kw.Keywords)
	}

	seeds := make([]string, 0, len(c.cfg.Seeds))
	for _, seed := range c.cfg.Seeds {
		canonical, err := frontier.Canonicalize(seed, nil)
		if err != nil {
			continue
		}
		seeds = append(seeds, canonical)
	}

	session := &model.Session{
		Seeds:          seeds,
		ConfigSnapshot: c.cfg.Snapshot(),
		StartedAt:      startedAt,
		FinishedAt:     time.Now(),
		Stopped:        c.stopped.Load(),
		Counters:       counters,
		DomainErrors:   domainErrors,
	}

	c.logger.Info("crawl session finished",
		"fetched", counters.Fetched,
		"failed", counters.Failed,
		"skipped", counters.Skipped,
		"robots_denied", counters.RobotsDenied,
		"elapsed", session.Elapsed().Round(time.Millisecond).String())

	return &model.SessionResult{
		Session:  session,
		Pages:    pages,
		Keywords: keywords,
	}, nil
}

// Stop ends the session. Every worker observes the stop at its next
// frontier interaction; in-flight fetches run to completion within their
// timeout, and their results are kept. Safe to call before, during, or
// after Run, and more than once.
func (c *Controller) Stop() {
	c.stopped.Store(true)
	c.frontMu.Lock()
	if c.front != nil {
		c.front.Stop()
	}
	c.frontMu.Unlock()
}

// worker pulls targets until the frontier drains, is stopped, or the
// context ends. All three are normal terminations.
func (c *Controller) worker(ctx context.Context, front *frontier.Frontier) error {
	for {
		target, err := front.Next(ctx)
		if err != nil {
			if errors.Is(err, frontier.ErrDrained) || errors.Is(err, frontier.ErrStopped) {
				return nil
			}
			// Context cancelled while waiting; treat like a stop.
			return nil
		}

		c.process(ctx, front, target)
	}
}

// process takes one target through the full per-page path: page limit,
// robots, rate limit, fetch with retries, extract, link discovery, and
// keyword analysis. It always records exactly one terminal outcome.
func (c *Controller) process(ctx context.Context, front *frontier.Frontier, target *model.CrawlTarget) {
	// Claim a fetch slot before any network work. Reservation is atomic in
	// the frontier, so workers racing on the last slots cannot overshoot
	// the page limit together. The slot is returned on every path that
	// does not end as fetched.
	if !front.ReserveFetch() {
		front.Finish(target, model.OutcomeSkipped)
		return
	}
	slotKept := false
	defer func() {
		if !slotKept {
			front.ReleaseFetch()
		}
	}()

	domain := frontier.Domain(target.URL)

	verdict := c.robots.Check(ctx, target.URL)
	if !verdict.Allowed {
		c.logger.Debug("robots.txt disallows target", "url", target.URL)
		front.Finish(target, model.OutcomeRobotsDenied)
		return
	}
	if verdict.CrawlDelay > 0 {
		c.limiter.RaiseDelay(domain, verdict.CrawlDelay)
	}

	if err := c.limiter.Acquire(ctx, domain); err != nil {
		// Cancelled while waiting for admission; the target was never fetched.
		front.Finish(target, model.OutcomeSkipped)
		return
	}

	result, err := c.fetchWithRetry(ctx, target.URL)
	if err != nil {
		// A fetch cut short by cancellation is not a page failure: the
		// target was simply never completed. Counting it against the
		// domain would make an interrupted session look unhealthy.
		if ctx.Err() != nil {
			front.Finish(target, model.OutcomeSkipped)
			return
		}
		c.logger.Debug("fetch failed", "url", target.URL, "error", err.Error())
		c.recordFailure(domain)
		front.Finish(target, model.OutcomeFailed)
		return
	}
	if result.StatusCode >= http.StatusBadRequest {
		c.logger.Debug("fetch returned error status", "url", target.URL, "status", result.StatusCode)
		c.recordFailure(domain)
		front.Finish(target, model.OutcomeFailed)
		return
	}

	ext, err := c.registry.For(result.ContentType)
	if err != nil {
		c.logger.Debug("unsupported content type", "url", target.URL, "content_type", result.ContentType)
		front.Finish(target, model.OutcomeSkipped)
		return
	}

	page, err := ext.Extract(result, target.Depth, target.Parent)
	if err != nil {
		c.logger.Debug("extraction failed", "url", target.URL, "error", err.Error())
		c.recordFailure(domain)
		front.Finish(target, model.OutcomeFailed)
		return
	}

	// Discovered links are submitted before this page counts as fetched, so
	// a session that hits max_pages still records what the last page linked
	// to as discovered-but-unfetched rather than losing it.
	for i := range page.Links {
		if _, reason := front.Submit(page.Links[i].URL, target.Depth+1, page.URL); reason != frontier.Admitted {
			c.logger.Debug("link rejected", "url", page.Links[i].URL, "reason", reason.String())
		}
	}

	keywords := c.analyzer.AnalyzePage(page)

	c.mu.Lock()
	c.pages = append(c.pages, page)
	c.keywords = append(c.keywords, keywords)
	fetched := len(c.pages)
	c.mu.Unlock()

	slotKept = true
	front.Finish(target, model.OutcomeFetched)

	c.logger.Info("page fetched",
		"url", page.URL,
		"status", page.StatusCode,
		"depth", page.Depth,
		"words", page.WordCount,
		"links", len(page.Links),
		"progress", fmt.Sprintf("%d/%d", fetched, c.cfg.MaxPages))
}

// fetchWithRetry retries transient failures (timeouts, connection errors,
// 5xx statuses) up to the configured limit with linearly growing backoff.
// Permanent failures and 4xx statuses return immediately.
func (c *Controller) fetchWithRetry(ctx context.Context, rawURL string) (*model.FetchResult, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.cfg.RetryDelay
			c.logger.Debug("retrying fetch", "url", rawURL, "attempt", attempt, "backoff", backoff.String())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := c.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			lastErr = err
			var fetchErr *fetcher.Error
			if errors.As(err, &fetchErr) && fetchErr.Transient() && ctx.Err() == nil {
				continue
			}
			return nil, err
		}

		if result.StatusCode >= http.StatusInternalServerError && attempt < c.cfg.MaxRetries {
			lastErr = fmt.Errorf("fetch %s: server error %d", rawURL, result.StatusCode)
			continue
		}
		return result, nil
	}

	return nil, lastErr
}

// recordFailure counts one failed fetch against the domain.
func (c *Controller) recordFailure(domain string) {
	c.mu.Lock()
	c.domainErrors[domain]++
	c.mu.Unlock()
}
