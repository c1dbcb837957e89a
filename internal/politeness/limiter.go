package politeness

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// domainState holds the pacing state for one domain. It is created lazily
// on first reference and lives for the session.
type domainState struct {
	// limiter enforces the minimum spacing between request starts.
	// Burst 1 means each Wait reserves exactly one slot per interval.
	limiter *rate.Limiter

	// delay is the effective interval the limiter is currently set to.
	delay time.Duration

	// lastRequest is the time the most recent acquisition was granted.
	// It only ever advances.
	lastRequest time.Time
}

// Limiter enforces per-domain minimum spacing between request starts.
// Domains are fully independent: a slow domain never throttles another.
type Limiter struct {
	// floor is the configured minimum delay for every domain.
	floor time.Duration

	// overrides holds per-domain configured delays, keyed by lower-case
	// host. An override replaces the floor for that domain.
	overrides map[string]time.Duration

	mu      sync.Mutex
	domains map[string]*domainState
}

// NewLimiter creates a rate limiter with a global delay floor and optional
// per-domain overrides.
func NewLimiter(floor time.Duration, overrides map[string]time.Duration) *Limiter {
	normalized := make(map[string]time.Duration, len(overrides))
	for host, d := range overrides {
		normalized[strings.ToLower(host)] = d
	}
	return &Limiter{
		floor:     floor,
		overrides: normalized,
		domains:   make(map[string]*domainState),
	}
}

// Acquire blocks until at least the domain's effective delay has elapsed
// since the last granted acquisition for that domain, then records the
// grant and returns. The wait is cooperative: the worker's goroutine parks
// inside rate.Limiter.Wait and wakes on ctx cancellation.
func (l *Limiter) Acquire(ctx context.Context, domain string) error {
	domain = strings.ToLower(domain)

	l.mu.Lock()
	state := l.stateLocked(domain)
	limiter := state.limiter
	l.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	now := time.Now()
	if now.After(state.lastRequest) {
		state.lastRequest = now
	}
	l.mu.Unlock()
	return nil
}

// RaiseDelay raises the domain's effective delay to d if it exceeds the
// current one. Used when a robots.txt crawl-delay directive is stricter
// than the configured floor. The delay never decreases: the effective
// spacing is max(configured delay, robots crawl-delay).
func (l *Limiter) RaiseDelay(domain string, d time.Duration) {
	if d <= 0 {
		return
	}
	domain = strings.ToLower(domain)

	l.mu.Lock()
	defer l.mu.Unlock()

	state := l.stateLocked(domain)
	if d > state.delay {
		state.delay = d
		state.limiter.SetLimit(intervalLimit(d))
	}
}

// Delay returns the domain's current effective delay.
func (l *Limiter) Delay(domain string) time.Duration {
	domain = strings.ToLower(domain)
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked(domain).delay
}

// LastRequest returns the time of the most recent granted acquisition for
// the domain, or the zero time when none has happened.
func (l *Limiter) LastRequest(domain string) time.Time {
	domain = strings.ToLower(domain)
	l.mu.Lock()
	defer l.mu.Unlock()
	if state, ok := l.domains[domain]; ok {
		return state.lastRequest
	}
	return time.Time{}
}

// stateLocked returns the domain's state, creating it on first reference.
// Callers must hold l.mu.
func (l *Limiter) stateLocked(domain string) *domainState {
	if state, ok := l.domains[domain]; ok {
		return state
	}

	delay := l.floor
	if override, ok := l.overrides[domain]; ok {
		delay = override
	}

	state := &domainState{
		limiter: rate.NewLimiter(intervalLimit(delay), 1),
		delay:   delay,
	}
	l.domains[domain] = state
	return state
}

// intervalLimit converts a minimum spacing into a rate.Limit.
// Zero spacing means unlimited.
func intervalLimit(d time.Duration) rate.Limit {
	if d <= 0 {
		return rate.Inf
	}
	return rate.Every(d)
}
