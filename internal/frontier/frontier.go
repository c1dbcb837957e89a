package frontier

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/seocrawl/internal/model"
)

// Sentinel results for Next.
var (
	// ErrDrained is returned when the queue is empty and no fetch is in
	// flight: the session has reached its natural end.
	ErrDrained = errors.New("frontier drained")

	// ErrStopped is returned after Stop has been called.
	ErrStopped = errors.New("frontier stopped")
)

// Reason explains why Submit admitted or rejected a candidate URL.
// Rejection is an expected steady-state event, not an error.
type Reason int

const (
	// Admitted means the URL was enqueued.
	Admitted Reason = iota

	// RejectedDuplicate means the canonical form was already seen this session.
	RejectedDuplicate

	// RejectedTooDeep means the candidate's depth exceeds the maximum.
	RejectedTooDeep

	// RejectedPageLimit means the session page cap has been reached.
	RejectedPageLimit

	// RejectedExcluded means the URL matched an exclusion pattern.
	RejectedExcluded

	// RejectedExternal means the URL leaves the allowed domains and
	// follow-external is disabled.
	RejectedExternal

	// RejectedInvalid means the URL did not parse or is not HTTP(S).
	RejectedInvalid
)

// String returns a stable name for the reason, used in debug logs.
func (r Reason) String() string {
	switch r {
	case Admitted:
		return "admitted"
	case RejectedDuplicate:
		return "duplicate"
	case RejectedTooDeep:
		return "too-deep"
	case RejectedPageLimit:
		return "page-limit"
	case RejectedExcluded:
		return "excluded"
	case RejectedExternal:
		return "external-domain"
	case RejectedInvalid:
		return "invalid-url"
	default:
		return "unknown"
	}
}

// Options configures a Frontier.
type Options struct {
	// MaxDepth is the largest admissible target depth. Seeds are depth 0.
	MaxDepth int

	// MaxPages caps the number of fetched pages. Workers claim a fetch
	// slot through ReserveFetch before fetching, so the cap holds even
	// when many workers race on the last slots; once reached, no further
	// candidates are admitted either.
	MaxPages int

	// FollowExternal admits URLs outside the seed domains.
	FollowExternal bool

	// AllowSubdomains treats subdomains of seed domains as internal.
	AllowSubdomains bool

	// ExcludePatterns rejects matching URLs. Patterns are matched against
	// the full canonical URL.
	ExcludePatterns []*regexp.Regexp
}

// Frontier is the deduplicating queue of pending crawl targets.
// All methods are safe for concurrent use by multiple workers.
type Frontier struct {
	opts Options

	mu          sync.Mutex
	queue       []*model.CrawlTarget
	seen        map[string]struct{}
	outcomes    map[string]model.Outcome
	seedDomains []string
	inflight    int
	reserved    int
	stopped     bool
	counters    model.Counters

	// wake is closed and replaced whenever state changes that could
	// unblock a Next caller: a submission, a completion, or a stop.
	wake chan struct{}
}

// New creates a Frontier and admits the seed URLs at depth 0.
// An unparseable seed is a configuration-level failure and returns an error
// before any crawling begins.
func New(seeds []string, opts Options) (*Frontier, error) {
	f := &Frontier{
		opts:     opts,
		seen:     make(map[string]struct{}),
		outcomes: make(map[string]model.Outcome),
		wake:     make(chan struct{}),
	}

	for _, seed := range seeds {
		canonical, err := Canonicalize(seed, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid seed URL %q: %w", seed, err)
		}
		f.seedDomains = append(f.seedDomains, Domain(canonical))
	}

	// Seeds bypass the domain policy they themselves define, but still go
	// through the regular admission path for dedup and pattern checks.
	for _, seed := range seeds {
		f.Submit(seed, 0, "")
	}

	return f, nil
}

// Submit admits a candidate URL if it passes every admission check, in
// order: syntactic validity, exclusion patterns, domain policy, depth bound,
// page cap, and the seen-set. It returns the canonical URL and the
// admission reason; the canonical URL is empty when the URL was invalid.
func (f *Frontier) Submit(rawURL string, depth int, parent string) (string, Reason) {
	canonical, err := Canonicalize(rawURL, nil)
	if err != nil {
		return "", RejectedInvalid
	}

	for _, re := range f.opts.ExcludePatterns {
		if re.MatchString(canonical) {
			return canonical, RejectedExcluded
		}
	}

	isSeed := depth == 0 && parent == ""
	if !isSeed && !f.opts.FollowExternal && !f.domainAllowed(Domain(canonical)) {
		return canonical, RejectedExternal
	}

	if depth > f.opts.MaxDepth {
		return canonical, RejectedTooDeep
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.opts.MaxPages > 0 && f.counters.Fetched >= f.opts.MaxPages {
		return canonical, RejectedPageLimit
	}
	if _, ok := f.seen[canonical]; ok {
		return canonical, RejectedDuplicate
	}

	f.seen[canonical] = struct{}{}
	f.outcomes[canonical] = model.OutcomePending
	f.queue = append(f.queue, &model.CrawlTarget{
		URL:        canonical,
		Depth:      depth,
		Parent:     parent,
		EnqueuedAt: time.Now(),
	})
	f.pulseLocked()

	return canonical, Admitted
}

// Next returns the next target in insertion order (FIFO, breadth-first).
// When the queue is momentarily empty but fetches are still in flight, Next
// suspends until new targets arrive, the session drains, or ctx is
// cancelled. It returns ErrDrained when the queue is empty with zero
// in-flight fetches, and ErrStopped after Stop.
//
// A returned target counts as in-flight until Finish is called for it;
// callers must guarantee Finish runs on every path, including errors.
func (f *Frontier) Next(ctx context.Context) (*model.CrawlTarget, error) {
	for {
		f.mu.Lock()
		if f.stopped {
			f.mu.Unlock()
			return nil, ErrStopped
		}
		if len(f.queue) > 0 {
			target := f.queue[0]
			f.queue = f.queue[1:]
			f.inflight++
			f.mu.Unlock()
			return target, nil
		}
		if f.inflight == 0 {
			f.mu.Unlock()
			return nil, ErrDrained
		}
		wake := f.wake
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-wake:
		}
	}
}

// Finish records the terminal outcome of a target previously returned by
// Next. The first recorded outcome wins; duplicates are ignored so a target
// can never be counted twice.
func (f *Frontier) Finish(target *model.CrawlTarget, outcome model.Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cur, ok := f.outcomes[target.URL]; !ok || cur != model.OutcomePending {
		// Unknown target or already terminal.
		if f.inflight > 0 {
			f.inflight--
		}
		f.pulseLocked()
		return
	}

	f.outcomes[target.URL] = outcome
	f.countLocked(outcome)
	if f.inflight > 0 {
		f.inflight--
	}
	f.pulseLocked()
}

// FinishPending pops every queued target and records the given outcome for
// it. Used at session end so targets left behind by a stop or page limit
// still reach a terminal state. Returns how many targets were finished.
func (f *Frontier) FinishPending(outcome model.Outcome) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, target := range f.queue {
		if f.outcomes[target.URL] == model.OutcomePending {
			f.outcomes[target.URL] = outcome
			f.countLocked(outcome)
			n++
		}
	}
	f.queue = nil
	f.pulseLocked()
	return n
}

// Stop makes all current and future Next calls return ErrStopped.
// Queued targets stay queued; call FinishPending to account for them.
func (f *Frontier) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	f.pulseLocked()
}

// ReserveFetch claims one of the MaxPages fetch slots and reports whether
// a slot was available. The claim is atomic: checking the cap and taking
// the slot happen under one lock, so concurrent workers can never
// collectively overshoot the page limit. A caller whose target does not
// end as fetched must return the slot with ReleaseFetch.
func (f *Frontier) ReserveFetch() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.opts.MaxPages > 0 && f.reserved >= f.opts.MaxPages {
		return false
	}
	f.reserved++
	return true
}

// ReleaseFetch returns a slot claimed by ReserveFetch so another target
// can use it. Called when a reserved target ends as anything but fetched.
func (f *Frontier) ReleaseFetch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserved > 0 {
		f.reserved--
	}
}

// Counters returns a copy of the terminal accounting so far.
func (f *Frontier) Counters() model.Counters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters
}

// PendingCount returns the number of queued, not yet handed-out targets.
func (f *Frontier) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Snapshot returns the terminal outcome of every admitted URL. Pending
// entries appear with model.OutcomePending, which only happens when the
// snapshot is taken before the session finished.
func (f *Frontier) Snapshot() map[string]model.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]model.Outcome, len(f.outcomes))
	for url, outcome := range f.outcomes {
		out[url] = outcome
	}
	return out
}

// domainAllowed applies the same-domain policy against the seed domains.
func (f *Frontier) domainAllowed(host string) bool {
	if host == "" {
		return false
	}
	for _, seed := range f.seedDomains {
		if host == seed {
			return true
		}
		if f.opts.AllowSubdomains && strings.HasSuffix(host, "."+seed) {
			return true
		}
	}
	return false
}

// countLocked increments the counter matching a terminal outcome.
func (f *Frontier) countLocked(outcome model.Outcome) {
	switch outcome {
	case model.OutcomeFetched:
		f.counters.Fetched++
	case model.OutcomeFailed:
		f.counters.Failed++
	case model.OutcomeSkipped:
		f.counters.Skipped++
	case model.OutcomeRobotsDenied:
		f.counters.RobotsDenied++
	}
}

// pulseLocked wakes every blocked Next caller. Callers re-check state and
// re-arm, so spurious wakeups are harmless.
func (f *Frontier) pulseLocked() {
	close(f.wake)
	f.wake = make(chan struct{})
}
