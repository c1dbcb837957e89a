package model

import "time"

// CrawlTarget is a URL admitted to the frontier and waiting to be fetched.
// The URL field always holds the canonical form; uniqueness within a session
// is enforced on that form by the frontier's seen-set.
type CrawlTarget struct {
	// URL is the canonical form of the target URL.
	URL string `json:"url"`

	// Depth is the link distance from the seed that discovered this target.
	// Seeds have depth 0.
	Depth int `json:"depth"`

	// Parent is the canonical URL of the page this target was discovered on.
	// Empty for seeds.
	Parent string `json:"parent,omitempty"`

	// EnqueuedAt records when the target was admitted to the frontier.
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Outcome is the terminal state of an admitted crawl target.
// Every admitted target ends in exactly one of these states; the frontier
// enforces that the first recorded outcome wins.
type Outcome int

const (
	// OutcomePending means the target has not reached a terminal state yet.
	// It never appears in a finished session's accounting.
	OutcomePending Outcome = iota

	// OutcomeFetched means the page was fetched and extracted successfully.
	OutcomeFetched

	// OutcomeFailed means fetching failed after the retry policy was exhausted.
	OutcomeFailed

	// OutcomeSkipped means the target was never fetched, typically because
	// the session page limit was reached or the content type was unsupported.
	OutcomeSkipped

	// OutcomeRobotsDenied means robots.txt disallowed the target.
	OutcomeRobotsDenied
)

// String returns a stable lower-case name for the outcome, used in logs,
// reports, and database rows.
func (o Outcome) String() string {
	switch o {
	case OutcomeFetched:
		return "fetched"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRobotsDenied:
		return "robots-denied"
	default:
		return "pending"
	}
}
