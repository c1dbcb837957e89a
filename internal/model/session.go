package model

import "time"

// Session describes one bounded crawl run from a seed set to a terminal
// (drained or stopped) state. It is created when the controller starts and
// finalized at drain or stop.
type Session struct {
	// ID is the storage-assigned identifier. Zero until persisted.
	ID int64 `json:"id,omitempty"`

	// Seeds are the canonical seed URLs the session started from.
	Seeds []string `json:"seeds"`

	// ConfigSnapshot is a JSON-serializable copy of the configuration the
	// session ran with, kept for reproducibility.
	ConfigSnapshot map[string]any `json:"config_snapshot,omitempty"`

	// StartedAt and FinishedAt bound the session's lifetime.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Stopped reports whether the session ended by user request rather than
	// by draining the frontier or hitting the page limit.
	Stopped bool `json:"stopped,omitempty"`

	// Counters aggregates the terminal accounting.
	Counters Counters `json:"counters"`

	// DomainErrors is the per-domain count of failed fetches.
	DomainErrors map[string]int `json:"domain_errors,omitempty"`
}

// Counters is the session-level accounting. Every target admitted to the
// frontier contributes to exactly one of Fetched, Failed, Skipped, or
// RobotsDenied.
type Counters struct {
	// Fetched is the number of pages fetched and extracted.
	Fetched int `json:"fetched"`

	// Failed is the number of targets that exhausted the retry policy.
	Failed int `json:"failed"`

	// Skipped is the number of admitted targets never fetched.
	Skipped int `json:"skipped"`

	// RobotsDenied is the number of targets disallowed by robots.txt.
	RobotsDenied int `json:"robots_denied"`

	// Keywords is the total number of keyword records extracted.
	Keywords int `json:"keywords"`

	// Links is the total number of outbound links discovered.
	Links int `json:"links"`
}

// Elapsed returns the session duration. If the session has not finished,
// it measures up to now.
func (s *Session) Elapsed() time.Duration {
	end := s.FinishedAt
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(s.StartedAt)
}

// SessionResult bundles everything a finished session produced. It flows
// through the pipeline steps: the crawl step fills Pages and Keywords, the
// finalize step scores Keywords, the persist step sets Session.ID, and the
// report step renders the whole thing.
type SessionResult struct {
	// Session is the summary and accounting.
	Session *Session `json:"session"`

	// Pages are the extracted page records in completion order.
	Pages []*PageRecord `json:"pages"`

	// Keywords are the per-page analyzer outputs, index-aligned with Pages.
	Keywords []*PageKeywords `json:"keywords"`
}
