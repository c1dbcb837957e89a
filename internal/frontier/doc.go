// Package frontier implements the URL frontier: the deduplicating,
// depth-bounded FIFO queue of pending fetch targets, plus the seen-set that
// prevents re-enqueue and the terminal-outcome accounting that guarantees
// every admitted target ends in exactly one of fetched, failed, skipped, or
// robots-denied.
//
// The frontier is the primary shared-mutable-state hot path: every worker
// submits discovered links and pulls the next target concurrently. All
// state lives behind one mutex, and blocked Next callers are woken through
// a pulse channel that is closed and replaced on every state change, so a
// worker suspended on an empty queue observes both new submissions and
// session stop without polling.
//
// Canonicalization is built on github.com/PuerkitoBio/purell with a fixed
// flag set, extended with tracking-parameter stripping and trailing-slash
// trimming. Canonicalize is idempotent; the seen-set is keyed on its output.
package frontier
