// Package politeness implements the per-domain compliance layer: a
// session-lifetime robots.txt cache and a per-domain rate limiter.
//
// Both structures share the same ownership rule: all per-domain mutable
// state (parsed robots rules, limiter clocks, last-request times) lives in
// maps keyed by domain behind one synchronization boundary. Workers never
// touch DomainState directly; they call Check and Acquire.
//
// Robots handling fails open: a missing, unreachable, or unparseable
// robots.txt means "allow all, no extra delay". Concurrent first references
// to the same domain are collapsed into one fetch with
// golang.org/x/sync/singleflight.
//
// Rate limiting uses golang.org/x/time/rate with burst 1, which makes
// Acquire a cooperative, context-cancellable wait that guarantees at least
// the effective delay between consecutive request starts to one domain
// while leaving unrelated domains untouched.
package politeness
