// Package crawler contains the session controller: a bounded pool of fetch
// workers coordinated through the frontier and the politeness layer.
//
// Each worker repeats one loop: take a target from the frontier, clear the
// page limit, robots.txt, and rate-limit gates, fetch with the retry policy,
// extract content, feed discovered links back to the frontier, and analyze
// keywords. Workers suspend cooperatively at three points (rate-limit
// admission, network I/O, and an empty-but-not-drained frontier) and observe
// a session stop at each of them.
//
// Fetch order is best-effort breadth-first. The frontier hands out targets
// in admission order, but with several workers in flight nothing stronger
// than the per-domain delay spacing is guaranteed.
package crawler
