// Package fetcher provides the network fetch primitive: given a URL and a
// timeout, it returns status, headers, final URL after redirects, and a
// size-capped body, or a typed failure (timeout, connection error, too many
// redirects).
//
// The fetcher performs no politeness checks and no retries; both belong to
// the scheduler. Its only job is a single bounded HTTP round trip with a
// faithful error classification the retry policy can act on.
package fetcher
