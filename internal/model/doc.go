// Package model defines the core data structures used throughout seocrawl.
//
// This package contains the following main types:
//   - CrawlTarget: A discovered URL waiting to be fetched
//   - FetchResult: The raw outcome of a single HTTP fetch
//   - PageRecord: Structured content extracted from a fetched page
//   - KeywordRecord: A scored keyword or n-gram on one page
//   - Session: One bounded crawl run with its counters and summary
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (frontier, crawler, analyzer, database,
// report) need to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
