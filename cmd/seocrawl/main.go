// Package main provides the entry point for the seocrawl CLI.
//
// seocrawl is a polite concurrent web crawler for SEO analysis. It crawls
// one or more sites, extracts page content, and scores keywords with
// TF-IDF over the crawled corpus.
//
// Usage:
//
//	seocrawl crawl https://example.com
//	seocrawl report <session-id>
//
// See --help for all available options.
package main

// main is the entry point for seocrawl.
func main() {
	Execute()
}
