// Package extractor turns fetched bodies into structured page records:
// title, headings, meta description, canonical URL, language, visible body
// text with boilerplate removed, outbound links, and image references.
//
// Extractors are registered per MIME type in a Registry; the scheduler asks
// the registry for a handler and records pages with no handler as skipped.
// Only HTML is handled today, but feed and sitemap extractors slot in
// without touching the scheduler.
package extractor
