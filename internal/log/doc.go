// Package log provides slog-based logging helpers for seocrawl.
//
// Crawlers log URLs, anchor texts, and body snippets, which can be
// arbitrarily long. TrimHandler wraps any slog.Handler and clamps oversized
// string attributes so one pathological page cannot flood the log output.
package log
