// Package pipeline orchestrates the phases of a crawl session.
//
// A session runs as an ordered sequence of steps over a shared
// model.SessionResult:
//
//  1. CrawlStep fetches and analyzes pages.
//  2. FinalizeStep computes corpus-wide TF-IDF and the keyword ranking.
//  3. PersistStep saves the session to the SQLite database (optional).
//  4. ReportStep renders the configured output formats.
//
// Steps implement the Step interface and are composed into a Pipeline.
// The pipeline checks context cancellation between steps; an interrupted
// crawl still reaches persistence and reporting so partial results are
// not lost.
package pipeline
