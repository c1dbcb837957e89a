// Package database provides SQLite-based storage for crawl sessions.
//
// This package implements the SEODB, which stores:
//   - Session rows with seeds, configuration snapshot, and accounting
//   - Extracted page records with metadata and content hashes
//   - Per-page keyword records with TF-IDF scores and positional flags
//   - Discovered links and image references
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
