// Package report renders finished crawl sessions in multiple output
// formats.
//
// The package defines a Writer interface that all formats implement:
//
//   - TextWriter: human-readable terminal output
//   - JSONWriter: machine-readable output for tool integration
//   - MarkdownWriter: documentation-friendly tables
//   - CSVWriter: full keyword export for spreadsheets
//   - HTMLWriter: self-contained browser report
//
// MultiWriter fans a single result out to several formats at once, for
// example terminal text plus a JSON file.
//
// Writers receive a fully finalized model.SessionResult. Keyword slices
// arrive pre-sorted by the corpus finalize pass, so the human-oriented
// formats simply take the head of each slice for their top-N tables.
package report
