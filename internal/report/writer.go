package report

import (
	"io"

	"github.com/nao1215/seocrawl/internal/model"
)

// Writer defines the interface for report output.
// Implementations render a finished session in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write renders the full session result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.SessionResult) (int, error)

	// WriteSummary renders only the session summary and counters.
	// This is useful for quick terminal output without per-page detail.
	WriteSummary(session *model.Session) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write session results, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the result through all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(result *model.SessionResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary renders the summary through all configured Writers.
func (m *MultiWriter) WriteSummary(session *model.Session) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(session)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// topKeywordsPerPage is how many keyword rows the human-oriented formats
// (text, markdown, HTML) show per page. JSON and CSV always carry all rows.
const topKeywordsPerPage = 10

// topKeywords returns up to n leading records. Records arrive pre-sorted by
// the finalize pass, so the head of the slice is the ranking head.
func topKeywords(kw *model.PageKeywords, n int) []model.KeywordRecord {
	if kw == nil || len(kw.Keywords) <= n {
		if kw == nil {
			return nil
		}
		return kw.Keywords
	}
	return kw.Keywords[:n]
}
