package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/nao1215/seocrawl/internal/model"
)

// CSVWriter outputs keyword records in CSV format.
// This format is designed for spreadsheet import and downstream analysis.
// Unlike the human-oriented formats it carries every keyword row, not just
// the ranking head.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// csvHeader is the column layout of the keyword export.
var csvHeader = []string{
	"page_url", "term", "ngram_size", "frequency", "density", "tfidf",
	"in_title", "in_h1", "in_first_100", "stuffed",
}

// Write exports every keyword record of the session as CSV rows.
func (w *CSVWriter) Write(result *model.SessionResult) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(csvHeader); err != nil {
		return counter.n, err
	}
	for _, kw := range result.Keywords {
		if kw == nil {
			continue
		}
		for _, record := range kw.Keywords {
			row := []string{
				kw.PageURL,
				record.Term,
				strconv.Itoa(record.NGramSize),
				strconv.Itoa(record.Frequency),
				strconv.FormatFloat(record.Density, 'f', 6, 64),
				strconv.FormatFloat(record.TFIDF, 'f', 6, 64),
				strconv.FormatBool(record.InTitle),
				strconv.FormatBool(record.InH1),
				strconv.FormatBool(record.InFirst100Words),
				strconv.FormatBool(record.Stuffed),
			}
			if err := cw.Write(row); err != nil {
				return counter.n, err
			}
		}
	}
	cw.Flush()
	return counter.n, cw.Error()
}

// WriteSummary exports the session counters as a single CSV record.
func (w *CSVWriter) WriteSummary(session *model.Session) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	header := []string{"started_at", "fetched", "failed", "skipped", "robots_denied", "keywords", "links"}
	if err := cw.Write(header); err != nil {
		return counter.n, err
	}
	c := session.Counters
	row := []string{
		session.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		strconv.Itoa(c.Fetched),
		strconv.Itoa(c.Failed),
		strconv.Itoa(c.Skipped),
		strconv.Itoa(c.RobotsDenied),
		strconv.Itoa(c.Keywords),
		strconv.Itoa(c.Links),
	}
	if err := cw.Write(row); err != nil {
		return counter.n, err
	}
	cw.Flush()
	return counter.n, cw.Error()
}

// countingWriter tracks bytes written through it so the CSV writer can
// report its output size like the other formats.
type countingWriter struct {
	w io.Writer
	n int
}

// Write forwards to the underlying writer and accumulates the byte count.
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
