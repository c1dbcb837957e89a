package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/nao1215/seocrawl/internal/model"
)

// TextWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// verbose enables per-page keyword tables in the output.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables verbose output with per-page keyword detail.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the full session result as readable text.
func (w *TextWriter) Write(result *model.SessionResult) (int, error) {
	var sb strings.Builder

	w.writeSessionHeader(&sb, result.Session)
	w.writePages(&sb, result)
	if w.verbose {
		w.writeKeywords(&sb, result)
	}
	w.writeDomainErrors(&sb, result.Session)

	return io.WriteString(w.output, sb.String())
}

// WriteSummary renders only the session header and counters.
func (w *TextWriter) WriteSummary(session *model.Session) (int, error) {
	var sb strings.Builder
	w.writeSessionHeader(&sb, session)
	w.writeDomainErrors(&sb, session)
	return io.WriteString(w.output, sb.String())
}

// writeSessionHeader writes the seed list, timing, and counters.
func (w *TextWriter) writeSessionHeader(sb *strings.Builder, session *model.Session) {
	sb.WriteString("=== Crawl Session Report ===\n\n")

	fmt.Fprintf(sb, "Seeds:          %s\n", strings.Join(session.Seeds, ", "))
	fmt.Fprintf(sb, "Started:        %s\n", session.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Elapsed:        %s\n", session.Elapsed().Round(time.Millisecond))
	if session.Stopped {
		sb.WriteString("Status:         stopped early (partial results)\n")
	} else {
		sb.WriteString("Status:         complete\n")
	}
	sb.WriteString("\n")

	c := session.Counters
	fmt.Fprintf(sb, "Pages fetched:  %d\n", c.Fetched)
	fmt.Fprintf(sb, "Failed:         %d\n", c.Failed)
	fmt.Fprintf(sb, "Skipped:        %d\n", c.Skipped)
	fmt.Fprintf(sb, "Robots denied:  %d\n", c.RobotsDenied)
	fmt.Fprintf(sb, "Keywords:       %d\n", c.Keywords)
	fmt.Fprintf(sb, "Links found:    %d\n", c.Links)
	sb.WriteString("\n")
}

// writePages lists each fetched page on one line.
func (w *TextWriter) writePages(sb *strings.Builder, result *model.SessionResult) {
	if len(result.Pages) == 0 {
		return
	}

	sb.WriteString("--- Pages ---\n")
	for _, page := range result.Pages {
		title := page.Title
		if title == "" {
			title = "(no title)"
		}
		fmt.Fprintf(sb, "[%d] depth=%d words=%d %s  %s\n",
			page.StatusCode, page.Depth, page.WordCount, page.URL, title)
	}
	sb.WriteString("\n")
}

// writeKeywords prints the leading keywords of each page.
func (w *TextWriter) writeKeywords(sb *strings.Builder, result *model.SessionResult) {
	for _, kw := range result.Keywords {
		if kw == nil || len(kw.Keywords) == 0 {
			continue
		}
		fmt.Fprintf(sb, "--- Keywords: %s ---\n", kw.PageURL)
		for _, record := range topKeywords(kw, topKeywordsPerPage) {
			flags := keywordFlags(record)
			fmt.Fprintf(sb, "  %-30s freq=%-4d density=%.4f tfidf=%.4f%s\n",
				record.Term, record.Frequency, record.Density, record.TFIDF, flags)
		}
		sb.WriteString("\n")
	}
}

// writeDomainErrors lists per-domain failure counts in stable order.
func (w *TextWriter) writeDomainErrors(sb *strings.Builder, session *model.Session) {
	if len(session.DomainErrors) == 0 {
		return
	}

	domains := make([]string, 0, len(session.DomainErrors))
	for domain := range session.DomainErrors {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	sb.WriteString("--- Domain Errors ---\n")
	for _, domain := range domains {
		fmt.Fprintf(sb, "  %s: %d\n", domain, session.DomainErrors[domain])
	}
	sb.WriteString("\n")
}

// keywordFlags renders positional and stuffing markers for one record.
func keywordFlags(record model.KeywordRecord) string {
	var flags []string
	if record.InTitle {
		flags = append(flags, "title")
	}
	if record.InH1 {
		flags = append(flags, "h1")
	}
	if record.InFirst100Words {
		flags = append(flags, "first100")
	}
	if record.Stuffed {
		flags = append(flags, "STUFFED")
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ",") + "]"
}
