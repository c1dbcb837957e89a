package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/seocrawl/internal/model"
)

// MarkdownWriter outputs session results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full session result in Markdown format.
func (w *MarkdownWriter) Write(result *model.SessionResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result.Session)
	w.writeCounters(md, result.Session)
	w.writePages(md, result)
	w.writeKeywords(md, result)

	return len(md.String()), md.Build()
}

// WriteSummary outputs only the session header and counters.
func (w *MarkdownWriter) WriteSummary(session *model.Session) (int, error) {
	md := markdown.NewMarkdown(w.output)
	w.writeHeader(md, session)
	w.writeCounters(md, session)
	return len(md.String()), md.Build()
}

// writeHeader writes the report header with session information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, session *model.Session) {
	md.H1("SEO Crawl Report")
	md.PlainText("")

	status := "complete"
	if session.Stopped {
		status = "stopped early (partial results)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seeds", "`" + strings.Join(session.Seeds, "`, `") + "`"},
			{"Started", session.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", session.Elapsed().String()},
			{"Status", status},
		},
	})
	md.PlainText("")
}

// writeCounters writes the terminal accounting table.
func (w *MarkdownWriter) writeCounters(md *markdown.Markdown, session *model.Session) {
	md.H2("Session Counters")
	md.PlainText("")

	c := session.Counters
	md.Table(markdown.TableSet{
		Header: []string{"Counter", "Count"},
		Rows: [][]string{
			{"Pages fetched", strconv.Itoa(c.Fetched)},
			{"Failed", strconv.Itoa(c.Failed)},
			{"Skipped", strconv.Itoa(c.Skipped)},
			{"Robots denied", strconv.Itoa(c.RobotsDenied)},
			{"Keywords", strconv.Itoa(c.Keywords)},
			{"Links", strconv.Itoa(c.Links)},
		},
	})
	md.PlainText("")
}

// writePages writes one table row per fetched page.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, result *model.SessionResult) {
	if len(result.Pages) == 0 {
		return
	}

	md.H2("Pages")
	md.PlainText("")

	rows := make([][]string, 0, len(result.Pages))
	for _, page := range result.Pages {
		rows = append(rows, []string{
			page.URL,
			strconv.Itoa(page.StatusCode),
			strconv.Itoa(page.Depth),
			strconv.Itoa(page.WordCount),
			page.Title,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Depth", "Words", "Title"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeKeywords writes the leading keywords of each page.
func (w *MarkdownWriter) writeKeywords(md *markdown.Markdown, result *model.SessionResult) {
	wrote := false
	for _, kw := range result.Keywords {
		if kw == nil || len(kw.Keywords) == 0 {
			continue
		}
		if !wrote {
			md.H2("Top Keywords")
			md.PlainText("")
			wrote = true
		}

		md.H3(kw.PageURL)
		md.PlainText("")

		rows := make([][]string, 0, topKeywordsPerPage)
		for _, record := range topKeywords(kw, topKeywordsPerPage) {
			stuffed := ""
			if record.Stuffed {
				stuffed = "yes"
			}
			rows = append(rows, []string{
				record.Term,
				strconv.Itoa(record.Frequency),
				fmt.Sprintf("%.4f", record.Density),
				fmt.Sprintf("%.4f", record.TFIDF),
				positionFlags(record),
				stuffed,
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Term", "Frequency", "Density", "TF-IDF", "Positions", "Stuffed"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// positionFlags renders the positional flags as a compact list.
func positionFlags(record model.KeywordRecord) string {
	var flags []string
	if record.InTitle {
		flags = append(flags, "title")
	}
	if record.InH1 {
		flags = append(flags, "h1")
	}
	if record.InFirst100Words {
		flags = append(flags, "first-100")
	}
	return strings.Join(flags, ", ")
}
