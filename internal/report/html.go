package report

import (
	"html/template"
	"io"
	"time"

	"github.com/nao1215/seocrawl/internal/model"
)

// HTMLWriter outputs a self-contained HTML report.
// This format is designed for viewing in a browser without extra assets.
//
// Design decision: We use the standard html/template package because it
// escapes page titles and keyword terms automatically, which matters when
// the report embeds text scraped from arbitrary websites.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{
		baseWriter: newBaseWriter(output),
	}
}

// htmlReportData is the template context for the full report.
type htmlReportData struct {
	Session  *model.Session
	Pages    []*model.PageRecord
	Keywords []*model.PageKeywords
	Top      int
}

var htmlReportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"fmtTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05 MST")
	},
	"head": func(kw *model.PageKeywords, n int) []model.KeywordRecord {
		return topKeywords(kw, n)
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>SEO Crawl Report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: left; }
th { background: #f0f0f0; }
.stuffed { color: #b00; font-weight: bold; }
</style>
</head>
<body>
<h1>SEO Crawl Report</h1>
<table>
<tr><th>Seeds</th><td>{{range .Session.Seeds}}{{.}} {{end}}</td></tr>
<tr><th>Started</th><td>{{fmtTime .Session.StartedAt}}</td></tr>
<tr><th>Elapsed</th><td>{{.Session.Elapsed}}</td></tr>
<tr><th>Status</th><td>{{if .Session.Stopped}}stopped early (partial results){{else}}complete{{end}}</td></tr>
</table>
<h2>Counters</h2>
<table>
<tr><th>Fetched</th><th>Failed</th><th>Skipped</th><th>Robots denied</th><th>Keywords</th><th>Links</th></tr>
<tr>
<td>{{.Session.Counters.Fetched}}</td>
<td>{{.Session.Counters.Failed}}</td>
<td>{{.Session.Counters.Skipped}}</td>
<td>{{.Session.Counters.RobotsDenied}}</td>
<td>{{.Session.Counters.Keywords}}</td>
<td>{{.Session.Counters.Links}}</td>
</tr>
</table>
{{if .Pages}}
<h2>Pages</h2>
<table>
<tr><th>URL</th><th>Status</th><th>Depth</th><th>Words</th><th>Title</th></tr>
{{range .Pages}}
<tr><td>{{.URL}}</td><td>{{.StatusCode}}</td><td>{{.Depth}}</td><td>{{.WordCount}}</td><td>{{.Title}}</td></tr>
{{end}}
</table>
{{end}}
{{range .Keywords}}
{{if .Keywords}}
<h3>Keywords: {{.PageURL}}</h3>
<table>
<tr><th>Term</th><th>Frequency</th><th>Density</th><th>TF-IDF</th></tr>
{{range head . $.Top}}
<tr{{if .Stuffed}} class="stuffed"{{end}}><td>{{.Term}}</td><td>{{.Frequency}}</td><td>{{printf "%.4f" .Density}}</td><td>{{printf "%.4f" .TFIDF}}</td></tr>
{{end}}
</table>
{{end}}
{{end}}
</body>
</html>
`))

// Write renders the full session result as an HTML document.
func (w *HTMLWriter) Write(result *model.SessionResult) (int, error) {
	counter := &countingWriter{w: w.output}
	err := htmlReportTemplate.Execute(counter, htmlReportData{
		Session:  result.Session,
		Pages:    result.Pages,
		Keywords: result.Keywords,
		Top:      topKeywordsPerPage,
	})
	return counter.n, err
}

// WriteSummary renders only the session header and counters.
func (w *HTMLWriter) WriteSummary(session *model.Session) (int, error) {
	counter := &countingWriter{w: w.output}
	err := htmlReportTemplate.Execute(counter, htmlReportData{
		Session: session,
		Top:     topKeywordsPerPage,
	})
	return counter.n, err
}
