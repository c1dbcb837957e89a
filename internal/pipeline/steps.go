package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/seocrawl/internal/analyzer"
	"github.com/nao1215/seocrawl/internal/crawler"
	"github.com/nao1215/seocrawl/internal/database"
	"github.com/nao1215/seocrawl/internal/model"
	"github.com/nao1215/seocrawl/internal/report"
)

// CrawlStep runs the crawl itself and fills the session result.
// It is always the first step of a crawl pipeline; the later steps only
// transform, persist, or render what this one produced.
type CrawlStep struct {
	controller *crawler.Controller
}

// NewCrawlStep creates a CrawlStep around an already constructed controller.
// The caller keeps the controller reference so it can wire signal handling
// to Controller.Stop.
func NewCrawlStep(controller *crawler.Controller) *CrawlStep {
	return &CrawlStep{controller: controller}
}

// Name returns the step's name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do runs the crawl and copies the outcome into the shared result.
// A stopped session is not an error; partial results flow to later steps.
func (s *CrawlStep) Do(ctx context.Context, result *model.SessionResult) error {
	crawled, err := s.controller.Run(ctx)
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}
	*result = *crawled
	return nil
}

// FinalizeStep computes corpus-wide TF-IDF scores and the final keyword
// ranking once all pages of the session are known.
type FinalizeStep struct{}

// NewFinalizeStep creates a FinalizeStep.
func NewFinalizeStep() *FinalizeStep {
	return &FinalizeStep{}
}

// Name returns the step's name.
func (s *FinalizeStep) Name() string {
	return "finalize"
}

// Do scores and sorts the keyword records in place.
func (s *FinalizeStep) Do(_ context.Context, result *model.SessionResult) error {
	analyzer.FinalizeSession(result.Keywords)
	return nil
}

// PersistStep saves the session result to the SQLite database.
// When no database is configured the step is a no-op, so the pipeline
// shape stays the same whether or not persistence is enabled.
type PersistStep struct {
	db     *database.SEODB
	logger *slog.Logger
}

// NewPersistStep creates a PersistStep. A nil db disables persistence.
func NewPersistStep(db *database.SEODB, logger *slog.Logger) *PersistStep {
	return &PersistStep{db: db, logger: logger}
}

// Name returns the step's name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do saves the session and records the assigned id on the result.
func (s *PersistStep) Do(ctx context.Context, result *model.SessionResult) error {
	if s.db == nil {
		return nil
	}

	id, err := s.db.SaveSession(ctx, result)
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("session saved", "session_id", id, "path", s.db.Path())
	}
	return nil
}

// ReportStep renders the session result through a report writer.
// Combined with report.MultiWriter this fans out to several formats.
type ReportStep struct {
	writer report.Writer
}

// NewReportStep creates a ReportStep. A nil writer disables reporting.
func NewReportStep(writer report.Writer) *ReportStep {
	return &ReportStep{writer: writer}
}

// Name returns the step's name.
func (s *ReportStep) Name() string {
	return "report"
}

// Do writes the report.
func (s *ReportStep) Do(_ context.Context, result *model.SessionResult) error {
	if s.writer == nil {
		return nil
	}
	if _, err := s.writer.Write(result); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
