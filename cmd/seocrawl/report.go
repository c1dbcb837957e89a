package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nao1215/seocrawl/internal/config"
	"github.com/nao1215/seocrawl/internal/database"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <session-id>",
		Short: "Render a stored crawl session",
		Long: `Report loads a past crawl session from the database and renders it in
the requested format.

Use "seocrawl sessions" to list stored sessions and their ids.

Examples:
  # Human-readable report of session 3
  seocrawl report 3

  # Full keyword export for spreadsheets
  seocrawl report 3 --format csv --output keywords.csv

  # Aggregate top keywords across all pages of the session
  seocrawl report 3 --top 20

  # Pages with identical text content
  seocrawl report 3 --duplicates`,
		Args: cobra.ExactArgs(1),
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("format", "f", "text",
		"Report format: text, json, markdown, csv, or html")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().String("db-dir", "",
		"Directory of the SQLite database (default: XDG data directory)")
	cmd.Flags().Int("top", 0,
		"Show the N top keywords aggregated across the session instead of the full report")
	cmd.Flags().Bool("duplicates", false,
		"Show groups of pages with identical text content instead of the full report")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	sessionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", args[0], err)
	}

	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return err
	}
	if top > 0 {
		return writeTopKeywords(cmd, db, sessionID, top)
	}

	duplicates, err := cmd.Flags().GetBool("duplicates")
	if err != nil {
		return err
	}
	if duplicates {
		return writeDuplicates(cmd, db, sessionID)
	}

	result, err := db.GetSessionResult(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if result == nil {
		return fmt.Errorf("session %d not found", sessionID)
	}

	writer, closeOutput, err := buildReportWriter(cmd)
	if err != nil {
		return err
	}
	defer closeOutput()

	if _, err := writer.Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// writeTopKeywords prints the session-wide keyword aggregation.
func writeTopKeywords(cmd *cobra.Command, db *database.SEODB, sessionID int64, limit int) error {
	keywords, err := db.TopKeywords(cmd.Context(), sessionID, limit)
	if err != nil {
		return fmt.Errorf("failed to aggregate keywords: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-30s %6s %6s %10s\n", "TERM", "PAGES", "FREQ", "MAX TFIDF")
	for _, kw := range keywords {
		fmt.Fprintf(out, "%-30s %6d %6d %10.4f\n",
			kw.Term, kw.Pages, kw.TotalFrequency, kw.MaxTFIDF)
	}
	return nil
}

// writeDuplicates prints groups of pages sharing a content hash.
func writeDuplicates(cmd *cobra.Command, db *database.SEODB, sessionID int64) error {
	groups, err := db.DuplicatePages(cmd.Context(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to find duplicates: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintln(out, "No duplicate content found.")
		return nil
	}
	for _, group := range groups {
		fmt.Fprintf(out, "hash %s (%d pages):\n", group.ContentHash, len(group.URLs))
		for _, u := range group.URLs {
			fmt.Fprintf(out, "  %s\n", u)
		}
	}
	return nil
}

// openDatabase opens the database read-write without creating it, so
// reporting against a missing database fails with a clear error.
func openDatabase(cmd *cobra.Command) (*database.SEODB, error) {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database in %s (run a crawl first?): %w", dbDir, err)
	}
	return db, nil
}
