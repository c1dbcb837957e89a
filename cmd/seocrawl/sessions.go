package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSessionsCmd creates the sessions command.
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored crawl sessions",
		Long: `Sessions lists the crawl sessions stored in the database, most recent
first, with their ids and terminal counters.

Use the id with "seocrawl report" to render a stored session.`,
		Args: cobra.NoArgs,
		RunE: runSessionsCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Directory of the SQLite database (default: XDG data directory)")

	return cmd
}

// runSessionsCmd executes the sessions command.
func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := db.ListSessions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No stored sessions.")
		return nil
	}

	fmt.Fprintf(out, "%4s  %-19s  %7s  %6s  %7s  %8s  %s\n",
		"ID", "STARTED", "FETCHED", "FAILED", "SKIPPED", "KEYWORDS", "SEEDS")
	for _, session := range sessions {
		status := ""
		if session.Stopped {
			status = " (stopped)"
		}
		fmt.Fprintf(out, "%4d  %-19s  %7d  %6d  %7d  %8d  %s%s\n",
			session.ID,
			session.StartedAt.Format("2006-01-02 15:04:05"),
			session.Counters.Fetched,
			session.Counters.Failed,
			session.Counters.Skipped,
			session.Counters.Keywords,
			strings.Join(session.Seeds, ", "),
			status,
		)
	}
	return nil
}
