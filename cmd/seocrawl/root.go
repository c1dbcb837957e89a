// Package main provides the entry point for the seocrawl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for seocrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seocrawl",
		Short: "Polite concurrent web crawler for SEO analysis",
		Long: `seocrawl crawls websites and analyzes their content for SEO.

It respects robots.txt, rate-limits per domain, and extracts titles,
headings, links, and images from each page. Keywords and phrases are
scored with TF-IDF over the crawled corpus, and sessions are stored in
a local SQLite database for later reporting.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewSessionsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
