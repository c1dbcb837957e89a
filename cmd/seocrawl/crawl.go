package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/seocrawl/internal/config"
	"github.com/nao1215/seocrawl/internal/crawler"
	"github.com/nao1215/seocrawl/internal/database"
	"github.com/nao1215/seocrawl/internal/log"
	"github.com/nao1215/seocrawl/internal/model"
	"github.com/nao1215/seocrawl/internal/pipeline"
	"github.com/nao1215/seocrawl/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url> [url...]",
		Short: "Crawl one or more sites and analyze their SEO keywords",
		Long: `Crawl starts from the given seed URLs, follows internal links up to the
configured depth and page limits, and analyzes every fetched page.

For each page it extracts the title, headings, meta description, links,
and images, then scores keywords and phrases with TF-IDF over the whole
session. robots.txt is respected by default and requests to the same
domain are spaced by the crawl delay.

Press Ctrl+C once to stop gracefully and keep partial results; press it
again to abort immediately.

Examples:
  # Crawl a single site with defaults
  seocrawl crawl https://example.com

  # Crawl two sites with a larger budget and faster pacing
  seocrawl crawl --max-pages 1000 --delay 0.5s https://a.com https://b.com

  # Write a JSON report to a file and skip the database
  seocrawl crawl --format json --output report.json --no-save https://example.com

  # Use a custom configuration file
  seocrawl crawl -c myconfig.yml https://example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl budget flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to fetch in the session")
	cmd.Flags().IntP("max-depth", "d", config.DefaultMaxDepth,
		"Maximum link distance from the seed URLs")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of concurrent fetch workers")

	// Politeness flags
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Minimum delay between requests to the same domain")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Int("retries", config.DefaultMaxRetries,
		"Retries for transient fetch errors (timeouts, 5xx)")
	cmd.Flags().Bool("respect-robots", true,
		"Respect robots.txt rules and crawl-delay directives")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Scope flags
	cmd.Flags().Bool("follow-external", false,
		"Follow links that leave the seed domains")
	cmd.Flags().Bool("allow-subdomains", true,
		"Treat subdomains of seed domains as internal")
	cmd.Flags().StringSlice("exclude", nil,
		"Regex patterns for URLs to skip (replaces the defaults)")

	// Analyzer flags
	cmd.Flags().String("language", config.DefaultStopWordsLanguage,
		"Stop-word language (english or spanish)")
	cmd.Flags().Int("ngram", config.DefaultMaxNGramSize,
		"Largest phrase length to analyze")
	cmd.Flags().Int("min-frequency", config.DefaultMinKeywordFrequency,
		"Minimum per-page occurrences for a keyword to be recorded")
	cmd.Flags().Float64("stuffing-threshold", config.DefaultStuffingThreshold,
		"Keyword density ratio above which stuffing is flagged")

	// Persistence flags
	cmd.Flags().String("db-dir", "",
		"Directory for the SQLite database (default: XDG data directory)")
	cmd.Flags().Bool("no-save", false,
		"Do not persist the session to the database")

	// Report flags
	cmd.Flags().StringP("format", "f", "text",
		"Report format: text, json, markdown, csv, or html")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to a file instead of stdout")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seocrawl.yml in current or home directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	return runCrawl(cmd, cfg, logger)
}

// buildConfig creates a Config from defaults, the optional configuration
// file, and command flags, in that order of increasing precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Seeds = args
	cfg.Verbose = getVerboseFlag(cmd)

	// Load the configuration file before flags so explicit flags win.
	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	// Persistence defaults to the XDG data directory unless disabled.
	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	if noSave {
		cfg.SaveToDB = false
		cfg.DBDir = ""
	} else if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
		cfg.SaveToDB = true
	}

	return cfg, nil
}

// applyFlags copies explicitly set flag values onto the config.
// Only changed flags are applied so the configuration file keeps
// precedence over flag defaults.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	intFlags := map[string]*int{
		"max-pages":     &cfg.MaxPages,
		"max-depth":     &cfg.MaxDepth,
		"concurrency":   &cfg.Concurrency,
		"retries":       &cfg.MaxRetries,
		"ngram":         &cfg.MaxNGramSize,
		"min-frequency": &cfg.MinKeywordFrequency,
	}
	for name, dst := range intFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	durationFlags := map[string]*time.Duration{
		"delay":   &cfg.CrawlDelay,
		"timeout": &cfg.Timeout,
	}
	for name, dst := range durationFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetDuration(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	boolFlags := map[string]*bool{
		"respect-robots":   &cfg.RespectRobots,
		"follow-external":  &cfg.FollowExternal,
		"allow-subdomains": &cfg.AllowSubdomains,
	}
	for name, dst := range boolFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	stringFlags := map[string]*string{
		"user-agent": &cfg.UserAgent,
		"language":   &cfg.StopWordsLanguage,
		"db-dir":     &cfg.DBDir,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if flags.Changed("stuffing-threshold") {
		v, err := flags.GetFloat64("stuffing-threshold")
		if err != nil {
			return err
		}
		cfg.StuffingThreshold = v
	}
	if flags.Changed("exclude") {
		v, err := flags.GetStringSlice("exclude")
		if err != nil {
			return err
		}
		cfg.ExcludePatterns = v
	}

	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity setting.
// Attribute values are clamped so page bodies and long URLs cannot flood
// the output.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewLogger(os.Stderr, verbose)
}

// runCrawl executes the crawl pipeline.
func runCrawl(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	controller, err := crawler.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create crawler: %w", err)
	}

	// First interrupt stops the crawl gracefully so partial results are
	// finalized, persisted, and reported. A second interrupt aborts.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("stopping crawl, partial results will be kept...")
		controller.Stop()
		<-sigCh
		logger.Warn("aborting")
		cancel()
	}()

	var db *database.SEODB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Debug("database opened", "dir", cfg.DBDir)
	}

	writer, closeOutput, err := buildReportWriter(cmd)
	if err != nil {
		return err
	}
	defer closeOutput()

	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddSteps(
		pipeline.NewCrawlStep(controller),
		pipeline.NewFinalizeStep(),
		pipeline.NewPersistStep(db, logger),
		pipeline.NewReportStep(writer),
	)

	result := &model.SessionResult{}
	startTime := time.Now()
	if err := p.Execute(ctx, result); err != nil {
		return err
	}

	logger.Info("session finished",
		"elapsed", time.Since(startTime).Round(time.Millisecond),
		"fetched", result.Session.Counters.Fetched,
		"failed", result.Session.Counters.Failed,
	)
	return nil
}

// buildReportWriter constructs the report writer from the format and
// output flags. The returned func closes the output file, if any.
func buildReportWriter(cmd *cobra.Command) (report.Writer, func(), error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, nil, err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}

	output, closeOutput, err := openOutput(outputPath, cmd.OutOrStdout())
	if err != nil {
		return nil, nil, err
	}

	writer, err := newWriter(format, output, getVerboseFlag(cmd))
	if err != nil {
		closeOutput()
		return nil, nil, err
	}
	return writer, closeOutput, nil
}

// openOutput opens the report destination. An empty path means the
// fallback writer (stdout). Parent directories are created as needed.
func openOutput(path string, fallback io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return fallback, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newWriter creates a report writer for the named format.
func newWriter(format string, output io.Writer, verbose bool) (report.Writer, error) {
	switch format {
	case "text":
		return report.NewTextWriter(output, report.WithVerbose(verbose)), nil
	case "json":
		return report.NewJSONWriter(output, report.WithPrettyPrint()), nil
	case "markdown", "md":
		return report.NewMarkdownWriter(output), nil
	case "csv":
		return report.NewCSVWriter(output), nil
	case "html":
		return report.NewHTMLWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown report format: %s", format)
	}
}
