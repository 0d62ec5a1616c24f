package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/youssefhodaigui/seoaudit/internal/config"
	"github.com/youssefhodaigui/seoaudit/internal/database"
	"github.com/youssefhodaigui/seoaudit/internal/fetch"
	"github.com/youssefhodaigui/seoaudit/internal/model"
	"github.com/youssefhodaigui/seoaudit/internal/pipeline"
	"github.com/youssefhodaigui/seoaudit/internal/report"
)

// NewBulkCmd creates the bulk command.
func NewBulkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk <file>",
		Short: "Audit a list of URLs from a file",
		Long: `Bulk reads URLs from a file, one per line, audits each of them, and
writes the combined results to a file. Blank lines are skipped.

Audits run sequentially by default with a pause between requests, which
keeps PageSpeed quota usage spread out. Raise --concurrency to audit
several URLs at once.

Examples:
  # Audit every URL in the file, one summary row per URL
  seoaudit bulk urls.txt --save results.csv

  # Full JSON reports, three audits at a time
  seoaudit bulk urls.txt --save results.json --output json --concurrency 3

  # Only the technical and mobile components
  seoaudit bulk urls.txt --save results.csv --checks technical,mobile`,
		Args: cobra.ExactArgs(1),
		RunE: runBulkCmd,
	}

	cmd.Flags().StringP("save", "s", "",
		"Output file for the combined results (required)")
	cmd.Flags().StringP("output", "o", config.FormatCSV,
		"Bulk output format: csv or json")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of URLs to audit concurrently")
	cmd.Flags().StringSliceP("checks", "k", nil,
		"Components to run: technical, cwv, schema, sitemap, mobile (default all)")
	cmd.Flags().String("strategy", config.StrategyMobile,
		"Core Web Vitals strategy: mobile or desktop")
	cmd.Flags().String("api-key", "",
		"PageSpeed Insights API key (falls back to the config file)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoaudit in current or home directory)")

	_ = cmd.MarkFlagRequired("save")

	return cmd
}

// runBulkCmd executes the bulk command.
func runBulkCmd(cmd *cobra.Command, args []string) error {
	savePath, err := cmd.Flags().GetString("save")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if format != config.FormatCSV && format != config.FormatJSON {
		return fmt.Errorf("unknown bulk output format: %s (valid: csv, json)", format)
	}
	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}
	if concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	cfg, err := buildBulkConfig(cmd)
	if err != nil {
		return err
	}

	targets, err := readURLFile(args[0])
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no URLs found in %s", args[0])
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Auditing %d URLs...\n", len(targets))
	startTime := time.Now()

	processor := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(cfg, logger)
		},
		pipeline.WithBatchLogger(logger),
		pipeline.WithConcurrency(concurrency),
	)

	bar := pb.StartNew(len(targets))

	var mu sync.Mutex
	results := make([]*model.Report, len(targets))
	err = processor.ProcessBatchWithCallback(ctx, targets, func(rep *model.Report, index int) {
		mu.Lock()
		results[index] = rep
		mu.Unlock()
		bar.Increment()
	})
	bar.Finish()
	if err != nil {
		return fmt.Errorf("bulk audit failed: %w", err)
	}

	if err := writeBulkResults(format, savePath, results); err != nil {
		return err
	}

	completed, failed := 0, 0
	for _, rep := range results {
		if rep == nil || rep.Error != "" {
			failed++
			continue
		}
		completed++
	}

	fmt.Fprintf(os.Stderr, "Finished in %s\n", time.Since(startTime).Round(time.Second))
	fmt.Fprintf(os.Stderr, "  %s  %s\n",
		color.GreenString("%d completed", completed),
		color.RedString("%d failed", failed))
	fmt.Fprintf(os.Stderr, "Results written to %s\n", savePath)

	saveBulkHistory(ctx, results, logger)
	return nil
}

// buildBulkConfig creates the shared audit Config from the bulk command flags.
func buildBulkConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.Checks, err = cmd.Flags().GetStringSlice("checks")
	if err != nil {
		return nil, err
	}
	cfg.Strategy, err = cmd.Flags().GetString("strategy")
	if err != nil {
		return nil, err
	}
	cfg.APIKey, err = cmd.Flags().GetString("api-key")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if cfg.Strategy != config.StrategyMobile && cfg.Strategy != config.StrategyDesktop {
		return nil, fmt.Errorf("invalid strategy %q (valid: mobile, desktop)", cfg.Strategy)
	}
	for _, check := range cfg.Checks {
		if !knownComponent(check) {
			return nil, fmt.Errorf("unknown check %q (valid: %v)", check, pipeline.ComponentNames())
		}
	}

	// Bulk runs span many hosts, so only the config file defaults apply.
	if cfg.APIKey == "" {
		site, err := loadSiteConfig(cfg.ConfigFilePath, "")
		if err != nil {
			return nil, err
		}
		cfg.APIKey = site.APIKey
	}

	return cfg, nil
}

// readURLFile reads one URL per line, skipping blank lines, and
// normalizes each entry.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		targets = append(targets, fetch.NormalizeURL(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}
	return targets, nil
}

// writeBulkResults writes the combined reports in the requested format.
func writeBulkResults(format, savePath string, results []*model.Report) error {
	f, err := openOutputFile(savePath)
	if err != nil {
		return err
	}
	defer f.Close()

	reports := make([]*model.Report, 0, len(results))
	for _, rep := range results {
		if rep != nil {
			reports = append(reports, rep)
		}
	}

	switch format {
	case config.FormatJSON:
		_, err = report.NewJSONWriter(f, report.WithPrettyPrint()).WriteBulk(reports)
	default:
		_, err = report.NewCSVWriter(f).WriteBulk(reports)
	}
	if err != nil {
		return fmt.Errorf("failed to write bulk results: %w", err)
	}
	return nil
}

// saveBulkHistory persists every completed report to the history database
// over a single connection.
func saveBulkHistory(ctx context.Context, results []*model.Report, logger *slog.Logger) {
	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "error", err)
		return
	}
	defer db.Close()

	for _, rep := range results {
		if rep == nil {
			continue
		}
		if err := db.Save(ctx, rep); err != nil {
			logger.Warn("failed to save report to history", "url", rep.URL, "error", err)
		}
	}
}
