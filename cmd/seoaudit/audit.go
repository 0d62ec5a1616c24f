package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/youssefhodaigui/seoaudit/internal/config"
	"github.com/youssefhodaigui/seoaudit/internal/fetch"
	"github.com/youssefhodaigui/seoaudit/internal/model"
	"github.com/youssefhodaigui/seoaudit/internal/pipeline"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <url>",
		Short: "Run a full SEO audit against a URL",
		Long: `Audit runs every component against a URL and produces one combined report:

- Technical on-page checks (title, meta description, headings, images, links)
- Core Web Vitals via the PageSpeed Insights API
- Structured data validation (JSON-LD and microdata)
- Sitemap discovery and analysis
- Mobile-friendliness heuristics

Each component fetches for itself, so one failing component never blocks
the others; its section simply records the error.

Examples:
  # Full audit with the default text report
  seoaudit audit example.com

  # JSON report written to a file
  seoaudit audit example.com --output json --save report.json

  # Only the technical and mobile components
  seoaudit audit example.com --checks technical,mobile

  # Desktop Core Web Vitals with an API key
  seoaudit audit example.com --strategy desktop --api-key $PAGESPEED_KEY`,
		Args: cobra.ExactArgs(1),
		RunE: runAuditCmd,
	}

	cmd.Flags().StringP("output", "o", config.FormatText,
		"Report format: text, json, html, csv, or markdown")
	cmd.Flags().StringP("save", "s", "",
		"Write the report to the specified file instead of stdout")
	cmd.Flags().StringSliceP("checks", "k", nil,
		"Components to run: technical, cwv, schema, sitemap, mobile (default all)")
	cmd.Flags().String("strategy", config.StrategyMobile,
		"Core Web Vitals strategy: mobile or desktop")
	cmd.Flags().String("api-key", "",
		"PageSpeed Insights API key (falls back to the config file)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoaudit in current or home directory)")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildAuditConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	target := cfg.Targets[0]
	rep := model.NewReport(target)

	fmt.Fprintf(os.Stderr, "Auditing %s...\n", target)
	startTime := time.Now()

	p := pipeline.DefaultPipeline(cfg, logger)
	if err := p.Execute(ctx, rep); err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Audit completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))

	if err := outputReport(cfg.OutputFormat, cfg.OutputFile, rep); err != nil {
		return err
	}

	saveToHistory(ctx, rep, logger)
	return nil
}

// buildAuditConfig creates a Config from the audit command flags.
func buildAuditConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	target := fetch.NormalizeURL(args[0])
	cfg.Targets = []string{target}

	var err error
	cfg.OutputFormat, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	cfg.OutputFile, err = cmd.Flags().GetString("save")
	if err != nil {
		return nil, err
	}
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

	for _, check := range cfg.Checks {
		if !knownComponent(check) {
			return nil, fmt.Errorf("unknown check %q (valid: %v)", check, pipeline.ComponentNames())
		}
	}

	// The config file can supply the API key per site, so a key never has
	// to appear in shell history.
	site, err := loadSiteConfig(cfg.ConfigFilePath, hostOf(target))
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		cfg.APIKey = site.APIKey
	}

	return cfg, nil
}

// knownComponent reports whether name is a valid --checks entry.
func knownComponent(name string) bool {
	for _, c := range pipeline.ComponentNames() {
		if c == name {
			return true
		}
	}
	return false
}

// hostOf extracts the hostname from a normalized URL for config lookups.
func hostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	return u.Hostname()
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
