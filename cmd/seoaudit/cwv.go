package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/youssefhodaigui/seoaudit/internal/config"
	"github.com/youssefhodaigui/seoaudit/internal/fetch"
	"github.com/youssefhodaigui/seoaudit/internal/model"
	"github.com/youssefhodaigui/seoaudit/internal/vitals"
)

// NewCWVCmd creates the cwv command.
func NewCWVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cwv <url> [url...]",
		Short: "Retrieve Core Web Vitals through the PageSpeed Insights API",
		Long: `CWV retrieves lab and field Core Web Vitals for one or more URLs.

With a single URL the command reports the metric readings, their
classification against the fixed thresholds, and recommendations.
With several URLs it compares them and ranks the best performer for
each metric.

The PageSpeed API applies strict anonymous quotas; pass an API key for
anything beyond occasional use.

Examples:
  # Mobile vitals for one page
  seoaudit cwv example.com

  # Desktop vitals with an API key
  seoaudit cwv example.com --strategy desktop --api-key $PAGESPEED_KEY

  # Compare three competitors
  seoaudit cwv example.com rival-a.com rival-b.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCWVCmd,
	}

	cmd.Flags().String("strategy", config.StrategyMobile,
		"Analysis strategy: mobile or desktop")
	cmd.Flags().String("api-key", "",
		"PageSpeed Insights API key (falls back to the config file)")
	cmd.Flags().StringP("output", "o", config.FormatText,
		"Report format: text, json, html, csv, or markdown")
	cmd.Flags().StringP("save", "s", "",
		"Write the report to the specified file instead of stdout")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoaudit in current or home directory)")

	return cmd
}

// runCWVCmd executes the cwv command.
func runCWVCmd(cmd *cobra.Command, args []string) error {
	strategy, err := cmd.Flags().GetString("strategy")
	if err != nil {
		return err
	}
	if strategy != config.StrategyMobile && strategy != config.StrategyDesktop {
		return fmt.Errorf("invalid strategy %q (valid: mobile, desktop)", strategy)
	}

	apiKey, err := cmd.Flags().GetString("api-key")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	savePath, err := cmd.Flags().GetString("save")
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if !validFormat(format) {
		return fmt.Errorf("unknown output format: %s", format)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	targets := make([]string, len(args))
	for i, arg := range args {
		targets[i] = fetch.NormalizeURL(arg)
	}

	if apiKey == "" {
		site, err := loadSiteConfig(configPath, hostOf(targets[0]))
		if err != nil {
			return err
		}
		apiKey = site.APIKey
	}

	client := vitals.NewClient(
		vitals.WithAPIKey(apiKey),
		vitals.WithLogger(logger),
	)

	if len(targets) > 1 {
		comparison := client.Compare(ctx, targets, strategy)
		return outputComparison(format, savePath, comparison)
	}

	rep := model.NewReport(targets[0])
	rep.Vitals = client.Analyze(ctx, targets[0], strategy)

	if err := outputReport(format, savePath, rep); err != nil {
		return err
	}

	saveToHistory(ctx, rep, logger)
	return nil
}

// outputComparison renders a multi-URL comparison. Text output shows the
// per-metric rankings; every other format gets the JSON document.
func outputComparison(format, savePath string, comparison *model.Comparison) error {
	output := os.Stdout
	if savePath != "" {
		f, err := openOutputFile(savePath)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	if format == config.FormatText {
		fmt.Fprintf(output, "CORE WEB VITALS COMPARISON (%s)\n", comparison.Strategy)
		fmt.Fprintf(output, "%d URLs analyzed\n\n", len(comparison.Results))
		for _, metric := range vitals.ComparisonMetrics() {
			ranked, ok := comparison.Rankings[metric]
			if !ok {
				continue
			}
			fmt.Fprintf(output, "%s:\n", metric)
			for i, entry := range ranked {
				fmt.Fprintf(output, "  %d. %-40s %.2f\n", i+1, entry.URL, entry.Value)
			}
			fmt.Fprintln(output)
		}
		return nil
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(comparison)
}
