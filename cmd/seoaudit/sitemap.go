package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/youssefhodaigui/seoaudit/internal/config"
	"github.com/youssefhodaigui/seoaudit/internal/fetch"
	"github.com/youssefhodaigui/seoaudit/internal/model"
	"github.com/youssefhodaigui/seoaudit/internal/sitemap"
)

// NewSitemapCmd creates the sitemap command.
func NewSitemapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemap <url>",
		Short: "Analyze an XML sitemap",
		Long: `Sitemap fetches and analyzes an XML sitemap or sitemap index: entry
counts, lastmod coverage, priority and changefreq usage, and structural
issues. With --check-urls it also probes a sample of the listed URLs and
reports the ones that do not resolve.

With --find the command instead discovers sitemap locations for a domain
from robots.txt and the conventional paths, and prints them.

Examples:
  # Analyze a sitemap directly
  seoaudit sitemap example.com/sitemap.xml

  # Discover sitemap locations for a domain
  seoaudit sitemap example.com --find

  # Analyze and probe the listed URLs
  seoaudit sitemap example.com/sitemap.xml --check-urls`,
		Args: cobra.ExactArgs(1),
		RunE: runSitemapCmd,
	}

	cmd.Flags().Bool("find", false,
		"Discover sitemap locations for a domain instead of analyzing one")
	cmd.Flags().Bool("check-urls", false,
		"Probe a sample of sitemap URLs and report broken entries")
	cmd.Flags().StringP("output", "o", config.FormatText,
		"Report format: text, json, html, csv, or markdown")
	cmd.Flags().StringP("save", "s", "",
		"Write the report to the specified file instead of stdout")

	return cmd
}

// runSitemapCmd executes the sitemap command.
func runSitemapCmd(cmd *cobra.Command, args []string) error {
	find, err := cmd.Flags().GetBool("find")
	if err != nil {
		return err
	}
	checkURLs, err := cmd.Flags().GetBool("check-urls")
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
	if !validFormat(format) {
		return fmt.Errorf("unknown output format: %s", format)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	target := fetch.NormalizeURL(args[0])
	analyzer := sitemap.New(
		sitemap.WithLogger(logger),
		sitemap.WithURLChecks(checkURLs),
	)

	if find {
		found := analyzer.Find(ctx, target)
		if len(found) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No sitemaps found for %s\n", target)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sitemaps found for %s:\n", target)
		for _, loc := range found {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", loc)
		}
		return nil
	}

	rep := model.NewReport(target)
	rep.Sitemap = analyzer.Analyze(ctx, target)

	if err := outputReport(format, savePath, rep); err != nil {
		return err
	}

	saveToHistory(ctx, rep, logger)
	return nil
}
