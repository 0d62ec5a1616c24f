// Package main provides the entry point for the seoaudit CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/youssefhodaigui/seoaudit/internal/config"
	"github.com/youssefhodaigui/seoaudit/internal/database"
	"github.com/youssefhodaigui/seoaudit/internal/log"
	"github.com/youssefhodaigui/seoaudit/internal/model"
	"github.com/youssefhodaigui/seoaudit/internal/report"
)

// NewRootCmd creates the root command for seoaudit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seoaudit",
		Short: "Website SEO auditing toolkit",
		Long: `seoaudit audits websites for search engine optimization issues.

It runs technical on-page checks, retrieves Core Web Vitals through the
PageSpeed Insights API, validates structured data markup, analyzes XML
sitemaps, and checks mobile-friendliness. Completed audits are stored in
a local history database so score changes can be tracked over time.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Bare invocation shows help but still exits non-zero, so
			// scripts notice a missing subcommand.
			if err := cmd.Help(); err != nil {
				return err
			}
			return errors.New("no command specified")
		},
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewTechnicalCmd())
	cmd.AddCommand(NewCWVCmd())
	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewSitemapCmd())
	cmd.AddCommand(NewMobileCmd())
	cmd.AddCommand(NewBulkCmd())
	cmd.AddCommand(NewHistoryCmd())
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

// setupLogger creates the sanitizing structured logger for a command run.
// The secure handler masks API keys and auth headers even in verbose mode.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, verbose)
}

// openOutputFile creates the report destination file, making parent
// directories as needed. Reports are written with owner-only permissions
// because they may describe internal staging sites.
func openOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// outputReport renders the report in the requested format, to the save
// file when one is given and to stdout otherwise.
func outputReport(format, savePath string, rep *model.Report) error {
	output := os.Stdout
	if savePath != "" {
		f, err := openOutputFile(savePath)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	writer, err := report.New(format, output)
	if err != nil {
		return err
	}

	if _, err := writer.Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// saveToHistory persists a completed report to the history database.
// Persistence failures are logged, never raised; a broken history file
// must not fail an otherwise successful audit.
func saveToHistory(ctx context.Context, rep *model.Report, logger *slog.Logger) {
	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "error", err)
		return
	}
	defer db.Close()

	if err := db.Save(ctx, rep); err != nil {
		logger.Warn("failed to save report to history", "url", rep.URL, "error", err)
		return
	}
	logger.Debug("report saved to history", "url", rep.URL, "id", rep.ID)
}

// loadSiteConfig loads the .seoaudit configuration file and returns the
// merged site configuration for the host. An explicitly specified path
// that does not exist is an error; a missing default file is not.
func loadSiteConfig(configPath, host string) (config.SiteConfig, error) {
	found := config.FindConfigFile(configPath)
	if found == "" {
		if configPath != "" {
			return config.SiteConfig{}, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return config.SiteConfig{}, nil
	}

	cf, err := config.LoadConfigFile(found)
	if err != nil {
		return config.SiteConfig{}, fmt.Errorf("failed to load config file %s: %w", found, err)
	}
	return cf.GetSiteConfig(host), nil
}
