package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/youssefhodaigui/seoaudit/internal/audit"
	"github.com/youssefhodaigui/seoaudit/internal/config"
	"github.com/youssefhodaigui/seoaudit/internal/fetch"
	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// NewTechnicalCmd creates the technical command.
func NewTechnicalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "technical <url>",
		Short: "Run the technical on-page audit",
		Long: `Technical fetches a page and runs the on-page checks: title, meta
description, heading structure, image alt text, canonical URL, robots
meta directives, schema markup presence, and link counts.

Examples:
  # Audit a page
  seoaudit technical example.com/products

  # JSON output saved to a file
  seoaudit technical example.com --output json --save technical.json`,
		Args: cobra.ExactArgs(1),
		RunE: runTechnicalCmd,
	}

	cmd.Flags().StringP("output", "o", config.FormatText,
		"Report format: text, json, html, csv, or markdown")
	cmd.Flags().StringP("save", "s", "",
		"Write the report to the specified file instead of stdout")

	return cmd
}

// runTechnicalCmd executes the technical command.
func runTechnicalCmd(cmd *cobra.Command, args []string) error {
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
	rep := model.NewReport(target)
	rep.Technical = audit.New(audit.WithLogger(logger)).Audit(ctx, target, nil)

	if err := outputReport(format, savePath, rep); err != nil {
		return err
	}

	saveToHistory(ctx, rep, logger)
	return nil
}

// validFormat reports whether name is an accepted output format.
func validFormat(name string) bool {
	for _, f := range config.ValidFormats() {
		if f == name {
			return true
		}
	}
	return false
}
