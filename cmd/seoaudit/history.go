package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/youssefhodaigui/seoaudit/internal/config"
	"github.com/youssefhodaigui/seoaudit/internal/database"
	"github.com/youssefhodaigui/seoaudit/internal/fetch"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "List past audits from the local history database",
		Long: `History lists audits stored in the local history database, newest
first. With a URL argument it shows only the audits of that URL.

With --latest the most recent stored report for the URL is rendered in
full instead of the summary table.

Examples:
  # All stored audits
  seoaudit history

  # Audits of one URL
  seoaudit history example.com

  # Render the most recent report again
  seoaudit history example.com --latest --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Bool("latest", false,
		"Render the most recent stored report for the URL")
	cmd.Flags().StringP("output", "o", config.FormatText,
		"Report format for --latest: text, json, html, csv, or markdown")
	cmd.Flags().StringP("save", "s", "",
		"Write the --latest report to the specified file instead of stdout")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	latest, err := cmd.Flags().GetBool("latest")
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

	target := ""
	if len(args) > 0 {
		target = fetch.NormalizeURL(args[0])
	}
	if latest && target == "" {
		return fmt.Errorf("--latest requires a URL argument")
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	// The history command never creates the database. A missing file just
	// means nothing has been audited yet.
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit history found. Run an audit first.")
		return nil
	}
	defer db.Close()

	if latest {
		rep, err := db.Latest(ctx, target)
		if err != nil {
			return fmt.Errorf("no stored report for %s: %w", target, err)
		}
		return outputReport(format, savePath, rep)
	}

	entries, err := db.ListMetadata(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to list audit history: %w", err)
	}
	if len(entries) == 0 {
		if target != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No audit history for %s\n", target)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No audit history found. Run an audit first.")
		}
		return nil
	}

	printHistoryTable(cmd, entries)
	return nil
}

// printHistoryTable renders stored audit summaries as a fixed-width table.
func printHistoryTable(cmd *cobra.Command, entries []database.ReportMetadata) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%-5s %-20s %-40s %7s %9s %9s\n",
		"ID", "DATE", "URL", "SCORE", "CRITICAL", "WARNINGS")
	fmt.Fprintln(out, strings.Repeat("-", 95))

	for _, entry := range entries {
		fmt.Fprintf(out, "%-5d %-20s %-40s %7s %9d %9d\n",
			entry.ID,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			truncate(entry.URL, 40),
			scoreString(entry.OverallScore),
			entry.CriticalCount,
			entry.WarningCount,
		)
	}
}

// scoreString colors an overall score: green at 80 and above, yellow at
// 50 and above, red below. A negative score means no section scored.
func scoreString(score int) string {
	switch {
	case score < 0:
		return "-"
	case score >= 80:
		return color.GreenString("%d", score)
	case score >= 50:
		return color.YellowString("%d", score)
	default:
		return color.RedString("%d", score)
	}
}

// truncate shortens s to max characters, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
