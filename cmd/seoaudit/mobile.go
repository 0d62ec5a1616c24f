package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/youssefhodaigui/seoaudit/internal/config"
	"github.com/youssefhodaigui/seoaudit/internal/fetch"
	"github.com/youssefhodaigui/seoaudit/internal/mobile"
	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// NewMobileCmd creates the mobile command.
func NewMobileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mobile <url>",
		Short: "Check mobile-friendliness heuristics",
		Long: `Mobile fetches a page with a phone user agent and runs static
mobile-friendliness checks: viewport configuration, responsive design
signals, touch target sizing, font sizes, and resource weight. It also
compares the mobile and desktop renderings of the page.

Examples:
  # Check a page
  seoaudit mobile example.com

  # JSON output saved to a file
  seoaudit mobile example.com --output json --save mobile.json`,
		Args: cobra.ExactArgs(1),
		RunE: runMobileCmd,
	}

	cmd.Flags().StringP("output", "o", config.FormatText,
		"Report format: text, json, html, csv, or markdown")
	cmd.Flags().StringP("save", "s", "",
		"Write the report to the specified file instead of stdout")

	return cmd
}

// runMobileCmd executes the mobile command.
func runMobileCmd(cmd *cobra.Command, args []string) error {
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
	rep.Mobile = mobile.New(mobile.WithLogger(logger)).Check(ctx, target)

	if err := outputReport(format, savePath, rep); err != nil {
		return err
	}

	saveToHistory(ctx, rep, logger)
	return nil
}
