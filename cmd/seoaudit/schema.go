package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/youssefhodaigui/seoaudit/internal/config"
	"github.com/youssefhodaigui/seoaudit/internal/fetch"
	"github.com/youssefhodaigui/seoaudit/internal/model"
	"github.com/youssefhodaigui/seoaudit/internal/schema"
)

// NewSchemaCmd creates the schema command.
func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <url>",
		Short: "Validate structured data markup",
		Long: `Schema extracts JSON-LD and microdata markup from a page and validates
it: required and recommended fields per schema type, breadcrumb and FAQ
structure, and offer completeness. It also suggests schema types that fit
the detected page type.

Examples:
  # Validate a product page
  seoaudit schema example.com/products/widget

  # JSON output saved to a file
  seoaudit schema example.com --output json --save schema.json`,
		Args: cobra.ExactArgs(1),
		RunE: runSchemaCmd,
	}

	cmd.Flags().StringP("output", "o", config.FormatText,
		"Report format: text, json, html, csv, or markdown")
	cmd.Flags().StringP("save", "s", "",
		"Write the report to the specified file instead of stdout")

	return cmd
}

// runSchemaCmd executes the schema command.
func runSchemaCmd(cmd *cobra.Command, args []string) error {
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
	rep.Schema = schema.New(schema.WithLogger(logger)).Validate(ctx, target)

	if err := outputReport(format, savePath, rep); err != nil {
		return err
	}

	saveToHistory(ctx, rep, logger)
	return nil
}
