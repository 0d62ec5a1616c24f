package schema

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/youssefhodaigui/seoaudit/internal/fetch"
	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// Validator fetches a page, extracts its structured data, and checks the
// records against the per-type field rules.
type Validator struct {
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithFetcher sets the HTTP fetcher used to retrieve pages.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(v *Validator) {
		v.fetcher = f
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// New creates a Validator with a 10 second fetch timeout.
func New(opts ...Option) *Validator {
	v := &Validator{
		fetcher: fetch.New(fetch.WithTimeout(10 * time.Second)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate fetches the target page and validates every structured data
// record found on it. Fetch and parse failures mark the whole result as
// failed; individual record problems accumulate as errors and warnings.
func (v *Validator) Validate(ctx context.Context, target string) *model.SchemaResult {
	result := model.NewSchemaResult(target)

	resp, err := v.fetcher.Get(ctx, target)
	if err != nil {
		v.logger.Debug("schema fetch failed", "url", target, "error", err)
		result.Fail(err)
		return result
	}

	records, err := Extract(bytes.NewReader(resp.Body))
	if err != nil {
		result.Fail(fmt.Errorf("parse %s: %w", target, err))
		return result
	}

	v.evaluate(result, records, resp.FinalURL.String())
	return result
}

// ValidateJSON validates a raw JSON-LD document without fetching anything.
// It serves piped input and CI checks where the markup is already at hand.
func (v *Validator) ValidateJSON(data []byte) *model.SchemaResult {
	result := model.NewSchemaResult("")

	records := decodeJSONLD(string(data))
	if len(records) == 0 {
		result.Fail(fmt.Errorf("invalid JSON-LD document"))
		return result
	}

	v.evaluate(result, records, "")
	return result
}

// evaluate runs record validation, page type detection, and scoring.
// A page without any structured data is itself the finding: the run status
// becomes warning and only the add-schema nudge is recommended.
func (v *Validator) evaluate(result *model.SchemaResult, records []model.SchemaRecord, pageURL string) {
	if len(records) == 0 {
		result.Status = model.RunWarning
		result.Warnings = append(result.Warnings, "No structured data found on the page")
		result.Recommendations = append(result.Recommendations,
			"Add appropriate schema markup for better search visibility")
		result.FinalizeScore()
		return
	}

	for _, record := range records {
		if record.Type != "" {
			result.SchemasFound = append(result.SchemasFound, record.Type)
		}
		validateRecord(result, record)
	}

	result.PageType = detectPageType(pageURL, records)
	v.recommend(result)
	result.FinalizeScore()

	v.logger.Debug("schema validation finished",
		"url", result.URL,
		"schemas", len(records),
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
		"score", result.Score)
}

// recommend suggests schema types worth adding for the detected page type.
func (v *Validator) recommend(result *model.SchemaResult) {
	wanted, ok := recommendedSchemas[result.PageType]
	if !ok {
		return
	}

	present := make(map[string]bool, len(result.SchemasFound))
	for _, name := range result.SchemasFound {
		present[strings.ToLower(name)] = true
	}

	for _, name := range wanted {
		if !present[strings.ToLower(name)] {
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("Consider adding %s schema for %s pages", name, result.PageType))
		}
	}
}

// detectPageType categorizes a page from its URL path, falling back to the
// schema types present on the page.
func detectPageType(pageURL string, records []model.SchemaRecord) string {
	path := ""
	if parsed, err := url.Parse(pageURL); err == nil {
		path = strings.ToLower(parsed.Path)
	}

	switch {
	case strings.Contains(path, "/product") || strings.Contains(path, "/shop"):
		return "product"
	case strings.Contains(path, "/blog") || strings.Contains(path, "/article") || strings.Contains(path, "/post"):
		return "article"
	case strings.Contains(path, "/contact") || strings.Contains(path, "/about"):
		return "local"
	case strings.Contains(path, "/event"):
		return "event"
	case strings.Contains(path, "/faq"):
		return "faq"
	case strings.Contains(path, "/recipe"):
		return "recipe"
	case path == "" || path == "/" || strings.Contains(path, "/home"):
		return "homepage"
	}

	for _, record := range records {
		switch strings.ToLower(record.Type) {
		case "product":
			return "product"
		case "article", "newsarticle", "blogposting":
			return "article"
		case "localbusiness":
			return "local"
		case "person":
			return "person"
		case "event":
			return "event"
		case "faqpage":
			return "faq"
		case "recipe":
			return "recipe"
		case "videoobject":
			return "video"
		}
	}
	return "general"
}
