package audit

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/youssefhodaigui/seoaudit/internal/fetch"
	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// Auditor runs the technical audit checks against a URL.
type Auditor struct {
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithFetcher replaces the default HTTP fetcher.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(a *Auditor) {
		a.fetcher = f
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// New creates an Auditor with a 10 second fetch timeout.
func New(opts ...Option) *Auditor {
	a := &Auditor{
		fetcher: fetch.New(fetch.WithTimeout(10 * time.Second)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Audit fetches the target page and runs the selected checks over it.
// A nil or empty kinds slice runs every check.
//
// The primary fetch is fail-fast: if the page cannot be retrieved or parsed,
// the result carries an error status, no checks, and a zero score.
func (a *Auditor) Audit(ctx context.Context, target string, kinds []model.CheckKind) *model.AuditResult {
	result := model.NewAuditResult(target)

	resp, err := a.fetcher.Get(ctx, target)
	if err != nil {
		a.logger.Debug("technical audit fetch failed", "url", target, "error", err)
		result.Fail(err)
		return result
	}

	page, err := ParsePage(bytes.NewReader(resp.Body), resp.FinalURL)
	if err != nil {
		a.logger.Debug("technical audit parse failed", "url", target, "error", err)
		result.Fail(err)
		return result
	}

	if len(kinds) == 0 {
		kinds = model.AllCheckKinds()
	}
	for _, kind := range kinds {
		handler, ok := checkHandlers[kind]
		if !ok {
			continue
		}
		result.AddCheck(kind, handler(page))
	}

	result.FinalizeScore()
	a.logger.Debug("technical audit completed",
		"url", target,
		"score", result.Score,
		"critical", result.Issues.Critical,
		"warnings", result.Issues.Warnings,
	)
	return result
}
