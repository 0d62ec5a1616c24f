package mobile

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/net/html"

	"github.com/youssefhodaigui/seoaudit/internal/config"
	"github.com/youssefhodaigui/seoaudit/internal/fetch"
	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// Checker runs the mobile-friendliness heuristics against a page.
//
// Design decision: We fetch the page twice, once per user agent, instead of
// reusing one response because sites with dynamic serving return different
// markup to phones. The heuristics always run on the mobile variant, which
// is what mobile-first indexing crawls.
type Checker struct {
	mobile  *fetch.Fetcher
	desktop *fetch.Fetcher
	logger  *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithMobileFetcher sets the fetcher used for the mobile-agent request.
func WithMobileFetcher(f *fetch.Fetcher) Option {
	return func(c *Checker) {
		c.mobile = f
	}
}

// WithDesktopFetcher sets the fetcher used for the desktop-agent request.
func WithDesktopFetcher(f *fetch.Fetcher) Option {
	return func(c *Checker) {
		c.desktop = f
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// New creates a Checker with 10 second timeouts and the standard mobile and
// desktop user agents.
func New(opts ...Option) *Checker {
	c := &Checker{
		mobile: fetch.New(
			fetch.WithTimeout(10*time.Second),
			fetch.WithUserAgent(config.MobileUserAgent),
		),
		desktop: fetch.New(
			fetch.WithTimeout(10*time.Second),
			fetch.WithUserAgent(config.DesktopUserAgent),
		),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check fetches the target with both user agents and evaluates the mobile
// variant. Either fetch failing fails the whole check.
func (c *Checker) Check(ctx context.Context, target string) *model.MobileResult {
	result := model.NewMobileResult(target)

	mobileResp, err := c.mobile.Get(ctx, target)
	if err != nil {
		c.logger.Debug("mobile fetch failed", "url", target, "error", err)
		result.Fail(err)
		return result
	}
	if _, err := c.desktop.Get(ctx, target); err != nil {
		c.logger.Debug("desktop fetch failed", "url", target, "error", err)
		result.Fail(err)
		return result
	}

	doc, err := html.Parse(bytes.NewReader(mobileResp.Body))
	if err != nil {
		result.Fail(fmt.Errorf("parse %s: %w", target, err))
		return result
	}

	page := collectSignals(doc)

	checkViewport(result, page)
	checkResponsive(result, page)
	checkUsability(result, page)
	checkMediaQueries(result, page)
	checkResources(result, page)

	if len(result.Issues) == 0 && len(result.Warnings) < 3 {
		result.Recommendations = append(result.Recommendations,
			"Consider adding PWA capabilities for an app-like experience",
			"Test on real devices with a range of screen sizes",
			"Monitor Core Web Vitals for mobile performance",
		)
	}

	result.FinalizeScore()

	c.logger.Debug("mobile check finished",
		"url", target,
		"friendly", result.MobileFriendly,
		"issues", len(result.Issues),
		"warnings", len(result.Warnings),
		"score", result.Score)
	return result
}
