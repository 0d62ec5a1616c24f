package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoTarget is returned when no URL to audit is specified.
	ErrNoTarget = errors.New("no target specified: provide a URL to audit")

	// ErrInvalidTimeout is returned when any timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRequestDelay is returned when the request delay is negative.
	// Use 0 for no delay between bulk requests.
	ErrInvalidRequestDelay = errors.New("invalid request delay: must be non-negative")

	// ErrInvalidConcurrency is returned when the bulk concurrency is not
	// positive. A concurrency of zero would mean no auditing at all.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidStrategy is returned when the analysis strategy is neither
	// mobile nor desktop.
	ErrInvalidStrategy = errors.New("invalid strategy: must be mobile or desktop")

	// ErrInvalidOutputFormat is returned when the output format is not one
	// of text, json, html, csv, or markdown.
	ErrInvalidOutputFormat = errors.New("invalid output format: must be text, json, html, csv, or markdown")

	// ErrInvalidCheck is returned when --checks names an unknown component.
	ErrInvalidCheck = errors.New("invalid check: must be technical, cwv, schema, sitemap, or mobile")
)
