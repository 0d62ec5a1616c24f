package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Timeouts mirror what the hosted SEO crawlers use for comparable requests:
// generous for third-party APIs and full sitemap downloads, tight for
// liveness probes.
const (
	// DefaultTimeout is the timeout for fetching a single HTML page.
	// 10 seconds covers slow origins without stalling an audit run.
	DefaultTimeout = 10 * time.Second

	// DefaultVitalsTimeout is the timeout for PageSpeed API requests.
	// The API runs a full Lighthouse pass server-side, which routinely
	// takes 15-25 seconds.
	DefaultVitalsTimeout = 30 * time.Second

	// DefaultSitemapTimeout is the timeout for downloading a sitemap.
	// Large sitemaps can approach the 50MB protocol ceiling.
	DefaultSitemapTimeout = 30 * time.Second

	// DefaultProbeTimeout is the timeout for HEAD liveness probes.
	// Probes are advisory, so they fail fast.
	DefaultProbeTimeout = 5 * time.Second

	// DefaultRequestDelay is the pause between consecutive requests in
	// bulk operations. This is a politeness setting and also keeps the
	// PageSpeed API quota usage spread out.
	DefaultRequestDelay = 1 * time.Second

	// DefaultConcurrency is the number of URLs audited at once in bulk
	// mode. Sequential by default so request pacing stays predictable.
	DefaultConcurrency = 1

	// DefaultMaxBodySize limits the response body read for HTML pages.
	// 10MB is far beyond any sane page while preventing memory exhaustion.
	DefaultMaxBodySize = 10 * 1024 * 1024

	// MaxSitemapSize is the sitemap protocol's uncompressed size ceiling.
	MaxSitemapSize = 50 * 1024 * 1024

	// MaxSitemapURLs is the sitemap protocol's per-file URL ceiling.
	MaxSitemapURLs = 50000

	// AppName is the application name used for XDG directory paths.
	AppName = "seoaudit"

	// DefaultUserAgent identifies the toolkit in HTTP requests.
	// A descriptive User-Agent lets site operators recognize audit traffic.
	DefaultUserAgent = "Mozilla/5.0 (compatible; SEOAudit/1.0; +https://github.com/youssefhodaigui/seoaudit)"

	// MobileUserAgent emulates a mobile browser for the mobile checker.
	MobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 14_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0 Mobile/15E148 Safari/604.1"

	// DesktopUserAgent emulates a desktop browser for the mobile checker's
	// comparison fetch.
	DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Output format names accepted by the CLI.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatHTML     = "html"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Strategy names accepted by the Core Web Vitals commands.
const (
	StrategyMobile  = "mobile"
	StrategyDesktop = "desktop"
)

// Config holds all configuration options for an audit run.
// This struct is populated from CLI flags and passed through the application
// via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Targets is the list of URLs to audit.
	Targets []string

	// Timeout is the timeout for fetching a single HTML page.
	Timeout time.Duration

	// VitalsTimeout is the timeout for PageSpeed API requests.
	VitalsTimeout time.Duration

	// SitemapTimeout is the timeout for downloading a sitemap.
	SitemapTimeout time.Duration

	// ProbeTimeout is the timeout for HEAD liveness probes.
	ProbeTimeout time.Duration

	// RequestDelay is the pause between consecutive bulk requests.
	RequestDelay time.Duration

	// Concurrency is the number of URLs audited at once in bulk mode.
	Concurrency int

	// MaxBodySize is the maximum HTML response body size in bytes.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with audit requests.
	UserAgent string

	// APIKey is the Google PageSpeed Insights API key. Optional; without
	// a key the API applies strict anonymous quotas.
	APIKey string

	// Strategy is the Core Web Vitals analysis strategy: mobile or desktop.
	Strategy string

	// Checks selects which audit components run, by name. Empty means all.
	Checks []string

	// OutputFormat selects the report format: text, json, html, csv, or
	// markdown.
	OutputFormat string

	// OutputFile is the report destination path. Empty means stdout.
	OutputFile string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .seoaudit in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file.
	SiteConfigs *File

	// DBDir is the directory path for the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether completed reports are persisted to the
	// history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeouts, user
// agents). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:        DefaultTimeout,
		VitalsTimeout:  DefaultVitalsTimeout,
		SitemapTimeout: DefaultSitemapTimeout,
		ProbeTimeout:   DefaultProbeTimeout,
		RequestDelay:   DefaultRequestDelay,
		Concurrency:    DefaultConcurrency,
		MaxBodySize:    DefaultMaxBodySize,
		UserAgent:      DefaultUserAgent,
		Strategy:       StrategyMobile,
		OutputFormat:   FormatText,
	}
}

// XDGDataDir returns the XDG data directory for the toolkit.
// On Linux: ~/.local/share/seoaudit
// On macOS: ~/Library/Application Support/seoaudit
// On Windows: %LOCALAPPDATA%\seoaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the toolkit.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ValidFormats returns the accepted output format names.
func ValidFormats() []string {
	return []string{FormatText, FormatJSON, FormatHTML, FormatCSV, FormatMarkdown}
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any auditing begins.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.Timeout <= 0 || c.VitalsTimeout <= 0 || c.SitemapTimeout <= 0 || c.ProbeTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RequestDelay < 0 {
		return ErrInvalidRequestDelay
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Strategy != StrategyMobile && c.Strategy != StrategyDesktop {
		return ErrInvalidStrategy
	}

	valid := false
	for _, f := range ValidFormats() {
		if c.OutputFormat == f {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidOutputFormat
	}
	return nil
}
