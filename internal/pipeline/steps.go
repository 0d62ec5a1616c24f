package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/youssefhodaigui/seoaudit/internal/audit"
	"github.com/youssefhodaigui/seoaudit/internal/config"
	"github.com/youssefhodaigui/seoaudit/internal/mobile"
	"github.com/youssefhodaigui/seoaudit/internal/model"
	"github.com/youssefhodaigui/seoaudit/internal/schema"
	"github.com/youssefhodaigui/seoaudit/internal/sitemap"
	"github.com/youssefhodaigui/seoaudit/internal/vitals"
)

// Component names accepted by the --checks selection, in execution order.
const (
	ComponentTechnical = "technical"
	ComponentVitals    = "cwv"
	ComponentSchema    = "schema"
	ComponentSitemap   = "sitemap"
	ComponentMobile    = "mobile"
)

// ComponentNames returns every audit component name in execution order.
func ComponentNames() []string {
	return []string{
		ComponentTechnical,
		ComponentVitals,
		ComponentSchema,
		ComponentSitemap,
		ComponentMobile,
	}
}

// TechnicalStep runs the on-page technical audit and stores its section
// on the report.
//
// Design decision: Each step owns one component and one report section.
// The components already fetch for themselves and convert failures into
// result records, so steps stay thin: build, run, assign.
type TechnicalStep struct {
	// auditor runs the on-page checks.
	auditor *audit.Auditor

	// kinds selects which checks run. Empty means all.
	kinds []model.CheckKind

	// logger for structured logging.
	logger *slog.Logger
}

// TechnicalStepOption configures a TechnicalStep.
type TechnicalStepOption func(*TechnicalStep)

// WithTechnicalAuditor sets a pre-configured auditor.
func WithTechnicalAuditor(a *audit.Auditor) TechnicalStepOption {
	return func(s *TechnicalStep) {
		s.auditor = a
	}
}

// WithTechnicalKinds limits the audit to the given checks.
func WithTechnicalKinds(kinds []model.CheckKind) TechnicalStepOption {
	return func(s *TechnicalStep) {
		s.kinds = kinds
	}
}

// WithTechnicalLogger sets a custom logger for the technical step.
func WithTechnicalLogger(logger *slog.Logger) TechnicalStepOption {
	return func(s *TechnicalStep) {
		s.logger = logger
	}
}

// NewTechnicalStep creates a new technical audit step.
func NewTechnicalStep(opts ...TechnicalStepOption) *TechnicalStep {
	s := &TechnicalStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.auditor == nil {
		s.auditor = audit.New(audit.WithLogger(s.logger))
	}

	return s
}

// Name returns the step name.
func (s *TechnicalStep) Name() string {
	return ComponentTechnical
}

// Do executes the technical audit step.
func (s *TechnicalStep) Do(ctx context.Context, report *model.Report) error {
	report.Technical = s.auditor.Audit(ctx, report.URL, s.kinds)
	return nil
}

// VitalsStep retrieves Core Web Vitals through the PageSpeed Insights API
// and stores the section on the report.
type VitalsStep struct {
	// client talks to the PageSpeed API.
	client *vitals.Client

	// strategy is the analysis strategy: mobile or desktop.
	strategy string

	// logger for structured logging.
	logger *slog.Logger
}

// VitalsStepOption configures a VitalsStep.
type VitalsStepOption func(*VitalsStep)

// WithVitalsClient sets a pre-configured PageSpeed client.
func WithVitalsClient(client *vitals.Client) VitalsStepOption {
	return func(s *VitalsStep) {
		s.client = client
	}
}

// WithVitalsStrategy sets the analysis strategy.
// Default is mobile, matching what search ranking uses.
func WithVitalsStrategy(strategy string) VitalsStepOption {
	return func(s *VitalsStep) {
		s.strategy = strategy
	}
}

// WithVitalsLogger sets a custom logger for the vitals step.
func WithVitalsLogger(logger *slog.Logger) VitalsStepOption {
	return func(s *VitalsStep) {
		s.logger = logger
	}
}

// NewVitalsStep creates a new Core Web Vitals step.
func NewVitalsStep(opts ...VitalsStepOption) *VitalsStep {
	s := &VitalsStep{
		strategy: config.StrategyMobile,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = vitals.NewClient(vitals.WithLogger(s.logger))
	}

	return s
}

// Name returns the step name.
func (s *VitalsStep) Name() string {
	return ComponentVitals
}

// Do executes the Core Web Vitals step.
func (s *VitalsStep) Do(ctx context.Context, report *model.Report) error {
	report.Vitals = s.client.Analyze(ctx, report.URL, s.strategy)
	return nil
}

// SchemaStep validates structured data markup and stores the section on
// the report.
type SchemaStep struct {
	// validator extracts and validates the markup.
	validator *schema.Validator

	// logger for structured logging.
	logger *slog.Logger
}

// SchemaStepOption configures a SchemaStep.
type SchemaStepOption func(*SchemaStep)

// WithSchemaValidator sets a pre-configured validator.
func WithSchemaValidator(v *schema.Validator) SchemaStepOption {
	return func(s *SchemaStep) {
		s.validator = v
	}
}

// WithSchemaLogger sets a custom logger for the schema step.
func WithSchemaLogger(logger *slog.Logger) SchemaStepOption {
	return func(s *SchemaStep) {
		s.logger = logger
	}
}

// NewSchemaStep creates a new structured data validation step.
func NewSchemaStep(opts ...SchemaStepOption) *SchemaStep {
	s := &SchemaStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.validator == nil {
		s.validator = schema.New(schema.WithLogger(s.logger))
	}

	return s
}

// Name returns the step name.
func (s *SchemaStep) Name() string {
	return ComponentSchema
}

// Do executes the structured data validation step.
func (s *SchemaStep) Do(ctx context.Context, report *model.Report) error {
	report.Schema = s.validator.Validate(ctx, report.URL)
	return nil
}

// SitemapStep discovers the site's sitemaps and analyzes the first one
// found.
//
// Design decision: Inside a full audit the user supplies a page URL, not
// a sitemap URL, so this step always discovers first. When discovery
// finds nothing, the section records not_found rather than error; a site
// without a sitemap is a finding, not a failure.
type SitemapStep struct {
	// analyzer discovers and analyzes sitemaps.
	analyzer *sitemap.Analyzer

	// logger for structured logging.
	logger *slog.Logger
}

// SitemapStepOption configures a SitemapStep.
type SitemapStepOption func(*SitemapStep)

// WithSitemapAnalyzer sets a pre-configured analyzer.
func WithSitemapAnalyzer(a *sitemap.Analyzer) SitemapStepOption {
	return func(s *SitemapStep) {
		s.analyzer = a
	}
}

// WithSitemapLogger sets a custom logger for the sitemap step.
func WithSitemapLogger(logger *slog.Logger) SitemapStepOption {
	return func(s *SitemapStep) {
		s.logger = logger
	}
}

// NewSitemapStep creates a new sitemap discovery and analysis step.
func NewSitemapStep(opts ...SitemapStepOption) *SitemapStep {
	s := &SitemapStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.analyzer == nil {
		s.analyzer = sitemap.New(sitemap.WithLogger(s.logger))
	}

	return s
}

// Name returns the step name.
func (s *SitemapStep) Name() string {
	return ComponentSitemap
}

// Do executes the sitemap step.
func (s *SitemapStep) Do(ctx context.Context, report *model.Report) error {
	found := s.analyzer.Find(ctx, report.URL)
	if len(found) == 0 {
		result := model.NewSitemapResult(report.URL)
		result.Status = model.RunNotFound
		result.Recommendations = append(result.Recommendations,
			"No sitemap found. Create a sitemap.xml and reference it from robots.txt.")
		report.Sitemap = result
		return nil
	}

	result := s.analyzer.Analyze(ctx, found[0])
	result.DiscoveredSitemaps = found
	report.Sitemap = result
	return nil
}

// MobileStep checks mobile-friendliness and stores the section on the
// report.
type MobileStep struct {
	// checker runs the mobile heuristics.
	checker *mobile.Checker

	// logger for structured logging.
	logger *slog.Logger
}

// MobileStepOption configures a MobileStep.
type MobileStepOption func(*MobileStep)

// WithMobileChecker sets a pre-configured checker.
func WithMobileChecker(c *mobile.Checker) MobileStepOption {
	return func(s *MobileStep) {
		s.checker = c
	}
}

// WithMobileStepLogger sets a custom logger for the mobile step.
func WithMobileStepLogger(logger *slog.Logger) MobileStepOption {
	return func(s *MobileStep) {
		s.logger = logger
	}
}

// NewMobileStep creates a new mobile-friendliness step.
func NewMobileStep(opts ...MobileStepOption) *MobileStep {
	s := &MobileStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.checker == nil {
		s.checker = mobile.New(mobile.WithLogger(s.logger))
	}

	return s
}

// Name returns the step name.
func (s *MobileStep) Name() string {
	return ComponentMobile
}

// Do executes the mobile-friendliness step.
func (s *MobileStep) Do(ctx context.Context, report *model.Report) error {
	report.Mobile = s.checker.Check(ctx, report.URL)
	return nil
}

// DefaultPipeline creates a pipeline with the steps selected by the
// configuration, in the fixed component order.
//
// Design decision: We provide a default pipeline because:
// 1. Most users want all checks
// 2. Reduces boilerplate in CLI
// 3. Ensures consistent ordering
//
// The pipeline continues on error so one broken component does not
// discard the sections that already completed.
func DefaultPipeline(cfg *config.Config, logger *slog.Logger, pipelineOpts ...Option) *Pipeline {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := append([]Option{
		WithLogger(logger),
		WithContinueOnError(true),
	}, pipelineOpts...)
	p := New(opts...)

	if selected(cfg.Checks, ComponentTechnical) {
		p.AddStep(NewTechnicalStep(WithTechnicalLogger(logger)))
	}
	if selected(cfg.Checks, ComponentVitals) {
		client := vitals.NewClient(
			vitals.WithAPIKey(cfg.APIKey),
			vitals.WithTimeout(cfg.VitalsTimeout),
			vitals.WithLogger(logger),
		)
		p.AddStep(NewVitalsStep(
			WithVitalsClient(client),
			WithVitalsStrategy(cfg.Strategy),
		))
	}
	if selected(cfg.Checks, ComponentSchema) {
		p.AddStep(NewSchemaStep(WithSchemaLogger(logger)))
	}
	if selected(cfg.Checks, ComponentSitemap) {
		p.AddStep(NewSitemapStep(WithSitemapLogger(logger)))
	}
	if selected(cfg.Checks, ComponentMobile) {
		p.AddStep(NewMobileStep(WithMobileStepLogger(logger)))
	}

	return p
}

// selected reports whether the named component is in the check selection.
// An empty selection means every component runs.
func selected(checks []string, name string) bool {
	if len(checks) == 0 {
		return true
	}
	for _, c := range checks {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return true
		}
	}
	return false
}
