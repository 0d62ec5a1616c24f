package model

import "time"

// ViewportInfo describes the viewport meta tag of a page.
type ViewportInfo struct {
	// Present indicates a viewport meta tag exists.
	Present bool `json:"present"`

	// Content is the raw content attribute value.
	Content string `json:"content,omitempty"`

	// Directives holds the parsed comma-separated key=value pairs.
	Directives map[string]string `json:"directives,omitempty"`
}

// ResponsiveInfo summarizes responsive design signals.
type ResponsiveInfo struct {
	// FlexibleImages indicates at least one image uses srcset, sizes, or a
	// max-width:100% style.
	FlexibleImages bool `json:"flexible_images"`

	// FixedWidthElements counts containers with a fixed pixel width.
	FixedWidthElements int `json:"fixed_width_elements"`
}

// UsabilityInfo summarizes touch and readability signals.
type UsabilityInfo struct {
	// SmallTouchTargets counts clickable elements below the recommended
	// touch target size.
	SmallTouchTargets int `json:"small_touch_targets"`

	// SmallFonts counts text elements with inline font sizes below the
	// readable minimum.
	SmallFonts int `json:"small_fonts"`
}

// MediaQueryInfo summarizes responsive breakpoint signals.
type MediaQueryInfo struct {
	// Found indicates media queries were detected, directly or through a
	// known CSS framework.
	Found bool `json:"found"`

	// Breakpoints lists the pixel breakpoints found in inline styles.
	Breakpoints []int `json:"breakpoints,omitempty"`

	// Framework names the detected CSS framework, empty when none.
	Framework string `json:"framework,omitempty"`
}

// ResourceInfo summarizes mobile resource loading signals.
type ResourceInfo struct {
	// LazyLoading indicates every inspected image declares a loading
	// attribute.
	LazyLoading bool `json:"lazy_loading"`

	// RenderBlockingScripts counts external scripts without async or defer.
	RenderBlockingScripts int `json:"render_blocking_scripts"`

	// PWAReady indicates a web app manifest link exists.
	PWAReady bool `json:"pwa_ready"`

	// IOSOptimized indicates an apple-mobile-web-app-capable meta exists.
	IOSOptimized bool `json:"ios_optimized"`
}

// MobileResult is the outcome of one mobile-friendliness check.
type MobileResult struct {
	// URL is the checked page address.
	URL string `json:"url"`

	// Timestamp is when the check ran, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// Status is completed when both fetches succeeded, error otherwise.
	Status RunStatus `json:"status"`

	// MobileFriendly is true when no blocking issues were found.
	// Warnings alone do not affect it.
	MobileFriendly bool `json:"mobile_friendly"`

	// Issues lists blocking problems, each deducting 15 score points.
	Issues []string `json:"issues,omitempty"`

	// Warnings lists non-blocking problems, each deducting 5 score points.
	Warnings []string `json:"warnings,omitempty"`

	// Recommendations lists concrete fixes and follow-up suggestions.
	Recommendations []string `json:"recommendations,omitempty"`

	// Viewport describes the viewport meta tag.
	Viewport *ViewportInfo `json:"viewport,omitempty"`

	// Responsive summarizes responsive design signals.
	Responsive *ResponsiveInfo `json:"responsive,omitempty"`

	// Usability summarizes touch target and font size signals.
	Usability *UsabilityInfo `json:"usability,omitempty"`

	// MediaQueries summarizes breakpoint signals.
	MediaQueries *MediaQueryInfo `json:"media_queries,omitempty"`

	// Resources summarizes resource loading signals.
	Resources *ResourceInfo `json:"resources,omitempty"`

	// Score is the mobile-friendliness score, 0-100.
	Score int `json:"score"`

	// Error holds the failure message when Status is error.
	Error string `json:"error,omitempty"`
}

// NewMobileResult returns a mobile result for the given URL stamped with the
// current UTC time.
func NewMobileResult(url string) *MobileResult {
	return &MobileResult{
		URL:       url,
		Timestamp: time.Now().UTC(),
		Status:    RunCompleted,
	}
}

// Fail marks the check as unrunnable and clears the score.
func (r *MobileResult) Fail(err error) {
	r.Status = RunError
	r.Score = 0
	r.MobileFriendly = false
	if err != nil {
		r.Error = err.Error()
	}
}

// FinalizeScore computes the mobile score: start at 100, subtract 15 per
// issue and 5 per warning, add 5 when a viewport tag exists and 5 when media
// queries were found, then clamp to 0-100. A page is mobile friendly exactly
// when it has no blocking issues.
func (r *MobileResult) FinalizeScore() {
	score := 100 - 15*len(r.Issues) - 5*len(r.Warnings)
	if r.Viewport != nil && r.Viewport.Present {
		score += 5
	}
	if r.MediaQueries != nil && r.MediaQueries.Found {
		score += 5
	}
	r.Score = ClampScore(score)
	r.MobileFriendly = len(r.Issues) == 0
}
