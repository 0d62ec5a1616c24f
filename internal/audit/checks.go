package audit

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// Title and meta description length bounds, in characters.
// These follow what search engines typically display without truncation.
const (
	minTitleLength    = 30
	maxTitleLength    = 60
	minMetaDescLength = 120
	maxMetaDescLength = 160
)

// genericTitles are placeholder titles that signal a page was never given a
// real title. Compared case-insensitively.
var genericTitles = map[string]struct{}{
	"untitled": {},
	"home":     {},
	"index":    {},
}

// checkFunc inspects one on-page factor of a parsed page.
type checkFunc func(*Page) *model.CheckResult

// checkHandlers maps every check kind to its implementation.
// This mapping must stay total; TestCheckHandlersTotality enforces it.
var checkHandlers = map[model.CheckKind]checkFunc{
	model.CheckTitle:           checkTitle,
	model.CheckMetaDescription: checkMetaDescription,
	model.CheckHeadings:        checkHeadings,
	model.CheckImages:          checkImages,
	model.CheckCanonical:       checkCanonical,
	model.CheckRobotsMeta:      checkRobotsMeta,
	model.CheckSchemaMarkup:    checkSchemaMarkup,
	model.CheckLinks:           checkLinks,
}

// checkTitle validates the page title tag.
func checkTitle(page *Page) *model.CheckResult {
	if !page.TitleFound || page.Title == "" {
		return &model.CheckResult{
			Status:          model.CheckStatusError,
			Message:         "No title tag found",
			Recommendations: []string{"Add a unique, descriptive title tag of 30-60 characters"},
		}
	}

	result := &model.CheckResult{
		Status:  model.CheckStatusOK,
		Content: page.Title,
		Length:  utf8.RuneCountInString(page.Title),
	}

	if result.Length < minTitleLength {
		result.Status = model.CheckStatusWarning
		result.Message = fmt.Sprintf("Title is too short (%d characters, recommended minimum is %d)", result.Length, minTitleLength)
		result.Recommendations = append(result.Recommendations, "Expand the title to 30-60 characters with descriptive keywords")
	} else if result.Length > maxTitleLength {
		result.Status = model.CheckStatusWarning
		result.Message = fmt.Sprintf("Title is too long (%d characters, recommended maximum is %d)", result.Length, maxTitleLength)
		result.Recommendations = append(result.Recommendations, "Shorten the title to 60 characters or less so it is not truncated in results")
	}

	if _, generic := genericTitles[strings.ToLower(page.Title)]; generic {
		result.Status = model.CheckStatusError
		result.Message = fmt.Sprintf("Generic title detected: %q", page.Title)
		result.Recommendations = append(result.Recommendations, "Replace the placeholder title with a unique, descriptive one")
	}

	return result
}

// checkMetaDescription validates the meta description tag.
func checkMetaDescription(page *Page) *model.CheckResult {
	if !page.MetaDescriptionFound || page.MetaDescription == "" {
		return &model.CheckResult{
			Status:          model.CheckStatusError,
			Message:         "No meta description found",
			Recommendations: []string{"Add a compelling meta description of 120-160 characters"},
		}
	}

	result := &model.CheckResult{
		Status:  model.CheckStatusOK,
		Content: page.MetaDescription,
		Length:  utf8.RuneCountInString(page.MetaDescription),
	}

	if result.Length < minMetaDescLength {
		result.Status = model.CheckStatusWarning
		result.Message = fmt.Sprintf("Meta description is too short (%d characters, recommended minimum is %d)", result.Length, minMetaDescLength)
		result.Recommendations = append(result.Recommendations, "Expand the meta description to 120-160 characters")
	} else if result.Length > maxMetaDescLength {
		result.Status = model.CheckStatusWarning
		result.Message = fmt.Sprintf("Meta description is too long (%d characters, recommended maximum is %d)", result.Length, maxMetaDescLength)
		result.Recommendations = append(result.Recommendations, "Shorten the meta description to 160 characters or less")
	}

	if page.TitleFound && page.MetaDescription == page.Title {
		result.Status = model.CheckStatusError
		result.Message = "Meta description is identical to the title"
		result.Recommendations = append(result.Recommendations, "Write a distinct meta description instead of repeating the title")
	}

	return result
}

// checkHeadings validates the heading hierarchy.
func checkHeadings(page *Page) *model.CheckResult {
	counts := make(map[string]any, 6)
	for level := 1; level <= 6; level++ {
		counts[fmt.Sprintf("h%d", level)] = len(page.Headings[level])
	}

	h1Contents := page.Headings[1]
	if len(h1Contents) > 5 {
		h1Contents = h1Contents[:5]
	}

	result := &model.CheckResult{
		Status: model.CheckStatusOK,
		Details: map[string]any{
			"counts":      counts,
			"h1_contents": h1Contents,
		},
	}

	switch h1Count := len(page.Headings[1]); {
	case h1Count == 0:
		result.Status = model.CheckStatusError
		result.Message = "No H1 tag found"
		result.Recommendations = append(result.Recommendations, "Add exactly one H1 tag describing the page topic")
	case h1Count > 1:
		result.Status = model.CheckStatusWarning
		result.Message = fmt.Sprintf("Multiple H1 tags found (%d)", h1Count)
		result.Recommendations = append(result.Recommendations, "Use a single H1 tag and demote the others to H2")
	}

	if len(page.Headings[3]) > 0 && len(page.Headings[2]) == 0 {
		if result.Status == model.CheckStatusOK {
			result.Status = model.CheckStatusWarning
		}
		result.Message = joinMessages(result.Message, "H3 tags used without any H2 tags")
		result.Recommendations = append(result.Recommendations, "Keep the heading hierarchy sequential: H1, then H2, then H3")
	}

	return result
}

// checkImages validates image alt text and dimensions.
func checkImages(page *Page) *model.CheckResult {
	if len(page.Images) == 0 {
		return &model.CheckResult{
			Status:  model.CheckStatusOK,
			Message: "No images found",
		}
	}

	var missingAlt, emptyAlt, missingDimensions int
	for _, img := range page.Images {
		switch {
		case !img.HasAlt:
			missingAlt++
		case strings.TrimSpace(img.Alt) == "":
			emptyAlt++
		}
		if !img.HasWidth || !img.HasHeight {
			missingDimensions++
		}
	}

	result := &model.CheckResult{
		Status: model.CheckStatusOK,
		Details: map[string]any{
			"total_images":       len(page.Images),
			"missing_alt":        missingAlt,
			"empty_alt":          emptyAlt,
			"missing_dimensions": missingDimensions,
		},
	}

	switch {
	case missingAlt > 0:
		result.Status = model.CheckStatusError
		result.Message = fmt.Sprintf("%d images missing alt attributes", missingAlt)
		result.Recommendations = append(result.Recommendations, "Add descriptive alt text to every content image")
	case emptyAlt > 0:
		result.Status = model.CheckStatusWarning
		result.Message = fmt.Sprintf("%d images have empty alt attributes", emptyAlt)
		result.Recommendations = append(result.Recommendations, "Fill empty alt attributes, or leave them empty only for decorative images")
	}

	if missingDimensions > 0 && result.Status == model.CheckStatusOK {
		result.Status = model.CheckStatusWarning
		result.Message = fmt.Sprintf("%d images missing width or height attributes", missingDimensions)
		result.Recommendations = append(result.Recommendations, "Declare width and height attributes to prevent layout shift")
	}

	return result
}

// checkCanonical validates the rel=canonical link.
func checkCanonical(page *Page) *model.CheckResult {
	if !page.CanonicalFound {
		return &model.CheckResult{
			Status:          model.CheckStatusWarning,
			Message:         "No canonical tag found",
			Recommendations: []string{"Add a rel=canonical link to prevent duplicate content issues"},
		}
	}

	if page.CanonicalHref == "" {
		return &model.CheckResult{
			Status:          model.CheckStatusError,
			Message:         "Canonical tag present but href is empty",
			Recommendations: []string{"Point the canonical link at the preferred URL of this page"},
		}
	}

	result := &model.CheckResult{
		Status:  model.CheckStatusOK,
		Content: page.CanonicalHref,
	}

	if u, err := url.Parse(page.CanonicalHref); err != nil || u.Scheme == "" || u.Host == "" {
		result.Status = model.CheckStatusWarning
		result.Message = "Canonical URL is relative"
		result.Recommendations = append(result.Recommendations, "Use an absolute URL in the canonical link")
	}

	return result
}

// checkRobotsMeta validates the robots meta tag.
func checkRobotsMeta(page *Page) *model.CheckResult {
	if !page.MetaRobotsFound {
		return &model.CheckResult{
			Status:  model.CheckStatusOK,
			Content: "Not specified (defaults to index, follow)",
		}
	}

	result := &model.CheckResult{
		Status:  model.CheckStatusOK,
		Content: page.MetaRobots,
	}

	directives := strings.ToLower(page.MetaRobots)
	if strings.Contains(directives, "noindex") {
		result.Status = model.CheckStatusWarning
		result.Message = "Page is set to noindex"
		result.Recommendations = append(result.Recommendations, "Remove noindex if this page should appear in search results")
	}
	if strings.Contains(directives, "nofollow") {
		result.Status = model.CheckStatusWarning
		result.Message = joinMessages(result.Message, "Page is set to nofollow")
		result.Recommendations = append(result.Recommendations, "Remove nofollow if link equity should flow from this page")
	}

	return result
}

// checkSchemaMarkup validates JSON-LD structured data blocks.
// Full schema field validation lives in the schema package; this check only
// reports presence and parseability.
func checkSchemaMarkup(page *Page) *model.CheckResult {
	if len(page.JSONLDBlocks) == 0 {
		return &model.CheckResult{
			Status:          model.CheckStatusWarning,
			Message:         "No structured data (Schema.org) found",
			Recommendations: []string{"Add JSON-LD structured data to qualify for rich results"},
		}
	}

	var typesFound []string
	for _, block := range page.JSONLDBlocks {
		var decoded any
		if err := json.Unmarshal([]byte(block), &decoded); err != nil {
			return &model.CheckResult{
				Status:          model.CheckStatusError,
				Message:         "Invalid JSON-LD structured data found",
				Recommendations: []string{"Fix the JSON syntax of the structured data block"},
			}
		}
		typesFound = append(typesFound, schemaTypes(decoded)...)
	}

	return &model.CheckResult{
		Status: model.CheckStatusOK,
		Details: map[string]any{
			"types_found": typesFound,
		},
	}
}

// schemaTypes extracts @type values from decoded JSON-LD data, flattening
// top-level arrays and @graph containers.
func schemaTypes(decoded any) []string {
	var types []string
	switch v := decoded.(type) {
	case []any:
		for _, item := range v {
			types = append(types, schemaTypes(item)...)
		}
	case map[string]any:
		switch t := v["@type"].(type) {
		case string:
			types = append(types, t)
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					types = append(types, s)
				}
			}
		}
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				types = append(types, schemaTypes(item)...)
			}
		}
	}
	return types
}

// checkLinks classifies anchors and validates external link rel attributes.
func checkLinks(page *Page) *model.CheckResult {
	var internal, external, missingRel int
	for _, anchor := range page.Anchors {
		if anchor.IsExternal(page.FinalURL) {
			external++
			if !anchor.HasRel("nofollow") && !anchor.HasRel("noopener") {
				missingRel++
			}
		} else {
			internal++
		}
	}

	result := &model.CheckResult{
		Status: model.CheckStatusOK,
		Details: map[string]any{
			"total_links":    len(page.Anchors),
			"internal_links": internal,
			"external_links": external,
		},
	}

	if len(page.Anchors) == 0 {
		result.Message = "No links found"
		return result
	}

	if missingRel > 0 {
		result.Status = model.CheckStatusWarning
		result.Message = fmt.Sprintf("%d external links missing rel attributes", missingRel)
		result.Recommendations = append(result.Recommendations, "Add rel=\"noopener\" (and nofollow where appropriate) to external links")
	}

	return result
}

// joinMessages combines check messages when several findings apply.
func joinMessages(existing, added string) string {
	if existing == "" {
		return added
	}
	return existing + "; " + added
}
