package mobile

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// Inspection caps keep huge pages from dominating the run.
const (
	maxContainersInspected   = 50
	maxTouchTargetsInspected = 100
	maxFontElementsInspected = 100
)

var (
	fixedWidthPattern  = regexp.MustCompile(`width:\s*(\d+)px`)
	dimensionPattern   = regexp.MustCompile(`(?:height|width):\s*(\d+)px`)
	fontSizePattern    = regexp.MustCompile(`font-size:\s*(\d+)(px|pt)`)
	flexibleImgPattern = regexp.MustCompile(`max-width:\s*100%`)
	breakpointPattern  = regexp.MustCompile(`(?:max-width|min-width)\s*:\s*(\d+)px`)
)

// cssFrameworks maps asset URL fragments to framework names. A framework hit
// implies media queries even when the page inlines no styles.
var cssFrameworks = []string{"bootstrap", "foundation", "tailwind", "bulma"}

// imageSignal captures the responsive attributes of one img element.
type imageSignal struct {
	src        string
	srcset     bool
	sizes      bool
	style      string
	hasLoading bool
}

// pageSignals is everything one walk over the document collects.
type pageSignals struct {
	viewportFound   bool
	viewportContent string
	images          []imageSignal
	containerStyles []string
	touchTargets    []elementSignal
	fontStyles      []string
	inlineCSS       strings.Builder
	assetRefs       []string
	blockingScripts int
	manifest        bool
	appleCapable    bool
}

// elementSignal captures the class and style of one clickable element.
type elementSignal struct {
	class string
	style string
}

// collectSignals walks the document once and gathers every heuristic input.
func collectSignals(doc *html.Node) *pageSignals {
	page := &pageSignals{}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				switch strings.ToLower(getAttr(n, "name")) {
				case "viewport":
					if !page.viewportFound {
						page.viewportFound = true
						page.viewportContent = getAttr(n, "content")
					}
				case "apple-mobile-web-app-capable":
					page.appleCapable = true
				}
			case "img":
				page.images = append(page.images, imageSignal{
					src:        getAttr(n, "src"),
					srcset:     hasAttr(n, "srcset"),
					sizes:      hasAttr(n, "sizes"),
					style:      getAttr(n, "style"),
					hasLoading: hasAttr(n, "loading"),
				})
			case "div", "section", "article":
				if len(page.containerStyles) < maxContainersInspected {
					if style := getAttr(n, "style"); style != "" {
						page.containerStyles = append(page.containerStyles, style)
					}
				}
			case "a", "button", "input", "select", "textarea":
				if len(page.touchTargets) < maxTouchTargetsInspected {
					page.touchTargets = append(page.touchTargets, elementSignal{
						class: getAttr(n, "class"),
						style: getAttr(n, "style"),
					})
				}
			case "style":
				page.inlineCSS.WriteString(textContent(n))
			case "link":
				if strings.EqualFold(getAttr(n, "rel"), "manifest") {
					page.manifest = true
				}
				if href := getAttr(n, "href"); href != "" {
					page.assetRefs = append(page.assetRefs, href)
				}
			case "script":
				if src := getAttr(n, "src"); src != "" {
					page.assetRefs = append(page.assetRefs, src)
					if !hasAttr(n, "async") && !hasAttr(n, "defer") {
						page.blockingScripts++
					}
				}
			}

			// div doubles as a text container for the font size heuristic.
			switch n.Data {
			case "p", "span", "div", "li", "td":
				if len(page.fontStyles) < maxFontElementsInspected {
					if style := getAttr(n, "style"); strings.Contains(style, "font-size") {
						page.fontStyles = append(page.fontStyles, style)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return page
}

// checkViewport validates the viewport meta tag and its directives.
func checkViewport(result *model.MobileResult, page *pageSignals) {
	if !page.viewportFound {
		result.Viewport = &model.ViewportInfo{}
		result.Issues = append(result.Issues, "No viewport meta tag found")
		result.Recommendations = append([]string{
			`Add <meta name="viewport" content="width=device-width, initial-scale=1"> to the page head`,
		}, result.Recommendations...)
		return
	}

	content := strings.TrimSpace(page.viewportContent)
	info := &model.ViewportInfo{Present: true, Content: content}
	result.Viewport = info

	if content == "" {
		result.Issues = append(result.Issues, "Viewport meta tag has no content")
		return
	}

	directives := parseDirectives(content)
	info.Directives = directives

	width, hasWidth := directives["width"]
	switch {
	case !hasWidth:
		result.Issues = append(result.Issues, "Viewport does not set a width")
	case width != "device-width":
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Viewport width is %q instead of device-width", width))
	}

	scale, hasScale := directives["initial-scale"]
	switch {
	case !hasScale:
		result.Warnings = append(result.Warnings, "Viewport does not set initial-scale")
	case scale != "1":
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Viewport initial-scale is %s instead of 1", scale))
	}

	if maxScale, ok := directives["maximum-scale"]; ok {
		if v, err := strconv.ParseFloat(maxScale, 64); err == nil && v < 2 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Viewport maximum-scale of %s limits zooming", maxScale))
		}
	}

	if v := directives["user-scalable"]; v == "no" || v == "0" {
		result.Issues = append(result.Issues, "Viewport disables user scaling (user-scalable=no)")
	}
}

// parseDirectives splits a viewport content value into key=value pairs.
func parseDirectives(content string) map[string]string {
	directives := make(map[string]string)
	for _, part := range strings.Split(content, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		directives[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return directives
}

// checkResponsive evaluates image flexibility and fixed width layouts.
func checkResponsive(result *model.MobileResult, page *pageSignals) {
	info := &model.ResponsiveInfo{}
	result.Responsive = info

	if len(page.images) > 0 {
		for _, img := range page.images {
			if img.srcset || img.sizes || flexibleImgPattern.MatchString(img.style) {
				info.FlexibleImages = true
				break
			}
		}
		if !info.FlexibleImages {
			result.Warnings = append(result.Warnings,
				"Images do not scale to the viewport; add srcset or max-width:100%")
		}
	}

	for _, style := range page.containerStyles {
		if fixedWidthPattern.MatchString(style) {
			info.FixedWidthElements++
		}
	}
	if info.FixedWidthElements > 10 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d elements use fixed pixel widths", info.FixedWidthElements))
	}
}

// checkUsability evaluates touch target and font sizes.
func checkUsability(result *model.MobileResult, page *pageSignals) {
	info := &model.UsabilityInfo{}
	result.Usability = info

	for _, target := range page.touchTargets {
		if smallTouchTarget(target) {
			info.SmallTouchTargets++
		}
	}
	if info.SmallTouchTargets > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d touch targets are smaller than recommended", info.SmallTouchTargets))
		result.Recommendations = append(result.Recommendations,
			"Make touch targets at least 48x48 pixels with adequate spacing")
	}

	for _, style := range page.fontStyles {
		if smallFont(style) {
			info.SmallFonts++
		}
	}
	if info.SmallFonts > 5 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d elements use font sizes that are hard to read on mobile", info.SmallFonts))
		result.Recommendations = append(result.Recommendations,
			"Use at least 16px for body text on mobile")
	}
}

// smallTouchTarget reports whether the element looks too small to tap.
func smallTouchTarget(target elementSignal) bool {
	class := strings.ToLower(target.class)
	for _, marker := range []string{"xs", "tiny", "small"} {
		if strings.Contains(class, marker) {
			return true
		}
	}
	for _, match := range dimensionPattern.FindAllStringSubmatch(target.style, -1) {
		if v, err := strconv.Atoi(match[1]); err == nil && v < 30 {
			return true
		}
	}
	return false
}

// smallFont reports whether an inline style sets an unreadably small font.
func smallFont(style string) bool {
	match := fontSizePattern.FindStringSubmatch(style)
	if match == nil {
		return false
	}
	size, err := strconv.Atoi(match[1])
	if err != nil {
		return false
	}
	if match[2] == "pt" {
		return size < 9
	}
	return size < 12
}

// checkMediaQueries looks for responsive breakpoints in inline styles, with
// known CSS frameworks as a fallback signal.
func checkMediaQueries(result *model.MobileResult, page *pageSignals) {
	info := &model.MediaQueryInfo{}
	result.MediaQueries = info

	css := page.inlineCSS.String()
	if strings.Contains(css, "@media") {
		info.Found = true
		seen := make(map[int]bool)
		for _, match := range breakpointPattern.FindAllStringSubmatch(css, -1) {
			if v, err := strconv.Atoi(match[1]); err == nil && !seen[v] {
				seen[v] = true
				info.Breakpoints = append(info.Breakpoints, v)
			}
		}
		sort.Ints(info.Breakpoints)
		return
	}

	for _, ref := range page.assetRefs {
		lowered := strings.ToLower(ref)
		for _, framework := range cssFrameworks {
			if strings.Contains(lowered, framework) {
				info.Found = true
				info.Framework = framework
				return
			}
		}
	}
}

// checkResources evaluates lazy loading, render-blocking scripts, and
// app-readiness markers.
func checkResources(result *model.MobileResult, page *pageSignals) {
	info := &model.ResourceInfo{
		LazyLoading:           true,
		RenderBlockingScripts: page.blockingScripts,
		PWAReady:              page.manifest,
		IOSOptimized:          page.appleCapable,
	}
	result.Resources = info

	for _, img := range page.images {
		if retinaImage(img.src) {
			continue
		}
		if !img.hasLoading {
			info.LazyLoading = false
			result.Warnings = append(result.Warnings, "Images do not use lazy loading")
			break
		}
	}

	if page.blockingScripts > 3 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d render-blocking scripts delay first paint", page.blockingScripts))
		result.Recommendations = append(result.Recommendations,
			"Add async or defer to external script tags")
	}
}

// retinaImage reports whether an image source names a high-resolution
// variant. Those are assumed to be handled deliberately and skip the lazy
// loading check.
func retinaImage(src string) bool {
	lowered := strings.ToLower(src)
	for _, marker := range []string{"@2x", "@3x", "retina"} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// textContent concatenates the text nodes beneath n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

// hasAttr reports whether the node carries the attribute, even valueless.
func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return true
		}
	}
	return false
}
