package mobile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

func servePage(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

const responsivePage = `<html><head>
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<style>@media (max-width: 768px) { body { margin: 0; } } @media (min-width: 1024px) { body { margin: auto; } }</style>
	<link rel="manifest" href="/manifest.json">
</head><body>
	<img src="/hero.jpg" srcset="/hero-480.jpg 480w, /hero-800.jpg 800w" loading="lazy">
	<p>Readable body text.</p>
</body></html>`

func TestCheckerCheck(t *testing.T) {
	t.Parallel()

	t.Run("responsive page is mobile friendly", func(t *testing.T) {
		t.Parallel()

		server := servePage(t, responsivePage)
		result := New().Check(context.Background(), server.URL)

		if result.Status != model.RunCompleted {
			t.Fatalf("Status = %v, want completed (error %q)", result.Status, result.Error)
		}
		if !result.MobileFriendly {
			t.Errorf("MobileFriendly = false, issues %v", result.Issues)
		}
		if result.Score != 100 {
			t.Errorf("Score = %d, want 100 (warnings %v)", result.Score, result.Warnings)
		}
		if !result.Resources.PWAReady {
			t.Error("PWAReady = false, want true with a manifest link")
		}
		if got := result.MediaQueries.Breakpoints; len(got) != 2 || got[0] != 768 || got[1] != 1024 {
			t.Errorf("Breakpoints = %v, want [768 1024]", got)
		}
		if len(result.Recommendations) == 0 {
			t.Error("clean runs should still suggest follow-ups")
		}
	})

	t.Run("missing viewport is a blocking issue", func(t *testing.T) {
		t.Parallel()

		server := servePage(t, "<html><head></head><body><p>hi</p></body></html>")
		result := New().Check(context.Background(), server.URL)

		if result.MobileFriendly {
			t.Error("MobileFriendly = true without a viewport tag")
		}
		if !hasMessage(result.Issues, "No viewport meta tag found") {
			t.Errorf("Issues = %v, want the missing viewport issue", result.Issues)
		}
		if len(result.Recommendations) == 0 ||
			!strings.Contains(result.Recommendations[0], `meta name="viewport"`) {
			t.Errorf("Recommendations = %v, want the viewport tag first", result.Recommendations)
		}
	})

	t.Run("user-scalable=no blocks mobile friendliness", func(t *testing.T) {
		t.Parallel()

		server := servePage(t, `<html><head>
			<meta name="viewport" content="width=device-width, initial-scale=1, user-scalable=no">
		</head><body></body></html>`)
		result := New().Check(context.Background(), server.URL)

		if result.MobileFriendly {
			t.Error("MobileFriendly = true despite disabled zooming")
		}
		if !hasMessage(result.Issues, "Viewport disables user scaling (user-scalable=no)") {
			t.Errorf("Issues = %v, want the user-scalable issue", result.Issues)
		}
	})

	t.Run("viewport directive warnings", func(t *testing.T) {
		t.Parallel()

		server := servePage(t, `<html><head>
			<meta name="viewport" content="width=1024, maximum-scale=1.5">
		</head><body></body></html>`)
		result := New().Check(context.Background(), server.URL)

		for _, fragment := range []string{
			"instead of device-width",
			"does not set initial-scale",
			"maximum-scale of 1.5 limits zooming",
		} {
			if !containsFragment(result.Warnings, fragment) {
				t.Errorf("Warnings = %v, want one containing %q", result.Warnings, fragment)
			}
		}
	})

	t.Run("inflexible images and fixed widths warn", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		sb.WriteString(`<html><head><meta name="viewport" content="width=device-width, initial-scale=1"></head><body>`)
		sb.WriteString(`<img src="/a.jpg">`)
		for _i := 0; _i < 12; _i++ {
			sb.WriteString(`<div style="width: 960px"></div>`)
		}
		sb.WriteString(`</body></html>`)

		server := servePage(t, sb.String())
		result := New().Check(context.Background(), server.URL)

		if result.Responsive.FlexibleImages {
			t.Error("FlexibleImages = true for a plain img")
		}
		if result.Responsive.FixedWidthElements != 12 {
			t.Errorf("FixedWidthElements = %d, want 12", result.Responsive.FixedWidthElements)
		}
		if !containsFragment(result.Warnings, "fixed pixel widths") {
			t.Errorf("Warnings = %v, want a fixed width warning", result.Warnings)
		}
		if !containsFragment(result.Warnings, "lazy loading") {
			t.Errorf("Warnings = %v, want a lazy loading warning", result.Warnings)
		}
	})

	t.Run("small touch targets and fonts warn", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		sb.WriteString(`<html><head><meta name="viewport" content="width=device-width, initial-scale=1"></head><body>`)
		sb.WriteString(`<a href="/x" style="width: 20px; height: 20px">x</a>`)
		sb.WriteString(`<button class="btn btn-xs">ok</button>`)
		for _i := 0; _i < 6; _i++ {
			sb.WriteString(`<p style="font-size: 10px">fine print</p>`)
		}
		sb.WriteString(`</body></html>`)

		server := servePage(t, sb.String())
		result := New().Check(context.Background(), server.URL)

		if result.Usability.SmallTouchTargets != 2 {
			t.Errorf("SmallTouchTargets = %d, want 2", result.Usability.SmallTouchTargets)
		}
		if result.Usability.SmallFonts != 6 {
			t.Errorf("SmallFonts = %d, want 6", result.Usability.SmallFonts)
		}
		if !containsFragment(result.Recommendations, "48x48") {
			t.Errorf("Recommendations = %v, want the touch target size", result.Recommendations)
		}
	})

	t.Run("any image without loading triggers the lazy warning", func(t *testing.T) {
		t.Parallel()

		server := servePage(t, `<html><head>
			<meta name="viewport" content="width=device-width, initial-scale=1">
		</head><body>
			<img src="/hero.jpg" loading="lazy">
			<img src="/footer.jpg">
		</body></html>`)
		result := New().Check(context.Background(), server.URL)

		if result.Resources.LazyLoading {
			t.Error("LazyLoading = true with an unannotated image")
		}
		if !containsFragment(result.Warnings, "lazy loading") {
			t.Errorf("Warnings = %v, want a lazy loading warning", result.Warnings)
		}
	})

	t.Run("retina sources skip the lazy loading check", func(t *testing.T) {
		t.Parallel()

		server := servePage(t, `<html><head>
			<meta name="viewport" content="width=device-width, initial-scale=1">
		</head><body>
			<img src="/logo@2x.png">
			<img src="/banner-retina.jpg">
			<img src="/hero.jpg" loading="lazy">
		</body></html>`)
		result := New().Check(context.Background(), server.URL)

		if !result.Resources.LazyLoading {
			t.Errorf("LazyLoading = false, warnings %v", result.Warnings)
		}
		if containsFragment(result.Warnings, "lazy loading") {
			t.Errorf("Warnings = %v, want no lazy loading warning", result.Warnings)
		}
	})

	t.Run("framework reference implies media queries", func(t *testing.T) {
		t.Parallel()

		server := servePage(t, `<html><head>
			<meta name="viewport" content="width=device-width, initial-scale=1">
			<link rel="stylesheet" href="/assets/bootstrap.min.css">
		</head><body></body></html>`)
		result := New().Check(context.Background(), server.URL)

		if !result.MediaQueries.Found {
			t.Error("MediaQueries.Found = false, want true via framework")
		}
		if result.MediaQueries.Framework != "bootstrap" {
			t.Errorf("Framework = %q, want bootstrap", result.MediaQueries.Framework)
		}
	})

	t.Run("render-blocking scripts warn past the threshold", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		sb.WriteString(`<html><head><meta name="viewport" content="width=device-width, initial-scale=1">`)
		for i := 0; i < 5; i++ {
			sb.WriteString(`<script src="/js/app` + string(rune('a'+i)) + `.js"></script>`)
		}
		sb.WriteString(`<script src="/js/late.js" defer></script>`)
		sb.WriteString(`</head><body></body></html>`)

		server := servePage(t, sb.String())
		result := New().Check(context.Background(), server.URL)

		if result.Resources.RenderBlockingScripts != 5 {
			t.Errorf("RenderBlockingScripts = %d, want 5", result.Resources.RenderBlockingScripts)
		}
		if !containsFragment(result.Warnings, "render-blocking") {
			t.Errorf("Warnings = %v, want a render-blocking warning", result.Warnings)
		}
	})

	t.Run("unreachable page fails", func(t *testing.T) {
		t.Parallel()

		result := New().Check(context.Background(), "http://127.0.0.1:1")
		if result.Status != model.RunError {
			t.Errorf("Status = %v, want error", result.Status)
		}
		if result.MobileFriendly {
			t.Error("MobileFriendly = true on a failed check")
		}
	})
}

func TestParseDirectives(t *testing.T) {
	t.Parallel()

	directives := parseDirectives("width=device-width, initial-scale=1, user-scalable=no")
	if directives["width"] != "device-width" {
		t.Errorf("width = %q, want device-width", directives["width"])
	}
	if directives["initial-scale"] != "1" {
		t.Errorf("initial-scale = %q, want 1", directives["initial-scale"])
	}
	if directives["user-scalable"] != "no" {
		t.Errorf("user-scalable = %q, want no", directives["user-scalable"])
	}
}

func hasMessage(messages []string, want string) bool {
	for _, message := range messages {
		if message == want {
			return true
		}
	}
	return false
}

func containsFragment(messages []string, fragment string) bool {
	for _, message := range messages {
		if strings.Contains(message, fragment) {
			return true
		}
	}
	return false
}
