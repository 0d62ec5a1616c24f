package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/youssefhodaigui/seoaudit/internal/model"
	"github.com/youssefhodaigui/seoaudit/internal/vitals"
)

// auditPage is a minimal but healthy HTML page for component steps.
const auditPage = `<!DOCTYPE html>
<html>
<head>
<title>Acme Widgets - Affordable widgets for every workshop</title>
<meta name="description" content="Acme Widgets sells affordable, durable widgets for workshops of every size. Free shipping on orders over $50 and a lifetime guarantee on all products.">
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="canonical" href="https://example.com/">
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Organization","name":"Acme","url":"https://example.com","logo":"https://example.com/logo.png","sameAs":["https://twitter.com/acme"],"contactPoint":{"@type":"ContactPoint","telephone":"+1-555-0100"}}
</script>
</head>
<body>
<h1>Acme Widgets</h1>
<p>Widgets for everyone.</p>
<img src="/hero.png" alt="A pile of widgets" loading="lazy">
<a href="/shop">Shop</a>
</body>
</html>`

// servePage starts a test server that answers every path with the page.
func servePage(t *testing.T, page string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)

	return server
}

// TestTechnicalStep tests the technical audit step.
func TestTechnicalStep(t *testing.T) {
	t.Parallel()

	t.Run("fills the technical section", func(t *testing.T) {
		t.Parallel()

		server := servePage(t, auditPage)

		step := NewTechnicalStep()
		report := model.NewReport(server.URL)

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Technical == nil {
			t.Fatal("expected technical section to be set")
		}
		if report.Technical.Status != model.RunCompleted {
			t.Errorf("Status = %s, want completed", report.Technical.Status)
		}
		if len(report.Technical.Checks) == 0 {
			t.Error("expected at least one check result")
		}
	})

	t.Run("records fetch failure in the section", func(t *testing.T) {
		t.Parallel()

		step := NewTechnicalStep()
		report := model.NewReport("http://127.0.0.1:1")

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("step errors should be recorded, not returned: %v", err)
		}
		if report.Technical == nil {
			t.Fatal("expected technical section to be set")
		}
		if report.Technical.Status != model.RunError {
			t.Errorf("Status = %s, want error", report.Technical.Status)
		}
	})

	t.Run("reports its component name", func(t *testing.T) {
		t.Parallel()

		if got := NewTechnicalStep().Name(); got != "technical" {
			t.Errorf("Name() = %q, want technical", got)
		}
	})
}

// TestVitalsStep tests the Core Web Vitals step.
func TestVitalsStep(t *testing.T) {
	t.Parallel()

	t.Run("records API failure in the section", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(server.Close)

		client := vitals.NewClient(vitals.WithEndpoint(server.URL))
		step := NewVitalsStep(WithVitalsClient(client))
		report := model.NewReport("https://example.com")

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Vitals == nil {
			t.Fatal("expected vitals section to be set")
		}
		if report.Vitals.Status != model.RunError {
			t.Errorf("Status = %s, want error", report.Vitals.Status)
		}
	})

	t.Run("defaults to the mobile strategy", func(t *testing.T) {
		t.Parallel()

		step := NewVitalsStep()
		if step.strategy != "mobile" {
			t.Errorf("strategy = %q, want mobile", step.strategy)
		}
	})
}

// TestSchemaStep tests the structured data step.
func TestSchemaStep(t *testing.T) {
	t.Parallel()

	server := servePage(t, auditPage)

	step := NewSchemaStep()
	report := model.NewReport(server.URL)

	if err := step.Do(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Schema == nil {
		t.Fatal("expected schema section to be set")
	}
	if report.Schema.Status != model.RunCompleted {
		t.Errorf("Status = %s, want completed", report.Schema.Status)
	}
	if len(report.Schema.SchemasFound) != 1 || report.Schema.SchemasFound[0] != "Organization" {
		t.Errorf("SchemasFound = %v, want [Organization]", report.Schema.SchemasFound)
	}
}

// TestSitemapStep tests the sitemap discovery and analysis step.
func TestSitemapStep(t *testing.T) {
	t.Parallel()

	t.Run("analyzes the first discovered sitemap", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc><lastmod>2024-01-15</lastmod></url>
  <url><loc>https://example.com/about</loc></url>
</urlset>`))
		})
		mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		step := NewSitemapStep()
		report := model.NewReport(server.URL)

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Sitemap == nil {
			t.Fatal("expected sitemap section to be set")
		}
		if report.Sitemap.Status != model.RunCompleted {
			t.Fatalf("Status = %s, want completed", report.Sitemap.Status)
		}
		if report.Sitemap.Type != model.SitemapTypeURLSet {
			t.Errorf("Type = %q, want urlset", report.Sitemap.Type)
		}
		if report.Sitemap.URLCount != 2 {
			t.Errorf("URLCount = %d, want 2", report.Sitemap.URLCount)
		}
		if len(report.Sitemap.DiscoveredSitemaps) == 0 {
			t.Error("expected discovered sitemaps to be recorded")
		}
	})

	t.Run("records not_found when discovery locates nothing", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		t.Cleanup(server.Close)

		step := NewSitemapStep()
		report := model.NewReport(server.URL)

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Sitemap == nil {
			t.Fatal("expected sitemap section to be set")
		}
		if report.Sitemap.Status != model.RunNotFound {
			t.Errorf("Status = %s, want not_found", report.Sitemap.Status)
		}
		if len(report.Sitemap.Recommendations) == 0 {
			t.Error("expected a recommendation to create a sitemap")
		}
	})
}

// TestMobileStep tests the mobile-friendliness step.
func TestMobileStep(t *testing.T) {
	t.Parallel()

	server := servePage(t, auditPage)

	step := NewMobileStep()
	report := model.NewReport(server.URL)

	if err := step.Do(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Mobile == nil {
		t.Fatal("expected mobile section to be set")
	}
	if report.Mobile.Status != model.RunCompleted {
		t.Errorf("Status = %s, want completed", report.Mobile.Status)
	}
	if report.Mobile.Viewport == nil || !report.Mobile.Viewport.Present {
		t.Error("expected viewport to be detected")
	}
}
