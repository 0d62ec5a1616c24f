package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// samplePage is a page with a representative mix of findings: a short title,
// no meta description, a single h1, one image without alt text, a canonical
// link, and one external link lacking rel attributes.
const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Welcome</title>
	<link rel="canonical" href="https://example.com/">
</head>
<body>
	<h1>Main Heading</h1>
	<h2>Subsection</h2>
	<img src="hero.png">
	<a href="/about">About</a>
	<a href="https://partner.example.net">Partner</a>
</body>
</html>`

func TestAuditorAudit(t *testing.T) {
	t.Parallel()

	t.Run("runs all checks by default", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(samplePage))
		}))
		defer server.Close()

		result := New().Audit(context.Background(), server.URL, nil)
		if result.Status != model.RunCompleted {
			t.Fatalf("Status = %v, want completed (error %q)", result.Status, result.Error)
		}
		if len(result.Checks) != len(model.AllCheckKinds()) {
			t.Errorf("len(Checks) = %d, want %d", len(result.Checks), len(model.AllCheckKinds()))
		}

		// Title too short -> warning, no meta description -> error,
		// image without alt -> error, external link without rel -> warning.
		if result.Checks["title"].Status != model.CheckStatusWarning {
			t.Errorf("title status = %v, want warning", result.Checks["title"].Status)
		}
		if result.Checks["meta_description"].Status != model.CheckStatusError {
			t.Errorf("meta_description status = %v, want error", result.Checks["meta_description"].Status)
		}
		if result.Checks["images"].Status != model.CheckStatusError {
			t.Errorf("images status = %v, want error", result.Checks["images"].Status)
		}
		if result.Checks["headings"].Status != model.CheckStatusOK {
			t.Errorf("headings status = %v, want ok", result.Checks["headings"].Status)
		}
		if result.Checks["canonical"].Status != model.CheckStatusOK {
			t.Errorf("canonical status = %v, want ok", result.Checks["canonical"].Status)
		}

		// 3 passed (headings, canonical, robots), 3 warnings
		// (title, schema, links), 2 errors: score = round(3/8*100) = 38.
		if result.Score != 38 {
			t.Errorf("Score = %d, want 38", result.Score)
		}
	})

	t.Run("runs only selected checks", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(samplePage))
		}))
		defer server.Close()

		result := New().Audit(context.Background(), server.URL, []model.CheckKind{model.CheckTitle, model.CheckHeadings})
		if len(result.Checks) != 2 {
			t.Errorf("len(Checks) = %d, want 2", len(result.Checks))
		}
		if result.Issues.Total() != 2 {
			t.Errorf("tally total = %d, want 2", result.Issues.Total())
		}
	})

	t.Run("identical content yields identical results", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(samplePage))
		}))
		defer server.Close()

		auditor := New()
		first := auditor.Audit(context.Background(), server.URL, nil)
		second := auditor.Audit(context.Background(), server.URL, nil)

		// Only the timestamp may differ between runs over the same bytes.
		first.Timestamp = time.Time{}
		second.Timestamp = time.Time{}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("results differ across identical runs:\nfirst:  %+v\nsecond: %+v", first, second)
		}
	})

	t.Run("fetch failure is fail-fast", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		result := New().Audit(context.Background(), server.URL, nil)
		if result.Status != model.RunError {
			t.Errorf("Status = %v, want error", result.Status)
		}
		if result.Score != 0 {
			t.Errorf("Score = %d, want 0", result.Score)
		}
		if len(result.Checks) != 0 {
			t.Errorf("len(Checks) = %d, want 0", len(result.Checks))
		}
		if result.Error == "" {
			t.Error("Error message should be recorded")
		}
	})

	t.Run("unreachable host is fail-fast", func(t *testing.T) {
		t.Parallel()

		result := New().Audit(context.Background(), "http://127.0.0.1:1", nil)
		if result.Status != model.RunError {
			t.Errorf("Status = %v, want error", result.Status)
		}
	})
}
