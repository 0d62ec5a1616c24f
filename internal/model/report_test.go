package model

import "testing"

func TestSchemaResultFinalizeScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		errors   int
		warnings int
		found    int
		want     int
	}{
		{name: "clean with schema", found: 2, want: 100},
		{name: "no schema gets no bonus", want: 100},
		{name: "no schema with its warning", warnings: 1, want: 95},
		{name: "one error one warning with schema", errors: 1, warnings: 1, found: 1, want: 95},
		{name: "many errors clamp to zero", errors: 12, found: 1, want: 0},
		{name: "bonus clamps at 100", found: 1, want: 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := NewSchemaResult("https://example.com")
			for _i := 0; _i < tt.errors; _i++ {
				result.Errors = append(result.Errors, "missing field")
			}
			for _i := 0; _i < tt.warnings; _i++ {
				result.Warnings = append(result.Warnings, "missing recommended field")
			}
			for _i := 0; _i < tt.found; _i++ {
				result.SchemasFound = append(result.SchemasFound, "Organization")
			}

			result.FinalizeScore()
			if result.Score != tt.want {
				t.Errorf("Score = %d, want %d", result.Score, tt.want)
			}
		})
	}
}

func TestMobileResultFinalizeScore(t *testing.T) {
	t.Parallel()

	t.Run("clean page with viewport and media queries", func(t *testing.T) {
		t.Parallel()

		result := NewMobileResult("https://example.com")
		result.Viewport = &ViewportInfo{Present: true}
		result.MediaQueries = &MediaQueryInfo{Found: true}
		result.FinalizeScore()

		if result.Score != 100 {
			t.Errorf("Score = %d, want 100", result.Score)
		}
		if !result.MobileFriendly {
			t.Error("MobileFriendly = false, want true")
		}
	})

	t.Run("issues block mobile friendliness", func(t *testing.T) {
		t.Parallel()

		result := NewMobileResult("https://example.com")
		result.Issues = append(result.Issues, "Viewport disables user scaling (user-scalable=no)")
		result.Viewport = &ViewportInfo{Present: true}
		result.FinalizeScore()

		if result.MobileFriendly {
			t.Error("MobileFriendly = true despite blocking issues")
		}
		if result.Score != 90 {
			t.Errorf("Score = %d, want 90", result.Score)
		}
	})

	t.Run("score clamps at zero", func(t *testing.T) {
		t.Parallel()

		result := NewMobileResult("https://example.com")
		for _i := 0; _i < 10; _i++ {
			result.Issues = append(result.Issues, "issue")
		}
		result.FinalizeScore()

		if result.Score != 0 {
			t.Errorf("Score = %d, want 0", result.Score)
		}
	})
}

func TestReportOverallScore(t *testing.T) {
	t.Parallel()

	t.Run("averages present sections", func(t *testing.T) {
		t.Parallel()

		report := NewReport("https://example.com")
		report.Technical = &AuditResult{Score: 80, Status: RunCompleted}
		report.Mobile = &MobileResult{Score: 60, Status: RunCompleted}

		got, ok := report.OverallScore()
		if !ok {
			t.Fatal("OverallScore() ok = false, want true")
		}
		if got != 70 {
			t.Errorf("OverallScore() = %d, want 70", got)
		}
	})

	t.Run("empty report has no score", func(t *testing.T) {
		t.Parallel()

		report := NewReport("https://example.com")
		if _, ok := report.OverallScore(); ok {
			t.Error("OverallScore() ok = true for empty report")
		}
	})
}

func TestReportCounts(t *testing.T) {
	t.Parallel()

	report := NewReport("https://example.com")
	report.Technical = &AuditResult{Issues: IssueTally{Critical: 2, Warnings: 1}}
	report.Schema = &SchemaResult{Errors: []string{"a"}, Warnings: []string{"b", "c"}}
	report.Mobile = &MobileResult{Issues: []string{"d"}}

	if got := report.CriticalCount(); got != 4 {
		t.Errorf("CriticalCount() = %d, want 4", got)
	}
	if got := report.WarningCount(); got != 3 {
		t.Errorf("WarningCount() = %d, want 3", got)
	}
}

func TestNewReportIdentity(t *testing.T) {
	t.Parallel()

	a := NewReport("https://example.com")
	b := NewReport("https://example.com")

	if a.ID == "" || b.ID == "" {
		t.Fatal("reports must carry IDs")
	}
	if a.ID == b.ID {
		t.Error("two reports share the same ID")
	}
}
