package model

import (
	"errors"
	"testing"
)

func TestCheckKindNames(t *testing.T) {
	t.Parallel()

	want := []string{
		"title", "meta_description", "headings", "images",
		"canonical", "robots", "schema", "links",
	}

	kinds := AllCheckKinds()
	if len(kinds) != len(want) {
		t.Fatalf("AllCheckKinds() returned %d kinds, want %d", len(kinds), len(want))
	}
	for i, k := range kinds {
		if k.String() != want[i] {
			t.Errorf("kind[%d] = %q, want %q", i, k.String(), want[i])
		}
	}
}

func TestParseCheckKind(t *testing.T) {
	t.Parallel()

	t.Run("every name round trips", func(t *testing.T) {
		t.Parallel()
		for _, k := range AllCheckKinds() {
			parsed, err := ParseCheckKind(k.String())
			if err != nil {
				t.Fatalf("ParseCheckKind(%q) error = %v", k.String(), err)
			}
			if parsed != k {
				t.Errorf("ParseCheckKind(%q) = %v, want %v", k.String(), parsed, k)
			}
		}
	})

	t.Run("unknown name fails", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseCheckKind("keywords"); err == nil {
			t.Error("ParseCheckKind(keywords) should fail")
		}
	})
}

func TestAuditResultAddCheck(t *testing.T) {
	t.Parallel()

	result := NewAuditResult("https://example.com")
	result.AddCheck(CheckTitle, &CheckResult{Status: CheckStatusOK})
	result.AddCheck(CheckMetaDescription, &CheckResult{Status: CheckStatusWarning})
	result.AddCheck(CheckImages, &CheckResult{Status: CheckStatusError})

	if result.Issues.Passed != 1 {
		t.Errorf("Passed = %d, want 1", result.Issues.Passed)
	}
	if result.Issues.Warnings != 1 {
		t.Errorf("Warnings = %d, want 1", result.Issues.Warnings)
	}
	if result.Issues.Critical != 1 {
		t.Errorf("Critical = %d, want 1", result.Issues.Critical)
	}
	if len(result.Checks) != 3 {
		t.Errorf("len(Checks) = %d, want 3", len(result.Checks))
	}
	if result.Checks["title"] == nil {
		t.Error("title check not recorded under its name")
	}
}

func TestAuditResultFinalizeScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		passed  int
		warning int
		failed  int
		want    int
	}{
		{name: "all passed", passed: 8, want: 100},
		{name: "none passed", failed: 8, want: 0},
		{name: "half passed", passed: 4, failed: 4, want: 50},
		{name: "rounding up", passed: 7, failed: 1, want: 88},
		{name: "no checks", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := NewAuditResult("https://example.com")
			kinds := AllCheckKinds()
			idx := 0
			add := func(n int, status CheckStatus) {
				for _i := 0; _i < n; _i++ {
					result.AddCheck(kinds[idx%len(kinds)], &CheckResult{Status: status})
					idx++
				}
			}
			add(tt.passed, CheckStatusOK)
			add(tt.warning, CheckStatusWarning)
			add(tt.failed, CheckStatusError)

			result.FinalizeScore()
			if result.Score != tt.want {
				t.Errorf("Score = %d, want %d", result.Score, tt.want)
			}
		})
	}
}

// Adding a failing check to an otherwise fixed set must never raise the score.
func TestAuditResultScoreMonotonicity(t *testing.T) {
	t.Parallel()

	base := NewAuditResult("https://example.com")
	base.AddCheck(CheckTitle, &CheckResult{Status: CheckStatusOK})
	base.AddCheck(CheckHeadings, &CheckResult{Status: CheckStatusOK})
	base.FinalizeScore()

	worse := NewAuditResult("https://example.com")
	worse.AddCheck(CheckTitle, &CheckResult{Status: CheckStatusOK})
	worse.AddCheck(CheckHeadings, &CheckResult{Status: CheckStatusOK})
	worse.AddCheck(CheckImages, &CheckResult{Status: CheckStatusError})
	worse.FinalizeScore()

	if worse.Score > base.Score {
		t.Errorf("score rose from %d to %d after adding a failing check", base.Score, worse.Score)
	}
}

func TestAuditResultFail(t *testing.T) {
	t.Parallel()

	result := NewAuditResult("https://example.com")
	result.Fail(errors.New("connection refused"))

	if result.Status != RunError {
		t.Errorf("Status = %v, want %v", result.Status, RunError)
	}
	if result.Score != 0 {
		t.Errorf("Score = %d, want 0", result.Score)
	}
	if result.Error != "connection refused" {
		t.Errorf("Error = %q, want %q", result.Error, "connection refused")
	}
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want int
	}{
		{in: -20, want: 0},
		{in: 0, want: 0},
		{in: 55, want: 55},
		{in: 100, want: 100},
		{in: 115, want: 100},
	}

	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
