package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// sampleReport builds a small completed report for storage tests.
func sampleReport(url string) *model.Report {
	report := model.NewReport(url)

	audit := model.NewAuditResult(url)
	audit.AddCheck(model.CheckTitle, &model.CheckResult{
		Status:  model.CheckStatusOK,
		Message: "Title length is optimal",
	})
	audit.AddCheck(model.CheckMetaDescription, &model.CheckResult{
		Status:  model.CheckStatusError,
		Message: "No meta description found",
	})
	audit.FinalizeScore()
	report.Technical = audit

	return report
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		dbPath := filepath.Join(dbDir, "seoaudit.db")
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		opts := Options{
			CreateIfNotExists: false,
			EnableWAL:         true,
		}

		_, err := Open(filepath.Join(t.TempDir(), "nonexistent-db"), opts)
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected error to mention the missing database, got %q", err.Error())
		}
	})
}

// TestSaveAndLatest tests storing and retrieving reports.
func TestSaveAndLatest(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	first := sampleReport("https://example.com")
	if err := db.Save(ctx, first); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	second := sampleReport("https://example.com")
	second.Timestamp = second.Timestamp.Add(1)
	if err := db.Save(ctx, second); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	latest, err := db.Latest(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("failed to get latest report: %v", err)
	}
	if latest == nil {
		t.Fatal("Latest() = nil, want a report")
	}
	if latest.ID != second.ID {
		t.Errorf("latest report ID = %s, want %s", latest.ID, second.ID)
	}
	if latest.Technical == nil {
		t.Error("technical section did not survive the round trip")
	}
	if latest.Technical.Score != first.Technical.Score {
		t.Errorf("Score = %d, want %d", latest.Technical.Score, first.Technical.Score)
	}

	missing, err := db.Latest(ctx, "https://never-audited.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("Latest() for an unknown URL should be nil")
	}
}

// TestHistory tests listing the stored runs of one URL.
func TestHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _i := 0; _i < 3; _i++ {
		if err := db.Save(ctx, sampleReport("https://example.com")); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
	}
	if err := db.Save(ctx, sampleReport("https://other.example.com")); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	history, err := db.History(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 3 {
		t.Errorf("len(history) = %d, want 3", len(history))
	}

	urls, err := db.ListURLs(ctx)
	if err != nil {
		t.Fatalf("failed to list URLs: %v", err)
	}
	if len(urls) != 2 {
		t.Errorf("len(urls) = %d, want 2", len(urls))
	}
}

// TestListMetadata tests the lightweight history listing.
func TestListMetadata(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	report := sampleReport("https://example.com")
	if err := db.Save(ctx, report); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	metas, err := db.ListMetadata(ctx, "")
	if err != nil {
		t.Fatalf("failed to list metadata: %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("len(metas) = %d, want 1", len(metas))
	}

	meta := metas[0]
	if meta.URL != "https://example.com" {
		t.Errorf("URL = %q, want https://example.com", meta.URL)
	}
	if meta.ReportID != report.ID {
		t.Errorf("ReportID = %q, want %q", meta.ReportID, report.ID)
	}
	if meta.CriticalCount != 1 {
		t.Errorf("CriticalCount = %d, want 1", meta.CriticalCount)
	}
	want, _ := report.OverallScore()
	if meta.OverallScore != want {
		t.Errorf("OverallScore = %d, want %d", meta.OverallScore, want)
	}

	loaded, err := db.GetByID(ctx, meta.ID)
	if err != nil {
		t.Fatalf("failed to load report by ID: %v", err)
	}
	if loaded == nil || loaded.ID != report.ID {
		t.Errorf("GetByID returned %+v, want report %s", loaded, report.ID)
	}
}
