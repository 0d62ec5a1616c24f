package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/youssefhodaigui/seoaudit/internal/config"
	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// TestNewBulkCmd tests the bulk command creation.
func TestNewBulkCmd(t *testing.T) {
	t.Parallel()

	cmd := NewBulkCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "bulk <file>" {
			t.Errorf("expected use 'bulk <file>', got %q", cmd.Use)
		}
	})

	t.Run("has save flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("save")
		if flag == nil {
			t.Fatal("expected save flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
	})

	t.Run("save flag is required", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("save")
		if flag == nil {
			t.Fatal("expected save flag")
		}
		required, ok := flag.Annotations["cobra_annotation_bash_completion_one_required_flag"]
		if !ok || len(required) == 0 || required[0] != "true" {
			t.Error("expected save flag to be marked required")
		}
	})

	t.Run("has output flag defaulting to csv", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.DefValue != config.FormatCSV {
			t.Errorf("expected default %q, got %q", config.FormatCSV, flag.DefValue)
		}
	})

	t.Run("has concurrency flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("concurrency")
		if flag == nil {
			t.Fatal("expected concurrency flag")
		}
		if flag.DefValue != "1" {
			t.Errorf("expected default '1', got %q", flag.DefValue)
		}
	})

	t.Run("has checks flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("checks") == nil {
			t.Fatal("expected checks flag")
		}
	})
}

// TestReadURLFile tests the URL list parsing.
func TestReadURLFile(t *testing.T) {
	t.Parallel()

	t.Run("reads one URL per line", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "urls.txt")

		content := "example.com\nhttps://other.com/page\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		targets, err := readURLFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(targets) != 2 {
			t.Fatalf("expected 2 targets, got %d", len(targets))
		}
		if targets[0] != "https://example.com" {
			t.Errorf("expected normalized first target, got %q", targets[0])
		}
		if targets[1] != "https://other.com/page" {
			t.Errorf("expected second target unchanged, got %q", targets[1])
		}
	})

	t.Run("skips blank lines", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "urls.txt")

		content := "example.com\n\n   \nother.com\n\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		targets, err := readURLFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(targets) != 2 {
			t.Errorf("expected 2 targets, got %d: %v", len(targets), targets)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		t.Parallel()
		_, err := readURLFile("/nonexistent/urls.txt")
		if err == nil {
			t.Error("expected error for missing file")
		}
	})
}

// TestWriteBulkResults tests the combined output writing.
func TestWriteBulkResults(t *testing.T) {
	t.Parallel()

	reports := []*model.Report{
		model.NewReport("https://example.com"),
		model.NewReport("https://other.com"),
	}

	t.Run("writes CSV with one row per report", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "results.csv")

		if err := writeBulkResults(config.FormatCSV, path, reports); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		// Header plus one row per report.
		if len(lines) != 3 {
			t.Errorf("expected 3 lines, got %d:\n%s", len(lines), content)
		}
	})

	t.Run("writes JSON array", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "results.json")

		if err := writeBulkResults(config.FormatJSON, path, reports); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(content, &decoded); err != nil {
			t.Fatalf("expected valid JSON array, got error: %v", err)
		}
		if len(decoded) != 2 {
			t.Errorf("expected 2 reports, got %d", len(decoded))
		}
	})

	t.Run("skips nil reports", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "results.json")

		withNil := []*model.Report{reports[0], nil}
		if err := writeBulkResults(config.FormatJSON, path, withNil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(content, &decoded); err != nil {
			t.Fatalf("expected valid JSON array, got error: %v", err)
		}
		if len(decoded) != 1 {
			t.Errorf("expected 1 report, got %d", len(decoded))
		}
	})
}

// TestBuildBulkConfig tests the shared flag parsing for bulk runs.
func TestBuildBulkConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewBulkCmd()
		cfg, err := buildBulkConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Strategy != config.StrategyMobile {
			t.Errorf("expected strategy %q, got %q", config.StrategyMobile, cfg.Strategy)
		}
	})

	t.Run("returns error for invalid strategy", func(t *testing.T) {
		cmd := NewBulkCmd()
		_ = cmd.Flags().Set("strategy", "tablet")
		if _, err := buildBulkConfig(cmd); err == nil {
			t.Error("expected error for invalid strategy")
		}
	})

	t.Run("returns error for unknown check", func(t *testing.T) {
		cmd := NewBulkCmd()
		_ = cmd.Flags().Set("checks", "backlinks")
		if _, err := buildBulkConfig(cmd); err == nil {
			t.Error("expected error for unknown check")
		}
	})
}

// TestRunBulkCmdMissingFile tests bulk with a nonexistent URL file.
func TestRunBulkCmdMissingFile(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"bulk", "/nonexistent/urls.txt", "--save", filepath.Join(t.TempDir(), "out.csv")})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error for missing URL file")
	}
}

// TestRunBulkCmdRequiresSave tests that bulk fails without --save.
func TestRunBulkCmdRequiresSave(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"bulk", "/tmp/urls.txt"})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error when --save is omitted")
	}
	if !strings.Contains(err.Error(), "save") {
		t.Errorf("expected error to mention the save flag, got: %v", err)
	}
}
