package main

import (
	"strings"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "seoaudit" {
			t.Errorf("expected use 'seoaudit', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		subcommands := cmd.Commands()
		if len(subcommands) == 0 {
			t.Error("expected subcommands")
		}

		wanted := map[string]bool{
			"audit <url>":        false,
			"technical <url>":    false,
			"cwv <url> [url...]": false,
			"schema <url>":       false,
			"sitemap <url>":      false,
			"mobile <url>":       false,
			"bulk <file>":        false,
			"history [url]":      false,
			"version":            false,
		}
		for _, sub := range subcommands {
			if _, ok := wanted[sub.Use]; ok {
				wanted[sub.Use] = true
			}
		}
		for use, found := range wanted {
			if !found {
				t.Errorf("expected %q subcommand", use)
			}
		}
	})

	t.Run("bare invocation returns an error", func(t *testing.T) {
		t.Parallel()

		root := NewRootCmd()
		root.SetOut(&strings.Builder{})
		root.SetErr(&strings.Builder{})
		root.SetArgs([]string{})

		err := root.Execute()
		if err == nil {
			t.Fatal("expected error when no subcommand is given")
		}
		if !strings.Contains(err.Error(), "no command") {
			t.Errorf("expected 'no command' error, got: %v", err)
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestSetupLogger tests the logger setup.
func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("creates logger for verbose mode", func(t *testing.T) {
		t.Parallel()
		logger := setupLogger(true)
		if logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("creates logger for non-verbose mode", func(t *testing.T) {
		t.Parallel()
		logger := setupLogger(false)
		if logger == nil {
			t.Error("expected non-nil logger")
		}
	})
}

// TestGetVerboseFlag tests the verbose flag retrieval.
func TestGetVerboseFlag(t *testing.T) {
	t.Run("returns false when flag not set", func(t *testing.T) {
		cmd := NewAuditCmd()
		if getVerboseFlag(cmd) {
			t.Error("expected false when flag not set")
		}
	})

	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		root := NewRootCmd()
		_ = root.PersistentFlags().Set("verbose", "true")

		auditCmd, _, err := root.Find([]string{"audit"})
		if err != nil {
			t.Fatalf("failed to find audit command: %v", err)
		}

		if !getVerboseFlag(auditCmd) {
			t.Error("expected true from parent verbose flag")
		}
	})
}

// TestValidFormat tests output format validation.
func TestValidFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		want   bool
	}{
		{name: "text", format: "text", want: true},
		{name: "json", format: "json", want: true},
		{name: "html", format: "html", want: true},
		{name: "csv", format: "csv", want: true},
		{name: "markdown", format: "markdown", want: true},
		{name: "unknown format", format: "xml", want: false},
		{name: "empty", format: "", want: false},
		{name: "uppercase is rejected", format: "JSON", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := validFormat(tt.format); got != tt.want {
				t.Errorf("validFormat(%q) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

// TestHostOf tests hostname extraction for config lookups.
func TestHostOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "https URL", target: "https://example.com/page", want: "example.com"},
		{name: "http URL", target: "http://example.com", want: "example.com"},
		{name: "URL with port", target: "https://example.com:8443/page", want: "example.com"},
		{name: "subdomain", target: "https://www.example.com", want: "www.example.com"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := hostOf(tt.target); got != tt.want {
				t.Errorf("hostOf(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}
