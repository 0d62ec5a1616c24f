package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetcherGet(t *testing.T) {
	t.Parallel()

	t.Run("returns body and metadata", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("User-Agent"); !strings.Contains(got, "SEOAudit") {
				t.Errorf("User-Agent = %q, want SEOAudit identifier", got)
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><title>Hello</title></html>"))
		}))
		defer server.Close()

		f := New()
		resp, err := f.Get(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !strings.Contains(string(resp.Body), "Hello") {
			t.Errorf("body = %q, want to contain Hello", resp.Body)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
		}
		if resp.ContentType() != "text/html" {
			t.Errorf("ContentType() = %q, want text/html", resp.ContentType())
		}
	})

	t.Run("error status is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer server.Close()

		f := New()
		if _, err := f.Get(context.Background(), server.URL); err == nil {
			t.Error("Get() should fail on status 404")
		}
	})

	t.Run("body is truncated at the limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
		}))
		defer server.Close()

		f := New(WithMaxBodySize(100))
		resp, err := f.Get(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if len(resp.Body) != 100 {
			t.Errorf("len(body) = %d, want 100", len(resp.Body))
		}
	})

	t.Run("final URL follows redirects", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/end", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/end", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("done"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		f := New()
		resp, err := f.Get(context.Background(), server.URL+"/start")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if resp.FinalURL.Path != "/end" {
			t.Errorf("FinalURL.Path = %q, want /end", resp.FinalURL.Path)
		}
	})

	t.Run("custom headers and cookie are sent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Custom") != "abc" {
				t.Errorf("X-Custom = %q, want abc", r.Header.Get("X-Custom"))
			}
			if r.Header.Get("Cookie") != "session=xyz" {
				t.Errorf("Cookie = %q, want session=xyz", r.Header.Get("Cookie"))
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		f := New(
			WithHeaders(map[string]string{"X-Custom": "abc"}),
			WithCookie("session=xyz"),
		)
		if _, err := f.Get(context.Background(), server.URL); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(2 * time.Second)
			_, _ = w.Write([]byte("slow"))
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		f := New()
		if _, err := f.Get(ctx, server.URL); err == nil {
			t.Error("Get() should fail when context expires")
		}
	})
}

func TestFetcherHead(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %q, want HEAD", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	f := New()
	status, err := f.Head(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	if status != http.StatusNoContent {
		t.Errorf("status = %d, want 204", status)
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "example.com", want: "https://example.com"},
		{in: "https://example.com", want: "https://example.com"},
		{in: "http://example.com", want: "http://example.com"},
		{in: "  example.com ", want: "https://example.com"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
