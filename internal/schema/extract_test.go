package schema

import (
	"strings"
	"testing"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("JSON-LD block", func(t *testing.T) {
		t.Parallel()

		page := `<html><head>
			<script type="application/ld+json">
			{"@context": "https://schema.org", "@type": "Organization", "name": "Acme", "url": "https://acme.example.com"}
			</script>
		</head><body></body></html>`

		records, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 {
			t.Fatalf("len(records) = %d, want 1", len(records))
		}
		if records[0].Type != "Organization" {
			t.Errorf("Type = %q, want Organization", records[0].Type)
		}
		if records[0].Format != model.SchemaFormatJSONLD {
			t.Errorf("Format = %q, want json-ld", records[0].Format)
		}
		if records[0].Properties["name"] != "Acme" {
			t.Errorf("name = %v, want Acme", records[0].Properties["name"])
		}
	})

	t.Run("top-level JSON-LD array is flattened", func(t *testing.T) {
		t.Parallel()

		page := `<html><head><script type="application/ld+json">
			[{"@type": "Organization", "name": "Acme"}, {"@type": "WebSite", "name": "Acme Site"}]
		</script></head></html>`

		records, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 2 {
			t.Fatalf("len(records) = %d, want 2", len(records))
		}
		if records[0].Type != "Organization" || records[1].Type != "WebSite" {
			t.Errorf("types = %q, %q", records[0].Type, records[1].Type)
		}
	})

	t.Run("broken JSON-LD does not hide other blocks", func(t *testing.T) {
		t.Parallel()

		page := `<html><head>
			<script type="application/ld+json">{not json at all</script>
			<script type="application/ld+json">{"@type": "WebSite", "name": "Acme"}</script>
		</head></html>`

		records, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 {
			t.Fatalf("len(records) = %d, want 1", len(records))
		}
		if records[0].Type != "WebSite" {
			t.Errorf("Type = %q, want WebSite", records[0].Type)
		}
	})

	t.Run("@type list keeps the first entry", func(t *testing.T) {
		t.Parallel()

		page := `<html><head><script type="application/ld+json">
			{"@type": ["Restaurant", "LocalBusiness"], "name": "Diner"}
		</script></head></html>`

		records, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatal(err)
		}
		if records[0].Type != "Restaurant" {
			t.Errorf("Type = %q, want Restaurant", records[0].Type)
		}
	})

	t.Run("microdata item", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<div itemscope itemtype="https://schema.org/Product">
				<span itemprop="name">Widget</span>
				<img itemprop="image" src="/widget.png">
				<meta itemprop="sku" content="W-1">
			</div>
		</body></html>`

		records, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 {
			t.Fatalf("len(records) = %d, want 1", len(records))
		}
		rec := records[0]
		if rec.Type != "Product" {
			t.Errorf("Type = %q, want Product", rec.Type)
		}
		if rec.Format != model.SchemaFormatMicrodata {
			t.Errorf("Format = %q, want microdata", rec.Format)
		}
		if rec.Properties["name"] != "Widget" {
			t.Errorf("name = %v, want Widget", rec.Properties["name"])
		}
		if rec.Properties["image"] != "/widget.png" {
			t.Errorf("image = %v, want /widget.png", rec.Properties["image"])
		}
		if rec.Properties["sku"] != "W-1" {
			t.Errorf("sku = %v, want W-1", rec.Properties["sku"])
		}
	})

	t.Run("microdata type keeps the last path segment", func(t *testing.T) {
		t.Parallel()

		page := `<div itemscope itemtype="https://example.org/vocab/Product"></div>`
		records, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatal(err)
		}
		if records[0].Type != "Product" {
			t.Errorf("Type = %q, want Product", records[0].Type)
		}
	})

	t.Run("nested itemscope is a separate record boundary", func(t *testing.T) {
		t.Parallel()

		page := `<div itemscope itemtype="https://schema.org/Product">
			<span itemprop="name">Widget</span>
			<div itemprop="offers" itemscope itemtype="https://schema.org/Offer">
				<span itemprop="price">9.99</span>
			</div>
		</div>`

		records, err := Extract(strings.NewReader(page))
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 {
			t.Fatalf("len(records) = %d, want 1 top-level record", len(records))
		}
		if _, leaked := records[0].Properties["price"]; leaked {
			t.Error("nested offer price leaked into the parent record")
		}
	})

	t.Run("no structured data", func(t *testing.T) {
		t.Parallel()

		records, err := Extract(strings.NewReader("<html><body><p>plain</p></body></html>"))
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 0 {
			t.Errorf("len(records) = %d, want 0", len(records))
		}
	})
}
