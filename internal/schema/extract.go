package schema

import (
	"encoding/json"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// Extract collects every structured data record from an HTML document:
// JSON-LD blocks first, then microdata items. Unparseable JSON-LD blocks are
// skipped; one broken block never hides the others.
func Extract(content io.Reader) ([]model.SchemaRecord, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	var records []model.SchemaRecord

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "script" && strings.EqualFold(getAttr(n, "type"), "application/ld+json"):
				records = append(records, decodeJSONLD(textContent(n))...)
				// JSON-LD scripts have no microdata children.
				return
			case hasAttr(n, "itemscope"):
				records = append(records, extractMicrodataItem(n))
				// Nested itemscopes become properties of the parent,
				// mirroring how consumers flatten microdata trees.
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return records, nil
}

// decodeJSONLD parses one JSON-LD block into records, flattening top-level
// arrays. Parse failures yield no records.
func decodeJSONLD(block string) []model.SchemaRecord {
	var decoded any
	if err := json.Unmarshal([]byte(block), &decoded); err != nil {
		return nil
	}

	var records []model.SchemaRecord
	switch v := decoded.(type) {
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				records = append(records, jsonLDRecord(m))
			}
		}
	case map[string]any:
		records = append(records, jsonLDRecord(v))
	}
	return records
}

// jsonLDRecord converts a decoded JSON-LD object into a record.
func jsonLDRecord(m map[string]any) model.SchemaRecord {
	return model.SchemaRecord{
		Type:       typeName(m["@type"]),
		Format:     model.SchemaFormatJSONLD,
		Properties: m,
	}
}

// typeName normalizes an @type value that may be a string or a list.
func typeName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// extractMicrodataItem reconstructs a record from an itemscope element.
// The type keeps only the last path segment of the itemtype URL, so
// identically named types from different vocabularies collide. Property
// values follow the content, href, src, text precedence.
func extractMicrodataItem(scope *html.Node) model.SchemaRecord {
	itemType := getAttr(scope, "itemtype")
	if idx := strings.LastIndex(itemType, "/"); idx >= 0 {
		itemType = itemType[idx+1:]
	}

	props := map[string]any{
		"_format": model.SchemaFormatMicrodata,
	}
	if itemType != "" {
		props["@type"] = itemType
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n != scope {
			if name := getAttr(n, "itemprop"); name != "" {
				if _, exists := props[name]; !exists {
					props[name] = microdataValue(n)
				}
			}
			if hasAttr(n, "itemscope") {
				// Nested items keep their own properties.
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(scope)

	return model.SchemaRecord{
		Type:       itemType,
		Format:     model.SchemaFormatMicrodata,
		Properties: props,
	}
}

// microdataValue extracts the value of an itemprop element.
func microdataValue(n *html.Node) string {
	if v := getAttr(n, "content"); v != "" {
		return v
	}
	if v := getAttr(n, "href"); v != "" {
		return v
	}
	if v := getAttr(n, "src"); v != "" {
		return v
	}
	return strings.TrimSpace(textContent(n))
}

// textContent concatenates the text nodes beneath n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

// hasAttr reports whether the node carries the attribute, even valueless.
func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return true
		}
	}
	return false
}
