package audit

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Page is a parsed snapshot of the audited HTML document.
// All checks run over this snapshot so the document is walked exactly once.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
type Page struct {
	// FinalURL is the page URL after redirects, used to classify links.
	FinalURL *url.URL

	// TitleFound reports whether a <title> tag exists.
	TitleFound bool

	// Title is the trimmed text of the first <title> tag.
	Title string

	// MetaDescriptionFound reports whether a description meta tag exists.
	MetaDescriptionFound bool

	// MetaDescription is the content of the description meta tag.
	MetaDescription string

	// MetaRobotsFound reports whether a robots meta tag exists.
	MetaRobotsFound bool

	// MetaRobots is the content of the robots meta tag.
	MetaRobots string

	// Headings maps heading level (1-6) to the trimmed heading texts in
	// document order.
	Headings map[int][]string

	// Images lists every img element.
	Images []Image

	// CanonicalFound reports whether a rel=canonical link exists.
	CanonicalFound bool

	// CanonicalHref is the href of the canonical link, possibly empty.
	CanonicalHref string

	// JSONLDBlocks holds the raw contents of every
	// script type="application/ld+json" element.
	JSONLDBlocks []string

	// Anchors lists every a element with an href.
	Anchors []Anchor
}

// Image describes an img element's audit-relevant attributes.
type Image struct {
	// Src is the raw src attribute.
	Src string

	// HasAlt reports whether an alt attribute exists at all.
	HasAlt bool

	// Alt is the alt attribute value.
	Alt string

	// HasWidth reports whether a width attribute exists.
	HasWidth bool

	// HasHeight reports whether a height attribute exists.
	HasHeight bool
}

// Anchor describes an a element with an href attribute.
type Anchor struct {
	// Href is the raw href attribute.
	Href string

	// Rel is the raw rel attribute.
	Rel string
}

// IsExternal reports whether the anchor points to a different host than the
// page. Relative links and fragment links are internal. Unparseable hrefs
// count as internal because they cannot leave the site.
func (a Anchor) IsExternal(base *url.URL) bool {
	href := strings.TrimSpace(a.Href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") {
		return false
	}

	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Host == "" {
		return false
	}
	if base == nil {
		return true
	}
	return !strings.EqualFold(u.Hostname(), base.Hostname())
}

// HasRel reports whether the anchor's rel attribute contains the given token.
func (a Anchor) HasRel(token string) bool {
	for _, part := range strings.Fields(a.Rel) {
		if strings.EqualFold(part, token) {
			return true
		}
	}
	return false
}

// ParsePage parses an HTML document into a Page snapshot.
// The finalURL should be the response URL after redirects.
func ParsePage(content io.Reader, finalURL *url.URL) (*Page, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	page := &Page{
		FinalURL: finalURL,
		Headings: make(map[int][]string),
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			page.processElement(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return page, nil
}

// processElement records audit-relevant data from a single element.
func (p *Page) processElement(n *html.Node) {
	switch n.Data {
	case "title":
		if !p.TitleFound {
			p.TitleFound = true
			p.Title = strings.TrimSpace(textContent(n))
		}

	case "meta":
		name := strings.ToLower(getAttr(n, "name"))
		switch name {
		case "description":
			if !p.MetaDescriptionFound {
				p.MetaDescriptionFound = true
				p.MetaDescription = strings.TrimSpace(getAttr(n, "content"))
			}
		case "robots":
			if !p.MetaRobotsFound {
				p.MetaRobotsFound = true
				p.MetaRobots = strings.TrimSpace(getAttr(n, "content"))
			}
		}

	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		p.Headings[level] = append(p.Headings[level], strings.TrimSpace(textContent(n)))

	case "img":
		img := Image{Src: getAttr(n, "src")}
		for _, attr := range n.Attr {
			switch attr.Key {
			case "alt":
				img.HasAlt = true
				img.Alt = attr.Val
			case "width":
				img.HasWidth = true
			case "height":
				img.HasHeight = true
			}
		}
		p.Images = append(p.Images, img)

	case "link":
		if hasRelToken(getAttr(n, "rel"), "canonical") && !p.CanonicalFound {
			p.CanonicalFound = true
			p.CanonicalHref = strings.TrimSpace(getAttr(n, "href"))
		}

	case "script":
		if strings.EqualFold(getAttr(n, "type"), "application/ld+json") {
			p.JSONLDBlocks = append(p.JSONLDBlocks, textContent(n))
		}

	case "a":
		if href := getAttr(n, "href"); href != "" {
			p.Anchors = append(p.Anchors, Anchor{Href: href, Rel: getAttr(n, "rel")})
		}
	}
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

// hasRelToken reports whether a space-separated rel attribute contains token.
func hasRelToken(rel, token string) bool {
	for _, part := range strings.Fields(rel) {
		if strings.EqualFold(part, token) {
			return true
		}
	}
	return false
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
