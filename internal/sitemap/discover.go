package sitemap

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/temoto/robotstxt"

	"github.com/youssefhodaigui/seoaudit/internal/fetch"
)

// conventionalPaths are the well-known locations sites publish sitemaps at,
// probed in this order after robots.txt.
var conventionalPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
	"/sitemap.xml.gz",
	"/sitemap_index.xml.gz",
	"/sitemaps.xml",
	"/sitemap/sitemap.xml",
	"/sitemap/index.xml",
	"/wp-sitemap.xml",
	"/page-sitemap.xml",
	"/post-sitemap.xml",
	"/news-sitemap.xml",
}

// Find locates the sitemaps of a domain. It reads the Sitemap directives of
// robots.txt first, then probes the conventional paths, and returns the
// deduplicated union in discovery order. Probe failures are ignored; an
// unreachable site simply yields an empty list.
func (a *Analyzer) Find(ctx context.Context, domain string) []string {
	base := strings.TrimRight(fetch.NormalizeURL(domain), "/")

	var found []string
	seen := make(map[string]bool)
	record := func(loc string) {
		loc = strings.TrimSpace(loc)
		if loc == "" || seen[loc] {
			return
		}
		seen[loc] = true
		found = append(found, loc)
	}

	for _, loc := range a.robotsSitemaps(ctx, base) {
		record(loc)
	}

	for _, path := range conventionalPaths {
		candidate := base + path
		if seen[candidate] {
			continue
		}
		// Only a 200 counts as a published sitemap. Redirect and no-content
		// endpoints at the conventional paths are false positives.
		code, err := a.prober.Head(ctx, candidate)
		if err != nil || code != http.StatusOK {
			continue
		}
		record(candidate)
	}

	a.logger.Debug("sitemap discovery finished", "domain", domain, "found", len(found))
	return found
}

// robotsSitemaps fetches robots.txt and returns its Sitemap directives.
func (a *Analyzer) robotsSitemaps(ctx context.Context, base string) []string {
	resp, err := a.prober.Get(ctx, fmt.Sprintf("%s/robots.txt", base))
	if err != nil {
		return nil
	}

	robots, err := robotstxt.FromBytes(resp.Body)
	if err != nil {
		return nil
	}
	return robots.Sitemaps
}
