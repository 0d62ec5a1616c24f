// Package sitemap analyzes XML sitemaps and sitemap indexes.
//
// The analyzer validates entry URLs, lastmod dates, changefreq values, and
// priorities, computes coverage statistics, and optionally probes the first
// entries for liveness. Discovery locates sitemaps for a domain through
// robots.txt directives and conventional paths.
package sitemap
