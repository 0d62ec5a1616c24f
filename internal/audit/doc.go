// Package audit implements the technical SEO audit engine.
//
// The engine fetches a page once, parses it into a Page snapshot, and runs a
// fixed set of independent checks over the snapshot. Each check inspects one
// on-page factor (title, meta description, headings, images, canonical,
// robots meta, structured data, links) and reports ok, warning, or error with
// concrete recommendations.
package audit
