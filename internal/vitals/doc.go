// Package vitals relays Core Web Vitals measurements from the Google
// PageSpeed Insights API.
//
// The toolkit never measures performance itself. It forwards the API's
// Lighthouse lab data and CrUX field data, classifies each metric against
// the published thresholds, and derives recommendations. Bulk analysis runs
// sequentially with a politeness delay to respect API quotas.
package vitals
