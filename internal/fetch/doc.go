// Package fetch provides the shared HTTP client used by every audit
// component. It applies consistent headers, timeouts, and response body
// limits so components only deal with fetched content.
package fetch
