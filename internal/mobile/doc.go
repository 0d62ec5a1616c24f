// Package mobile checks how well a page serves mobile visitors.
//
// The checker fetches the page with a mobile and a desktop user agent, then
// runs heuristics over the mobile document: viewport configuration,
// responsive image and layout signals, touch target and font sizes, media
// query breakpoints, and resource loading. Findings split into blocking
// issues and warnings; a page is mobile friendly exactly when it has no
// blocking issues.
package mobile
