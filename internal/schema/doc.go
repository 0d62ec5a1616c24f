// Package schema extracts and validates schema.org structured data.
//
// Records are collected from JSON-LD script blocks and from microdata
// itemscope/itemprop attributes, then checked against per-type field rules:
// missing required fields are errors, missing recommended fields are
// warnings. The detected page category drives suggestions for schema types
// worth adding.
package schema
