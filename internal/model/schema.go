package model

import "time"

// Structured data formats recognized by the schema validator.
const (
	// SchemaFormatJSONLD marks a record extracted from a
	// script type="application/ld+json" block.
	SchemaFormatJSONLD = "json-ld"

	// SchemaFormatMicrodata marks a record reconstructed from itemscope
	// and itemprop attributes.
	SchemaFormatMicrodata = "microdata"
)

// SchemaRecord is one structured data item found on a page.
type SchemaRecord struct {
	// Type is the schema.org type name, such as Product or Article.
	// Microdata types keep only the last path segment of the itemtype URL,
	// so identically named types from different vocabularies collide.
	Type string `json:"type"`

	// Format identifies how the record was embedded in the page.
	Format string `json:"format"`

	// Properties holds the raw decoded fields of the record.
	Properties map[string]any `json:"properties,omitempty"`
}

// SchemaResult is the outcome of one structured data validation run.
type SchemaResult struct {
	// URL is the validated page address.
	URL string `json:"url"`

	// Timestamp is when the validation ran, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// Status is completed when the page was fetched and carried structured
	// data, warning when it carried none, and error when the fetch failed.
	Status RunStatus `json:"status"`

	// PageType is the detected page category (homepage, product, article,
	// local, event, faq, recipe, or general) driving the recommendations.
	PageType string `json:"page_type,omitempty"`

	// SchemasFound lists the types of every extracted record, in document
	// order, duplicates preserved.
	SchemasFound []string `json:"schemas_found"`

	// Errors lists violations of required schema fields.
	Errors []string `json:"errors,omitempty"`

	// Warnings lists missing recommended fields and minor defects.
	Warnings []string `json:"warnings,omitempty"`

	// Recommendations lists schema types worth adding for the page type.
	Recommendations []string `json:"recommendations,omitempty"`

	// Score is the validation score, 0-100.
	Score int `json:"score"`

	// Error holds the failure message when Status is error.
	Error string `json:"error,omitempty"`
}

// NewSchemaResult returns a schema result for the given URL stamped with the
// current UTC time.
func NewSchemaResult(url string) *SchemaResult {
	return &SchemaResult{
		URL:          url,
		Timestamp:    time.Now().UTC(),
		Status:       RunCompleted,
		SchemasFound: []string{},
	}
}

// Fail marks the validation as unrunnable and clears the score.
func (r *SchemaResult) Fail(err error) {
	r.Status = RunError
	r.Score = 0
	if err != nil {
		r.Error = err.Error()
	}
}

// FinalizeScore computes the validation score: start at 100, subtract 10 per
// error and 5 per warning, add a 10 point bonus when any schema was found,
// then clamp to 0-100. A page without structured data carries the no-schema
// warning, so the formula lands it at 95.
func (r *SchemaResult) FinalizeScore() {
	score := 100 - 10*len(r.Errors) - 5*len(r.Warnings)
	if len(r.SchemasFound) > 0 {
		score += 10
	}
	r.Score = ClampScore(score)
}
